// Package triage recommends a specialist from a patient's selected symptom
// tags using an ordered rule list.
package triage

// DefaultSpecialty is returned when no rule matches.
const DefaultSpecialty = "General Physician"

// Symptoms is the fixed tag catalog patients pick from.
var Symptoms = []string{
	"Headache",
	"Fever",
	"Chest Pain",
	"Stomach Pain",
	"Cough / Flu",
	"Skin Rash",
	"Toothache",
	"Joint Pain",
	"Back Pain",
	"Blurred Vision",
	"Anxiety / Stress",
	"Ear Pain",
	"Sore Throat",
	"Breathing Issue",
	"Sudden Weight Loss",
}

// Rule pairs a predicate over the selected symptom set with the specialty
// it recommends.
type Rule struct {
	Specialty string
	Matches   func(s SymptomSet) bool
}

// SymptomSet is the set of tags a patient selected.
type SymptomSet map[string]bool

func NewSymptomSet(symptoms []string) SymptomSet {
	s := make(SymptomSet, len(symptoms))
	for _, sym := range symptoms {
		s[sym] = true
	}
	return s
}

func (s SymptomSet) Has(symptom string) bool { return s[symptom] }

func (s SymptomSet) HasAll(symptoms ...string) bool {
	for _, sym := range symptoms {
		if !s[sym] {
			return false
		}
	}
	return true
}

func (s SymptomSet) HasAny(symptoms ...string) bool {
	for _, sym := range symptoms {
		if s[sym] {
			return true
		}
	}
	return false
}

// rules is evaluated top to bottom; the first match wins and evaluation
// stops. The order is part of the contract: reordering changes the outcome
// for symptom sets that satisfy more than one predicate.
var rules = []Rule{
	{"Cardiologist", func(s SymptomSet) bool { return s.HasAny("Chest Pain", "Breathing Issue") }},
	{"Pulmonologist", func(s SymptomSet) bool { return s.HasAll("Breathing Issue", "Cough / Flu") }},
	{"Dermatologist", func(s SymptomSet) bool { return s.Has("Skin Rash") }},
	{"Dentist", func(s SymptomSet) bool { return s.Has("Toothache") }},
	{"Eye Specialist", func(s SymptomSet) bool { return s.Has("Blurred Vision") }},
	{"Psychiatrist", func(s SymptomSet) bool { return s.Has("Anxiety / Stress") }},
	{"Gastroenterologist", func(s SymptomSet) bool { return s.HasAny("Stomach Pain", "Sudden Weight Loss") }},
	{"Orthopedic Surgeon", func(s SymptomSet) bool { return s.HasAny("Joint Pain", "Back Pain") }},
	{"ENT Specialist", func(s SymptomSet) bool { return s.HasAny("Ear Pain", "Sore Throat") }},
	{"Neurologist", func(s SymptomSet) bool { return s.HasAll("Headache", "Blurred Vision") }},
}

// Match applies the rule list to the symptom set and returns the first
// matching specialty, or DefaultSpecialty when nothing matches.
func Match(s SymptomSet) string {
	for _, r := range rules {
		if r.Matches(s) {
			return r.Specialty
		}
	}
	return DefaultSpecialty
}
