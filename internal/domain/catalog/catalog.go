// Package catalog provides the fixed list of medical specialties used to
// tag doctors and drive search suggestions.
package catalog

import (
	"sort"
	"strings"
)

// specialtyNames is the full set of recognized specialties.
var specialtyNames = []string{
	"Gynecologist", "Pediatrician", "General Physician", "Psychiatrist", "Gastroenterologist",
	"Diabetologist", "Counselor", "Hematologist", "Obstetrician", "Neonatologist",
	"Hypertension Specialist", "Obesity Specialist", "Internal Medicine Specialist",
	"Consultant Physician", "Nutritionist", "Dietitian", "Psychologist", "Physiotherapist",
	"Audiologist", "Family Physician", "Dermatologist", "ENT Specialist", "Orthopedic Surgeon",
	"Neurologist", "Urologist", "Eye Specialist", "Dentist", "Cardiologist", "Pulmonologist",
	"General Surgeon", "Endocrinologist", "Nephrologist", "Pain Management Specialist",
	"Cosmetologist", "Aesthetic Physician", "Laser Specialist", "Anesthesiologist",
	"Interventional Cardiologist", "Pediatric Psychologist", "Hepatologist", "Sexologist",
	"Male Sexual Health Specialist", "Uro-Oncologist", "Oncologist", "Radiation Oncologist",
	"Pediatric Oncologist", "Andrologist", "Pediatric Surgeon", "Laparoscopic Surgeon",
	"Speech and Language Pathologist", "Kidney Transplant Surgeon", "Renal Surgeon",
	"Fertility Consultant", "Hernia Surgeon", "Pediatric Urologist", "Endoscopic Surgeon",
	"Aesthetic Gynecologist", "Endodontist", "Bariatric Surgeon", "Colorectal Surgeon",
	"Breast Surgeon", "Cancer Surgeon", "Thyroid Surgeon", "Orthodontist", "Implantologist",
	"Prosthodontist", "Cosmetic Dentist", "Chiropractor", "Eye Surgeon", "ENT Surgeon",
	"Head and Neck Surgeon", "Restorative Dentist", "Acupuncturist", "Oral and Maxillofacial Surgeon",
	"Plastic Surgeon", "Hair Transplant Surgeon", "Burns Specialist", "Cosmetic Surgeon",
	"Neuromusculoskeletal Medicine Doctor", "Neurosurgeon", "Rheumatologist",
	"Pediatric Nutritionist", "Rehab Medicine", "Rehabilitation Specialist", "Diabetes Counsellor",
	"Spinal Surgeon", "Pediatric Hematologist", "Pathologist", "Histopathologist",
	"Pediatric Neurologist", "Homeopath", "Autism Consultant", "Pediatric Rheumatologist",
	"Cardiothoracic Surgeon", "Nuclear Medicine Specialist", "Vitreo Retina Surgeon",
	"Geriatrician", "Sonologist", "Cardiac Surgeon", "Nutritional Psychologist",
	"Pediatric Gastroenterologist", "Hand Surgeon", "Reconstructive Surgeon",
	"Sports Medicine Specialist", "Thoracic Surgeon", "Specialist in Operative Dentistry",
	"Sleep Medicine Doctor", "Critical Care Physician", "Primary Care Physician",
	"Pediatric Neurosurgeon", "Vascular Surgeon", "Pediatric Orthopedic Surgeon",
	"Child-Kidney Specialist", "Alternative Medicine Practitioner", "Periodontist",
	"Child and Adolescent Psychiatrist", "Hepatobiliary and Liver Transplant Surgeon",
	"Radiologist", "Orthotist and Prosthetist", "Infectious Disease Specialist",
	"Pediatric Endocrinologist", "Asthma Specialist", "Cardiovascular Surgeon",
	"Emergency Medicine Specialist", "Naturopathic Doctor", "Community Medicine",
	"Maternal Fetal Medicine Specialist", "Podiatrist", "Optometrist", "Pediatric Cardiologist",
	"Uro-Gynecologist", "Lifestyle Medicine Physician", "Occupational Therapist",
	"Fitness Trainer", "Pediatric Diabetologist", "Endovascular Surgeon",
	"Colorectal Cancer Surgeon", "Pediatric Dentist", "Gynecological Oncologist",
}

// Catalog is the deduplicated, alphabetically sorted specialty list.
type Catalog struct {
	names []string
	index map[string]bool // lowercase name -> exists
}

// New builds the default specialty catalog.
func New() *Catalog {
	seen := make(map[string]bool, len(specialtyNames))
	names := make([]string, 0, len(specialtyNames))
	for _, n := range specialtyNames {
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return &Catalog{names: names, index: seen}
}

// All returns every specialty name in order.
func (c *Catalog) All() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Valid reports whether name is a recognized specialty, case-insensitively.
func (c *Catalog) Valid(name string) bool {
	return c.index[strings.ToLower(name)]
}

// Search returns specialties containing term (case-insensitive substring),
// excluding any already in selected. An empty term yields no suggestions.
func (c *Catalog) Search(term string, selected []string) []string {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return nil
	}

	excluded := make(map[string]bool, len(selected))
	for _, s := range selected {
		excluded[strings.ToLower(s)] = true
	}

	var out []string
	for _, n := range c.names {
		lower := strings.ToLower(n)
		if excluded[lower] {
			continue
		}
		if strings.Contains(lower, term) {
			out = append(out, n)
		}
	}
	return out
}

// Normalize resolves name to its canonical casing in the catalog. The second
// return is false when the name is not recognized.
func (c *Catalog) Normalize(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if !c.index[lower] {
		return "", false
	}
	for _, n := range c.names {
		if strings.ToLower(n) == lower {
			return n, true
		}
	}
	return "", false
}
