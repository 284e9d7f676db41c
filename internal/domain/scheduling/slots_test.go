package scheduling

import (
	"reflect"
	"testing"
)

func TestGenerateSlots_FullDay(t *testing.T) {
	slots := GenerateSlots("09:00 AM - 05:00 PM")
	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "9:00 AM" {
		t.Errorf("first slot = %q, want 9:00 AM", slots[0])
	}
	if slots[len(slots)-1] != "4:40 PM" {
		t.Errorf("last slot = %q, want 4:40 PM", slots[len(slots)-1])
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	a := GenerateSlots("09:00 AM - 05:00 PM")
	b := GenerateSlots("09:00 AM - 05:00 PM")
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input should yield identical sequences")
	}
}

func TestGenerateSlots_TwentyMinuteSpacing(t *testing.T) {
	slots := GenerateSlots("10:00 AM - 12:00 PM")
	want := []string{"10:00 AM", "10:20 AM", "10:40 AM", "11:00 AM", "11:20 AM", "11:40 AM"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestGenerateSlots_EndExcluded(t *testing.T) {
	slots := GenerateSlots("10:00 AM - 10:40 AM")
	want := []string{"10:00 AM", "10:20 AM"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestGenerateSlots_MalformedFallsBack(t *testing.T) {
	for _, in := range []string{
		"garbage",
		"",
		"10:00 AM",
		"10:00 - 5:00",
		"25:00 AM - 5:00 PM",
		"10:61 AM - 5:00 PM",
		"10 AM - 5 PM",
	} {
		slots := GenerateSlots(in)
		if !reflect.DeepEqual(slots, DefaultSlots) {
			t.Errorf("GenerateSlots(%q) = %v, want default slots", in, slots)
		}
	}
}

func TestGenerateSlots_EmptyWhenStartAfterEnd(t *testing.T) {
	slots := GenerateSlots("05:00 PM - 09:00 AM")
	if len(slots) != 0 {
		t.Errorf("expected empty sequence, got %v", slots)
	}
	slots = GenerateSlots("09:00 AM - 09:00 AM")
	if len(slots) != 0 {
		t.Errorf("expected empty sequence for zero-width window, got %v", slots)
	}
}

func TestGenerateSlots_NoonAndMidnight(t *testing.T) {
	slots := GenerateSlots("12:00 AM - 1:00 AM")
	want := []string{"12:00 AM", "12:20 AM", "12:40 AM"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("midnight window = %v, want %v", slots, want)
	}

	slots = GenerateSlots("11:40 AM - 12:40 PM")
	want = []string{"11:40 AM", "12:00 PM", "12:20 PM"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("noon crossing = %v, want %v", slots, want)
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"12:00 AM": 0,
		"12:30 AM": 30,
		"1:00 AM":  60,
		"12:00 PM": 720,
		"12:30 PM": 750,
		"1:00 PM":  780,
		"11:59 PM": 1439,
	}
	for in, want := range cases {
		got, err := parseClock(in)
		if err != nil {
			t.Errorf("parseClock(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseClock(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatClock_NoLeadingZero(t *testing.T) {
	cases := map[int]string{
		0:    "12:00 AM",
		540:  "9:00 AM",
		720:  "12:00 PM",
		860:  "2:20 PM",
		1080: "6:00 PM",
	}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Errorf("formatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
