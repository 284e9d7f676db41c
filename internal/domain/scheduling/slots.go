package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotStepMinutes is the spacing between bookable times.
const SlotStepMinutes = 20

// DefaultSlots is the safe fallback returned when a practice location's
// operating-hours string cannot be parsed, so a booking form is never
// left without options.
var DefaultSlots = []string{"10:00 AM", "12:00 PM", "2:00 PM", "4:00 PM", "6:00 PM"}

// GenerateSlots expands an operating-hours string of the form
// "<start> - <end>" (12-hour clock, e.g. "9:00 AM - 5:00 PM") into time
// labels every SlotStepMinutes, starting at start and strictly before end.
//
// Malformed input falls back to DefaultSlots rather than failing; a window
// whose start is at or after its end yields an empty sequence. The output
// depends only on the input string.
func GenerateSlots(window string) []string {
	parts := strings.Split(window, " - ")
	if len(parts) != 2 {
		return defaultSlots()
	}

	start, err := parseClock(parts[0])
	if err != nil {
		return defaultSlots()
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return defaultSlots()
	}

	if start >= end {
		return []string{}
	}

	slots := make([]string, 0, (end-start)/SlotStepMinutes+1)
	for m := start; m < end; m += SlotStepMinutes {
		slots = append(slots, formatClock(m))
	}
	return slots
}

func defaultSlots() []string {
	out := make([]string, len(DefaultSlots))
	copy(out, DefaultSlots)
	return out
}

// parseClock converts an "H:MM AM|PM" label into minutes since midnight.
// 12 AM maps to 00:00 and 12 PM to 12:00.
func parseClock(label string) (int, error) {
	label = strings.TrimSpace(label)

	fields := strings.Fields(label)
	if len(fields) != 2 {
		return 0, fmt.Errorf("malformed time %q", label)
	}

	meridiem := strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, fmt.Errorf("malformed meridiem %q", fields[1])
	}

	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return 0, fmt.Errorf("malformed time %q", label)
	}

	hour, err := strconv.Atoi(hm[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("malformed hour %q", hm[0])
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("malformed minute %q", hm[1])
	}

	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}

	return hour*60 + minute, nil
}

// formatClock renders minutes since midnight as "H:MM AM|PM" with no
// leading zero on the hour.
func formatClock(minutes int) string {
	hour := minutes / 60
	minute := minutes % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}
