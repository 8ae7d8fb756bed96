package service

import (
	"strconv"
	"strings"
)

// ── shift label derivation ──
//
// The Turno label is a pure function of (Escala, Horário): a lookup
// table of tagged rules, one per scenario. When no rule matches the
// previous label is kept, so an exotic schedule typed by hand is never
// silently blanked.

type shiftPeriod int

const (
	periodDay shiftPeriod = iota
	periodNight
	periodAny
)

type shiftRule struct {
	schedule string // normalized: lowercase, single spaces
	period   shiftPeriod
	label    string
}

var shiftRules = []shiftRule{
	{schedule: "12x36 a", period: periodDay, label: "Dia A"},
	{schedule: "12x36 a", period: periodNight, label: "Noite A"},
	{schedule: "12x36 b", period: periodDay, label: "Dia B"},
	{schedule: "12x36 b", period: periodNight, label: "Noite B"},
	{schedule: "12x36", period: periodDay, label: "Dia"},
	{schedule: "12x36", period: periodNight, label: "Noite"},
	{schedule: "6x1", period: periodDay, label: "Dia"},
	{schedule: "6x1", period: periodNight, label: "Noite"},
	{schedule: "horista", period: periodAny, label: "Flexível"},
}

// deriveShiftLabel resolves the shift label for a schedule and time
// window, falling back to previous when no rule matches.
func deriveShiftLabel(schedule, timeWindow, previous string) string {
	sched := normalizeToken(schedule)
	period, hasPeriod := windowPeriod(timeWindow)

	for _, rule := range shiftRules {
		if rule.schedule != sched {
			continue
		}
		if rule.period == periodAny {
			return rule.label
		}
		if hasPeriod && rule.period == period {
			return rule.label
		}
	}
	return previous
}

// windowPeriod classifies a time window by its starting hour: 06:00
// through 17:59 is day, everything else night. Windows it cannot parse
// report no period.
func windowPeriod(timeWindow string) (shiftPeriod, bool) {
	s := strings.TrimSpace(timeWindow)
	if s == "" {
		return periodAny, false
	}
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 2 {
				break
			}
			continue
		}
		if digits.Len() > 0 {
			break
		}
	}
	if digits.Len() == 0 {
		return periodAny, false
	}
	hour, err := strconv.Atoi(digits.String())
	if err != nil || hour > 23 {
		return periodAny, false
	}
	if hour >= 6 && hour < 18 {
		return periodDay, true
	}
	return periodNight, true
}

// normalizeToken lowercases and collapses runs of whitespace so
// "12X36  A" and "12x36 a" hit the same rule.
func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
