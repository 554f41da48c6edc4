// Package thaifmt renders round identifiers, dates and round status for Thai readers.
package thaifmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BuddhistEraOffset converts a Gregorian year into the Buddhist calendar.
const BuddhistEraOffset = 543

// UnknownRound is shown when a round identifier is missing or malformed.
const UnknownRound = "ไม่ระบุรอบ"

const (
	StatusActive  = "กำลังดำเนินการ"
	StatusExpired = "หมดเวลา"
)

var termLabels = map[string]string{
	"1": "ภาคเรียนที่ 1",
	"2": "ภาคเรียนที่ 2",
	"3": "ภาคฤดูร้อน",
}

var monthAbbrev = [...]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

var bangkok = time.FixedZone("Asia/Bangkok", 7*60*60)

// FormatRoundID renders a round id such as 202501 as "ภาคเรียนที่ 1 ปีการศึกษา 2568".
// The first four digits are the Gregorian year, the remainder the term digit.
func FormatRoundID(id int64) string {
	if id <= 0 {
		return UnknownRound
	}
	raw := strconv.FormatInt(id, 10)
	if len(raw) < 5 {
		return UnknownRound
	}
	year, err := strconv.Atoi(raw[:4])
	if err != nil {
		return UnknownRound
	}
	term := strings.TrimLeft(raw[4:], "0")
	if term == "" {
		return UnknownRound
	}
	label, ok := termLabels[term]
	if !ok {
		label = "ภาคเรียนที่ " + term
	}
	return fmt.Sprintf("%s ปีการศึกษา %d", label, year+BuddhistEraOffset)
}

// ParseRoundID converts user input into a round id.
func ParseRoundID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("round id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid round id %q", raw)
	}
	return id, nil
}

// RoundParts splits a round id into its Gregorian year and term digit.
func RoundParts(id int64) (year int, term int, ok bool) {
	raw := strconv.FormatInt(id, 10)
	if id <= 0 || len(raw) < 5 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(raw[:4])
	if err != nil {
		return 0, 0, false
	}
	term, err = strconv.Atoi(raw[4:])
	if err != nil {
		return 0, 0, false
	}
	return year, term, true
}

// FormatDate renders t in Bangkok time as "2 ต.ค. 2568 14:05".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	local := t.In(bangkok)
	return fmt.Sprintf("%d %s %d %02d:%02d",
		local.Day(), monthAbbrev[local.Month()-1], local.Year()+BuddhistEraOffset, local.Hour(), local.Minute())
}

// IsActive reports whether a window ending at end is still open at now.
func IsActive(end, now time.Time) bool {
	return !now.After(end)
}

// RoundStatus returns the status label for a window ending at end.
func RoundStatus(end, now time.Time) string {
	if IsActive(end, now) {
		return StatusActive
	}
	return StatusExpired
}

// JoinNames comma-joins non-empty names.
func JoinNames(names []string) string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return "-"
	}
	return strings.Join(kept, ", ")
}
