package chatlog

import (
	"fmt"
	"strings"
	"time"
)

// BuildRecords converts raw grammar matches into typed messages using the
// winning grammar's pinned time layout. A timestamp that fails to parse
// aborts the whole build: a matched line with an unparseable date means the
// grammar table is wrong, and silently coercing or skipping it would hide
// that.
func BuildRecords(id GrammarID, matches []RawMatch) ([]Message, error) {
	g, err := grammarByID(id)
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(matches))
	for i, m := range matches {
		composed := m.Date + " " + m.Time
		layout := g.layout
		if yearDigits(m.Date) == 4 {
			layout = g.layoutLong
		}
		if g.hasMeridiem {
			composed += " " + NormalizeMeridiem(m.Meridiem)
		}

		ts, err := time.Parse(layout, composed)
		if err != nil {
			return nil, fmt.Errorf("record %d: parse timestamp %q: %w", i, composed, err)
		}

		msgs = append(msgs, Message{
			Timestamp: ts,
			Author:    m.Author,
			Body:      m.Body,
		})
	}
	return msgs, nil
}

// NormalizeMeridiem maps any captured meridiem token to canonical AM/PM:
// "a. m.", "a.m.", "p" and "pm" all reduce to their two-letter uppercase
// form.
func NormalizeMeridiem(tok string) string {
	t := strings.ToUpper(strings.NewReplacer(".", "", " ", "").Replace(tok))
	if t == "A" || t == "P" {
		t += "M"
	}
	return t
}

// yearDigits counts the digits of the year segment, the part after the last
// date separator.
func yearDigits(date string) int {
	idx := strings.LastIndexAny(date, "/.")
	if idx < 0 {
		return 0
	}
	return len(date) - idx - 1
}
