package chatlog

import (
	"fmt"
	"regexp"
	"strings"
)

// GrammarID identifies which export convention produced a chat log.
type GrammarID int

const (
	GrammarUnknown GrammarID = iota
	// GrammarAndroid12h: "12/5/23, 9:41 AM - Alice: Hello there"
	GrammarAndroid12h
	// GrammarIOS24h: "[04.09.23, 18:22:10] Bob: See you soon"
	GrammarIOS24h
	// GrammarIOS12h: "[12/5/23, 9:41:12 AM] Alice: Hello there"
	GrammarIOS12h
	// GrammarAndroid12hIntl: "12/05/23, 9:41 a. m. - Alice: Hola"
	GrammarAndroid12hIntl
	// GrammarIOS12hIntl: "[12/5/23, 9:41:12 a. m.] Alice: Hola"
	GrammarIOS12hIntl
)

func (id GrammarID) String() string {
	switch id {
	case GrammarAndroid12h:
		return "android-12h"
	case GrammarIOS24h:
		return "ios-24h"
	case GrammarIOS12h:
		return "ios-12h"
	case GrammarAndroid12hIntl:
		return "android-12h-intl"
	case GrammarIOS12hIntl:
		return "ios-12h-intl"
	default:
		return "unknown"
	}
}

// Grammar describes one export convention: the line pattern, whether a
// meridiem token is present, and the time layouts used to parse the
// composed date/time string (short and long year variants of one pinned
// format, not auto-detection).
type Grammar struct {
	ID          GrammarID
	pattern     *regexp.Regexp
	hasMeridiem bool
	layout      string // two-digit year
	layoutLong  string // four-digit year
}

// grammars is the static, priority-ordered grammar table. It is immutable
// after init and safe for concurrent reads. The first grammar with at least
// one matching line wins and no later grammar is tried: exports are assumed
// homogeneous in format.
var grammars = []Grammar{
	{
		ID:          GrammarAndroid12h,
		pattern:     regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}) ?([AaPp][Mm]) - ([^:]+): (.*)$`),
		hasMeridiem: true,
		layout:      "2/1/06 3:04 PM",
		layoutLong:  "2/1/2006 3:04 PM",
	},
	{
		ID:         GrammarIOS24h,
		pattern:    regexp.MustCompile(`^\[(\d{1,2}\.\d{1,2}\.\d{2,4}),? (\d{1,2}:\d{2}:\d{2})\] ([^:]+): (.*)$`),
		layout:     "2.1.06 15:04:05",
		layoutLong: "2.1.2006 15:04:05",
	},
	{
		ID:          GrammarIOS12h,
		pattern:     regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}:\d{2}) ?([AaPp][Mm])\] ([^:]+): (.*)$`),
		hasMeridiem: true,
		layout:      "2/1/06 3:04:05 PM",
		layoutLong:  "2/1/2006 3:04:05 PM",
	},
	{
		ID:          GrammarAndroid12hIntl,
		pattern:     regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}) ?([ap])\. ?m\. - ([^:]+): (.*)$`),
		hasMeridiem: true,
		layout:      "2/1/06 3:04 PM",
		layoutLong:  "2/1/2006 3:04 PM",
	},
	{
		ID:          GrammarIOS12hIntl,
		pattern:     regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}:\d{2}) ?([ap])\.? ?m\.?\] ([^:]+): (.*)$`),
		hasMeridiem: true,
		layout:      "2/1/06 3:04:05 PM",
		layoutLong:  "2/1/2006 3:04:05 PM",
	},
}

// Grammars returns the grammar table in priority order.
func Grammars() []Grammar {
	return grammars
}

func grammarByID(id GrammarID) (*Grammar, error) {
	for i := range grammars {
		if grammars[i].ID == id {
			return &grammars[i], nil
		}
	}
	return nil, fmt.Errorf("unknown grammar %d", int(id))
}

// matchLine applies the grammar to one physical line. The meridiem capture
// for the international grammars is the a/p letter alone; normalization to
// AM/PM happens in BuildRecords.
func (g *Grammar) matchLine(line string) (RawMatch, bool) {
	m := g.pattern.FindStringSubmatch(line)
	if m == nil {
		return RawMatch{}, false
	}
	raw := RawMatch{Date: m[1], Time: m[2]}
	if g.hasMeridiem {
		raw.Meridiem = m[3]
		raw.Author = strings.TrimSpace(m[4])
		raw.Body = m[5]
	} else {
		raw.Author = strings.TrimSpace(m[3])
		raw.Body = m[4]
	}
	return raw, true
}
