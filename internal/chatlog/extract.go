package chatlog

import "strings"

// Extract detects which grammar an export uses and applies it to the whole
// text. Grammars are tried in priority order; the first one matching at
// least one line wins and no other grammar is consulted, even if it leaves
// part of the text unmatched. If nothing matches, GrammarUnknown and an
// empty match set are returned — a valid outcome, not an error.
func Extract(text string) (GrammarID, []RawMatch) {
	lines := strings.Split(text, "\n")

	for i := range grammars {
		g := &grammars[i]
		matches := g.scan(lines)
		if len(matches) > 0 {
			return g.ID, matches
		}
	}
	return GrammarUnknown, nil
}

// scan walks the export line by line. A line matching the grammar opens a
// new message; any non-matching line after the first match is a continuation
// of the previous message body and is appended to it, blank lines included.
// Non-matching lines before the first match (export preambles, system
// notices) are dropped, and trailing newlines are trimmed from each body so
// a final-newline split artifact does not leak in.
func (g *Grammar) scan(lines []string) []RawMatch {
	var matches []RawMatch
	for _, line := range lines {
		if raw, ok := g.matchLine(line); ok {
			matches = append(matches, raw)
			continue
		}
		if len(matches) > 0 {
			last := &matches[len(matches)-1]
			last.Body += "\n" + line
		}
	}
	for i := range matches {
		matches[i].Body = strings.TrimRight(matches[i].Body, "\n")
	}
	return matches
}
