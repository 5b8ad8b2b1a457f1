package chatlog

import (
	"strings"
	"testing"
)

func TestExtract_NoGrammarMatches(t *testing.T) {
	text := strings.Join([]string{
		"this export is not from any supported app",
		"2024-01-15T10:30:00Z INFO something unrelated",
		"",
	}, "\n")

	id, matches := Extract(text)
	if id != GrammarUnknown {
		t.Errorf("expected GrammarUnknown, got %s", id)
	}
	if len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}

	msgs, err := BuildRecords(GrammarAndroid12h, matches)
	if err != nil {
		t.Fatalf("unexpected error building empty match set: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected empty collection, got %d records", len(msgs))
	}
}

func TestExtract_FirstGrammarWins(t *testing.T) {
	// Both an android-12h and an ios-24h line in one text: the higher
	// priority grammar wins and the other line is treated as continuation.
	text := "12/5/23, 9:41 AM - Alice: Hello\n[04.09.23, 18:22:10] Bob: See you"

	id, matches := Extract(text)
	if id != GrammarAndroid12h {
		t.Fatalf("expected android-12h to win, got %s", id)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestExtract_MultiLineBody(t *testing.T) {
	text := strings.Join([]string{
		"12/5/23, 9:41 AM - Alice: shopping list:",
		"milk",
		"eggs",
		"12/5/23, 9:45 AM - Bob: got it",
	}, "\n")

	id, matches := Extract(text)
	if id != GrammarAndroid12h {
		t.Fatalf("expected android-12h, got %s", id)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Body != "shopping list:\nmilk\neggs" {
		t.Errorf("continuation lines not coalesced: %q", matches[0].Body)
	}
	if matches[1].Body != "got it" {
		t.Errorf("unexpected second body: %q", matches[1].Body)
	}
}

func TestExtract_BlankLinesInsideBodySurvive(t *testing.T) {
	text := strings.Join([]string{
		"12/5/23, 9:41 AM - Alice: first paragraph",
		"",
		"second paragraph",
		"12/5/23, 9:45 AM - Bob: got it",
		"",
	}, "\n")

	_, matches := Extract(text)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Body != "first paragraph\n\nsecond paragraph" {
		t.Errorf("interior blank line lost: %q", matches[0].Body)
	}
	if matches[1].Body != "got it" {
		t.Errorf("trailing newline artifact in body: %q", matches[1].Body)
	}
}

func TestExtract_SkipsPreambleLines(t *testing.T) {
	text := strings.Join([]string{
		"Messages to this chat are secured with end-to-end encryption.",
		"12/5/23, 9:41 AM - Alice: Hello",
	}, "\n")

	_, matches := Extract(text)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if strings.Contains(matches[0].Body, "encryption") {
		t.Errorf("preamble leaked into body: %q", matches[0].Body)
	}
}
