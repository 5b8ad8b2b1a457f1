package chatlog

import "time"

// Message is a single chat message reconstructed from an export file.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
}

// RawMatch is one grammar capture before timestamp composition.
// It lives only between Extract and BuildRecords.
type RawMatch struct {
	Date     string
	Time     string
	Meridiem string // empty for 24h grammars
	Author   string
	Body     string
}
