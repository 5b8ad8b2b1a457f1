package chatlog

import (
	"reflect"
	"testing"
	"time"
)

func fixtureMessages() []Message {
	base := time.Date(2023, time.May, 12, 9, 0, 0, 0, time.UTC)
	counts := map[string]int{"Alice": 12, "Bob": 3, "Carol": 20}

	var msgs []Message
	i := 0
	// Interleave authors so order preservation is actually exercised.
	for remaining := 12 + 3 + 20; remaining > 0; {
		for _, author := range []string{"Alice", "Bob", "Carol"} {
			if counts[author] == 0 {
				continue
			}
			counts[author]--
			remaining--
			msgs = append(msgs, Message{
				Timestamp: base.Add(time.Duration(i) * time.Minute),
				Author:    author,
				Body:      "msg",
			})
			i++
		}
	}
	return msgs
}

func TestFilterByActivity_Threshold(t *testing.T) {
	msgs := fixtureMessages()
	got := FilterByActivity(msgs, 10)

	if len(got) != 32 {
		t.Fatalf("expected 32 records (Alice 12 + Carol 20), got %d", len(got))
	}
	for _, m := range got {
		if m.Author == "Bob" {
			t.Fatal("Bob should have been filtered out")
		}
	}

	// Retained records keep their original relative order.
	var want []Message
	for _, m := range msgs {
		if m.Author != "Bob" {
			want = append(want, m)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("relative order not preserved")
	}
}

func TestFilterByActivity_ZeroThresholdRetainsAll(t *testing.T) {
	msgs := fixtureMessages()
	got := FilterByActivity(msgs, 0)
	if !reflect.DeepEqual(got, msgs) {
		t.Error("minCount 0 must retain every record in order")
	}
}

func TestFilterByActivity_Idempotent(t *testing.T) {
	msgs := fixtureMessages()
	once := FilterByActivity(msgs, 10)
	twice := FilterByActivity(once, 10)
	if !reflect.DeepEqual(once, twice) {
		t.Error("filtering an already-filtered collection changed it")
	}
}

func TestFilterByActivity_DoesNotMutateInput(t *testing.T) {
	msgs := fixtureMessages()
	snapshot := make([]Message, len(msgs))
	copy(snapshot, msgs)

	out := FilterByActivity(msgs, 10)
	if !reflect.DeepEqual(msgs, snapshot) {
		t.Error("input collection was mutated")
	}
	if len(out) > 0 {
		out[0].Author = "Mallory"
		if msgs[0].Author == "Mallory" {
			t.Error("output aliases input backing array")
		}
	}
}

func TestFilterByActivity_Empty(t *testing.T) {
	if got := FilterByActivity(nil, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
