package chatlog

// FilterByActivity returns a new collection containing only messages from
// authors with at least minCount messages in the input. Relative order is
// preserved and the input is not mutated. minCount <= 0 retains everyone.
func FilterByActivity(msgs []Message, minCount int) []Message {
	if minCount <= 0 {
		out := make([]Message, len(msgs))
		copy(out, msgs)
		return out
	}

	counts := make(map[string]int, len(msgs))
	for _, m := range msgs {
		counts[m.Author]++
	}

	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if counts[m.Author] >= minCount {
			out = append(out, m)
		}
	}
	return out
}
