package region

// span is a half-open interval [start, end) of grid cell columns.
type span struct {
	start, end int
}

// unionSpan inserts s into the sorted, non-touching list spans and returns
// the resulting list. Adjacent or overlapping spans are coalesced.
// The input slice is never modified.
func unionSpan(spans []span, s span) []span {
	if s.start >= s.end {
		return spans
	}
	out := make([]span, 0, len(spans)+1)
	i := 0
	for ; i < len(spans) && spans[i].end < s.start; i++ {
		out = append(out, spans[i])
	}
	for ; i < len(spans) && spans[i].start <= s.end; i++ {
		s.start = min(s.start, spans[i].start)
		s.end = max(s.end, spans[i].end)
	}
	out = append(out, s)
	return append(out, spans[i:]...)
}

// missingSpans returns the parts of s not covered by spans.
func missingSpans(spans []span, s span) []span {
	var out []span
	cur := s.start
	for _, c := range spans {
		if c.end <= cur {
			continue
		}
		if c.start >= s.end {
			break
		}
		if c.start > cur {
			out = append(out, span{cur, c.start})
		}
		cur = max(cur, c.end)
		if cur >= s.end {
			return out
		}
	}
	if cur < s.end {
		out = append(out, span{cur, s.end})
	}
	return out
}

// coversSpan reports whether spans fully cover s.
func coversSpan(spans []span, s span) bool {
	return len(missingSpans(spans, s)) == 0
}
