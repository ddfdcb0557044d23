package analysis

// DefaultHistorySize is how many results a session remembers.
const DefaultHistorySize = 5

// History keeps the most recent results, newest first. Not safe for
// concurrent use; the owning pipeline guards it.
type History struct {
	limit int
	items []Result
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit, items: make([]Result, 0, limit)}
}

// Push prepends r and drops the oldest entry once the limit is hit.
func (h *History) Push(r Result) {
	if len(h.items) == h.limit {
		h.items = h.items[:h.limit-1]
	}
	h.items = append([]Result{r}, h.items...)
}

// Items returns a copy, newest first.
func (h *History) Items() []Result {
	out := make([]Result, len(h.items))
	for i, r := range h.items {
		out[i] = r.Clone()
	}
	return out
}

func (h *History) Len() int { return len(h.items) }
