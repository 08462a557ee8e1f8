package question

// Question types.
const (
	TypeSingleScale = "single_scale"
	TypePairScale   = "pair_scale"
	TypeFreeText    = "free_text"
)

// Question is an immutable prompt surfaced to the user. Raw scale answers run
// 0-10 and are normalized downstream; Default carries the raw slider start.
type Question struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Key      string  `json:"key"`
	Prompt   string  `json:"prompt"`
	Hint     string  `json:"hint,omitempty"`
	Default  float64 `json:"default,omitempty"`
	Required bool    `json:"required,omitempty"`
}

// Queue is an ordered question sequence with idempotent, identity-keyed
// insertion. The seen set is shared across phases so a question asked in one
// phase can never be re-queued in another.
type Queue struct {
	items []Question
	index int
	seen  map[string]struct{}
}

// NewSeenSet creates the identity set shared by a session's queues.
func NewSeenSet() map[string]struct{} {
	return make(map[string]struct{})
}

// NewQueue constructs an empty queue bound to the shared identity set.
func NewQueue(seen map[string]struct{}) *Queue {
	return &Queue{seen: seen}
}

// Append inserts the question unless its id was already queued or asked.
// Returns true when the question was actually added.
func (q *Queue) Append(item Question) bool {
	if _, ok := q.seen[item.ID]; ok {
		return false
	}
	q.seen[item.ID] = struct{}{}
	q.items = append(q.items, item)
	return true
}

// Current returns the question at the cursor, or nil when exhausted.
func (q *Queue) Current() *Question {
	if q.index >= len(q.items) {
		return nil
	}
	item := q.items[q.index]
	return &item
}

// Advance moves the cursor past the current question.
func (q *Queue) Advance() {
	if q.index < len(q.items) {
		q.index++
	}
}

// Done reports whether every queued question has been consumed.
func (q *Queue) Done() bool {
	return q.index >= len(q.items)
}

// Len returns the total number of queued questions, consumed or not.
func (q *Queue) Len() int {
	return len(q.items)
}
