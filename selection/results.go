package selection

import "sync"

// Result is one published keyword: ordinal, keyword, link. Rows are
// append-only and live for the process lifetime.
type Result struct {
	Ordinal int
	Keyword string
	Link    string
}

// ResultLog is the shared, mutex-guarded result sequence consumed by
// report emission.
type ResultLog struct {
	mu   sync.Mutex
	rows []Result
}

func NewResultLog() *ResultLog {
	return &ResultLog{}
}

// Append records one published keyword and returns the row with its
// 1-based ordinal assigned.
func (l *ResultLog) Append(keyword, link string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	row := Result{Ordinal: len(l.rows) + 1, Keyword: keyword, Link: link}
	l.rows = append(l.rows, row)
	return row
}

// Snapshot returns a copy of all rows in append order.
func (l *ResultLog) Snapshot() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Result, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *ResultLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}
