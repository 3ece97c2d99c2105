package result

import "github.com/helix-hr/staffrag/internal/domain/employee"

// Result is a single search hit: the stored document text, its cosine
// similarity to the query, and the employee record it was built from.
type Result struct {
	id    string
	score float64
	text  string
	meta  employee.Employee
}

// New creates a search result.
func New(id string, score float64, text string, meta employee.Employee) Result {
	return Result{id: id, score: score, text: text, meta: meta}
}

// ID returns the point identifier.
func (r *Result) ID() string { return r.id }

// Score returns the cosine similarity in [0, 1], higher is closer.
func (r *Result) Score() float64 { return r.score }

// Text returns the document text that was embedded.
func (r *Result) Text() string { return r.text }

// Meta returns the employee record stored alongside the vector.
func (r *Result) Meta() employee.Employee { return r.meta }
