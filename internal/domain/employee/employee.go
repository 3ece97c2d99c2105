// Package employee holds the employee record aggregate and the document
// builder that turns records into retrievable text.
package employee

import (
	"fmt"
	"strings"

	"github.com/helix-hr/staffrag/internal/domain"
)

// Availability statuses present in the source dataset. The filter contract
// is exact string match, so unknown statuses are stored as-is rather than
// rejected.
const (
	StatusAvailable = "available"
	StatusOnLeave   = "on leave"
	StatusOnProject = "on project"
)

// Employee is one structured record from the source dataset
// (immutable after load).
type Employee struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Projects        []string `json:"projects"`
	Availability    string   `json:"availability"`
}

// Validate checks that every required field is present. A violation is a
// data error that aborts the ingestion run.
func (e Employee) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("%w: missing id", domain.ErrInvalidRecord)
	case e.Name == "":
		return fmt.Errorf("%w: employee %s: missing name", domain.ErrInvalidRecord, e.ID)
	case len(e.Skills) == 0:
		return fmt.Errorf("%w: employee %s: missing skills", domain.ErrInvalidRecord, e.ID)
	case e.ExperienceYears < 0:
		return fmt.Errorf("%w: employee %s: negative experience_years", domain.ErrInvalidRecord, e.ID)
	case e.Availability == "":
		return fmt.Errorf("%w: employee %s: missing availability", domain.ErrInvalidRecord, e.ID)
	}
	return nil
}

// Document is the text+metadata derivation of one Employee, built during
// ingestion and not persisted outside the vector store.
type Document struct {
	Text string
	Meta Employee
}

// BuildDocument renders the record into a fixed-order descriptive sentence.
// The template is deliberately identical for every record: a uniform shape
// keeps embeddings comparable and gives the generation step predictable
// grounding text.
func BuildDocument(e Employee) (Document, error) {
	if err := e.Validate(); err != nil {
		return Document{}, err
	}

	text := fmt.Sprintf(
		"Employee: %s. Skills: %s. Experience: %d years. Projects: %s. Availability: %s.",
		e.Name,
		strings.Join(e.Skills, ", "),
		e.ExperienceYears,
		strings.Join(e.Projects, ", "),
		e.Availability,
	)

	return Document{Text: text, Meta: e}, nil
}
