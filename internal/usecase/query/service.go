// Package query is the request-shaping layer of the QA API: it validates
// and defaults incoming requests, turns their parameters into filter
// expressions, and delegates to the answer composer. The convenience
// operations only construct generic requests.
package query

import (
	"context"
	"fmt"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/employee"
	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/usecase/answer"
)

const (
	// DefaultK is the result count when the request does not set one.
	DefaultK = 5
	// MaxK caps the result count of any single request.
	MaxK = 50

	availableK = 50
	bySkillK   = 20
)

// Filterable metadata fields.
const (
	fieldAvailability = "availability"
	fieldExperience   = "experience_years"
)

// Request is a generic QA request. Zero K means DefaultK; nil
// MinExperience and empty FilterAvailability mean no filter.
type Request struct {
	Query              string
	K                  int
	FilterAvailability string
	MinExperience      *int
	Instruction        string
}

// Service validates requests and routes them to the composer.
type Service struct {
	composer Composer
	defaultK int
	maxK     int
}

// New creates a query service.
func New(composer Composer) *Service {
	return &Service{composer: composer, defaultK: DefaultK, maxK: MaxK}
}

// WithLimits overrides the default and maximum result counts.
func (s *Service) WithLimits(defaultK, maxK int) *Service {
	if defaultK > 0 {
		s.defaultK = defaultK
	}
	if maxK > 0 {
		s.maxK = maxK
	}
	return s
}

// Query answers a generic request.
func (s *Service) Query(ctx context.Context, req Request) (answer.Answer, error) {
	if req.Query == "" {
		return answer.Answer{}, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}
	if req.MinExperience != nil && *req.MinExperience < 0 {
		return answer.Answer{}, fmt.Errorf("%w: negative min_experience", domain.ErrInvalidRequest)
	}

	k := req.K
	switch {
	case k <= 0:
		k = s.defaultK
	case k > s.maxK:
		k = s.maxK
	}

	filters, err := buildFilters(req)
	if err != nil {
		return answer.Answer{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	return s.composer.Compose(ctx, req.Query, filters, k, req.Instruction)
}

// Simple answers a plain query with an optional result count.
func (s *Service) Simple(ctx context.Context, queryText string, k int) (answer.Answer, error) {
	return s.Query(ctx, Request{Query: queryText, K: k})
}

// Available lists currently available employees.
func (s *Service) Available(ctx context.Context) (answer.Answer, error) {
	return s.Query(ctx, Request{
		Query:              "available employee",
		K:                  availableK,
		FilterAvailability: employee.StatusAvailable,
	})
}

// BySkill finds employees with the given skill, optionally only
// available ones.
func (s *Service) BySkill(ctx context.Context, skill string, availableOnly bool) (answer.Answer, error) {
	if skill == "" {
		return answer.Answer{}, fmt.Errorf("%w: empty skill", domain.ErrInvalidRequest)
	}

	req := Request{
		Query: fmt.Sprintf("employee with %s skills", skill),
		K:     bySkillK,
	}
	if availableOnly {
		req.FilterAvailability = employee.StatusAvailable
	}
	return s.Query(ctx, req)
}

// WithInstruction answers a query under a caller-supplied system
// instruction.
func (s *Service) WithInstruction(ctx context.Context, queryText, instruction string) (answer.Answer, error) {
	if instruction == "" {
		return answer.Answer{}, fmt.Errorf("%w: empty system_prompt", domain.ErrInvalidRequest)
	}
	return s.Query(ctx, Request{Query: queryText, Instruction: instruction})
}

func buildFilters(req Request) (filter.Expression, error) {
	var conditions []filter.Condition

	if req.FilterAvailability != "" {
		cond, err := filter.NewMatch(fieldAvailability, req.FilterAvailability)
		if err != nil {
			return filter.Expression{}, err
		}
		conditions = append(conditions, cond)
	}

	if req.MinExperience != nil {
		cond, err := filter.NewRange(fieldExperience, filter.AtLeast(float64(*req.MinExperience)))
		if err != nil {
			return filter.Expression{}, err
		}
		conditions = append(conditions, cond)
	}

	if len(conditions) == 0 {
		return filter.Expression{}, nil
	}
	return filter.NewExpression(conditions...)
}
