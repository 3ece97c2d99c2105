package filter

import "testing"

func TestNewMatch(t *testing.T) {
	c, err := NewMatch("availability", "available")
	if err != nil {
		t.Fatalf("NewMatch returned error: %v", err)
	}
	if !c.IsMatch() || c.IsRange() {
		t.Errorf("expected match condition, got IsMatch=%v IsRange=%v", c.IsMatch(), c.IsRange())
	}
	if c.Key() != "availability" || c.Match() != "available" {
		t.Errorf("unexpected condition: key=%q match=%q", c.Key(), c.Match())
	}
}

func TestNewMatch_Invalid(t *testing.T) {
	if _, err := NewMatch("", "available"); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewMatch("availability", ""); err == nil {
		t.Error("expected error for empty value")
	}
}

func TestNewRange(t *testing.T) {
	c, err := NewRange("experience_years", AtLeast(5))
	if err != nil {
		t.Fatalf("NewRange returned error: %v", err)
	}
	if !c.IsRange() || c.IsMatch() {
		t.Errorf("expected range condition, got IsMatch=%v IsRange=%v", c.IsMatch(), c.IsRange())
	}
	r := c.Range()
	if r.GTE() == nil || *r.GTE() != 5 {
		t.Errorf("unexpected lower bound: %v", r.GTE())
	}
	if r.LTE() != nil {
		t.Errorf("expected unbounded upper bound, got %v", *r.LTE())
	}
}

func TestNewRange_Bounds(t *testing.T) {
	c, err := NewRange("experience_years", Between(3, 8))
	if err != nil {
		t.Fatalf("NewRange returned error: %v", err)
	}
	r := c.Range()
	if *r.GTE() != 3 || *r.LTE() != 8 {
		t.Errorf("unexpected bounds: gte=%v lte=%v", *r.GTE(), *r.LTE())
	}
}

func TestNewRange_Invalid(t *testing.T) {
	if _, err := NewRange("", AtLeast(1)); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewRange("experience_years", Range{}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestNewExpression(t *testing.T) {
	match, _ := NewMatch("availability", "available")
	rng, _ := NewRange("experience_years", AtLeast(5))

	expr, err := NewExpression(match, rng)
	if err != nil {
		t.Fatalf("NewExpression returned error: %v", err)
	}
	if expr.IsEmpty() {
		t.Error("expression should not be empty")
	}
	if got := len(expr.Conditions()); got != 2 {
		t.Errorf("expected 2 conditions, got %d", got)
	}
}

func TestNewExpression_Empty(t *testing.T) {
	expr, err := NewExpression()
	if err != nil {
		t.Fatalf("NewExpression returned error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Error("expected empty expression")
	}
}

func TestNewExpression_TooMany(t *testing.T) {
	conds := make([]Condition, MaxConditions+1)
	for i := range conds {
		c, _ := NewMatch("availability", "available")
		conds[i] = c
	}
	if _, err := NewExpression(conds...); err == nil {
		t.Error("expected error for too many conditions")
	}
}
