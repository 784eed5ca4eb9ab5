package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Source loads plans into a Catalog.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// Catalog is a validated, immutable plan registry.
type Catalog struct {
	// Treated as read-only after construction; safe for concurrent use
	// without locking.
	plans map[string]Plan
}

// New loads and validates plans from the source.
func New(ctx context.Context, src Source) (*Catalog, error) {
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	if len(plans) == 0 {
		return nil, ErrEmptyCatalog
	}

	for id, plan := range plans {
		if err := validatePlan(id, plan); err != nil {
			return nil, err
		}
	}

	return &Catalog{plans: plans}, nil
}

// Plan returns the catalog entry with the given id.
func (c *Catalog) Plan(id string) (Plan, error) {
	plan, ok := c.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan.clone(), nil
}

// Plans returns all entries ordered by ascending price, ties broken by id.
// The slice and its entries are copies.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, plan := range c.plans {
		out = append(out, plan.clone())
	}
	slices.SortFunc(out, func(a, b Plan) int {
		if c := cmp.Compare(a.PriceCents, b.PriceCents); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Has reports whether the catalog contains a plan with the given id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.plans[id]
	return ok
}

func validatePlan(id string, p Plan) error {
	switch {
	case p.ID == "" || p.ID != id:
		return errors.Join(ErrInvalidPlan, fmt.Errorf("plan key %q does not match plan id %q", id, p.ID))
	case p.Name == "":
		return errors.Join(ErrInvalidPlan, fmt.Errorf("plan %s has no name", id))
	case p.PriceCents <= 0:
		return errors.Join(ErrInvalidPlan, fmt.Errorf("plan %s has non-positive price %d", id, p.PriceCents))
	case !p.Cycle.Valid():
		return errors.Join(ErrInvalidPlan, fmt.Errorf("plan %s has unknown billing cycle %q", id, p.Cycle))
	}
	return nil
}
