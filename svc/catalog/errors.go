package catalog

import "errors"

var (
	ErrPlanNotFound = errors.New("catalog.errors.plan_not_found")
	ErrEmptyCatalog = errors.New("catalog.errors.empty_catalog")
	ErrInvalidPlan  = errors.New("catalog.errors.invalid_plan")
	ErrLoadFailed   = errors.New("catalog.errors.load_failed")
)
