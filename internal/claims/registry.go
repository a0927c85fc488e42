package claims

import (
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// Registry holds the process-wide claim set. Populate it fully during startup;
// it is read-only afterwards, so lookups need no locking.
type Registry struct {
	specs map[domain.ClaimID]Spec
	order []domain.ClaimID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[domain.ClaimID]Spec)}
}

// Register adds a spec. Reusing an id is registry misuse, a programmer error
// the caller should treat as fatal at startup.
//
// Errors: CodeDuplicateClaim on id reuse, CodeInvariantViolation on a spec
// with no identity or no predicate.
func (r *Registry) Register(spec Spec) error {
	if spec.ID == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "claim spec has no id")
	}
	if spec.Predicate == nil {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "claim %s has no predicate", spec.ID)
	}
	if _, exists := r.specs[spec.ID]; exists {
		return dErrors.Newf(dErrors.CodeDuplicateClaim, "claim %s is already registered", spec.ID)
	}
	r.specs[spec.ID] = spec
	r.order = append(r.order, spec.ID)
	return nil
}

// Get returns the spec registered under id.
//
// Errors: CodeUnknownClaim when absent.
func (r *Registry) Get(id domain.ClaimID) (Spec, error) {
	spec, ok := r.specs[id]
	if !ok {
		return Spec{}, dErrors.Newf(dErrors.CodeUnknownClaim, "claim %s is not registered", id)
	}
	return spec, nil
}

// List returns every registered spec in registration order.
func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}

// Default builds the registry with the standard claim set.
func Default() (*Registry, error) {
	r := NewRegistry()
	for _, spec := range []Spec{Over18Spec(), NameMatchSpec(), IdentityAttestationSpec()} {
		if err := r.Register(spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}
