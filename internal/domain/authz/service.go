package authz

import "context"

// Authorizer is the capability check consulted before every engine operation.
type Authorizer interface {
	// Authorize returns nil when the subject in ctx holds capability for records owned by
	// employeeID. An empty employeeID means an organization-wide operation.
	Authorize(ctx context.Context, capability Capability, employeeID string) error
}
