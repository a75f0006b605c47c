package authz

type Role string

const (
	RoleOwner    Role = "owner"    // Full access, including schedule configuration
	RoleManager  Role = "manager"  // Approves and corrects team records
	RoleEmployee Role = "employee" // Records own attendance
	RoleSystem   Role = "system"   // Scheduled jobs
)

// Capability is the action checked before a mutating or reading operation.
type Capability string

const (
	CapabilityRecord    Capability = "record"
	CapabilityView      Capability = "view"
	CapabilityApprove   Capability = "approve"
	CapabilityValidate  Capability = "validate"
	CapabilityCorrect   Capability = "correct"
	CapabilityConfigure Capability = "configure"
)

// Scope restricts a grant to the caller's own records or to any employee.
type Scope string

const (
	ScopeSelf Scope = "self"
	ScopeAny  Scope = "any"
)

type Grant struct {
	Capability Capability
	Scope      Scope
}

// RolePolicies maps roles to their grants
var RolePolicies = map[Role][]Grant{
	RoleOwner: {
		{CapabilityRecord, ScopeAny},
		{CapabilityView, ScopeAny},
		{CapabilityApprove, ScopeAny},
		{CapabilityValidate, ScopeAny},
		{CapabilityCorrect, ScopeAny},
		{CapabilityConfigure, ScopeAny},
	},
	RoleManager: {
		{CapabilityRecord, ScopeAny},
		{CapabilityView, ScopeAny},
		{CapabilityApprove, ScopeAny},
		{CapabilityValidate, ScopeAny},
		{CapabilityCorrect, ScopeAny},
	},
	RoleEmployee: {
		{CapabilityRecord, ScopeSelf},
		{CapabilityView, ScopeSelf},
	},
	RoleSystem: {
		{CapabilityView, ScopeAny},
		{CapabilityValidate, ScopeAny},
		{CapabilityCorrect, ScopeAny},
	},
}
