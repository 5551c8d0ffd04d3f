// Package policy maps (role, operation, resource) to an access decision.
// The capability table is static; Authorize is pure and never errors.
package policy

// Role is the closed set of principal roles. Anything else is normalized to
// RoleStandard at the authentication boundary, never silently allowed.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStandard Role = "standard"
)

// ParseRole maps an untrusted role string onto the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStandard:
		return Role(s), true
	}
	return RoleStandard, false
}

// Operation identifies what the principal wants to do.
type Operation string

const (
	OpList        Operation = "list"
	OpReadSecret  Operation = "read-secret"
	OpCreate      Operation = "create"
	OpUpdate      Operation = "update"
	OpDelete      Operation = "delete"
	OpDeactivate  Operation = "deactivate"
	OpManageUsers Operation = "manage-users"
)

// Resource identifies what kind of record the operation targets.
type Resource string

const (
	ResourceCredential Resource = "credential"
	ResourceLocation   Resource = "location"
	ResourceUser       Resource = "user"
)

// Decision is the outcome of an authorization check. For credential reads it
// additionally determines whether decryption may happen at all: only
// AllowWithSecret permits invoking the secret codec.
type Decision int

const (
	Deny Decision = iota
	AllowMetadataOnly
	Allow
	AllowWithSecret
)

func (d Decision) String() string {
	switch d {
	case AllowMetadataOnly:
		return "allow-metadata-only"
	case Allow:
		return "allow"
	case AllowWithSecret:
		return "allow-with-secret"
	default:
		return "deny"
	}
}

// Granted reports whether the underlying data operation may proceed.
func (d Decision) Granted() bool { return d != Deny }

// capabilities is the full static matrix. Missing entries deny.
var capabilities = map[Resource]map[Operation]map[Role]Decision{
	ResourceCredential: {
		OpList: {
			RoleAdmin:    Allow,
			RoleManager:  Allow,
			RoleStandard: Allow,
		},
		// Only admins see decrypted secrets; managers and standard users get
		// the record without its secret.
		OpReadSecret: {
			RoleAdmin:    AllowWithSecret,
			RoleManager:  AllowMetadataOnly,
			RoleStandard: AllowMetadataOnly,
		},
		OpCreate: {RoleAdmin: Allow},
		OpUpdate: {RoleAdmin: Allow},
		OpDelete: {RoleAdmin: Allow},
	},
	ResourceLocation: {
		OpList: {
			RoleAdmin:    Allow,
			RoleManager:  Allow,
			RoleStandard: Allow,
		},
		OpCreate: {RoleAdmin: Allow},
		OpUpdate: {RoleAdmin: Allow},
		OpDelete: {RoleAdmin: Allow},
	},
	ResourceUser: {
		OpManageUsers: {RoleAdmin: Allow},
		OpCreate:      {RoleAdmin: Allow},
		OpUpdate:      {RoleAdmin: Allow},
		OpDelete:      {RoleAdmin: Allow},
		OpDeactivate:  {RoleAdmin: Allow},
	},
}

// Authorize resolves the capability matrix. Unknown roles are treated as
// standard; unknown operation/resource pairs deny.
func Authorize(role Role, op Operation, res Resource) Decision {
	normalized, _ := ParseRole(string(role))
	ops, ok := capabilities[res]
	if !ok {
		return Deny
	}
	roles, ok := ops[op]
	if !ok {
		return Deny
	}
	return roles[normalized]
}

// DeniesSelf reports whether op against targetID must be refused because it
// targets the acting principal's own account. Self-delete and self-deactivate
// are denied for every role, admins included, to prevent accidental lockout.
// Callers check this before consulting Authorize.
func DeniesSelf(op Operation, principalID, targetID string) bool {
	if principalID == "" || principalID != targetID {
		return false
	}
	return op == OpDelete || op == OpDeactivate
}
