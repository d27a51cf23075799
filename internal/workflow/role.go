package workflow

import "github.com/tyatlocalbzz/localbzz-app/internal/models"

// RoleKind enumerates the assignment roles a step can name.
type RoleKind int

const (
	RoleUnrecognized RoleKind = iota
	RoleDefaultPhotographer
	RoleDefaultEditor
	RoleAdmin
)

// Role names.
const (
	RoleNameDefaultPhotographer = "default_photographer"
	RoleNameDefaultEditor       = "default_editor"
	RoleNameAdmin               = "admin"
)

// Role is a parsed assign_role. Raw keeps the original text so that
// unrecognised roles survive a round trip.
type Role struct {
	Kind RoleKind
	Raw  string
}

// ParseRole maps a step's assign_role onto a Role. It never fails.
func ParseRole(s string) Role {
	switch s {
	case RoleNameDefaultPhotographer:
		return Role{Kind: RoleDefaultPhotographer, Raw: s}
	case RoleNameDefaultEditor:
		return Role{Kind: RoleDefaultEditor, Raw: s}
	case RoleNameAdmin:
		return Role{Kind: RoleAdmin, Raw: s}
	default:
		return Role{Kind: RoleUnrecognized, Raw: s}
	}
}

func (r Role) String() string { return r.Raw }

// ResolveAssignee returns the client's bound assignee for role. Admin and
// unrecognised roles resolve to nil so the task surfaces as unassigned.
// The returned pointer never aliases the client's field.
func ResolveAssignee(role Role, client *models.Client) *string {
	if client == nil {
		return nil
	}
	var id *string
	switch role.Kind {
	case RoleDefaultPhotographer:
		id = client.DefaultPhotographerID
	case RoleDefaultEditor:
		id = client.DefaultEditorID
	}
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
