// Package authz decides who may do what. Collection-level checks run before
// any object is fetched; object-level checks only apply to writes on an
// existing review or comment.
package authz

import "reviewhub/internal/api/models"

// Actor is the identity attached to a request. The zero value is the
// anonymous actor, which is a valid state rather than an error: every read
// action admits it.
type Actor struct {
	ID            string
	Role          string
	Superuser     bool
	Authenticated bool
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a Actor) IsModerator() bool {
	return a.Authenticated && a.Role == models.RoleModerator
}

func (a Actor) IsUser() bool {
	return a.Authenticated && a.Role == models.RoleUser
}

// Action is a collection-level action family.
type Action string

const (
	ReadContent   Action = "content:read"
	ManageCatalog Action = "catalog:manage" // category/genre/title writes
	CreateReview  Action = "review:create"
	CreateComment Action = "comment:create"
	ManageUsers   Action = "users:manage"
)

type requirement int

const (
	anyone requirement = iota
	authenticated
	adminOnly
)

// Every action family maps to exactly one requirement. Keeping the rules in
// one table avoids the per-endpoint permission drift this replaces.
var policy = map[Action]requirement{
	ReadContent:   anyone,
	ManageCatalog: adminOnly,
	CreateReview:  authenticated,
	CreateComment: authenticated,
	ManageUsers:   adminOnly,
}

// Allowed reports whether the actor may attempt the action at all. Unknown
// actions are denied.
func Allowed(actor Actor, action Action) bool {
	req, ok := policy[action]
	if !ok {
		return false
	}
	switch req {
	case anyone:
		return true
	case authenticated:
		return actor.Authenticated
	case adminOnly:
		return actor.IsAdmin()
	}
	return false
}

// CanEditObject reports whether the actor may modify or delete a review or
// comment owned by authorID: the author, a moderator, or an admin.
func CanEditObject(actor Actor, authorID string) bool {
	if !actor.Authenticated {
		return false
	}
	return actor.ID == authorID || actor.IsModerator() || actor.IsAdmin()
}
