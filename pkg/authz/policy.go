// Package authz holds the pure authorization rules for gated writes. It knows
// nothing about HTTP or storage; callers resolve the actor's role first and
// pass everything in.
package authz

import "forumhub/pkg/user"

type Action string

const (
	// DeleteOwnResource gates deletion of posts and comments: the resource
	// owner may delete, and so may an admin. One policy for both resource
	// kinds.
	DeleteOwnResource Action = "deleteOwnResource"
	// AdminOnly gates role changes and announcement create/delete.
	AdminOnly Action = "adminOnly"
)

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotOwner      Reason = "only the owner may do this"
	ReasonAdminsOnly    Reason = "forbidden: admins only"
	ReasonUnknownAction Reason = "unknown action"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(r Reason) Decision {
	return Decision{Allowed: false, Reason: r}
}

// Decide maps (actor, role, resource owner, action) to an allow/deny outcome.
// Callers guarantee actorEmail comes from a verified identity; no decision is
// made for unauthenticated actors.
func Decide(actorEmail string, actorRole user.Role, ownerEmail string, action Action) Decision {
	switch action {
	case DeleteOwnResource:
		if actorEmail == ownerEmail {
			return Allow()
		}
		if actorRole == user.RoleAdmin {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	case AdminOnly:
		if actorRole == user.RoleAdmin {
			return Allow()
		}
		return Deny(ReasonAdminsOnly)
	}

	return Deny(ReasonUnknownAction)
}
