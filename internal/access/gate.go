// Package access implements the role gate: every mutating or
// privacy-sensitive operation declares the roles allowed to perform it, and
// ownership-scoped records additionally require the caller's business to
// match the record's.
package access

import (
	"github.com/bizlink/leadgen-backend/pkg/enums"
	pkgerrors "github.com/bizlink/leadgen-backend/pkg/errors"
	"github.com/google/uuid"
)

// Actor is the authenticated caller as carried in their access token.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	BusinessID *uuid.UUID
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// RequireRole rejects actors whose role is not in the allowed set.
func RequireRole(actor Actor, allowed ...enums.UserRole) error {
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
}

// RequireBusinessScope allows admins unconditionally; business actors must
// own the target record. UUIDs are compared as values, so representation
// differences between the token and the stored id cannot cause a mismatch.
func RequireBusinessScope(actor Actor, recordBusinessID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != enums.UserRoleBusiness {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}
	if actor.BusinessID == nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "caller has no business")
	}
	if *actor.BusinessID != recordBusinessID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "record belongs to another business")
	}
	return nil
}
