// Package auth issues and verifies session tokens and password hashes.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role groups the operations a caller may perform
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller of a request
type Identity struct {
	Subject   string
	Email     string
	Role      Role
	AccountID uuid.UUID // uuid.Nil for admins
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, if any
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
