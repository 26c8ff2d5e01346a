package dualtoken

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/accountkit/pkg/statehash"
)

// Identity is the part of a user the tokens are bound to.
type Identity struct {
	ID     uuid.UUID
	Active bool
}

func (i Identity) subject() statehash.Subject {
	return statehash.Subject{ID: i.ID, Active: i.Active}
}

// IdentityFinder loads the current state of a user.
// Implementations return ErrIdentityNotFound for unknown ids.
type IdentityFinder interface {
	FindIdentity(ctx context.Context, id uuid.UUID) (Identity, error)
}

// IdentityFinderFunc adapts a function to IdentityFinder.
type IdentityFinderFunc func(ctx context.Context, id uuid.UUID) (Identity, error)

func (f IdentityFinderFunc) FindIdentity(ctx context.Context, id uuid.UUID) (Identity, error) {
	return f(ctx, id)
}
