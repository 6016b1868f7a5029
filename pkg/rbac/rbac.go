// Package rbac decides whether a caller may run a GraphQL field. Every field
// maps to one Level; Check compares it against the verified identity.
package rbac

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storegraph/pkg/auth"
)

var (
	// ErrUnauthenticated is returned when a level above Public is required
	// and the request carries no verified identity.
	ErrUnauthenticated = errors.New("Unauthenticated")
	// ErrForbidden is returned when the identity lacks the admin flag.
	ErrForbidden = errors.New("Forbidden")
)

// Level is the permission a field requires.
type Level int

const (
	Public Level = iota
	Authenticated
	Admin
)

func (l Level) String() string {
	switch l {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Policy maps field names to levels. Fields it does not name fall back to
// Default. A Policy is built once at start and never mutated afterwards.
type Policy struct {
	Default Level
	Fields  map[string]Level
}

// Level returns the level required by field.
func (p Policy) Level(field string) Level {
	if l, ok := p.Fields[field]; ok {
		return l
	}
	return p.Default
}

// Check returns nil when the identity in ctx satisfies field's level.
func (p Policy) Check(ctx context.Context, field string) error {
	return Allow(ctx, p.Level(field))
}

// Allow returns nil when the identity in ctx satisfies level.
func Allow(ctx context.Context, level Level) error {
	if level == Public {
		return nil
	}

	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if level == Admin && !id.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// LegacyPolicy keeps the historical surface: only order reads and the
// caller's own profile need a credential.
func LegacyPolicy() Policy {
	return Policy{
		Default: Public,
		Fields: map[string]Level{
			"getAllOrders": Authenticated,
			"me":           Authenticated,
		},
	}
}

// StrictPolicy additionally reserves product writes and user listings for
// admins.
func StrictPolicy() Policy {
	p := LegacyPolicy()
	for _, f := range []string{"createProduct", "updateProduct", "deleteProduct", "getUser", "getAllUsers"} {
		p.Fields[f] = Admin
	}
	return p
}
