// Package repository persists groups, clients and the access graph that
// joins clients to secret series through group membership.
package repository

import (
	"context"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
)

// GroupRepository is the Group half of the Group / Client Store.
type GroupRepository interface {
	Create(ctx context.Context, name, description string) (*accessDomain.Group, error)
	GetByName(ctx context.Context, name string) (*accessDomain.Group, error)
	GetByID(ctx context.Context, id int64) (*accessDomain.Group, error)
	List(ctx context.Context) ([]accessDomain.Group, error)
	Delete(ctx context.Context, name string) error
}

// ClientRepository is the Client half of the Group / Client Store.
type ClientRepository interface {
	Create(ctx context.Context, name string, automationAllowed bool) (*accessDomain.Client, error)
	GetByName(ctx context.Context, name string) (*accessDomain.Client, error)
	GetByID(ctx context.Context, id int64) (*accessDomain.Client, error)
	List(ctx context.Context) ([]accessDomain.Client, error)
	TouchLastSeen(ctx context.Context, id int64) error
}

// AccessRepository persists the two bipartite edges of the access graph:
// GroupMembership (client, group) and SecretsAccess (group, secret series).
// Both edge kinds are deduplicated and idempotent to insert/delete.
type AccessRepository interface {
	GrantAccess(ctx context.Context, secretSeriesID, groupID int64) (bool, error)
	RevokeAccess(ctx context.Context, secretSeriesID, groupID int64) (bool, error)
	GroupsForSecret(ctx context.Context, secretSeriesID int64) ([]accessDomain.Group, error)
	ClientsForSecret(ctx context.Context, secretSeriesID int64) ([]accessDomain.Client, error)
	SecretIDsForClient(ctx context.Context, clientID int64) ([]int64, error)

	AddMembership(ctx context.Context, clientID, groupID int64) (bool, error)
	RemoveMembership(ctx context.Context, clientID, groupID int64) (bool, error)
}
