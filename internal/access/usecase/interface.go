// Package usecase implements the Group / Client Store (C4) and the ACL
// Engine (C5): CRUD over groups and clients, and the bipartite access
// graph that joins clients to secret series through group membership.
package usecase

import (
	"context"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
)

// GroupUsecase is straightforward entity CRUD with uniqueness on name.
type GroupUsecase interface {
	Create(ctx context.Context, name, description string) (*accessDomain.Group, error)
	GetByName(ctx context.Context, name string) (*accessDomain.Group, error)
	List(ctx context.Context) ([]accessDomain.Group, error)
	Delete(ctx context.Context, name string) error
}

// ClientUsecase is entity CRUD for clients, looked up by certificate-derived
// name.
type ClientUsecase interface {
	Create(ctx context.Context, name string, automationAllowed bool) (*accessDomain.Client, error)
	GetByName(ctx context.Context, name string) (*accessDomain.Client, error)
	List(ctx context.Context) ([]accessDomain.Client, error)
	TouchLastSeen(ctx context.Context, id int64) error
}

// GroupsUpdate is the result of reconciling a group-modification request
// against the groups currently assigned to a secret: addGroups/removeGroups
// minus no-ops, skipping names that don't resolve to a live group.
type GroupsUpdate struct {
	Added   []string
	Removed []string
	Skipped []string
}

// ACLEngine is the Secret-Controller-facing half of access control: it
// grants/revokes by group id, reconciles a group-name request into the
// add/remove sets the secret handler wants back, and answers the three
// reverse-lookup queries the API surface needs.
type ACLEngine interface {
	GrantAccess(ctx context.Context, secretSeriesID, groupID int64, actor string) error
	RevokeAccess(ctx context.Context, secretSeriesID, groupID int64, actor string) error

	// ReconcileGroups resolves addGroups/removeGroups names to ids, applies
	// the grant/revoke, and returns what happened so the caller can answer
	// with the secret's resulting group name list.
	ReconcileGroups(
		ctx context.Context,
		secretSeriesID int64,
		addGroups, removeGroups []string,
		actor string,
	) (*GroupsUpdate, error)

	GroupsFor(ctx context.Context, secretSeriesID int64) ([]accessDomain.Group, error)
	ClientsFor(ctx context.Context, secretSeriesID int64) ([]accessDomain.Client, error)
	SecretIDsFor(ctx context.Context, clientID int64) ([]int64, error)

	AddMembership(ctx context.Context, clientID, groupID int64) error
	RemoveMembership(ctx context.Context, clientID, groupID int64) error
}
