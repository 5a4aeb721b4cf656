// Package authn authenticates automation API requests from the TLS client
// certificate presented on the connection.
package authn

import (
	"context"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
)

// clientKey is a context key type for storing the authenticated client.
type clientKey struct{}

// WithClient stores the authenticated client in the context.
func WithClient(ctx context.Context, client *accessDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient retrieves the authenticated client from the context.
func GetClient(ctx context.Context) (*accessDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*accessDomain.Client)
	return client, ok
}
