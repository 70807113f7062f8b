package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/auth"
)

// Resolver turns an inbound Authorization header into a fully
// specified client record: decode the signed credential, then load the
// tenant's connection parameters from the registry.
//
// Resolve is read-only. On any failure nothing downstream (connection
// cache, model registry) has been touched yet — the caller can fail
// the request without cleanup.
type Resolver struct {
	secret  string
	clients ClientStore
}

func NewResolver(secret string, clients ClientStore) *Resolver {
	return &Resolver{secret: secret, clients: clients}
}

// Resolve expects the raw Authorization header value
// ("Bearer <token>") and returns the client record plus the decoded
// caller identity.
//
// Failure taxonomy:
//   - ErrUnauthenticated: missing header, malformed header, bad token
//   - ErrTokenExpired: token past its expiry
//   - ErrClientNotFound: token fine, registry row gone
func (r *Resolver) Resolve(ctx context.Context, authorizationHeader string) (*Client, *auth.Claims, error) {
	if authorizationHeader == "" {
		return nil, nil, ErrUnauthenticated
	}

	parts := strings.SplitN(authorizationHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, nil, ErrUnauthenticated
	}

	claims, err := auth.ParseToken(parts[1], r.secret)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, nil, ErrTokenExpired
		}
		return nil, nil, ErrUnauthenticated
	}

	client, err := r.clients.GetByID(ctx, claims.ClientID)
	if err != nil {
		return nil, nil, err
	}

	return client, claims, nil
}
