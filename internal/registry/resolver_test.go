package registry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/auth"
)

const testSecret = "resolver-secret"

// fakeClientStore counts lookups so tests can assert the resolver
// fails before ever touching the registry.
type fakeClientStore struct {
	clients map[uuid.UUID]*Client
	byIDs   int
}

func (f *fakeClientStore) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	f.byIDs++
	c, ok := f.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return c, nil
}

func (f *fakeClientStore) GetByEmail(ctx context.Context, email string) (*Client, error) {
	for _, c := range f.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, ErrClientNotFound
}

func bearerFor(t *testing.T, clientID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	token, err := auth.GenerateToken(clientID, clientID, "owner@acme.test", "admin", testSecret, ttl)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestResolveSuccess(t *testing.T) {
	clientID := uuid.New()
	store := &fakeClientStore{clients: map[uuid.UUID]*Client{
		clientID: {ID: clientID, CompanyName: "Acme", Email: "owner@acme.test", DBName: "crm_acme"},
	}}
	resolver := NewResolver(testSecret, store)

	client, claims, err := resolver.Resolve(context.Background(), bearerFor(t, clientID, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, clientID, client.ID)
	assert.Equal(t, "crm_acme", client.DBName)
	assert.Equal(t, clientID, claims.ClientID)
}

func TestResolveFailures(t *testing.T) {
	clientID := uuid.New()
	store := &fakeClientStore{clients: map[uuid.UUID]*Client{}}
	resolver := NewResolver(testSecret, store)

	tests := []struct {
		name        string
		header      string
		wantErr     error
		storeCalled bool
	}{
		{name: "missing header", header: "", wantErr: ErrUnauthenticated},
		{name: "no bearer prefix", header: "Token abc", wantErr: ErrUnauthenticated},
		{name: "garbage token", header: "Bearer garbage", wantErr: ErrUnauthenticated},
		{name: "expired token", header: bearerFor(t, clientID, -time.Hour), wantErr: ErrTokenExpired},
		{name: "unknown client", header: bearerFor(t, clientID, time.Hour), wantErr: ErrClientNotFound, storeCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.byIDs = 0
			client, claims, err := resolver.Resolve(context.Background(), tt.header)
			assert.Nil(t, client)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.storeCalled {
				assert.Equal(t, 1, store.byIDs)
			} else {
				// A bad credential must not cost a registry lookup.
				assert.Zero(t, store.byIDs)
			}
		})
	}
}
