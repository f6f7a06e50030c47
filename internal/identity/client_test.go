package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
	"github.com/magabrotheeeer/qrmenu-backend/internal/identity"
)

func TestFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer raw-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"auth0|user1","email":"owner@example.com"}`))
	}))
	defer srv.Close()

	client := identity.NewClient(config.IdentityProvider{
		UserinfoURL: srv.URL,
		Timeout:     5 * time.Second,
	})

	profile, err := client.FetchProfile(context.Background(), "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "auth0|user1", profile.Sub)
	assert.Equal(t, "owner@example.com", profile.Email)
}

func TestFetchProfile_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := identity.NewClient(config.IdentityProvider{
		UserinfoURL: srv.URL,
		Timeout:     5 * time.Second,
	})

	_, err := client.FetchProfile(context.Background(), "raw-token")
	assert.Error(t, err)
}

func TestFetchProfile_MissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"sub":"auth0|user1"}`))
	}))
	defer srv.Close()

	client := identity.NewClient(config.IdentityProvider{
		UserinfoURL: srv.URL,
		Timeout:     5 * time.Second,
	})

	_, err := client.FetchProfile(context.Background(), "raw-token")
	assert.Error(t, err)
}
