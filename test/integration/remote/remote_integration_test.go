//go:build integration

package remote_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhahn/go-remote/pkg/remote"
)

// startAuthority serves a minimal client-credentials token endpoint and
// counts issuance round trips.
func startAuthority(t *testing.T, issued *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/oauth2/v2.0/token") {
			http.NotFound(w, r)
			return
		}
		issued.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "integration-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
}

// startService accepts only requests carrying the expected bearer token.
func startService(t *testing.T, expectedToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+expectedToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestIntegration_ClientSecretEndToEnd(t *testing.T) {
	var issued atomic.Int32
	authority := startAuthority(t, &issued)
	defer authority.Close()

	service := startService(t, "integration-token")
	defer service.Close()

	registry := remote.NewRegistry()

	options := &remote.Options{
		ServiceURI:     service.URL,
		CredentialType: remote.CredentialClientSecret,
		AuthorityHost:  authority.URL,
		SecretCredential: &remote.SecretCredentialOptions{
			TenantID:     "integration-tenant",
			ClientID:     "integration-client",
			ClientSecret: "integration-secret",
		},
		Scopes:  []string{"api://integration/.default"},
		Timeout: 5 * time.Second,
	}

	if _, err := registry.Register("service", options); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	client, err := registry.Client("service")
	if err != nil {
		t.Fatalf("client construction failed: %v", err)
	}

	// Several requests share one token issuance.
	for i := 0; i < 5; i++ {
		resp, err := client.Get(service.URL)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, resp.StatusCode)
		}
	}
	if got := issued.Load(); got != 1 {
		t.Errorf("Expected one token issuance for five requests, got %d", got)
	}

	// Forced rotation drops the cached token; the next request re-acquires.
	registry.ClearTokens()
	resp, err := client.Get(service.URL)
	if err != nil {
		t.Fatalf("post-rotation request failed: %v", err)
	}
	resp.Body.Close()
	if got := issued.Load(); got != 2 {
		t.Errorf("Expected a new issuance after rotation, got %d total", got)
	}

	// Re-registration with identical options is a no-op.
	outcome, err := registry.Register("SERVICE", options)
	if err != nil {
		t.Fatalf("re-registration failed: %v", err)
	}
	if outcome != remote.OutcomeAlreadyRegistered {
		t.Errorf("Expected OutcomeAlreadyRegistered, got %v", outcome)
	}
}
