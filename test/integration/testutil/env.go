package testutil

import (
	"os"
	"testing"
	"time"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// RequireServer returns a client for the API under test, skipping the test
// when TEST_SERVER_URL is not set.
func RequireServer(t *testing.T) *Client {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration test")
	}

	client := NewClient(serverURL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)
	return client
}
