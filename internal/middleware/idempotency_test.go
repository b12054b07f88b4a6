package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, remoteAddr string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/users/register", nil)
	c.Request.RemoteAddr = remoteAddr
	return c
}

func TestReplayScope_AnonymousClientsIsolated(t *testing.T) {
	first := testContext(t, "203.0.113.7:51000")
	second := testContext(t, "198.51.100.9:40000")

	if replayScope(first) == replayScope(second) {
		t.Errorf("two anonymous clients share replay scope %q", replayScope(first))
	}
}

func TestReplayScope_AuthenticatedCallerKeysOnUserID(t *testing.T) {
	c := testContext(t, "203.0.113.7:51000")
	c.Set(ContextUserID, "user-1")

	if got := replayScope(c); got != "user-1" {
		t.Errorf("expected user-scoped replay key, got %q", got)
	}

	// Same user from another address stays in the same bucket.
	other := testContext(t, "198.51.100.9:40000")
	other.Set(ContextUserID, "user-1")
	if replayScope(c) != replayScope(other) {
		t.Error("expected a stable replay scope per authenticated user")
	}
}
