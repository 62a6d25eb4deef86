package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hackfest-dev/hackathon-api/internal/config"
	"github.com/hackfest-dev/hackathon-api/internal/types"
)

func newTestVerifier(apiURL string) *Verifier {
	return New(config.Verifier{
		GitHubAPI: apiURL,
		Timeout:   2 * time.Second,
	})
}

func TestVerifyGitHub(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		switch r.URL.Path {
		case "/users/octocat":
			w.WriteHeader(http.StatusOK)
		case "/users/no-such-user":
			w.WriteHeader(http.StatusNotFound)
		default:
			// Rate limited.
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	v := newTestVerifier(srv.URL)
	ctx := context.Background()

	assert.Equal(t, Verified, v.VerifyGitHub(ctx, "https://github.com/octocat"))
	assert.Equal(t, "/users/octocat", gotPath)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)

	assert.Equal(t, NotFound, v.VerifyGitHub(ctx, "https://github.com/no-such-user"))
	assert.Equal(t, Unreachable, v.VerifyGitHub(ctx, "https://github.com/rate-limited"))
}

func TestVerifyGitHubUsernameFromRepoURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/octocat" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := newTestVerifier(srv.URL)

	// Only the first path segment identifies the account.
	assert.Equal(t, Verified,
		v.VerifyGitHub(context.Background(), "https://github.com/octocat/hello-world"))
}

func TestVerifyGitHubInvalidURLs(t *testing.T) {
	v := newTestVerifier("http://127.0.0.1:0")
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
	}{
		{"wrong scheme", "http://github.com/octocat"},
		{"wrong host", "https://gitlab.com/octocat"},
		{"no username", "https://github.com/"},
		{"not a url", "://bad"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, InvalidURL, v.VerifyGitHub(ctx, tt.url))
		})
	}
}

func TestVerifyGitHubUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	v := newTestVerifier(srv.URL)

	assert.Equal(t, Unreachable,
		v.VerifyGitHub(context.Background(), "https://github.com/octocat"))
}

func TestVerifyLinkedIn(t *testing.T) {
	v := New(config.Verifier{GitHubAPI: "https://api.github.com", Timeout: 200 * time.Millisecond})
	ctx := context.Background()

	// The probe outcome is ignored: a host that cannot be reached at
	// all still yields Verified.
	assert.Equal(t, Verified,
		v.VerifyLinkedIn(ctx, "https://unreachable.linkedin.com.invalid/in/asha-rao"))

	assert.Equal(t, InvalidURL, v.VerifyLinkedIn(ctx, "https://example.com/in/asha-rao"))
	assert.Equal(t, InvalidURL, v.VerifyLinkedIn(ctx, "http://www.linkedin.com/in/asha-rao"))
	assert.Equal(t, InvalidURL, v.VerifyLinkedIn(ctx, "://bad"))
}

func TestVerifyDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := newTestVerifier(srv.URL)
	ctx := context.Background()

	assert.Equal(t, Verified, v.Verify(ctx, types.ProfileGitHub, "https://github.com/octocat"))
	assert.Equal(t, InvalidURL, v.Verify(ctx, "twitter", "https://twitter.com/someone"))
}
