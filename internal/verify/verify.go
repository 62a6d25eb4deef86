// Package verify performs best-effort reachability/identity checks on
// claimed social profiles. Each check is a single external round trip,
// bounded by the configured timeout and the caller's context, with no
// retries and no store side effects — callers may simply call again.
//
// A passed check is not proof and is never persisted; the stored
// verification_status field is a separate, staff-controlled concept.
package verify

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/hackfest-dev/hackathon-api/internal/config"
	"github.com/hackfest-dev/hackathon-api/internal/types"
)

// Result is the outcome of one profile check.
type Result string

const (
	Verified    Result = "verified"
	NotFound    Result = "not_found"
	Unreachable Result = "unreachable"
	InvalidURL  Result = "invalid_url"
)

// Verifier holds the HTTP client and the injected GitHub API base so
// tests can substitute a fake endpoint.
type Verifier struct {
	client    *http.Client
	githubAPI string
}

func New(cfg config.Verifier) *Verifier {
	return &Verifier{
		client:    &http.Client{Timeout: cfg.Timeout},
		githubAPI: strings.TrimRight(cfg.GitHubAPI, "/"),
	}
}

// Verify dispatches on the profile kind. Unknown kinds map to
// InvalidURL; there is nothing meaningful to probe.
func (v *Verifier) Verify(ctx context.Context, kind, rawURL string) Result {
	switch kind {
	case types.ProfileGitHub:
		return v.VerifyGitHub(ctx, rawURL)
	case types.ProfileLinkedIn:
		return v.VerifyLinkedIn(ctx, rawURL)
	}
	return InvalidURL
}

// VerifyGitHub looks the profile up by username via the GitHub users
// API. 200 means the profile exists, 404 that it does not; any other
// response or transport failure (rate limit, network) is Unreachable.
func (v *Verifier) VerifyGitHub(ctx context.Context, rawURL string) Result {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || u.Hostname() != "github.com" {
		return InvalidURL
	}
	username := firstPathSegment(u.Path)
	if username == "" {
		return InvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.githubAPI+"/users/"+url.PathEscape(username), nil)
	if err != nil {
		return InvalidURL
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Unreachable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Verified
	case http.StatusNotFound:
		return NotFound
	default:
		return Unreachable
	}
}

// VerifyLinkedIn is a weak check and documented as such. LinkedIn
// offers no unauthenticated profile lookup, so this degrades to a
// HEAD probe whose outcome is ignored: both success and failure map
// to Verified, because the probe cannot reliably distinguish a live
// profile from a blocked request. Only a URL that does not look like
// LinkedIn at all is rejected.
func (v *Verifier) VerifyLinkedIn(ctx context.Context, rawURL string) Result {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || !strings.Contains(u.Hostname(), "linkedin.com") {
		return InvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return InvalidURL
	}
	if resp, err := v.client.Do(req); err == nil {
		resp.Body.Close()
	}
	return Verified
}

func firstPathSegment(p string) string {
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			return part
		}
	}
	return ""
}
