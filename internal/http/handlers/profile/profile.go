// Package profile exposes the live profile check the registration form
// calls before submission. The outcome is client-side state only — it
// is never persisted and never changes a stored verification_status.
package profile

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hackfest-dev/hackathon-api/internal/types"
	"github.com/hackfest-dev/hackathon-api/internal/utils/response"
	"github.com/hackfest-dev/hackathon-api/internal/verify"
)

type verifyRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type verifyResult struct {
	Type     string        `json:"type"`
	URL      string        `json:"url"`
	Result   verify.Result `json:"result"`
	Verified bool          `json:"verified"`
	Message  string        `json:"message"`
}

// Verify handles POST /api/profiles/verify. All probe outcomes answer
// 200 with a result field: an unreachable upstream is an outcome of
// the check, not a failure of this endpoint, mirroring how the form
// treats probe errors as UI state. Callers may retry freely; the check
// has no side effects.
func Verify(verifier *verify.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err(response.MsgInvalidVerification))
			return
		}
		if req.Type != types.ProfileGitHub && req.Type != types.ProfileLinkedIn {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err(response.MsgInvalidVerification))
			return
		}

		result := verifier.Verify(r.Context(), req.Type, req.URL)
		slog.Info("profile check",
			slog.String("type", req.Type),
			slog.String("result", string(result)),
		)

		response.WriteJSON(w, http.StatusOK, response.OK(verifyResult{
			Type:     req.Type,
			URL:      req.URL,
			Result:   result,
			Verified: result == verify.Verified,
			Message:  resultMessage(req.Type, result),
		}))
	}
}

func resultMessage(kind string, result verify.Result) string {
	if kind == types.ProfileLinkedIn && result == verify.Verified {
		// The LinkedIn probe cannot see the real response; say so
		// instead of implying a strong guarantee.
		return "LinkedIn URL accepted (best-effort check)"
	}
	switch result {
	case verify.Verified:
		return "GitHub profile found"
	case verify.NotFound:
		return "GitHub profile not found"
	case verify.Unreachable:
		return "Error connecting to GitHub API"
	case verify.InvalidURL:
		if kind == types.ProfileLinkedIn {
			return "Not a valid LinkedIn URL"
		}
		return "Not a valid GitHub profile URL"
	}
	return ""
}
