// Package participant contains the HTTP handlers for the participant
// resource. Handlers are factories: each takes its dependencies and
// returns the closure the router registers, so the HTTP layer stays
// free of globals and tests can inject fakes.
package participant

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hackfest-dev/hackathon-api/internal/query"
	"github.com/hackfest-dev/hackathon-api/internal/stats"
	"github.com/hackfest-dev/hackathon-api/internal/storage"
	"github.com/hackfest-dev/hackathon-api/internal/types"
	"github.com/hackfest-dev/hackathon-api/internal/utils/response"
	"github.com/hackfest-dev/hackathon-api/internal/validation"
)

// MsgDuplicateEmail is the conflict message for a repeated email.
const MsgDuplicateEmail = "A participant with this email already exists"

// New handles POST /api/participants: validate the submission, then
// create. 201 with the stored record on success; 400 with the full
// validation message list or the duplicate-email message.
func New(store storage.Storage, engine *validation.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a participant")

		var sub types.Submission
		err := json.NewDecoder(r.Body).Decode(&sub)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("request body is empty"))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("invalid request body"))
			return
		}

		normalized, msgs := engine.Validate(sub)
		if len(msgs) > 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationErrs(msgs))
			return
		}

		created, err := store.CreateParticipant(r.Context(), normalized)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.Err(MsgDuplicateEmail))
				return
			}
			slog.Error("error creating participant", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Err(response.MsgServerError))
			return
		}

		slog.Info("participant created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(created))
	}
}

// GetList handles GET /api/participants: filtered, paginated listing
// ordered by registration time, most recent first.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing participants")

		filter, page := query.Compose(r.URL.Query())

		total, err := store.CountParticipants(r.Context(), filter)
		if err != nil {
			slog.Error("error counting participants", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Err(response.MsgServerError))
			return
		}

		participants, err := store.GetParticipants(r.Context(), filter, page.Limit, page.Offset())
		if err != nil {
			slog.Error("error listing participants", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Err(response.MsgServerError))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.List{
			Success:    true,
			Count:      len(participants),
			Pagination: query.Paginate(page, len(participants), total),
			Data:       participants,
		})
	}
}

// GetByID handles GET /api/participants/{id}. A non-integer id is 400,
// a missing record 404 — "you typo'd the id" vs "it used to exist".
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		p, err := store.GetParticipantByID(r.Context(), id)
		if err != nil {
			writeLookupError(w, id, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(p))
	}
}

// Update handles PUT /api/participants/{id}: a partial patch merged
// over the stored record and re-validated against the same rules as
// creation, so a patch can never produce an invalid full record.
// verification_status is untouched regardless of the payload.
func Update(store storage.Storage, engine *validation.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a participant", slog.Int64("id", id))

		body, err := io.ReadAll(r.Body)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("invalid request body"))
			return
		}
		if len(body) == 0 {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("request body is empty"))
			return
		}

		existing, err := store.GetParticipantByID(r.Context(), id)
		if err != nil {
			writeLookupError(w, id, err)
			return
		}

		// Unmarshal over the stored values: only fields present in
		// the patch are overwritten.
		sub := types.SubmissionFromParticipant(existing)
		if err := json.Unmarshal(body, &sub); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("invalid request body"))
			return
		}

		normalized, msgs := engine.Validate(sub)
		if len(msgs) > 0 {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationErrs(msgs))
			return
		}

		updated, err := store.UpdateParticipantByID(r.Context(), id, normalized)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateEmail) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.Err(MsgDuplicateEmail))
				return
			}
			writeLookupError(w, id, err)
			return
		}

		slog.Info("participant updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// Delete handles DELETE /api/participants/{id}. Success returns an
// empty data object.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a participant", slog.Int64("id", id))

		if err := store.DeleteParticipantByID(r.Context(), id); err != nil {
			writeLookupError(w, id, err)
			return
		}

		slog.Info("participant deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(struct{}{}))
	}
}

// verifyRequest is the body of the staff verify operation.
type verifyRequest struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// VerifyStatus handles PUT /api/participants/{id}/verify: the
// staff-controlled, status-only mutation. The kind/status pair is
// validated as an enumerated pair before any lookup.
func VerifyStatus(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err(response.MsgInvalidVerification))
			return
		}
		if !validKind(req.Type) ||
			(req.Status != types.VerificationVerified && req.Status != types.VerificationRejected) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err(response.MsgInvalidVerification))
			return
		}

		p, err := store.SetVerificationStatus(r.Context(), id, req.Status)
		if err != nil {
			writeLookupError(w, id, err)
			return
		}

		slog.Info("verification status set",
			slog.Int64("id", id),
			slog.String("type", req.Type),
			slog.String("status", req.Status),
		)
		response.WriteJSON(w, http.StatusOK, response.OK(p))
	}
}

// sectionResult is the payload of the per-section validation endpoint.
type sectionResult struct {
	Section string   `json:"section"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors"`
}

// ValidateSection handles POST /api/participants/validate?section=N:
// stateless per-section validation backing the multi-step form. The
// call never stores anything.
func ValidateSection(engine *validation.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("section"))
		if err != nil || n < int(validation.SectionPersonal) || n > int(validation.SectionReview) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("Invalid section"))
			return
		}

		var sub types.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Err("invalid request body"))
			return
		}

		section := validation.Section(n)
		msgs := engine.ValidateSection(sub, section)
		if msgs == nil {
			msgs = []string{}
		}
		response.WriteJSON(w, http.StatusOK, response.OK(sectionResult{
			Section: section.String(),
			Valid:   len(msgs) == 0,
			Errors:  msgs,
		}))
	}
}

// GetStats handles GET /api/stats.
func GetStats(agg *stats.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("computing registration stats")

		report, err := agg.Compute(r.Context())
		if err != nil {
			slog.Error("error computing stats", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Err(response.MsgServerError))
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(report))
	}
}

func validKind(kind string) bool {
	return kind == types.ProfileGitHub || kind == types.ProfileLinkedIn
}

// parseID extracts and parses the {id} path segment, answering 400 on
// a malformed identifier so it never collides with 404.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Err(response.MsgInvalidID))
		return 0, false
	}
	return id, true
}

// writeLookupError maps store lookup failures: ErrNotFound → 404,
// anything else → logged 500 with a generic body.
func writeLookupError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound,
			response.Err(response.MsgNotFound))
		return
	}
	slog.Error("participant store error",
		slog.Int64("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError,
		response.Err(response.MsgServerError))
}
