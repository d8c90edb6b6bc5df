package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"gift-advisor/internal/domain"
	"gift-advisor/internal/infra/logging"
	"gift-advisor/internal/usecase"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply string   `json:"reply"`
	Chips []string `json:"chips"`
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// chatHandler runs one conversation turn. Malformed bodies are rejected
// before any store or provider access.
func chatHandler(chatUC usecase.ChatUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request body", nil)
			return
		}
		if fields := validateChatRequest(&req); len(fields) > 0 {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request", fields)
			return
		}

		res, err := chatUC.SendMessage(ctx, req.SessionID, req.Message)
		if err != nil {
			l := logging.With(ctx, log)
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid request", nil)
			case errors.Is(err, domain.ErrStoreUnavailable):
				l.Error().Err(err).Msg("history store failure")
				writeError(w, http.StatusServiceUnavailable, "STORE_ERROR", "conversation history is unavailable", nil)
			case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrEmptyCompletion):
				l.Error().Err(err).Msg("completion provider failure")
				writeError(w, http.StatusServiceUnavailable, "PROVIDER_ERROR", "recommendation service is unavailable", nil)
			default:
				l.Error().Err(err).Msg("chat failed")
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "something went wrong", nil)
			}
			return
		}

		chips := res.Chips
		if chips == nil {
			chips = []string{}
		}
		writeJSON(w, http.StatusOK, chatResponse{Reply: res.Reply, Chips: chips})
	}
}

// healthHandler reports liveness. It touches no dependencies: the process
// being up is the whole contract.
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func validateChatRequest(req *chatRequest) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "required"
	}
	if strings.TrimSpace(req.SessionID) == "" {
		fields["session_id"] = "required"
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	body.Error.Fields = fields
	writeJSON(w, status, body)
}
