package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/abraxas0001/E-Com-Cart/internal/logger"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, kind domain.Kind, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   kind.String(),
		Message: message,
	})
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError renders err by kind. Internal errors are logged and replaced
// with fallback so storage details never reach the client.
func handleError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, fallback string) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		logger.WithContext(r.Context(), log).Error(fallback, zap.Error(err))
		respondError(w, http.StatusInternalServerError, kind, fallback)
		return
	}

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	respondError(w, statusFor(kind), kind, message)
}
