package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/stalify/internal/core/domain"
	"github.com/ewilliams-labs/stalify/internal/core/ports"
	"github.com/ewilliams-labs/stalify/internal/core/services"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// dataResponse is the success envelope.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, errorResponse{Error: title, Message: message})
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// writeServiceError maps a service error onto a status code: caller mistakes
// are 400, a rejected upstream token 401, other upstream failures 502 and
// anything else 500. title names the failed operation.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, title string, err error) {
	var upstream *ports.UpstreamError
	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, title, err.Error())
	case errors.Is(err, ports.ErrUpstreamUnauthorized):
		writeError(w, http.StatusUnauthorized, title, "Spotify access token is invalid or expired")
	case errors.As(err, &upstream):
		h.logger.Error(title, zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, title, upstream.Error())
	default:
		h.logger.Error(title, zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, title, "Internal server error")
	}
}
