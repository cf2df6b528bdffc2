package rest

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

type ctxKey int

const (
	tokenKey ctxKey = iota
	requestIDKey
)

const requestIDHeader = "X-Request-ID"

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireBearer rejects requests without a bearer token before next runs.
func (h *Handler) requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Access token required",
				"Send the Spotify access token as 'Authorization: Bearer <token>'")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), tokenKey, token)))
	}
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// RequestID returns the id assigned to the request by the outer middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// recoverJSON turns a panic in next into a logged 500 with the usual error body.
func recoverJSON(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.Error("panic serving request",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", RequestID(r.Context())),
				zap.StackSkip("stack", 2),
			)
			writeError(w, http.StatusInternalServerError, "Internal server error",
				"Something went wrong. Please try again.")
		}()
		next.ServeHTTP(w, r)
	})
}

// Wrap adds the cross-cutting layers around h: request ids, panic recovery,
// CORS for origins and a combined-format access log written to accessLog.
func Wrap(h http.Handler, origins []string, accessLog io.Writer, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
		handlers.AllowCredentials(),
	)
	wrapped := recoverJSON(cors(h), logger)
	if accessLog != nil {
		wrapped = handlers.CombinedLoggingHandler(accessLog, wrapped)
	}
	return withRequestID(wrapped)
}
