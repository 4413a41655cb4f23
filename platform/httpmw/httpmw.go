// Package httpmw holds the small set of HTTP helpers every service's router shares: JSON
// response writing, the error-taxonomy-to-status mapping (spec §7), and logging/recovery
// middleware in the teacher's printf-style log idiom.
package httpmw

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/foodcourt-platform/platform/apierr"
)

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteError maps err onto its taxonomy code and HTTP status (spec §6, §7). Unrecognized errors
// are logged and reported as Internal without leaking detail to the caller.
func WriteError(w http.ResponseWriter, err error) {
	if apiErr, ok := apierr.As(err); ok {
		WriteJSON(w, apiErr.HTTPStatus(), errorBody{
			Code:    string(apiErr.Code),
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return
	}
	log.Printf("[httpmw] unanticipated error: %v", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{
		Code:    string(apierr.Internal),
		Message: "internal error",
	})
}

// RequestLogger prints one line per request, mirroring the teacher's "[svc] ..." log prefix.
func RequestLogger(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Printf("[%s] %s %s (%s)", service, r.Method, r.URL.Path, time.Since(start))
		})
	}
}

// Recover converts a panic in a handler into a 500 instead of killing the process, matching
// the "never leak stack traces" rule of spec §7.
func Recover(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("[%s] panic handling %s %s: %v", service, r.Method, r.URL.Path, rec)
					WriteJSON(w, http.StatusInternalServerError, errorBody{
						Code:    string(apierr.Internal),
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"service":   service,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
