package middleware

import (
	"net/http"
	"strings"

	apierrors "assesscli/internal/errors"
	"assesscli/internal/infrastructure"
)

// RequireContentType rejects mutating requests whose Content-Type is not in
// the allowed list. GET, HEAD and bodyless requests pass through.
func RequireContentType(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			ct := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(ct, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			problem := apierrors.NewProblemDetails(
				http.StatusUnsupportedMediaType,
				apierrors.TypeValidation,
				"Unsupported Media Type",
				"Content-Type must be one of: "+strings.Join(contentTypes, ", "),
				r.URL.Path,
			).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))
			writeProblem(w, problem)
		})
	}
}
