package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired turns the token verified by jwtauth.Verifier into the authz subject of the
// request.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Missing access token")
				return
			}

			subject, err := jwtService.SubjectFromClaims(claims)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(authz.WithSubject(r.Context(), subject)))
		}
		return http.HandlerFunc(hfn)
	}
}
