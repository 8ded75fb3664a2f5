package middleware

import (
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"dodies-rest-api/pkg/apierror"
	"dodies-rest-api/pkg/response"
)

// Recovery is a middleware that recovers from panics. Like every other
// outcome of this API, a panic is answered as a success:false envelope
// with HTTP 200; the status code never differentiates.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())
				response.Fail(w, "", apierror.Internal("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
