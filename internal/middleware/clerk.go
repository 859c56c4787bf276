package middleware

import (
	"net/http"
	"time"

	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	"github.com/gin-gonic/gin"
)

// WrapHTTP adapts net/http middleware, such as Clerk's session header verification,
// to gin. The request the wrapped middleware passes on, with its enriched context,
// replaces the gin request. A middleware that answers itself aborts the chain; one
// that neither answers nor passes on lets the chain continue untouched.
func WrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if passed {
			c.Next()
			return
		}

		// gin buffers a bare WriteHeader, so a changed status also counts as an answer
		if c.Writer.Written() || c.Writer.Status() != http.StatusOK {
			c.Writer.WriteHeaderNow()
			c.Abort()
			return
		}
		c.Next()
	}
}

// ClerkSession verifies Clerk session tokens and stores their claims on the request
// context. A token that fails verification is left for the route's auth mode to judge,
// so public routes stay public and protected ones answer with the JSON error envelope.
func ClerkSession(keys *jwks.Client, leeway time.Duration) gin.HandlerFunc {
	return WrapHTTP(clerkhttp.WithHeaderAuthorization(
		clerkhttp.JWKSClient(keys),
		clerkhttp.Leeway(leeway),
		clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})),
	))
}
