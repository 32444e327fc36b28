package httpserver

import (
	"net/http"
	"strings"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/plan"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// sessionMiddleware resolves the bearer token to a customer or guest
// session. Requests without a usable token continue with an empty session;
// handlers that need one use requireSession.
func sessionMiddleware(customers customerService, guests guestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		if cust, err := customers.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(sessionKey, domain.Session{
				CustomerID:       cust.ID,
				SubscriptionPlan: cust.SubscriptionPlan,
			})
			c.Next()
			return
		}

		if guestID, err := guests.LookupByToken(c.Request.Context(), token); err == nil {
			c.Set(sessionKey, domain.Session{GuestID: guestID})
		}
		c.Next()
	}
}

func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(sessionKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "session required"})
			return
		}
		c.Next()
	}
}

// requirePlan gates a route on the session's subscription level. Denied
// requests get a 403 carrying the upgrade prompt payload.
func requirePlan(gate *plan.Gate, required plan.Level, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Evaluate(currentSession(c).SubscriptionPlan, required, message)
		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, decision)
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) domain.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(domain.Session); ok {
			return sess
		}
	}
	return domain.Session{}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
