package httpserver

import (
	"errors"
	"log"
	"net/http"

	"dancehub-storefront/internal/reconcile"
	custsvc "dancehub-storefront/internal/service/customer"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	GuestToken string `json:"guestToken"`
}

type loginResponse struct {
	CustomerID   string            `json:"customerId"`
	Email        string            `json:"email"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int               `json:"expiresIn"`
	CartTransfer *reconcile.Result `json:"cartTransfer,omitempty"`
}

func guestTokenHandler(guests guestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, guestID, err := guests.Issue(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start guest session"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "guestId": guestID})
	}
}

func signupHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req custsvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid signup payload"})
			return
		}
		cust, err := customers.Signup(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, cust)
	}
}

// loginHandler authenticates the customer and, when the request carries a
// guest token, runs the one-time guest cart transfer at this boundary. A
// failed transfer does not fail the login; the response reports it and the
// guest cart stays intact for retry.
func loginHandler(logger *log.Logger, customers customerService, guests guestService, rec reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
			return
		}

		cust, access, refresh, err := customers.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, custsvc.ErrInvalidCredentials):
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			case errors.Is(err, custsvc.ErrRateLimited):
				c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many attempts, try again shortly"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
			}
			return
		}

		resp := loginResponse{
			CustomerID:   cust.ID,
			Email:        cust.Email,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    customers.AccessTTLSeconds(),
		}

		guestToken := req.GuestToken
		if guestToken == "" {
			guestToken = bearerToken(c.GetHeader("Authorization"))
		}
		if guestToken != "" {
			if guestID, err := guests.LookupByToken(c.Request.Context(), guestToken); err == nil {
				result, sweepErr := rec.Sweep(c.Request.Context(), cust.ID, guestID)
				if sweepErr != nil {
					logger.Printf("login: cart transfer customer=%s guest=%s: %v", cust.ID, guestID, sweepErr)
				}
				if result.Attempted > 0 {
					resp.CartTransfer = &result
				}
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

type updatePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

func updatePlanHandler(customers customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.Authenticated() {
			c.JSON(http.StatusForbidden, gin.H{"message": "customer session required"})
			return
		}
		var req updatePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid plan payload"})
			return
		}
		if err := customers.UpdatePlan(c.Request.Context(), sess.CustomerID, req.Plan); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
