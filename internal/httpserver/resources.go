package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/plan"
	"github.com/gin-gonic/gin"
)

func listResourcesHandler(resources resourceReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := resources.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "catalog unavailable"})
			return
		}
		if list == nil {
			list = []domain.Resource{}
		}
		c.JSON(http.StatusOK, gin.H{"resources": list})
	}
}

func getResourceHandler(resources resourceReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid resource id"})
			return
		}
		res, err := resources.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "resource not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// entitlementHandler lets the UI ask whether the current session may render
// a feature gated at the given level. The decision is recomputed on every
// request from the session's current plan.
func entitlementHandler(gate *plan.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		required, err := plan.ParseLevel(c.Param("level"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		message := c.Query("message")
		if message == "" {
			message = "This feature requires a higher subscription."
		}
		c.JSON(http.StatusOK, gate.Evaluate(currentSession(c).SubscriptionPlan, required, message))
	}
}
