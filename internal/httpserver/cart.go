package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"dancehub-storefront/internal/cart"
	"dancehub-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	Type     string  `json:"type"`
	ItemID   int64   `json:"itemId" binding:"required"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL *string `json:"imageUrl"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"itemCount"`
	Total     float64           `json:"total"`
}

func getCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		items, err := svc.Items(c.Request.Context(), sess)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "cart unavailable"})
			return
		}
		count, total, err := svc.Summary(c.Request.Context(), sess)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "cart unavailable"})
			return
		}
		if items == nil {
			items = []domain.CartItem{}
		}
		c.JSON(http.StatusOK, cartResponse{Items: items, ItemCount: count, Total: total})
	}
}

// addCartItemHandler captures title, price and image from the catalog when
// the caller sends only an item reference. Captured values stick with the
// line; they are not re-fetched later.
func addCartItemHandler(svc *cart.Service, resources resourceReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "itemId required"})
			return
		}

		if req.Title == "" || req.Price == "" {
			res, err := resources.GetByID(c.Request.Context(), req.ItemID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"message": "resource not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "catalog unavailable"})
				return
			}
			if req.Title == "" {
				req.Title = res.Title
			}
			if req.Price == "" {
				req.Price = res.Price
			}
			if req.ImageURL == nil {
				req.ImageURL = res.ImageURL
			}
		}

		item, err := svc.AddItem(c.Request.Context(), currentSession(c), cart.AddInput{
			Type:     req.Type,
			ItemID:   req.ItemID,
			Title:    req.Title,
			Price:    req.Price,
			Quantity: req.Quantity,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "item was not added"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func updateCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity required"})
			return
		}
		if err := svc.UpdateQuantity(c.Request.Context(), currentSession(c), id, *req.Quantity); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "quantity was not updated"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item id"})
			return
		}
		if err := svc.RemoveItem(c.Request.Context(), currentSession(c), id); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "item was not removed"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentSession(c)); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "cart was not cleared"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
