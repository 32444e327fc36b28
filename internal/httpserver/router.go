package httpserver

import (
	"context"
	"log"

	"dancehub-storefront/internal/cart"
	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/plan"
	"dancehub-storefront/internal/reconcile"
	custsvc "dancehub-storefront/internal/service/customer"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type customerService interface {
	Signup(ctx context.Context, in custsvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	UpdatePlan(ctx context.Context, customerID, planID string) error
	AccessTTLSeconds() int
}

type guestService interface {
	Issue(ctx context.Context) (token, guestID string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
}

type resourceReader interface {
	List(ctx context.Context) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

type reconciler interface {
	Sweep(ctx context.Context, customerID, guestID string) (reconcile.Result, error)
}

// Deps carries the wired services the router needs.
type Deps struct {
	CustomerSvc  customerService
	GuestSvc     guestService
	CartSvc      *cart.Service
	Reconciler   reconciler
	ResourceRepo resourceReader
	Gate         *plan.Gate
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/guest", guestTokenHandler(deps.GuestSvc))
	router.POST("/signup", signupHandler(deps.CustomerSvc))
	router.POST("/login", loginHandler(logger, deps.CustomerSvc, deps.GuestSvc, deps.Reconciler))

	router.GET("/resources", listResourcesHandler(deps.ResourceRepo))
	router.GET("/resources/:id", getResourceHandler(deps.ResourceRepo))

	withSession := router.Group("/", sessionMiddleware(deps.CustomerSvc, deps.GuestSvc))

	cartGroup := withSession.Group("/cart", requireSession())
	cartGroup.GET("", getCartHandler(deps.CartSvc))
	cartGroup.POST("/items", addCartItemHandler(deps.CartSvc, deps.ResourceRepo))
	cartGroup.PATCH("/items/:id", updateCartItemHandler(deps.CartSvc))
	cartGroup.DELETE("/items/:id", removeCartItemHandler(deps.CartSvc))
	cartGroup.DELETE("", clearCartHandler(deps.CartSvc))

	withSession.PUT("/account/subscription", requireSession(), updatePlanHandler(deps.CustomerSvc))
	withSession.GET("/entitlements/:level", entitlementHandler(deps.Gate))
	withSession.GET("/library", requirePlan(deps.Gate, plan.Premium, "Premium unlocks the full curriculum library"), listResourcesHandler(deps.ResourceRepo))

	return router, nil
}
