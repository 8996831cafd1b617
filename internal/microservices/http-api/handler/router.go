package handler

import (
	"net/http"
	"strings"
	"time"

	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Auth          service.AuthService
	Recipes       service.RecipeService
	Favorites     service.MembershipService
	ShoppingCart  service.MembershipService
	ShoppingList  service.ShoppingListService
	Users         service.UserService
	Subscriptions service.SubscriptionService
	Catalog       service.CatalogService
}

type RouterConfig struct {
	Options
	CORSOrigins []string
	Limiter     middleware.Limiter // nil disables throttling
	MediaRoot   string             // directory served under MediaURL when MediaURL is a path
}

// NewRouter mounts every handler under /api.
func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	opts := cfg.Options.withDefaults()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.MediaRoot != "" && strings.HasPrefix(opts.MediaURL, "/") {
		r.Static(strings.TrimSuffix(opts.MediaURL, "/"), cfg.MediaRoot)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if cfg.Limiter != nil {
		api.Use(middleware.RateLimit(cfg.Limiter))
	}
	api.Use(middleware.Authenticate(svc.Auth))

	recipes := api.Group("/recipes")
	NewShoppingListHandler(svc.ShoppingList, opts).RegisterRoutes(recipes)
	NewRecipeHandler(svc.Recipes, opts).RegisterRoutes(recipes)
	NewMembershipHandler(svc.Favorites, svc.ShoppingCart, opts).RegisterRoutes(recipes)

	users := api.Group("/users")
	NewUserHandler(svc.Users, opts).RegisterRoutes(users)
	NewSubscriptionHandler(svc.Subscriptions, opts).RegisterRoutes(users)

	NewTagHandler(svc.Catalog, opts).RegisterRoutes(api.Group("/tags"))
	NewIngredientHandler(svc.Catalog, opts).RegisterRoutes(api.Group("/ingredients"))

	return r
}
