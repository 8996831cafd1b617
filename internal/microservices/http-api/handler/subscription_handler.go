package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	svc  service.SubscriptionService
	opts Options
}

func NewSubscriptionHandler(svc service.SubscriptionService, opts Options) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, opts: opts.withDefaults()}
}

// RegisterRoutes mounts on the /users group.
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := middleware.RequireAuth()
	rg.GET("/subscriptions", auth, h.List)
	rg.POST("/:id/subscribe", auth, h.Subscribe)
	rg.DELETE("/:id/subscribe", auth, h.Unsubscribe)
}

// List the authors the viewer follows, each with a preview of their newest recipes
func (h *SubscriptionHandler) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	recipesLimit := service.ParseRecipesLimit(c.Query("recipes_limit"))

	ctx, cancel := h.opts.context(c)
	defer cancel()

	views, total, err := h.svc.List(ctx, middleware.ViewerFrom(c), page, recipesLimit)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}

	results := make([]dto.AuthorWithRecipesResponse, 0, len(views))
	for _, v := range views {
		results = append(results, dto.FromViewToAuthorResponse(v, h.opts.MediaURL))
	}
	page = page.Normalize(h.opts.PageSize)
	c.JSON(http.StatusOK, dto.NewPage(results, total, page.Page, page.Limit, requestURL(c)))
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	recipesLimit := service.ParseRecipesLimit(c.Query("recipes_limit"))

	ctx, cancel := h.opts.context(c)
	defer cancel()

	view, err := h.svc.Subscribe(ctx, middleware.ViewerFrom(c), c.Param("id"), recipesLimit)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromViewToAuthorResponse(*view, h.opts.MediaURL))
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	ctx, cancel := h.opts.context(c)
	defer cancel()

	if err := h.svc.Unsubscribe(ctx, middleware.ViewerFrom(c), c.Param("id")); err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
