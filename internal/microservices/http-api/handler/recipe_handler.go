package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	svc  service.RecipeService
	opts Options
}

func NewRecipeHandler(svc service.RecipeService, opts Options) *RecipeHandler {
	return &RecipeHandler{svc: svc, opts: opts.withDefaults()}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", middleware.RequireAuth(), h.Create)
	rg.PATCH("/:id", middleware.RequireAuth(), h.Update)
	rg.DELETE("/:id", middleware.RequireAuth(), h.Delete)
}

// List recipes, newest first, with optional author/tag/membership filters
func (h *RecipeHandler) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	q := service.RecipeQuery{
		PageRequest:        page,
		AuthorID:           c.Query("author"),
		OnlyFavorited:      queryFlag(c, "is_favorited"),
		OnlyInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		TagSlugs:           c.QueryArray("tags"),
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	views, total, err := h.svc.List(ctx, middleware.ViewerFrom(c), q)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}

	results := make([]dto.RecipeResponse, 0, len(views))
	for _, v := range views {
		results = append(results, dto.FromModelToRecipeResponse(v, h.opts.MediaURL))
	}
	page = page.Normalize(h.opts.PageSize)
	c.JSON(http.StatusOK, dto.NewPage(results, total, page.Page, page.Limit, requestURL(c)))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	view, err := h.svc.Get(ctx, middleware.ViewerFrom(c), id)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRecipeResponse(*view, h.opts.MediaURL))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	view, err := h.svc.Create(ctx, middleware.ViewerFrom(c), req.ToInput())
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToRecipeResponse(*view, h.opts.MediaURL))
}

// Update applies a partial update; ingredients and tags are replaced wholesale
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	view, err := h.svc.Update(ctx, middleware.ViewerFrom(c), id, req.ToInput())
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToRecipeResponse(*view, h.opts.MediaURL))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.ViewerFrom(c), id); err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
