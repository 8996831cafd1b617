package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// TagHandler serves /api/tags. Writes are admin only.
type TagHandler struct {
	svc  service.CatalogService
	opts Options
}

func NewTagHandler(svc service.CatalogService, opts Options) *TagHandler {
	return &TagHandler{svc: svc, opts: opts.withDefaults()}
}

func (h *TagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

func (h *TagHandler) List(c *gin.Context) {
	ctx, cancel := h.opts.context(c)
	defer cancel()

	tags, err := h.svc.ListTags(ctx)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	resp := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, dto.FromModelToTagResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TagHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	tag, err := h.svc.GetTag(ctx, id)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTagResponse(*tag))
}

func (h *TagHandler) Create(c *gin.Context) {
	var req dto.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	tag, err := h.svc.CreateTag(ctx, req.ToInput())
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToTagResponse(*tag))
}

func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	if err := h.svc.DeleteTag(ctx, id); err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// IngredientHandler serves /api/ingredients, the product catalog.
type IngredientHandler struct {
	svc  service.CatalogService
	opts Options
}

func NewIngredientHandler(svc service.CatalogService, opts Options) *IngredientHandler {
	return &IngredientHandler{svc: svc, opts: opts.withDefaults()}
}

func (h *IngredientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
	rg.GET("/:id", h.Get)
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
}

// Search lists products whose name starts with ?name=, ignoring case
func (h *IngredientHandler) Search(c *gin.Context) {
	ctx, cancel := h.opts.context(c)
	defer cancel()

	products, err := h.svc.SearchProducts(ctx, c.Query("name"))
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, dto.FromModelToProductResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	product, err := h.svc.GetProduct(ctx, id)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToProductResponse(*product))
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	product, err := h.svc.CreateProduct(ctx, req.ToInput())
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToProductResponse(*product))
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	if err := h.svc.DeleteProduct(ctx, id); err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
