package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc  service.UserService
	opts Options
}

func NewUserHandler(svc service.UserService, opts Options) *UserHandler {
	return &UserHandler{svc: svc, opts: opts.withDefaults()}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Register)
	rg.GET("/me", middleware.RequireAuth(), h.Me)
	rg.POST("/set_password", middleware.RequireAuth(), h.SetPassword)
	rg.GET("/:id", h.Get)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	user, err := h.svc.Register(ctx, req.ToInput())
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToRegisterResponse(user))
}

func (h *UserHandler) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	views, total, err := h.svc.List(ctx, middleware.ViewerFrom(c), page)
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}

	results := make([]dto.UserResponse, 0, len(views))
	for _, v := range views {
		results = append(results, dto.FromViewToUserResponse(v))
	}
	page = page.Normalize(h.opts.PageSize)
	c.JSON(http.StatusOK, dto.NewPage(results, total, page.Page, page.Limit, requestURL(c)))
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := h.opts.context(c)
	defer cancel()

	view, err := h.svc.Get(ctx, middleware.ViewerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromViewToUserResponse(*view))
}

func (h *UserHandler) Me(c *gin.Context) {
	ctx, cancel := h.opts.context(c)
	defer cancel()

	view, err := h.svc.Me(ctx, middleware.ViewerFrom(c))
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromViewToUserResponse(*view))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx, cancel := h.opts.context(c)
	defer cancel()

	if err := h.svc.SetPassword(ctx, middleware.ViewerFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.opts.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
