package handler

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// MembershipHandler exposes the favorite and shopping cart toggles of a recipe.
type MembershipHandler struct {
	favorites service.MembershipService
	cart      service.MembershipService
	opts      Options
}

func NewMembershipHandler(favorites, cart service.MembershipService, opts Options) *MembershipHandler {
	return &MembershipHandler{favorites: favorites, cart: cart, opts: opts.withDefaults()}
}

func (h *MembershipHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := middleware.RequireAuth()
	rg.POST("/:id/favorite", auth, h.add(h.favorites))
	rg.DELETE("/:id/favorite", auth, h.remove(h.favorites))
	rg.POST("/:id/shopping_cart", auth, h.add(h.cart))
	rg.DELETE("/:id/shopping_cart", auth, h.remove(h.cart))
}

func (h *MembershipHandler) add(svc service.MembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		ctx, cancel := h.opts.context(c)
		defer cancel()

		view, err := svc.Add(ctx, middleware.ViewerFrom(c), id)
		if err != nil {
			respondError(c, h.opts.Log, err)
			return
		}
		c.JSON(http.StatusCreated, dto.FromModelToRecipeToggleResponse(*view, h.opts.MediaURL))
	}
}

func (h *MembershipHandler) remove(svc service.MembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		ctx, cancel := h.opts.context(c)
		defer cancel()

		if err := svc.Remove(ctx, middleware.ViewerFrom(c), id); err != nil {
			respondError(c, h.opts.Log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
