package handler

import (
	"errors"
	"fmt"
	"net/http"

	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/render"

	"github.com/gin-gonic/gin"
)

type ShoppingListHandler struct {
	svc  service.ShoppingListService
	opts Options
}

func NewShoppingListHandler(svc service.ShoppingListService, opts Options) *ShoppingListHandler {
	return &ShoppingListHandler{svc: svc, opts: opts.withDefaults()}
}

func (h *ShoppingListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/download_shopping_cart", middleware.RequireAuth(), h.Download)
}

// Download renders the aggregated basket as an attachment (format=txt|csv|pdf, txt by default)
func (h *ShoppingListHandler) Download(c *gin.Context) {
	ctx, cancel := h.opts.context(c)
	defer cancel()

	items, err := h.svc.Aggregate(ctx, middleware.ViewerFrom(c))
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}

	lines := make([]render.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, render.Line{Name: it.Name, Unit: it.Unit, Amount: it.TotalAmount})
	}

	doc, err := render.ShoppingList(c.Query("format"), lines)
	if errors.Is(err, render.ErrUnknownFormat) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "unsupported format",
			"fields": gin.H{"format": "choose one of txt, csv, pdf"},
		})
		return
	}
	if err != nil {
		respondError(c, h.opts.Log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
