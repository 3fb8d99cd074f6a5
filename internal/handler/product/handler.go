// Package product exposes the retail catalog endpoints.
package product

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/product"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Handler struct {
	products *product.Service
}

func NewHandler(products *product.Service) *Handler {
	return &Handler{products: products}
}

// List returns non-deleted products; ?category= narrows to one catalog
// category.
func (h *Handler) List(c *gin.Context) {
	var (
		items []model.Product
		err   error
	)
	if category := c.Query("category"); category != "" {
		items, err = h.products.ListByCategory(c.Request.Context(), model.ProductCategory(category))
	} else {
		items, err = h.products.ListActive(c.Request.Context())
	}
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, items)
}

func (h *Handler) ListPaginated(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		handler.BindError(c, err)
		return
	}

	page, err := h.products.ListPage(c.Request.Context(), bson.M{"isDeleted": false}, p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, page)
}

func (h *Handler) Get(c *gin.Context) {
	item, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, item)
}

func (h *Handler) Search(c *gin.Context) {
	var criteria model.SearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		handler.BindError(c, err)
		return
	}

	items, err := h.products.Search(c.Request.Context(), criteria)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusCreated, item)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	item, err := h.products.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, item)
}

func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.products.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !ok {
		handler.Error(c, apperrors.NotFound("product"))
		return
	}
	c.Status(http.StatusNoContent)
}
