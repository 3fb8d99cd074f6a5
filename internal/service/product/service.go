// Package product manages the clinic's retail catalog.
package product

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/entity"
	"github.com/yarachoice/clinic-api/internal/validation"
)

var sortFields = map[string]string{
	"name":           "name",
	"category":       "category",
	"price":          "price",
	"stock_quantity": "stockQuantity",
	"created_at":     "createdAt",
}

var searchFields = map[string]string{
	"name":         "name",
	"category":     "category",
	"manufacturer": "manufacturer",
}

type Service struct {
	*entity.Service[model.Product, *model.Product]
}

func NewService(store entity.Store[model.Product], validator *validation.Validator, logger zerolog.Logger) *Service {
	return &Service{
		Service: entity.NewService[model.Product](store, validator, "product", sortFields, searchFields, logger),
	}
}

// ListActive returns non-deleted products.
func (s *Service) ListActive(ctx context.Context) ([]model.Product, error) {
	return s.List(ctx, bson.M{"isDeleted": false})
}

// ListByCategory returns non-deleted products in one catalog category.
func (s *Service) ListByCategory(ctx context.Context, category model.ProductCategory) ([]model.Product, error) {
	return s.List(ctx, bson.M{"isDeleted": false, "category": category})
}

func (s *Service) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	p := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Manufacturer:  req.Manufacturer,
		Ingredients:   req.Ingredients,
		Usage:         req.Usage,
		SideEffects:   req.SideEffects,
		ImageURL:      req.ImageURL,
	}
	return s.Insert(ctx, p)
}

// Update merges the request onto the stored product and re-validates.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(p)
	return s.Replace(ctx, id, p)
}
