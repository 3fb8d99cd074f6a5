// Package treatment manages the clinic's procedure catalog.
package treatment

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/entity"
	"github.com/yarachoice/clinic-api/internal/validation"
)

var sortFields = map[string]string{
	"name":             "name",
	"category":         "category",
	"price":            "price",
	"duration_minutes": "durationMinutes",
	"created_at":       "createdAt",
}

var searchFields = map[string]string{
	"name":     "name",
	"category": "category",
}

type Service struct {
	*entity.Service[model.Treatment, *model.Treatment]
}

func NewService(store entity.Store[model.Treatment], validator *validation.Validator, logger zerolog.Logger) *Service {
	return &Service{
		Service: entity.NewService[model.Treatment](store, validator, "treatment", sortFields, searchFields, logger),
	}
}

// ListActive returns non-deleted treatments.
func (s *Service) ListActive(ctx context.Context) ([]model.Treatment, error) {
	return s.List(ctx, bson.M{"isDeleted": false})
}

// ListByCategory returns non-deleted treatments in one procedure category.
func (s *Service) ListByCategory(ctx context.Context, category model.TreatmentCategory) ([]model.Treatment, error) {
	return s.List(ctx, bson.M{"isDeleted": false, "category": category})
}

func (s *Service) Create(ctx context.Context, req *model.CreateTreatmentRequest) (*model.Treatment, error) {
	t := &model.Treatment{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		DurationMinutes:   req.DurationMinutes,
		Price:             req.Price,
		RequiredEquipment: req.RequiredEquipment,
		PreRequisites:     req.PreRequisites,
		AfterCare:         req.AfterCare,
		Risks:             req.Risks,
		ImageURL:          req.ImageURL,
	}
	return s.Insert(ctx, t)
}

// Update merges the request onto the stored treatment and re-validates.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateTreatmentRequest) (*model.Treatment, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(t)
	return s.Replace(ctx, id, t)
}
