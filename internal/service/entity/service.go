// Package entity is the generic CRUD engine the domain services compose. It
// owns validation-before-write, soft/hard delete, paginated-sorted listing
// and whitelisted regex search; domain packages contribute the per-entity
// field maps and side effects.
package entity

import (
	"context"
	"math"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/validation"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

const maxPageSize = 100

// Store is the document-store surface the engine needs. The mongo collection
// wrapper implements it; tests substitute an in-memory fake.
type Store[T any] interface {
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	FindAll(ctx context.Context, filter bson.M, sort bson.D) ([]T, error)
	FindPage(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	InsertOne(ctx context.Context, doc *T) error
	ReplaceByID(ctx context.Context, id primitive.ObjectID, doc *T) (bool, error)
	SetFields(ctx context.Context, filter bson.M, fields bson.M) (bool, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error)
	Exists(ctx context.Context, filter bson.M) (bool, error)
}

// Document constrains the entity pointer type to the identity/timestamp
// surface provided by model.Base.
type Document[T any] interface {
	*T
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	StampCreated(time.Time)
	StampUpdated(time.Time)
}

// Service is the generic engine for one entity type.
type Service[T any, PT Document[T]] struct {
	store     Store[T]
	validator *validation.Validator
	name      string
	// sortFields maps API order_by keys to bson field names; unknown keys
	// fall back to createdAt.
	sortFields map[string]string
	// searchFields maps API search fields to bson field names; unknown
	// fields fall back to id equality.
	searchFields map[string]string
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService[T any, PT Document[T]](
	store Store[T],
	validator *validation.Validator,
	name string,
	sortFields map[string]string,
	searchFields map[string]string,
	logger zerolog.Logger,
) *Service[T, PT] {
	return &Service[T, PT]{
		store:        store,
		validator:    validator,
		name:         name,
		sortFields:   sortFields,
		searchFields: searchFields,
		logger:       logger.With().Str("entity", name).Logger(),
		now:          time.Now,
	}
}

// FindOne returns the first match, or (nil, nil) when nothing matches.
func (s *Service[T, PT]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	doc, err := s.store.FindOne(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to find entity")
		return nil, apperrors.Internal(err)
	}
	return doc, nil
}

// Get loads by id, failing with NotFound when the id is absent or malformed.
func (s *Service[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound(s.name)
	}

	doc, err := s.store.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to get entity")
		return nil, apperrors.Internal(err)
	}
	if doc == nil {
		s.logger.Warn().Str("id", id).Msg("entity not found")
		return nil, apperrors.NotFound(s.name)
	}
	return doc, nil
}

// List returns every match of filter. Callers decide whether soft-deleted
// records are excluded by shaping the filter.
func (s *Service[T, PT]) List(ctx context.Context, filter bson.M) ([]T, error) {
	docs, err := s.store.FindAll(ctx, filter, bson.D{{Key: "createdAt", Value: 1}})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list entities")
		return nil, apperrors.Internal(err)
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

// ListPage returns one page plus the total match and page counts. Sorting
// applies before pagination, with a stable secondary sort on id.
func (s *Service[T, PT]) ListPage(ctx context.Context, filter bson.M, p model.Pagination) (*model.PagedResult[T], error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count entities")
		return nil, apperrors.Internal(err)
	}

	dir := 1
	if !p.Ascending {
		dir = -1
	}
	sortField, ok := s.sortFields[p.OrderBy]
	if !ok {
		sortField = "createdAt"
	}
	sort := bson.D{{Key: sortField, Value: dir}, {Key: "_id", Value: 1}}

	skip := int64(p.Page-1) * int64(p.PageSize)
	docs, err := s.store.FindPage(ctx, filter, sort, skip, int64(p.PageSize))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list entities page")
		return nil, apperrors.Internal(err)
	}
	if docs == nil {
		docs = []T{}
	}

	return &model.PagedResult[T]{
		Data:       docs,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.PageSize))),
	}, nil
}

// Insert validates, assigns identity and timestamps, and writes. On rule
// failure nothing is written.
func (s *Service[T, PT]) Insert(ctx context.Context, doc PT) (*T, error) {
	if err := s.validator.ValidateEntity(doc); err != nil {
		s.logger.Warn().Err(err).Msg("validation failed on insert")
		return nil, err
	}

	now := s.now().UTC()
	doc.SetID(primitive.NewObjectID())
	doc.StampCreated(now)

	if err := s.store.InsertOne(ctx, (*T)(doc)); err != nil {
		s.logger.Error().Err(err).Msg("failed to insert entity")
		return nil, apperrors.Internal(err)
	}

	s.logger.Info().Str("id", doc.GetID().Hex()).Msg("entity created")
	return (*T)(doc), nil
}

// Replace re-validates the merged document and swaps it in full. The caller
// loads via Get and merges the payload before calling; absent payload fields
// therefore retain their stored values.
func (s *Service[T, PT]) Replace(ctx context.Context, id string, doc PT) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound(s.name)
	}

	if err := s.validator.ValidateEntity(doc); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("validation failed on update")
		return nil, err
	}

	doc.StampUpdated(s.now().UTC())

	matched, err := s.store.ReplaceByID(ctx, oid, (*T)(doc))
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to replace entity")
		return nil, apperrors.Internal(err)
	}
	if !matched {
		s.logger.Warn().Str("id", id).Msg("entity not found for update")
		return nil, apperrors.NotFound(s.name)
	}

	s.logger.Info().Str("id", id).Msg("entity updated")
	return (*T)(doc), nil
}

// SoftDelete flips the deletion flag. A miss is reported as false, not an
// error; callers must check the boolean.
func (s *Service[T, PT]) SoftDelete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	matched, err := s.store.SetFields(ctx, bson.M{"_id": oid},
		bson.M{"isDeleted": true, "updatedAt": s.now().UTC()})
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to soft delete entity")
		return false, apperrors.Internal(err)
	}
	if !matched {
		s.logger.Warn().Str("id", id).Msg("entity not found for soft delete")
		return false, nil
	}

	s.logger.Info().Str("id", id).Msg("entity soft deleted")
	return true, nil
}

// HardDelete physically removes the document; irreversible.
func (s *Service[T, PT]) HardDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.NotFound(s.name)
	}

	deleted, err := s.store.DeleteByID(ctx, oid)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to hard delete entity")
		return apperrors.Internal(err)
	}
	if !deleted {
		s.logger.Warn().Str("id", id).Msg("entity not found for hard delete")
		return apperrors.NotFound(s.name)
	}

	s.logger.Info().Str("id", id).Msg("entity hard deleted")
	return nil
}

func (s *Service[T, PT]) Exists(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	return s.ExistsBy(ctx, bson.M{"_id": oid})
}

func (s *Service[T, PT]) ExistsBy(ctx context.Context, filter bson.M) (bool, error) {
	ok, err := s.store.Exists(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check entity existence")
		return false, apperrors.Internal(err)
	}
	return ok, nil
}

// Search matches a whitelisted field with a case-insensitive regex; unknown
// fields fall back to id equality.
func (s *Service[T, PT]) Search(ctx context.Context, criteria model.SearchCriteria) ([]T, error) {
	var filter bson.M
	if field, ok := s.searchFields[criteria.Field]; ok {
		filter = bson.M{field: primitive.Regex{
			Pattern: regexp.QuoteMeta(criteria.Value),
			Options: "i",
		}}
	} else {
		oid, err := primitive.ObjectIDFromHex(criteria.Value)
		if err != nil {
			return []T{}, nil
		}
		filter = bson.M{"_id": oid}
	}

	docs, err := s.store.FindAll(ctx, filter, bson.D{{Key: "createdAt", Value: 1}})
	if err != nil {
		s.logger.Error().Err(err).Str("field", criteria.Field).Msg("search failed")
		return nil, apperrors.Internal(err)
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}
