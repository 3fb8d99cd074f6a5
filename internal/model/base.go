package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base contains the fields shared by every stored entity. The id is assigned
// by the service on insert and never changes afterwards.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
	IsDeleted bool               `bson:"isDeleted" json:"is_deleted"`
}

func (b *Base) GetID() primitive.ObjectID      { return b.ID }
func (b *Base) SetID(id primitive.ObjectID)    { b.ID = id }
func (b *Base) StampCreated(now time.Time)     { b.CreatedAt, b.UpdatedAt = now, now }
func (b *Base) StampUpdated(now time.Time)     { b.UpdatedAt = now }

// Pagination carries the query parameters of paginated listings. Page numbers
// are 1-based.
type Pagination struct {
	Page      int    `form:"page,default=1" json:"page"`
	PageSize  int    `form:"page_size,default=20" json:"page_size"`
	OrderBy   string `form:"order_by" json:"order_by"`
	Ascending bool   `form:"ascending,default=true" json:"ascending"`
}

// PagedResult is the envelope of a paginated listing.
type PagedResult[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// SearchCriteria is the body of POST /{entity}/search.
type SearchCriteria struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}
