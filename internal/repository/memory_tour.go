package repository

import (
	"context"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// MemoryTourCatalog serves a fixed catalog. It is never written to after
// construction, so no locking is needed.
type MemoryTourCatalog struct {
	tours []model.Tour
}

func NewMemoryTourCatalog(tours []model.Tour) *MemoryTourCatalog {
	return &MemoryTourCatalog{tours: append([]model.Tour(nil), tours...)}
}

func (c *MemoryTourCatalog) List(_ context.Context) ([]model.Tour, error) {
	return append([]model.Tour(nil), c.tours...), nil
}

func (c *MemoryTourCatalog) Get(_ context.Context, id uint64) (model.Tour, error) {
	for _, t := range c.tours {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Tour{}, ErrTourNotFound
}

func (c *MemoryTourCatalog) GetBySlug(_ context.Context, slug string) (model.Tour, error) {
	for _, t := range c.tours {
		if t.Slug == slug {
			return t, nil
		}
	}
	return model.Tour{}, ErrTourNotFound
}
