package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/pkg/cache"
	"github.com/shashiranjanraj/storegraph/pkg/logger"
)

// CachedProductRepository serves FindByID from a read-through cache and
// drops the cached entry before and after every write to that product. A
// reader that fetched the old document before the write and stores it after
// the second delete can still leave it cached for up to the TTL.
type CachedProductRepository struct {
	ProductRepository
	store cache.Store
	ttl   time.Duration
}

func NewCachedProductRepository(next ProductRepository, store cache.Store, ttl time.Duration) *CachedProductRepository {
	return &CachedProductRepository{ProductRepository: next, store: store, ttl: ttl}
}

func productKey(id string) string { return "product:" + id }

func (r *CachedProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if r.store.Get(ctx, productKey(id), &p) {
		return &p, nil
	}

	found, err := r.ProductRepository.FindByID(ctx, id)
	if err != nil || found == nil {
		return found, err
	}

	if err := r.store.Set(ctx, productKey(id), found, r.ttl); err != nil {
		logger.WithCtx(ctx).Warn("product cache set failed", "id", id, "error", err)
	}
	return found, nil
}

func (r *CachedProductRepository) Update(ctx context.Context, id string, f models.ProductFields, returnAfter bool) (*models.Product, error) {
	r.forget(ctx, id)
	p, err := r.ProductRepository.Update(ctx, id, f, returnAfter)
	r.forget(ctx, id)
	return p, err
}

func (r *CachedProductRepository) Delete(ctx context.Context, id string) error {
	r.forget(ctx, id)
	err := r.ProductRepository.Delete(ctx, id)
	r.forget(ctx, id)
	return err
}

func (r *CachedProductRepository) forget(ctx context.Context, id string) {
	if err := r.store.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("product cache delete failed", "id", id, "error", err)
	}
}
