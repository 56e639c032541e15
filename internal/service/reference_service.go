package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/payhub/payhub-backend/internal/config"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/payhub/payhub-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// referenceCacheTTL bounds staleness of cached reference lists. Mutations
// invalidate eagerly, so the TTL only matters when invalidation is missed.
const referenceCacheTTL = 10 * time.Minute

// ReferenceService serves the invoice type and payment status reference
// lists. Both change rarely and are read on every editor load, so they are
// cached in Redis with invalidation on write.
type ReferenceService struct {
	types    *repository.InvoiceTypeRepository
	statuses *repository.PaymentStatusRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(
	types *repository.InvoiceTypeRepository,
	statuses *repository.PaymentStatusRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ReferenceService {
	return &ReferenceService{
		types:    types,
		statuses: statuses,
		rdb:      rdb,
		log:      log.With().Str("component", "reference_service").Logger(),
	}
}

// ListInvoiceTypes returns all invoice types, cache-aside.
func (s *ReferenceService) ListInvoiceTypes(ctx context.Context) ([]model.InvoiceType, error) {
	key := config.CacheKey.InvoiceTypesKey()

	var cached []model.InvoiceType
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	types, err := s.types.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, types)
	return types, nil
}

// CreateInvoiceType creates an invoice type and invalidates the cache.
func (s *ReferenceService) CreateInvoiceType(ctx context.Context, t *model.InvoiceType) error {
	if err := s.types.Create(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx, config.CacheKey.InvoiceTypesKey())
	return nil
}

// UpdateInvoiceType updates an invoice type and invalidates the cache.
func (s *ReferenceService) UpdateInvoiceType(ctx context.Context, t *model.InvoiceType) error {
	if err := s.types.Update(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx, config.CacheKey.InvoiceTypesKey())
	return nil
}

// DeleteInvoiceType deletes an invoice type. Deletion fails at the database
// level while invoices or routes still reference the type.
func (s *ReferenceService) DeleteInvoiceType(ctx context.Context, id int) error {
	if err := s.types.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, config.CacheKey.InvoiceTypesKey())
	return nil
}

// ListPaymentStatuses returns all payment statuses, cache-aside.
func (s *ReferenceService) ListPaymentStatuses(ctx context.Context) ([]model.PaymentStatus, error) {
	key := config.CacheKey.PaymentStatusesKey()

	var cached []model.PaymentStatus
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	statuses, err := s.statuses.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, statuses)
	return statuses, nil
}

// CreatePaymentStatus creates a payment status and invalidates the cache.
func (s *ReferenceService) CreatePaymentStatus(ctx context.Context, st *model.PaymentStatus) error {
	if err := s.statuses.Create(ctx, st); err != nil {
		return err
	}
	s.invalidate(ctx, config.CacheKey.PaymentStatusesKey())
	return nil
}

// UpdatePaymentStatus updates a payment status and invalidates the cache.
func (s *ReferenceService) UpdatePaymentStatus(ctx context.Context, st *model.PaymentStatus) error {
	if err := s.statuses.Update(ctx, st); err != nil {
		return err
	}
	s.invalidate(ctx, config.CacheKey.PaymentStatusesKey())
	return nil
}

// DeletePaymentStatus deletes a payment status.
func (s *ReferenceService) DeletePaymentStatus(ctx context.Context, id int) error {
	if err := s.statuses.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, config.CacheKey.PaymentStatusesKey())
	return nil
}

// cacheGet loads a cached JSON value. Any cache error is treated as a miss.
func (s *ReferenceService) cacheGet(ctx context.Context, key string, dest any) bool {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Reference cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Reference cache entry corrupt")
		return false
	}
	return true
}

func (s *ReferenceService) cacheSet(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, payload, referenceCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Reference cache write failed")
	}
}

func (s *ReferenceService) invalidate(ctx context.Context, key string) {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Reference cache invalidation failed")
	}
}
