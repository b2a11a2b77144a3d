package infrastructure

import (
	"context"
	"time"

	pipelinedomain "cockpit/internal/pipeline/domain"
	sharedinfra "cockpit/internal/shared/infrastructure"
	stagingdomain "cockpit/internal/staging/domain"
)

// CachedStore décore un Store: Load mémorisé par identifiant de passage ETL
type CachedStore struct {
	inner stagingdomain.Store
	cache sharedinfra.Cache
	ttl   time.Duration
}

// NewCachedStore crée un store avec cache
func NewCachedStore(inner stagingdomain.Store, cache sharedinfra.Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, cache: cache, ttl: ttl}
}

func (s *CachedStore) key(m stagingdomain.Manifest) string {
	return sharedinfra.NewCacheKey("staging").Add(string(m.Format)).Add(m.RunID).Build()
}

// Save délègue puis invalide le cache
func (s *CachedStore) Save(ctx context.Context, tables []*pipelinedomain.Table, manifest stagingdomain.Manifest) error {
	s.cache.Clear()
	return s.inner.Save(ctx, tables, manifest)
}

// Load retourne le dataset en cache pour le passage courant
// Sans manifeste lisible, le cache est contourné.
func (s *CachedStore) Load(ctx context.Context) (*pipelinedomain.Dataset, error) {
	manifest, err := s.inner.Manifest(ctx)
	if err != nil || manifest.RunID == "" {
		return s.inner.Load(ctx)
	}

	key := s.key(manifest)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*pipelinedomain.Dataset), nil
	}

	dataset, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, dataset, s.ttl)
	return dataset, nil
}

// Manifest délègue au store décoré
func (s *CachedStore) Manifest(ctx context.Context) (stagingdomain.Manifest, error) {
	return s.inner.Manifest(ctx)
}
