package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
	"github.com/helpdesk-labs/mesa-ayuda/internal/cache"
	"github.com/helpdesk-labs/mesa-ayuda/internal/domain"
	"github.com/helpdesk-labs/mesa-ayuda/internal/repository"
	apperrors "github.com/helpdesk-labs/mesa-ayuda/pkg/util"
)

const statsCacheKey = "estadisticas:snapshot"

// StatsService serves the admin dashboard aggregation. With a zero TTL
// every read recomputes from the ticket store (staleness bound 0, the
// shipped behavior); a positive TTL bounds staleness via the Redis
// materialization. Cache misses and cache failures both recompute.
type StatsService struct {
	stats repository.StatsRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewStatsService builds the service.
func NewStatsService(stats repository.StatsRepository, cacheClient *cache.Client, ttl time.Duration) *StatsService {
	return &StatsService{stats: stats, cache: cacheClient, ttl: ttl}
}

// Snapshot returns the global counts. Admin only; there is no
// user-scoped statistics query.
func (s *StatsService) Snapshot(ctx context.Context, p auth.Principal) (*domain.Estadisticas, error) {
	if !p.IsAdmin() {
		return nil, apperrors.NewForbidden("se requiere rol de administrador")
	}

	if s.ttl > 0 {
		if raw, _ := s.cache.Get(ctx, statsCacheKey); raw != nil {
			var cached domain.Estadisticas
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.ttl > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, statsCacheKey, raw, s.ttl)
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot after a write.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.ttl > 0 {
		_ = s.cache.Delete(ctx, statsCacheKey)
	}
}
