package services

import (
	"context"
	"time"

	"github.com/PageVerify/verify-widget-backend/logger"
	"github.com/PageVerify/verify-widget-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthService reports the service's own health. The widget keeps no
// persistent state, so the only optional dependency to probe is the Redis
// instance backing the rate limiter.
type HealthService struct {
	redisClient *redis.Client
	upstream    string
	version     string
	startedAt   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService creates a health service. redisClient may be nil when
// rate limiting is disabled.
func NewHealthService(redisClient *redis.Client, upstream, version string) *HealthService {
	return &HealthService{
		redisClient: redisClient,
		upstream:    upstream,
		version:     version,
		startedAt:   time.Now().UTC(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	// The upstream endpoint is configuration, not a live dependency: we only
	// report its presence, never probe it, since every probe would look like
	// a submission to the receiving side.
	if h.upstream == "" {
		components["upstream"] = types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "No upstream endpoint configured",
		}
		overallStatus = types.HealthStatusDown
	} else {
		components["upstream"] = types.HealthComponent{Status: types.HealthStatusUp}
	}

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components["redis"] = redisStatus
		if redisStatus.Status == types.HealthStatusDown && overallStatus != types.HealthStatusDown {
			// Rate limiting degrades gracefully, so a Redis outage is not fatal.
			overallStatus = types.HealthStatusDegraded
		}
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
