package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/academic-performance-api/pkg/errors"
)

const revokedTokenPrefix = "auth:revoked:"

// CacheRepository abstracts the key/value store backing the deny-list.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type revokedToken struct {
	UserID    string    `json:"userId"`
	RevokedAt time.Time `json:"revokedAt"`
}

// TokenRevocationService keeps revoked access token ids until the tokens would have expired anyway.
type TokenRevocationService struct {
	repo    CacheRepository
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewTokenRevocationService constructs a TokenRevocationService. A nil repo disables the deny-list.
func NewTokenRevocationService(repo CacheRepository, metrics *MetricsService, logger *zap.Logger) *TokenRevocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenRevocationService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Enabled indicates whether a backing store is configured.
func (s *TokenRevocationService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Revoke deny-lists tokenID until expiresAt. Tokens that already expired are ignored.
func (s *TokenRevocationService) Revoke(ctx context.Context, tokenID, userID string, expiresAt time.Time) error {
	if !s.Enabled() || tokenID == "" {
		return nil
	}
	now := s.now().UTC()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}
	return s.repo.Set(ctx, revokedTokenPrefix+tokenID, revokedToken{UserID: userID, RevokedAt: now}, ttl)
}

// IsRevoked reports whether tokenID has been deny-listed.
func (s *TokenRevocationService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !s.Enabled() || tokenID == "" {
		return false, nil
	}
	var entry revokedToken
	err := s.repo.Get(ctx, revokedTokenPrefix+tokenID, &entry)
	switch {
	case err == nil:
		s.metrics.RecordRevocationCheck(true, nil)
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.metrics.RecordRevocationCheck(false, nil)
		return false, nil
	default:
		s.metrics.RecordRevocationCheck(false, err)
		s.logger.Warn("token revocation lookup failed", zap.String("jti", tokenID), zap.Error(err))
		return false, err
	}
}
