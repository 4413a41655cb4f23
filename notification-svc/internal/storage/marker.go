package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// MarkerStore is the Redis-backed idempotency marker keyed by event ID, the same idiom
// rate-svc's RedisCache uses for review markers — here re-pointed at domain event delivery
// instead of review submissions.
type MarkerStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewMarkerStore(client *redis.Client, ttl time.Duration) *MarkerStore {
	return &MarkerStore{Client: client, TTL: ttl}
}

func (s *MarkerStore) markerKey(eventID string) string {
	return "notif:processed:" + eventID
}

// Exists reports whether this event has already been delivered (spec §4.2: subscribers must be
// idempotent keyed by event.ID).
func (s *MarkerStore) Exists(ctx context.Context, eventID string) (bool, error) {
	res, err := s.Client.Exists(ctx, s.markerKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (s *MarkerStore) SetMarker(ctx context.Context, eventID string) error {
	return s.Client.Set(ctx, s.markerKey(eventID), "1", s.TTL).Err()
}
