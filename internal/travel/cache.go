package travel

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"mobispa/internal/availability"
)

// CachedOracle memoizes travel legs in Redis. Departure instants are
// bucketed to the hour so neighboring candidate slots share an entry.
// Cache problems fall through to the underlying oracle; only oracle
// failures propagate.
type CachedOracle struct {
	Next availability.Oracle
	RDB  *redis.Client
	TTL  time.Duration
}

func NewCachedOracle(next availability.Oracle, rdb *redis.Client, ttl time.Duration) *CachedOracle {
	return &CachedOracle{Next: next, RDB: rdb, TTL: ttl}
}

func (c *CachedOracle) TravelTime(ctx context.Context, origin, destination availability.Location, departure time.Time) (int, error) {
	key := legKey(origin, destination, departure)
	if minutes, err := c.RDB.Get(ctx, key).Int(); err == nil {
		return minutes, nil
	}

	minutes, err := c.Next.TravelTime(ctx, origin, destination, departure)
	if err != nil {
		return 0, err
	}
	if err := c.RDB.Set(ctx, key, minutes, c.TTL).Err(); err != nil {
		log.Printf("Travel cache set failed for %s: %v", key, err)
	}
	return minutes, nil
}

func legKey(origin, destination availability.Location, departure time.Time) string {
	return fmt.Sprintf("travel:%.5f,%.5f:%.5f,%.5f:%d",
		origin.Lat, origin.Lng, destination.Lat, destination.Lng,
		departure.Truncate(time.Hour).Unix())
}
