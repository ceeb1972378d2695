// Package ratelimit throttles link creation per client IP.
package ratelimit

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const storePrefix = "tinylink:ratelimit"

// New builds a gin middleware enforcing rate, formatted like "60-M" or "5-S".
// When client is nil, counters live in process memory.
func New(rate string, client redis.UniversalClient) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: storePrefix})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: storePrefix})
	}

	instance := limiter.New(store, parsed)
	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(storeFailed),
	), nil
}

func limitReached(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
}

// storeFailed lets the request through when the limiter store is unavailable
func storeFailed(c *gin.Context, err error) {
	log.Printf("Rate limiter store error: %v", err)
	c.Next()
}
