package data

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// Guard absorbs duplicate interaction deliveries and throttles poll creation.
// Slack retries unacknowledged actions, and a double-delivered vote click would
// otherwise toggle the vote twice.
type Guard struct {
	rdb *redis.Client
}

func NewGuard(rdb *redis.Client) *Guard {
	return &Guard{rdb: rdb}
}

// ClaimVote reserves a (poll, option, user) click for a short window. Returns
// false when the same click was already claimed. Fails open on redis errors.
func (g *Guard) ClaimVote(ctx context.Context, pollID, optionID uint64, user string) bool {
	key := fmt.Sprintf("dinopoll:vote:%d:%d:%s", pollID, optionID, user)
	ok, err := g.rdb.SetNX(ctx, key, 1, 2*time.Second).Result()
	if err != nil {
		log.Printf("redis: claim vote: %v", err)
		return true
	}
	return ok
}

// AllowCreate rate limits poll creation per user.
func (g *Guard) AllowCreate(ctx context.Context, user string) bool {
	key := "dinopoll:create:" + user
	ok, err := g.rdb.SetNX(ctx, key, 1, 10*time.Second).Result()
	if err != nil {
		log.Printf("redis: create limit: %v", err)
		return true
	}
	return ok
}
