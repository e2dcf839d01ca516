package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type ClientCounter interface {
	Count() int
}

type HealthController struct {
	db    Pinger
	redis *redis.Client
	chat  ClientCounter
}

// NewHealthController takes a nil redis client when rate limiting is off.
func NewHealthController(db Pinger, rdb *redis.Client, chat ClientCounter) *HealthController {
	return &HealthController{db: db, redis: rdb, chat: chat}
}

func probeStatus(err error) string {
	if err != nil {
		return "down"
	}
	return "up"
}

func (ctl *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	var dbErr, redisErr error
	var g errgroup.Group
	g.Go(func() error {
		dbErr = ctl.db.Ping(ctx)
		return nil
	})
	if ctl.redis != nil {
		g.Go(func() error {
			redisErr = ctl.redis.Ping(ctx).Err()
			return nil
		})
	}
	_ = g.Wait()

	status, code := "ok", http.StatusOK
	if dbErr != nil || redisErr != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	body := gin.H{
		"status":       status,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"db":           probeStatus(dbErr),
		"chat_clients": ctl.chat.Count(),
	}
	if ctl.redis != nil {
		body["redis"] = probeStatus(redisErr)
	} else {
		body["redis"] = "disabled"
	}
	c.JSON(code, body)
}
