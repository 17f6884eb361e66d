package health

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/cache"
	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/storage"
)

const checkInterval = 10 * time.Second
const checkTimeout = 8 * time.Second

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusUnknown   = "unknown"
)

// Checker is a periodic health checker
type Checker struct {
	Ctx      context.Context
	Storage  storage.Provider
	ImageID  string // Image ID to fetch from storage. Only needed for checking storage health
	Database database.Provider
	Cache    cache.Provider
	status   Status
	mutex    sync.RWMutex
	Log      *logger.Logger
}

// Status contains the healtcheck status
type Status struct {
	Healthy  bool   `json:"healthy"`
	Cache    string `json:"cache,omitempty"`
	Database string `json:"database,omitempty"`
	Storage  string `json:"storage,omitempty"`
}

// Run runs a check, then keeps checking in the background until Ctx is done
func (c *Checker) Run() {
	ticker := time.NewTicker(checkInterval)
	go func() {
		for {
			select {
			case <-ticker.C:
				c.runCheck()
			case <-c.Ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	c.runCheck()
}

// Status returns the status of the health checks
func (c *Checker) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.status
}

func (c *Checker) setStatus(status Status) {
	c.mutex.Lock()
	c.status = status
	c.mutex.Unlock()
}

func (c *Checker) runCheck() {
	ctx, cancel := context.WithTimeout(c.Ctx, checkTimeout)
	defer cancel()

	channel := make(chan Status, 1)
	go func() {
		c.check(ctx, channel)
	}()

	select {
	case <-ctx.Done():
		c.setStatus(c.initialStatus(false))
		c.Log.Errorw("healthcheck timed out")
	case status, ok := <-channel:
		if !ok {
			return
		}

		c.setStatus(status)
		if !status.Healthy {
			c.Log.Errorw("healthcheck error",
				"status", status,
			)
		}
	}
}

// initialStatus marks every configured dependency as unknown
func (c *Checker) initialStatus(healthy bool) Status {
	status := Status{
		Healthy: healthy,
	}
	if c.Database != nil {
		status.Database = statusUnknown
	}
	if c.Cache != nil {
		status.Cache = statusUnknown
	}
	if c.Storage != nil {
		status.Storage = statusUnknown
	}

	return status
}

func (c *Checker) check(ctx context.Context, channel chan Status) {
	defer close(channel)

	status := c.initialStatus(true)
	checks := []struct {
		enabled bool
		result  *string
		check   func(ctx context.Context) error
	}{
		{c.Database != nil, &status.Database, c.checkDatabase},
		{c.Cache != nil, &status.Cache, c.checkCache},
		{c.Storage != nil, &status.Storage, c.checkStorage},
	}

	for _, check := range checks {
		if ctx.Err() != nil {
			return
		}

		if !check.enabled {
			continue
		}

		if err := check.check(ctx); err != nil {
			status.Healthy = false
			*check.result = statusUnhealthy
		} else {
			*check.result = statusHealthy
		}
	}

	channel <- status
}

func (c *Checker) checkDatabase(ctx context.Context) error {
	images, err := c.Database.ListAll(ctx)
	if err != nil {
		return err
	}

	if len(images) == 0 {
		return errors.New("no images in catalog")
	}

	return nil
}

// checkCache expects a miss, any other result means the cache is broken
func (c *Checker) checkCache(ctx context.Context) error {
	if _, err := c.Cache.Get(ctx, "healthcheck"); err != cache.ErrNotFound {
		return errors.New("unexpected cache result")
	}

	return nil
}

func (c *Checker) checkStorage(ctx context.Context) error {
	data, err := c.Storage.Get(ctx, c.ImageID)
	if err != nil {
		return err
	}

	_, _, err = bmp.DecodeConfig(bytes.NewReader(data))
	return err
}
