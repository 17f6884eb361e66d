package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/DMarby/bandfilter/internal/cache"
	"github.com/DMarby/bandfilter/internal/tracing"
	"github.com/mediocregopher/radix/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "bandfilter:"

// Provider caches source images in redis
type Provider struct {
	client radix.Client
	tracer *tracing.Tracer
	ttl    time.Duration
}

// New connects a pool to address and checks that redis answers.
// Entries expire after ttl, or never when ttl is 0.
func New(ctx context.Context, tracer *tracing.Tracer, address string, poolSize int, ttl time.Duration) (*Provider, error) {
	cfg := radix.PoolConfig{
		Size: poolSize,
	}

	client, err := cfg.New(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	if err := client.Do(ctx, radix.Cmd(nil, "PING")); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return &Provider{
		client: client,
		tracer: tracer,
		ttl:    ttl,
	}, nil
}

func (p *Provider) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("cache.key", key),
	))
}

// Get returns the cached data for key, or cache.ErrNotFound
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := p.start(ctx, "redis.Get", key)
	defer span.End()

	var data []byte
	mn := radix.Maybe{Rcv: &data}
	if err := p.client.Do(ctx, radix.Cmd(&mn, "GET", keyPrefix+key)); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if mn.Null {
		return nil, cache.ErrNotFound
	}

	return data, nil
}

// Set stores data under key, expiring it after the provider's ttl
func (p *Provider) Set(ctx context.Context, key string, data []byte) error {
	ctx, span := p.start(ctx, "redis.Set", key)
	defer span.End()

	set := radix.FlatCmd(nil, "SET", keyPrefix+key, data)
	if p.ttl > 0 {
		set = radix.FlatCmd(nil, "SET", keyPrefix+key, data, "EX", strconv.Itoa(int(p.ttl.Seconds())))
	}

	if err := p.client.Do(ctx, set); err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}

// Shutdown closes the connection pool
func (p *Provider) Shutdown() {
	p.client.Close()
}
