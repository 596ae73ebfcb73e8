package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rosflow/engine/engine/cache"
	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/clock"
	"github.com/rosflow/engine/engine/config"
	"github.com/rosflow/engine/engine/graphstore"
	"github.com/rosflow/engine/engine/httpclient"
)

// buildCache selects and constructs the configured capability.Cache
// backend. memory is the config default; file, lru, and redis each
// need the corresponding CacheConfig field set.
func buildCache(cfg config.CacheConfig) (capability.Cache, error) {
	switch cfg.Backend {
	case "memory":
		return cache.NewMemory(), nil
	case "file":
		return cache.NewFile(cfg.Dir)
	case "lru":
		return cache.NewLRU(cfg.Size)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedis(client, "rosflow:cache:"), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// buildCapabilities builds the four capability fields of
// executor.Capabilities from cfg: the selected cache backend, a fresh
// in-memory graph store, a resty-backed HTTP client bound to the
// configured timeout, and the system clock. The Metrics field is left
// unset.
func buildCapabilities(cfg config.Config) (cacheCap capability.Cache, graph capability.GraphStore, http capability.Http, clk capability.Clock, err error) {
	cacheCap, err = buildCache(cfg.Cache)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	graph = graphstore.New()
	http = httpclient.NewWithTimeout(cfg.HTTPTimeout())
	clk = clock.New()
	return cacheCap, graph, http, clk, nil
}
