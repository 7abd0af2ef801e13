package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestlayout/internal/server"
	"github.com/matzehuels/nestlayout/pkg/cache"
	"github.com/matzehuels/nestlayout/pkg/observability"
	"github.com/matzehuels/nestlayout/pkg/pipeline"
)

// serveFlags are the options of the serve command.
type serveFlags struct {
	addr        string
	redisURL    string
	mongoURI    string
	mongoDB     string
	cachePrefix string
	noCache     bool
	timeout     time.Duration
	maxBody     int64
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

POST /v1/layout with {"graph": {...}, "options": {...}} returns the layout
result. Results are cached in Redis (--redis), MongoDB (--mongo) or the local
cache directory. Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", server.DefaultAddr, "listen address")
	fl.StringVar(&f.redisURL, "redis", "", "Redis URL for the layout cache (redis://host:6379/0)")
	fl.StringVar(&f.mongoURI, "mongo", "", "MongoDB URI for the layout cache")
	fl.StringVar(&f.mongoDB, "mongo-db", appName, "MongoDB database name")
	fl.StringVar(&f.cachePrefix, "cache-prefix", "", "prefix for cache keys in shared backends")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.DurationVar(&f.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	fl.Int64Var(&f.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.MarkFlagsMutuallyExclusive("redis", "mongo", "no-cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, f serveFlags) error {
	store, backend, err := c.serveCache(ctx, f)
	if err != nil {
		return err
	}

	var keyer cache.Keyer
	if f.cachePrefix != "" {
		keyer = cache.WithPrefix(nil, f.cachePrefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPrometheusHooks(reg)
	defer observability.Install(hooks)()

	srv := server.New(server.Config{
		Addr:           f.addr,
		MaxBodyBytes:   f.maxBody,
		RequestTimeout: f.timeout,
	}, runner, c.Logger, reg)

	printSuccess("Serving layouts")
	printKeyValue("Address", f.addr)
	printKeyValue("Cache", backend)
	printNewline()

	return srv.ListenAndServe(ctx)
}

// serveCache opens the cache backend selected by the flags and returns it
// with a short description for the banner.
func (c *CLI) serveCache(ctx context.Context, f serveFlags) (cache.Cache, string, error) {
	switch {
	case f.noCache:
		return c.localCache(true)
	case f.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, f.redisURL)
		if err != nil {
			return nil, "", err
		}
		return cache.NewCompressed(rc), "redis", nil
	case f.mongoURI != "":
		mc, err := cache.NewMongoCache(ctx, f.mongoURI, f.mongoDB)
		if err != nil {
			return nil, "", err
		}
		return cache.NewCompressed(mc), fmt.Sprintf("mongo (%s.%s)", f.mongoDB, cache.MongoCollection), nil
	}
	return c.localCache(false)
}
