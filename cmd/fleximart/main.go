package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fleximart/internal/config"
	"fleximart/internal/metrics"
	"fleximart/internal/metrics/datadog"
	"fleximart/internal/metrics/prompush"
	"fleximart/internal/pipeline"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "fleximart/internal/storage/all"
)

// main is the entry point for the fleximart binary. It loads the run config,
// optionally initializes a metrics backend, and executes one pipeline run.
func main() {
	var (
		cfgPath        string
		dataDir        string
		storageKind    string
		dsn            string
		region         string
		metricsBackend string
		pushGatewayURL string
		statsdAddr     string
		validate       bool
	)

	flag.StringVar(&cfgPath, "config", "", "run config JSON path (empty uses built-in defaults)")
	flag.StringVar(&dataDir, "data", "", "override the data directory")
	flag.StringVar(&storageKind, "backend", "", "override the storage backend (postgres, mysql, sqlite, mssql)")
	flag.StringVar(&dsn, "dsn", "", "override the storage connection string")
	flag.StringVar(&region, "region", "", "override the default phone-number region")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddr, "statsd-addr", "", "DogStatsD address for the datadog backend")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	logger := log.New(os.Stderr, "fleximart ", log.LstdFlags)

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
	}

	// Flags win over the config file.
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if storageKind != "" {
		cfg.Storage.Kind = storageKind
	}
	if dsn != "" {
		cfg.Storage.DSN = dsn
	}
	if region != "" {
		cfg.Region = region
	}
	if metricsBackend != "" {
		cfg.Metrics.Backend = normalizeMetricsName(metricsBackend)
	}
	if pushGatewayURL != "" {
		cfg.Metrics.PushgatewayURL = pushGatewayURL
	}
	if statsdAddr != "" {
		cfg.Metrics.StatsdAddr = statsdAddr
	}

	issues := config.ValidatePipeline(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		logger.Printf("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		logger.Printf("configuration is valid")
		os.Exit(0)
	}

	setupMetrics(cfg, logger, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			logger.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	sum, err := pipeline.New(cfg, logger).Run(ctx)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	if *verbose {
		logger.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	if len(sum.Failed) > 0 {
		logger.Printf("run finished with failed stages: %v", sum.Failed)
		os.Exit(1)
	}
}

// normalizeMetricsName maps the CLI spelling onto config values.
func normalizeMetricsName(name string) string {
	if name == "pushgateway" {
		return "prompush"
	}
	return name
}

// setupMetrics installs the configured metrics backend; on any failure the
// default no-op backend stays in place.
func setupMetrics(cfg config.Pipeline, logger *log.Logger, verbose bool) {
	switch cfg.Metrics.Backend {
	case "prompush":
		gwURL := cfg.Metrics.PushgatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		b, err := prompush.NewBackend(cfg.Job, gwURL)
		if err != nil {
			logger.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		logger.Printf("metrics: backend=pushgateway url=%s job=%s", gwURL, cfg.Job)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      cfg.Metrics.StatsdAddr,
			Namespace: "fleximart.",
		})
		if err != nil {
			logger.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		logger.Printf("metrics: backend=datadog addr=%s", cfg.Metrics.StatsdAddr)
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			logger.Printf("metrics: disabled")
		}

	default:
		logger.Printf("metrics: unknown backend %q; metrics disabled", cfg.Metrics.Backend)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
