// cmd/navdbc/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flightdata/navdbc/internal/config"
	"github.com/flightdata/navdbc/internal/logx"
	"github.com/flightdata/navdbc/internal/metrics"
	"github.com/flightdata/navdbc/internal/orchestrator"
	"github.com/flightdata/navdbc/internal/store"
)

func main() {
	configPath := flag.String("config", "navdbc.toml", "path to the run's TOML configuration file")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics at this address while the run executes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log := logx.New(cfg.Logging.Level, cfg.Logging.Dir, cfg.Logging.Quiet)

	st, err := store.Open(cfg.Store.Path, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer st.Close()

	reg := metrics.NewRegistry()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warnf("metrics server: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := orchestrator.New(cfg, st, log, reg)

	progress := func(current, total int, message string) bool {
		log.Infof("[%d/%d] %s", current, total, message)
		return true
	}
	errSink := func(sceneryArea, file, message string) {
		log.Warnf("%s: %s: %s", sceneryArea, file, message)
	}

	result, err := pipeline.Compile(ctx, progress, errSink)
	if err != nil {
		log.Errorf("compile failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("compile result: %s\n", result)
	if result != orchestrator.ResultOK {
		os.Exit(1)
	}
}
