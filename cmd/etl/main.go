package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/config"
	"StockPulse/internal/extractor"
	"StockPulse/internal/loader"
	"StockPulse/internal/pipeline"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/schema"
	"StockPulse/internal/transformer"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	daemon := flag.Bool("daemon", false, "keep running and trigger the pipeline on the daily schedule")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	state, err := extractor.LoadState(cfg.RawData.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] load fetch state: %v", err)
	}

	fetcher := extractor.NewAlphaVantageFetcher(cfg.API.BaseURL, cfg.API.Key, cfg.API.Function, cfg.API.RequestsPerMinute)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	sch := schema.AlphaVantage()
	ext := extractor.NewExtractor(fetcher, sch, state, cfg.RawData.Dir)
	tr := transformer.New(sch)

	ldr, err := loader.NewSQLiteLoader(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] init sqlite loader: %v", err)
	}
	defer ldr.Close()

	pipe := pipeline.New(ext, tr, ldr, cfg.Symbols)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*daemon {
		if err := pipe.Run(ctx); err != nil {
			log.Fatalf("[FATAL] pipeline run: %v", err)
		}
		return
	}

	sched := scheduler.NewScheduler(ctx, pipe)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing pipeline now")
		go sched.RunNow()
	}

	log.Println("[INFO] StockPulse is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
}
