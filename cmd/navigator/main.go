package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joelkehle/solution-navigator/internal/assessment"
	"github.com/joelkehle/solution-navigator/internal/webapp"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	webDir := flag.String("web-dir", "web", "Directory with static frontend assets")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("navigator dotenv_load_error err=%q", err.Error())
	}

	generator, err := assessment.NewAnthropicGeneratorFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	metrics := webapp.NewMetrics(prometheus.NewRegistry())
	research := metrics.InstrumentResearch(assessment.NewResearchClientFromEnv())
	notifier := assessment.NewNotifierFromEnv()
	if !notifier.Enabled() {
		log.Printf("navigator notifications_disabled reason=missing_config")
	}
	pipeline := assessment.NewPipeline(research, assessment.NewClient(generator), notifier)

	handler := webapp.NewServer(pipeline, *webDir, metrics)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("navigator starting addr=%s model=%s", *addr, generator.ModelName())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
