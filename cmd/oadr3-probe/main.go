package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	internalsecrets "github.com/clean-energy-tools/openadr-3-client/internal/secrets"
	"github.com/clean-energy-tools/openadr-3-client/pkg/config"
	"github.com/clean-energy-tools/openadr-3-client/pkg/logger"
	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/notify"
	"github.com/clean-energy-tools/openadr-3-client/pkg/oadr3"
	"github.com/clean-energy-tools/openadr-3-client/pkg/secrets"
	"github.com/clean-energy-tools/openadr-3-client/pkg/utils"
	"github.com/clean-energy-tools/openadr-3-client/pkg/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	env := config.GetEnv("ENV", "dev")
	logger.Init(config.GetEnv("SERVICE_NAME", "oadr3-probe"), env, config.GetEnv("LOG_LEVEL", "info"))
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [oadr3-probe]...")

	// --- VTN configuration: secrets manager when a VTN name is given, env otherwise ---
	var cfg config.Config
	var err error
	if vtn := config.GetEnv("OADR3_VTN", ""); vtn != "" {
		awsProvider, err := secrets.NewAWSProvider(ctx, config.GetEnv("AWS_REGION", "us-east-2"))
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}

		configCache := secrets.NewCache[config.Config](config.GetEnvDuration("CACHE_TTL", time.Hour))
		stopCleaner := make(chan struct{})
		defer close(stopCleaner)
		go configCache.StartCleaner(config.GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute), stopCleaner)

		resolver := internalsecrets.NewResolver(logger.L(), env, awsProvider, configCache)
		if vtns, err := resolver.DiscoverVTNs(ctx); err != nil {
			logg.Warnw("failed to discover VTNs from AWS Secrets Manager", "error", err)
		} else {
			logg.Infow("discovered VTNs", "count", len(vtns), "vtns", vtns)
		}

		cfg, err = resolver.Resolve(ctx, vtn)
		if err != nil {
			logg.Fatalw("failed to resolve VTN config", "vtn", vtn, "error", err)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			logg.Fatalw("invalid configuration", "error", err)
		}
	}
	logg.Infow("vtn configured",
		"base_url", utils.MaskURL(cfg.BaseURL),
		"client_id", cfg.ClientID,
		"client_secret", utils.MaskSecret(cfg.ClientSecret))

	client, err := oadr3.NewClient(cfg, oadr3.WithLogger(logger.L()))
	if err != nil {
		logg.Fatalw("failed to create client", "error", err)
	}

	// --- Optional subscription callback receiver ---
	port := config.GetEnvInt("OADR3_NOTIFY_PORT", 0)
	var app *fiber.App
	if port > 0 {
		app = fiber.New(fiber.Config{
			ReadTimeout:  config.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: config.GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			BodyLimit:    config.GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
		})
		receiver := notify.NewReceiver(logger.L(), config.GetEnv("OADR3_NOTIFY_TOKEN", ""),
			func(_ context.Context, n notify.Notification) error {
				logg.Infow("notification", "object_type", n.ObjectType, "operation", n.Operation)
				return nil
			})
		notify.RegisterRoutes(app, "/oadr3/notify", receiver)

		go func() {
			logg.Infof("notification receiver listening on :%d", port)
			if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
				logg.Errorw("fiber.listen_failed", "error", err)
			}
		}()
	}

	if err := probe(ctx, client); err != nil {
		logg.Errorw("probe failed", "error", err)
		if app == nil {
			os.Exit(1)
		}
	}

	if app != nil {
		<-ctx.Done()
		logg.Info("shutting down...")
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}
}

// probe authenticates, lists programs and the events of each, and logs what it finds.
func probe(ctx context.Context, client *oadr3.Client) error {
	logg := logger.S()

	if err := client.Authenticate(ctx); err != nil {
		return err
	}
	if exp, ok := client.TokenExpiresAt(); ok {
		logg.Infow("token acquired", "expires_at", exp.Format(time.RFC3339))
	}

	limit := config.GetEnvInt("OADR3_PROBE_LIMIT", validation.MaxLimit)
	resp, err := client.SearchPrograms(ctx, model.ProgramQuery{SearchParams: validation.Page(0, limit)})
	if err != nil {
		return err
	}
	programs, err := resp.Result()
	if err != nil {
		return fmt.Errorf("search programs (status %d): %w", resp.Status, err)
	}
	logg.Infow("programs", "count", len(programs))

	for _, p := range programs {
		evResp, err := client.SearchEvents(ctx, p.ID, validation.Page(0, limit))
		if err != nil {
			return err
		}
		events, err := evResp.Result()
		if err != nil {
			logg.Warnw("search events failed", "program_id", p.ID, "status", evResp.Status, "error", err)
			continue
		}
		logg.Infow("program",
			"id", p.ID,
			"name", p.ProgramName,
			"retailer", p.RetailerName,
			"events", len(events))
		for _, e := range events {
			logg.Debugw("event", "id", e.ID, "name", e.EventName, "start", e.StartTime, "duration", e.Duration())
		}
	}
	return nil
}
