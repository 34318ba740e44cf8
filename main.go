// Command streamwatch performs one live-status pass over a roster of Twitch
// channels and persists the result as a JSON snapshot:
//   - Loads configuration and initializes structured logging.
//   - Reads the channel roster spreadsheet.
//   - Fetches (or reuses) a client-credentials app token.
//   - Queries the Helix streams endpoint in batches of up to 100 logins.
//   - Overwrites the snapshot file with the channels reported live.
//
// Each invocation is a single pass; repetition is an external scheduler's
// job (cron, systemd timer). Exit code 0 covers success and the empty-roster
// no-op; any fatal step exits 1 and leaves the previous snapshot on disk.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/onnwee/streamwatch/config"
	"github.com/onnwee/streamwatch/live"
	"github.com/onnwee/streamwatch/roster"
	"github.com/onnwee/streamwatch/snapshot"
	"github.com/onnwee/streamwatch/telemetry"
	"github.com/onnwee/streamwatch/twitchapi"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	telemetry.Init()

	// Optional OpenTelemetry tracing (requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("streamwatch", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// Root context: a signal mid-run cancels in-flight HTTP work.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())

	if err := run(ctx, cfg); err != nil {
		telemetry.LoggerWithCorr(ctx).Error("run failed", slog.Any("err", err))
		shutdown()
		os.Exit(1)
	}
}

// run executes one full pass: roster -> token -> batched queries -> snapshot.
func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	log := telemetry.LoggerWithCorr(ctx)
	ctx, span := telemetry.StartSpan(ctx, "streamwatch", "run")
	defer span.End()

	logins, err := roster.Load(cfg.RosterPath)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if telemetry.RosterSizeGauge != nil {
		telemetry.RosterSizeGauge.Set(float64(len(logins)))
	}
	if len(logins) == 0 {
		log.Warn("no eligible channels in roster; nothing to check", slog.String("roster", cfg.RosterPath))
		telemetry.SetSpanSuccess(span)
		return nil
	}
	log.Info("roster loaded", slog.Int("channels", len(logins)), slog.String("roster", cfg.RosterPath))

	// Fetch the app token up front so an authentication failure aborts the
	// run before any streams query is issued.
	ts := &twitchapi.TokenSource{
		ClientID:     cfg.Credentials.ClientID,
		ClientSecret: cfg.Credentials.ClientSecret,
	}
	tctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	tok, err := ts.Get(tctx)
	cancel()
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if telemetry.TokenRefreshes != nil {
		telemetry.TokenRefreshes.Inc()
	}
	if len(tok) > 6 {
		log.Info("twitch app token acquired", slog.String("tail", "***"+tok[len(tok)-6:]))
	}

	checker := &live.Checker{
		Helix: &twitchapi.HelixClient{
			AppTokenSource: ts,
			ClientID:       cfg.Credentials.ClientID,
		},
		Limiter: rate.NewLimiter(rate.Limit(cfg.HelixRPS), 1),
	}
	records := checker.Check(ctx, logins)
	if telemetry.LiveChannelsGauge != nil {
		telemetry.LiveChannelsGauge.Set(float64(len(records)))
	}

	snap, err := snapshot.Write(cfg.OutputPath, records)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	log.Info("snapshot written",
		slog.Int("live", len(snap.Live)),
		slog.String("output", cfg.OutputPath),
		slog.Duration("took", time.Since(start)))

	if telemetry.RunDuration != nil {
		telemetry.RunDuration.Observe(time.Since(start).Seconds())
	}
	if err := telemetry.WriteTextfile(cfg.MetricsTextfile); err != nil {
		log.Warn("metrics textfile write failed", slog.Any("err", err))
	}
	telemetry.SetSpanSuccess(span)
	return nil
}
