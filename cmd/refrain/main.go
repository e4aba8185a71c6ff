// Command refrain reads generated Japanese prose, rewrites unwanted
// repetition, and writes the cleaned text to stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/yomogi-ai/refrain/internal/config"
	"github.com/yomogi-ai/refrain/internal/health"
	"github.com/yomogi-ai/refrain/internal/observe"
	"github.com/yomogi-ai/refrain/internal/suppress"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file (defaults apply when empty)")
	character := flag.String("character", "", "speaker name used to pick per-character settings")
	stream := flag.Bool("stream", false, "process stdin line by line instead of as one document")
	watch := flag.Bool("watch", false, "reload the config file on change (stream mode only)")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on (e.g. :9090); disabled when empty")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "refrain: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "refrain: %v\n", err)
			}
			return 1
		}
		cfg = loaded
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	slog.Info("refrain starting",
		"config", *configPath,
		"log_level", cfg.LogLevel,
		"characters", len(cfg.Characters),
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "refrain",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Engines ───────────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	engines, err := buildEngines(cfg, reg)
	if err != nil {
		slog.Error("failed to build suppression engines", "err", err)
		return 1
	}

	// ── Metrics and probe endpoints ───────────────────────────────────────────
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		health.New().
			Add("config", func(context.Context) error { return config.Validate(cfg) }).
			Add("engines", func(context.Context) error {
				if engines.shared == nil {
					return errors.New("shared engine not built")
				}
				return nil
			}).
			Register(mux)

		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server error", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("metrics server shutdown error", "err", err)
			}
		}()
		slog.Info("serving metrics", "addr", *metricsAddr)
	}

	if *stream {
		if err := runStream(ctx, *configPath, engines, reg, *character, *watch); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("stream error", "err", err)
			return 1
		}
		return 0
	}
	if *watch {
		slog.Warn("-watch has no effect without -stream")
	}

	if err := runBatch(ctx, engines, *character, flag.Args()); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	return 0
}

// version is set at build time via -ldflags.
var version = "dev"

// ── Engine wiring ─────────────────────────────────────────────────────────────

// engineSet holds the shared engine plus one engine per configured character.
type engineSet struct {
	shared      *suppress.Engine
	byCharacter map[string]*suppress.Engine
}

// For returns the engine for character, falling back to the shared engine
// for unknown or empty names.
func (s *engineSet) For(character string) *suppress.Engine {
	if eng, ok := s.byCharacter[character]; ok {
		return eng
	}
	return s.shared
}

// buildEngines constructs the shared engine and per-character overrides from
// cfg. Character alternative tables layer over the shared table, which in
// turn layers over the built-in one.
func buildEngines(cfg *config.Config, reg *config.Registry) (*engineSet, error) {
	norm, err := reg.Create(cfg.Normalizer)
	if err != nil {
		return nil, fmt.Errorf("create normalizer: %w", err)
	}

	baseOpts := func() []suppress.Option {
		opts := []suppress.Option{suppress.WithObserver(observe.DefaultMetrics())}
		if norm != nil {
			opts = append(opts, suppress.WithNormalizer(norm))
		}
		if len(cfg.Alternatives) > 0 {
			opts = append(opts, suppress.WithAlternatives(cfg.Alternatives))
		}
		return opts
	}

	shared, err := suppress.New(cfg.Suppressor, baseOpts()...)
	if err != nil {
		return nil, fmt.Errorf("shared engine: %w", err)
	}

	set := &engineSet{
		shared:      shared,
		byCharacter: make(map[string]*suppress.Engine, len(cfg.Characters)),
	}
	for _, ch := range cfg.Characters {
		engineCfg := cfg.Suppressor
		if ch.Suppressor != nil {
			engineCfg = *ch.Suppressor
		}
		opts := baseOpts()
		if len(ch.Alternatives) > 0 {
			opts = append(opts, suppress.WithAlternatives(ch.Alternatives))
		}
		eng, err := suppress.New(engineCfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("engine for character %q: %w", ch.Name, err)
		}
		set.byCharacter[ch.Name] = eng
		slog.Debug("character engine built", "character", ch.Name, "overrides", ch.Suppressor != nil)
	}
	return set, nil
}

// ── Batch mode ────────────────────────────────────────────────────────────────

// runBatch suppresses stdin (no arguments) or the named files. Files are
// processed concurrently and their outputs written to stdout in argument
// order.
func runBatch(ctx context.Context, engines *engineSet, character string, paths []string) error {
	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		out := suppressText(ctx, engines.For(character), character, "stdin", string(data))
		_, err = os.Stdout.WriteString(out)
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	outputs := make([]string, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %q: %w", path, err)
			}
			outputs[i] = suppressText(ctx, engines.For(character), character, path, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	for _, out := range outputs {
		if _, err := w.WriteString(out); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ── Stream mode ───────────────────────────────────────────────────────────────

// runStream suppresses stdin line by line, flushing each result as soon as
// it is ready. With -watch, the config file is polled in the background and
// the engines are rebuilt whenever it changes.
func runStream(ctx context.Context, configPath string, engines *engineSet, reg *config.Registry, character string, watch bool) error {
	var current atomic.Pointer[engineSet]
	current.Store(engines)

	if watch {
		if configPath == "" {
			slog.Warn("-watch requires -config; continuing without reload")
		} else {
			w, err := config.NewWatcher(configPath, func(old, new *config.Config) {
				d := config.Diff(old, new)
				if d.LogLevelChanged {
					slog.SetDefault(newLogger(d.NewLogLevel))
				}
				if !d.SuppressorChanged && !d.NormalizerChanged && !d.CharactersChanged {
					return
				}
				rebuilt, err := buildEngines(new, reg)
				if err != nil {
					slog.Warn("config reloaded but engines could not be rebuilt", "err", err)
					return
				}
				current.Store(rebuilt)
				slog.Info("suppression engines rebuilt",
					"suppressor_changed", d.SuppressorChanged,
					"characters_changed", d.CharactersChanged,
				)
			})
			if err != nil {
				return fmt.Errorf("config watcher: %w", err)
			}
			defer w.Stop()
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := suppressText(ctx, current.Load().For(character), character, "stream", scanner.Text())
		if _, err := out.WriteString(line + "\n"); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ── Suppression ───────────────────────────────────────────────────────────────

// suppressText runs one engine call inside a span and logs its metrics.
func suppressText(ctx context.Context, eng *suppress.Engine, character, source, text string) string {
	ctx, span := observe.StartSuppression(ctx, character)
	defer span.End()

	res := eng.SuppressCharacter(ctx, text, character)
	m := res.Metrics
	observe.Logger(ctx).Debug("text processed",
		"source", source,
		"input_runes", m.InputLength,
		"output_runes", m.OutputLength,
		"detected", m.PatternsDetected,
		"suppressed", m.PatternsSuppressed,
		"missed", m.DetectionMisses,
		"rhetorical_exceptions", m.RhetoricalExceptions,
		"compression_rate", m.CompressionRate,
		"success_rate", m.SuccessRate,
		"duration", m.ProcessingTime,
	)
	return res.Output
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
