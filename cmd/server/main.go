package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tresraya/internal/api"
	"tresraya/internal/broadcast"
	"tresraya/internal/game"
	"tresraya/internal/store"
	"tresraya/internal/store/memory"
	redisstore "tresraya/internal/store/redis"
	"tresraya/internal/ws"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type config struct {
	bind          string
	port          int
	redisURL      string
	baseURL       string
	roomTTL       time.Duration
	sweepInterval time.Duration
	verbose       bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.roomTTL <= 0 {
		return errors.New("room-ttl must be positive")
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRESRAYA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Two-player tic-tac-toe room synchronization server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TRESRAYA_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TRESRAYA_PORT)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL; rooms live in memory when empty (env: TRESRAYA_REDIS_URL)")
	fs.StringVar(&cfg.baseURL, "base-url", "http://localhost:8080", "externally visible origin for join links (env: TRESRAYA_BASE_URL)")
	fs.DurationVar(&cfg.roomTTL, "room-ttl", store.DefaultRoomTTL, "inactivity window before rooms expire (env: TRESRAYA_ROOM_TTL)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", time.Minute, "janitor interval for the in-memory store (env: TRESRAYA_SWEEP_INTERVAL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: TRESRAYA_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func newRoomStore(ctx context.Context, cfg *config) (store.RoomStore, error) {
	if cfg.redisURL == "" {
		logrus.Info("Using in-memory room store")
		s := memory.NewStore(cfg.roomTTL)
		go s.RunJanitor(ctx, cfg.sweepInterval)
		return s, nil
	}

	opts, err := redis.ParseURL(cfg.redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logrus.WithField("addr", opts.Addr).Info("Using redis room store")
	return redisstore.NewStore(client, cfg.roomTTL, ""), nil
}

func serve(ctx context.Context, cfg *config) error {
	rooms, err := newRoomStore(ctx, cfg)
	if err != nil {
		return err
	}

	hub := broadcast.NewHub()
	local := game.NewService()
	handler := api.NewHandler(rooms, local, hub, cfg.baseURL)
	wsHandler := ws.NewHandler(rooms, hub)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	wsHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.bind, cfg.port),
		Handler: api.CORSMiddleware(mux),
	}

	errs := make(chan error, 1)
	go func() {
		logrus.WithField("addr", server.Addr).Info("Server starting")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := &config{}
	cmd := newCmd(cfg)
	cobra.OnInitialize(func() {
		if cfg.verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}
