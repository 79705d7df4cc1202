package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/course-portal/internal/coursestore"
	"github.com/noah-isme/course-portal/internal/localstore"
	"github.com/noah-isme/course-portal/internal/portal"
	"github.com/noah-isme/course-portal/internal/session"
	"github.com/noah-isme/course-portal/pkg/cache"
	"github.com/noah-isme/course-portal/pkg/config"
	"github.com/noah-isme/course-portal/pkg/logger"
	"github.com/noah-isme/course-portal/pkg/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdin, os.Stdout, openRuntime, term.IsTerminal(int(os.Stdin.Fd())))
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openRuntime wires configuration, identity and the course store client.
func openRuntime(c *cli.Context, confirm portal.Confirmer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if url := strings.TrimRight(c.String("store-url"), "/"); url != "" {
		if cfg.Portal.AssignmentsURL == cfg.Portal.StoreURL {
			cfg.Portal.AssignmentsURL = url
		}
		cfg.Portal.StoreURL = url
	}
	if token := c.String("token"); token != "" {
		cfg.Portal.Token = token
	}

	logr, err := logger.NewCLI(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tokens := session.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	identity, err := session.Resolve(cfg, session.Identity{
		Role:       session.Role(c.String("role")),
		Name:       c.String("name"),
		RollNumber: c.String("roll"),
	})
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.Portal.LocalStore == config.LocalStoreRedis {
		redisClient, err = cache.NewRedis(c.Context, cfg.Redis)
		if err != nil {
			return nil, err
		}
	}
	closeAll := func() error {
		_ = logr.Sync()
		if redisClient != nil {
			return redisClient.Close()
		}
		return nil
	}

	flags, err := localstore.Open(c.Context, cfg, namespaceOf(identity), redisClient, logr)
	if err != nil {
		_ = closeAll()
		return nil, err
	}

	client, err := coursestore.New(coursestore.ConfigFrom(cfg.Portal), nil, logr)
	if err != nil {
		_ = closeAll()
		return nil, err
	}
	if identity.Token != "" {
		client = client.WithToken(identity.Token)
	}

	exports, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("init export storage: %w", err)
	}

	logr.Debug("portal ready",
		zap.String("store", cfg.Portal.StoreURL),
		zap.String("role", string(identity.Role)),
		zap.String("local_store", cfg.Portal.LocalStore),
	)

	p := portal.New(client, identity, portal.Options{
		Confirm:  confirm,
		Flags:    flags,
		Exports:  exports,
		Logger:   logr,
		PageSize: cfg.Portal.PageSize,
	})
	return &runtime{cfg: cfg, logger: logr, tokens: tokens, portal: p, close: closeAll}, nil
}

// namespaceOf scopes local flags to one actor so shared backends do not mix students.
func namespaceOf(id session.Identity) string {
	switch {
	case id.RollNumber != "":
		return strings.ToLower(id.RollNumber)
	case id.Name != "":
		return strings.ToLower(id.Name)
	default:
		return "anonymous"
	}
}
