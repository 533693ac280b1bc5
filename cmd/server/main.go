// Command server runs the product management API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/prodman/internal/api"
	"github.com/skillsenselab/prodman/internal/auth"
	"github.com/skillsenselab/prodman/internal/authz"
	"github.com/skillsenselab/prodman/internal/component"
	"github.com/skillsenselab/prodman/internal/config"
	"github.com/skillsenselab/prodman/internal/database"
	"github.com/skillsenselab/prodman/internal/identity"
	"github.com/skillsenselab/prodman/internal/logger"
	"github.com/skillsenselab/prodman/internal/product"
	"github.com/skillsenselab/prodman/internal/redis"
	"github.com/skillsenselab/prodman/internal/server"
	"github.com/skillsenselab/prodman/internal/storage"
	"github.com/skillsenselab/prodman/internal/util"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "prodman: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.Global()
	log.Info("Configuration loaded", map[string]interface{}{
		"environment": cfg.Environment,
		"version":     cfg.Version,
		"jwt_secret":  util.MaskSecret(cfg.Auth.Token.Secret, 4),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := component.NewRegistry(log)

	// Database.
	dbComponent := database.NewComponent(cfg.Database, log, &identity.User{}, &product.Product{})
	if err := registry.Register(dbComponent); err != nil {
		return err
	}

	// Redis, only when the revocation list (or anything else) needs it.
	var redisComponent *redis.Component
	if cfg.Redis.Enabled {
		redisComponent = redis.NewComponent(cfg.Redis, log)
		if err := registry.Register(redisComponent); err != nil {
			return err
		}
	}

	// HTTP server registers last so dependencies are up before it binds.
	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(log)
	if err := registry.Register(srv); err != nil {
		return err
	}

	if err := registry.StartAll(ctx); err != nil {
		_ = registry.StopAll(context.Background())
		return err
	}

	// Domain wiring happens after StartAll, once connections exist.
	tokens, err := auth.NewTokenService(cfg.Auth.Token)
	if err != nil {
		return err
	}
	hasher, err := auth.NewHasher(cfg.Auth.Password)
	if err != nil {
		return err
	}

	var revocation auth.RevocationList
	if cfg.Auth.Revocation.Backend == "redis" {
		revocation = auth.NewRedisRevocationList(redisComponent.Client().Unwrap(), cfg.Auth.Revocation, tokens.TTL())
	} else {
		revocation = auth.NewMemoryRevocationList()
	}

	files, err := storage.NewLocal(cfg.Storage)
	if err != nil {
		return err
	}

	users := identity.NewRepository(dbComponent.DB())
	products := product.NewRepository(dbComponent.DB())
	resolver := auth.NewResolver(tokens, revocation, users)

	router := &api.Router{
		Auth:      api.NewAuthHandler(users, tokens, resolver, hasher, log),
		Users:     api.NewUserHandler(users, files, log),
		Products:  api.NewProductHandler(products, files, log),
		Resolver:  resolver,
		Checker:   authz.NewRoleChecker(),
		Registry:  registry,
		StaticDir: files.BasePath(),
	}
	router.Register(srv.GinEngine())

	log.Info("Service ready", map[string]interface{}{
		"addr": srv.Addr(),
	})

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return registry.StopAll(shutdownCtx)
}
