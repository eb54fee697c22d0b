package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mytheresa/storefront/app"
	"github.com/mytheresa/storefront/app/admin"
	"github.com/mytheresa/storefront/app/auth"
	"github.com/mytheresa/storefront/app/catalog"
	"github.com/mytheresa/storefront/app/categories"
	"github.com/mytheresa/storefront/app/health"
	jwtauth "github.com/mytheresa/storefront/internal/auth"
	"github.com/mytheresa/storefront/internal/config"
	"github.com/mytheresa/storefront/internal/database"
	"github.com/mytheresa/storefront/internal/logger"
	"github.com/mytheresa/storefront/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var addr string
	var migrate bool

	flagSet := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	flagSet.StringVar(&addr, "addr", "", "listen address (overrides config)")
	flagSet.BoolVar(&migrate, "migrate", false, "create missing catalog tables before serving")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Address = addr
	}

	log := logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format)
	log.Info("starting storefront", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager := database.NewManager(database.Config{
		URL:                cfg.Database.URL,
		Driver:             cfg.Database.Driver,
		RequireTLS:         cfg.Database.RequireTLS,
		InsecureSkipVerify: cfg.Database.InsecureSkipVerify,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
	}, log)
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.ErrorWithErr("failed to close database pool", err)
		}
	}()

	pool, err := dbManager.Pool(ctx)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	schemaRepo := models.NewSchemaRepository(pool)
	if migrate {
		if err := schemaRepo.Migrate(ctx, false); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("catalog schema migrated")
	}

	issuer := jwtauth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router := app.NewRouter(app.Handlers{
		Categories: categories.NewCategoryHandler(models.NewCategoriesRepository(pool)),
		Catalog:    catalog.NewCatalogHandler(models.NewProductsRepository(pool)),
		Admin:      admin.NewAdminHandler(schemaRepo),
		Login:      auth.NewLoginHandler(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, issuer),
		Health:     health.NewHealthHandler(pool),
	}, issuer)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
