package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/gu00col/ross-sub000/internal/auth"
	"github.com/gu00col/ross-sub000/internal/catalog"
	"github.com/gu00col/ross-sub000/internal/config"
	"github.com/gu00col/ross-sub000/internal/logging"
	"github.com/gu00col/ross-sub000/internal/middleware"
	"github.com/gu00col/ross-sub000/internal/objects"
	"github.com/gu00col/ross-sub000/internal/relay"
	"github.com/gu00col/ross-sub000/internal/store"
	"github.com/gu00col/ross-sub000/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logging.Log.Fatalf("Invalid config: %v", err)
	}
	logging.Setup(cfg.Log.Level)

	if err := catalog.Validate(); err != nil {
		logging.Log.Fatalf("Section catalog: %v", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logging.Log.Fatalf("Opening database: %v", err)
	}
	defer st.Close()

	if err := seedAdmin(cfg, st); err != nil {
		logging.Log.Fatalf("Seeding admin user: %v", err)
	}

	var uploader *objects.Uploader
	if cfg.Objects.Enabled {
		uploader, err = objects.New(cfg.Objects)
		if err != nil {
			logging.Log.Fatalf("Connecting to object storage: %v", err)
		}
		if err := uploader.EnsureBucket(context.Background()); err != nil {
			logging.Log.Fatalf("Ensuring bucket: %v", err)
		}
	}

	sessions := auth.NewManager(st, time.Duration(cfg.Session.TTLHours)*time.Hour)
	callbackURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/webhooks/analysis"
	rl := relay.New(cfg.Workflow, callbackURL)

	srv, err := web.NewServer(cfg, st, sessions, rl, uploader)
	if err != nil {
		logging.Log.Fatalf("Building server: %v", err)
	}

	router := mux.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	srv.Register(router)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Log.Infof("Starting contract analysis server on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logging.Log.Fatalf("Server shutdown error: %v", err)
	}
	logging.Log.Info("Server stopped")
}

// seedAdmin creates the initial account so a fresh deployment has a login.
// An existing account with the admin email is left untouched.
func seedAdmin(cfg *config.Config, st *store.Store) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}
	ctx := context.Background()

	_, err := st.UserByEmail(ctx, cfg.Admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	if _, err := st.CreateUser(ctx, cfg.Admin.Email, cfg.Admin.Name, hash); err != nil {
		return err
	}
	logging.Log.Infof("Seeded admin user %s", cfg.Admin.Email)
	return nil
}
