// Package entrypoint wires the application together and runs the local
// backend's blob-serving endpoint.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azeemi/sharebook/internal/config"
	"github.com/azeemi/sharebook/internal/images"
	"github.com/azeemi/sharebook/internal/janitor"
	"github.com/azeemi/sharebook/internal/localfile"
	"github.com/azeemi/sharebook/internal/remote/localstore"
	"github.com/azeemi/sharebook/internal/repository"
	"github.com/azeemi/sharebook/internal/usecase"
	"github.com/azeemi/sharebook/internal/viewstate"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App bundles the wired application for the UI layer: the state holders
// it renders from and the stores behind them.
type App struct {
	Auth    *viewstate.AuthState
	Books   *viewstate.BookState
	Profile *viewstate.ProfileState

	AuthUseCase *usecase.AuthUseCase
	BookUseCase *usecase.BookUseCase

	Store *localstore.Store
	Blobs *localstore.BlobStore
	Files *localfile.Store
}

// NewApp constructs the full dependency graph from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	store, err := localstore.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.Blobs.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	}
	blobs, err := localstore.NewBlobStore(cfg.Blobs.Dir, baseURL)
	if err != nil {
		return nil, err
	}

	files, err := localfile.NewStore(cfg.Images.LocalDir)
	if err != nil {
		return nil, err
	}

	docs := store.Documents()
	authClient := store.Auth(cfg.Auth.BcryptCost)
	processor := images.NewProcessor(cfg.Images.MaxDimension, cfg.Images.JPEGQuality)

	authRepo := repository.NewAuthRepository(authClient, docs, blobs)
	bookRepo := repository.NewBookRepository(docs, blobs, files, processor, cfg.Images.Persistence)

	authUseCase := usecase.NewAuthUseCase(authRepo)
	bookUseCase := usecase.NewBookUseCase(bookRepo)

	return &App{
		Auth:        viewstate.NewAuthState(authUseCase),
		Books:       viewstate.NewBookState(bookUseCase),
		Profile:     viewstate.NewProfileState(authUseCase),
		AuthUseCase: authUseCase,
		BookUseCase: bookUseCase,
		Store:       store,
		Blobs:       blobs,
		Files:       files,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	a.Auth.Close()
	if err := a.Store.Close(); err != nil {
		log.Printf("failed to close store: %v", err)
	}
}

// Serve runs the blob-serving endpoint until interrupted, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Serving blob storage at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown requested, waiting up to %v\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the app, starts the cover janitor and serves blob storage.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting ShareBook v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	sweeper := janitor.New(app.Store.Documents(), app.Files)
	if cfg.Janitor.Enabled {
		if err := sweeper.Start(cfg.Janitor.Schedule); err != nil {
			log.Fatalf("Failed to start cover janitor: %v", err)
		}
		log.Printf("Cover janitor scheduled: %s", cfg.Janitor.Schedule)
	}

	router := localstore.NewRouter(app.Blobs)

	Serve(router, cfg, func(ctx context.Context) {
		sweeper.Stop()
		app.Close()
	})
}
