package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"chatrelay/internal/api"
	"chatrelay/internal/config"
	"chatrelay/internal/service/ai"
	"chatrelay/internal/service/relay"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server",
	Long: `Start the HTTP server: the browser client at /, the relay at POST /api/openai
and its descriptor at GET /api/openai.

Configuration is read from $CHATRELAY_CONFIG (or ./config.json), .env and the
process environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// newRouter assembles the gin engine for a configured provider.
func newRouter(ctx context.Context, cfg *config.Config) (*gin.Engine, error) {
	completer, err := ai.NewCompleter(ctx, cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}
	svc := relay.NewService(completer, ai.DefaultParams(cfg.Provider.Name, cfg.Provider.Model), api.RelayPath)

	router := gin.Default()
	api.NewHandler(svc).RegisterRoutes(router)
	return router, nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(os.Getenv("CHATRELAY_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	router, err := newRouter(ctx, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.BasicConfig.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("chatrelay listening on %s (provider %s)", cfg.BasicConfig.ServerAddress, cfg.Provider.Name)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
