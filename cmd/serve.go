package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/llmgate/promptbrew/internal/handlers"
	"github.com/llmgate/promptbrew/internal/middleware"
	"github.com/llmgate/promptbrew/localratelimiter"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PromptBrew HTTP API",
	RunE:  runServe,
}

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configName)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.config.Server.Port
	if servePort > 0 {
		port = servePort
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: a.router(),
	}

	go a.monitoring.RunPusher(ctx, a.config.Monitoring.PushInterval, a.log)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", "port", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (a *app) router() *gin.Engine {
	gin.SetMode(a.config.Server.Mode)

	rateLimiter := localratelimiter.NewRateLimiter(a.config.Server.RateLimitPerSecond, a.config.Server.RateLimitBurst)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.AttachRequestID(),
		middleware.RequestLogger(a.log),
		middleware.CORS(a.config.Server.CorsOrigins),
		middleware.Metrics(a.monitoring),
	)
	// Metrics handler
	router.GET("/metrics", gin.WrapH(a.monitoring.Handler()))
	// Health Handler
	healthHandler := handlers.NewHealthHandler(a.config.LLM.Provider, a.client.Model())
	router.GET("/health", healthHandler.IsHealthy)
	// PromptBrew Handler
	promptBrewHandler := handlers.NewPromptBrewHandler(a.generator, a.refiner, a.runner, a.config.Brew.Temperature, a.log)
	limited := router.Group("/", rateLimiter.RateLimiterMiddleware())
	promptBrewHandler.Register(limited)

	return router
}
