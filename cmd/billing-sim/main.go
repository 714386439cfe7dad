// billing-sim is a standalone billing service simulator for local
// development and end-to-end testing of the patient API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carelink/carelink/internal/platform/billing"
	"github.com/carelink/carelink/internal/platform/middleware"
)

func main() {
	var port string

	rootCmd := &cobra.Command{
		Use:   "billing-sim",
		Short: "Billing service simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port)
		},
	}
	rootCmd.Flags().StringVar(&port, "port", "9001", "Port to listen on")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(port string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	billing.NewStubHandler(logger).RegisterRoutes(e)

	go func() {
		addr := ":" + port
		logger.Info().Str("addr", addr).Msg("starting billing simulator")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down billing simulator")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	return nil
}
