package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
	"github.com/ziadkadry99/travel-assistant/internal/conversation"
	"github.com/ziadkadry99/travel-assistant/internal/server"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
	"github.com/ziadkadry99/travel-assistant/internal/tripxplo"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP and WebSocket API",
	Long:  `Starts the travel assistant API: chat over HTTP and WebSocket, direct flight/hotel search and booking, conversation history, and TripXplo packages when configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:           port,
			AllowAll:       a.cfg.Server.AllowAllOrigins,
			RequestTimeout: time.Duration(a.cfg.Server.RequestTimeoutSeconds) * time.Second,
			Version:        Version,
		}, a.logger.Named("http"))

		janitor := a.newJanitor()
		registerAllRoutes(srv, a, janitor)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go janitor.Run(ctx)

		go func() {
			<-ctx.Done()
			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("shutdown", zap.Error(err))
			}
		}()

		a.logger.Info("travel-assistant server starting",
			zap.String("version", Version),
			zap.Int("port", port),
			zap.String("database", a.db.Path()),
			zap.String("provider", string(a.cfg.Provider)),
			zap.String("model", a.cfg.Model),
			zap.Bool("packages", a.packages != nil),
		)

		if err := srv.Start(); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

// registerAllRoutes mounts every feature package on the server router.
func registerAllRoutes(srv *server.Server, a *app, janitor *conversation.Janitor) {
	r := srv.Router()

	assistant.RegisterRoutes(r, a.orchestrator, a.logger.Named("chat"))
	travel.RegisterRoutes(r, a.travel, a.logger.Named("travel"))
	conversation.RegisterRoutes(r, a.store, janitor)

	if a.packages != nil {
		tripxplo.RegisterRoutes(r, a.packages, a.logger.Named("tripxplo"))
	}
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8000, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
