package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"terminal-chat/internal/app"
	"terminal-chat/internal/config"
	"terminal-chat/internal/logging"
	"terminal-chat/internal/terminal"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cli_chat",
		Short: "Terminal chatbot client",
		Long:  "cli_chat trains a small conversational bot and chats with it in the terminal.",
		// Sin subcomando se abre la sesión de chat.
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, logger *zap.Logger) error {
				session := terminal.NewSession(a.Responder, a.Chat, cmd.InOrStdin(), cmd.OutOrStdout(),
					terminal.WithHistoryLimit(a.Config.HistoryLimit),
					terminal.WithLogger(logger),
				)
				return session.Run(ctx)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTrainCmd())
	return rootCmd
}

// withApp carga config y logger, arma las dependencias y corre fn con un contexto
// que se cancela con SIGINT/SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, logger *zap.Logger) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a, logger)
}
