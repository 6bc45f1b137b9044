package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"terminal-chat/internal/app"
	"terminal-chat/internal/service"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the persisted chat history, most recent last",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
				if limit <= 0 {
					limit = a.Config.HistoryLimit
				}
				exchanges, err := a.Chat.History(ctx, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(exchanges) == 0 {
					fmt.Fprintln(out, "No chat history available.")
					return nil
				}
				for i, n := 0, len(exchanges); i < n; i++ {
					e := exchanges[n-1-i]
					fmt.Fprintf(out, "%d. [%s] User: %s\n", i+1, e.Timestamp.Local().Format("2006-01-02 15:04"), e.UserMessage)
					fmt.Fprintf(out, "   Bot: %s\n", e.BotResponse)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of exchanges to show (default HISTORY_LIMIT)")
	return cmd
}

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the statement store with the bundled corpus",
		Long:  "train always runs the bundled corpus and custom script; with STATEMENT_STORE=sqlite the statements are kept for later sessions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
				if err := service.NewDefaultTrainer(a.Bot).Train(ctx); err != nil {
					return fmt.Errorf("train bot: %w", err)
				}
				n, err := a.Bot.StatementCount(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s knows %d statements.\n", a.Bot.Name(), n)
				return nil
			})
		},
	}
}
