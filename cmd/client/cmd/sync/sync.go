package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"notas/cmd/client/cmd/types"
	"notas/internal/app/client"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push local changes and pull remote ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		if err := app.Remote.Health(ctx); err != nil {
			return fmt.Errorf("server unreachable: %w", err)
		}
		if err := app.Repo.SyncNow(ctx); err != nil {
			return fmt.Errorf("sync: %w", err)
		}

		fmt.Println("Synchronized.")
		return nil
	},
}
