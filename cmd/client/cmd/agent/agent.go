package agent

import (
	"fmt"

	"github.com/spf13/cobra"

	"notas/cmd/client/cmd/types"
	"notas/internal/app/client"
)

var AgentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the background agent: reminder timers plus periodic sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}
		return app.RunAgent(cmd.Context())
	},
}
