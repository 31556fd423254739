package device

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"notas/cmd/client/cmd/types"
	"notas/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login <name>",
	Short: "Log in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		token, err := app.Remote.Login(ctx, args[0], string(password))
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := app.SaveToken(token); err != nil {
			return err
		}

		fmt.Println("Logged in.")

		// First sync right away; failure is not fatal, the agent retries.
		if err := app.Repo.SyncNow(ctx); err != nil {
			fmt.Printf("warning: initial sync failed: %v\n", err)
		} else {
			fmt.Println("Notes synchronized.")
		}
		return nil
	},
}
