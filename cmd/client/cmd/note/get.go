package note

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"notas/internal/domain/note"
)

var getJSON bool

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single note with attachments and reminders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		g, err := app.Repo.ByID(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, note.ErrNotFound) {
				return fmt.Errorf("note %s not found", args[0])
			}
			return fmt.Errorf("get note: %w", err)
		}

		if getJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(g)
		}

		fmt.Printf("ID:       %s\n", g.Note.ID)
		fmt.Printf("Type:     %s\n", g.Note.Type)
		fmt.Printf("Title:    %s\n", g.Note.Title)
		if g.Note.Description != "" {
			fmt.Printf("About:    %s\n", g.Note.Description)
		}
		if g.Note.DueAt != nil {
			fmt.Printf("Due:      %s\n", g.Note.DueAt.Format(timeLayout))
		}
		if g.Note.Type == note.TypeTask {
			fmt.Printf("Done:     %t\n", g.Note.Completed)
		}
		fmt.Printf("Updated:  %s\n", time.UnixMilli(g.Note.UpdatedAt).Format(timeLayout))
		if g.Note.Content != "" {
			fmt.Printf("\n%s\n", g.Note.Content)
		}
		if len(g.Attachments) > 0 {
			fmt.Println("\nAttachments:")
			for _, a := range g.Attachments {
				fmt.Printf("  [%s] %s\n", a.Type, a.URI)
			}
		}
		if len(g.Reminders) > 0 {
			fmt.Println("\nReminders:")
			for _, r := range g.Reminders {
				when := time.UnixMilli(r.TriggerAt).Format(timeLayout)
				if r.IsRecurring {
					fmt.Printf("  %s (every %d min)\n", when, r.IntervalMinutes)
				} else {
					fmt.Printf("  %s\n", when)
				}
			}
		}
		return nil
	},
}

func init() {
	GetCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")
}
