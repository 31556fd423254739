package note

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/domain/note"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note and cancel its reminders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if err := app.Repo.Delete(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, note.ErrNotFound) {
				return fmt.Errorf("note %s not found", args[0])
			}
			return fmt.Errorf("delete note: %w", err)
		}

		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}
