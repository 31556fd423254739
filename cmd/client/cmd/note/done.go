package note

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/domain/note"
)

var doneUndo bool

var DoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
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
		if g.Note.Type != note.TypeTask {
			return fmt.Errorf("%s is not a task", args[0])
		}

		g.Note.Completed = !doneUndo
		if err := app.Repo.Save(cmd.Context(), g.Note, g.Attachments, g.Reminders); err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		if doneUndo {
			fmt.Printf("Task %s reopened\n", g.Note.ID)
		} else {
			fmt.Printf("Task %s completed\n", g.Note.ID)
		}
		return nil
	},
}

func init() {
	DoneCmd.Flags().BoolVar(&doneUndo, "undo", false, "mark the task as not completed")
}
