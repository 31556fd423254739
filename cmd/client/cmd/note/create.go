package note

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"notas/internal/app/client/reminder"
	"notas/internal/domain/note"
)

var (
	createContent     string
	createDescription string
	createTask        bool
	createDue         string
	createAttach      []string
	createRemind      []string
	createEvery       int64
	createPre         bool
)

var CreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a note or task",
	Long: `Creates a note, or a task when --task is set. Tasks can carry a due
time, one-shot reminders, a recurring reminder, and automatically
generated reminders leading up to the deadline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		n := note.Note{
			ID:          uuid.NewString(),
			Title:       args[0],
			Description: createDescription,
			Content:     createContent,
			Type:        note.TypeNote,
			CreatedAt:   time.Now(),
		}
		if createTask {
			n.Type = note.TypeTask
		}

		if createDue != "" {
			if !createTask {
				return fmt.Errorf("--due only applies to tasks")
			}
			due, err := parseWhen(createDue)
			if err != nil {
				return err
			}
			n.DueAt = &due
		}

		attachments := make([]note.Attachment, 0, len(createAttach))
		for _, uri := range createAttach {
			attachments = append(attachments, note.Attachment{
				NoteID: n.ID,
				Type:   attachmentTypeFor(uri),
				URI:    uri,
			})
		}

		reminders, err := buildReminders(app.Config.PreReminderCount, int64(app.Config.PreReminderInterval), n)
		if err != nil {
			return err
		}

		if err := app.Repo.Save(cmd.Context(), n, attachments, reminders); err != nil {
			return fmt.Errorf("save note: %w", err)
		}

		fmt.Printf("Created %s %s\n", n.Type, n.ID)
		return nil
	},
}

func buildReminders(preCount int, preInterval int64, n note.Note) ([]note.Reminder, error) {
	var reminders []note.Reminder
	nowMillis := time.Now().UnixMilli()

	for _, value := range createRemind {
		at, err := parseWhen(value)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, note.Reminder{
			NoteID:    n.ID,
			TriggerAt: at.UnixMilli(),
		})
	}

	if createEvery > 0 {
		if n.DueAt == nil {
			return nil, fmt.Errorf("--every requires --due")
		}
		reminders = append(reminders, note.Reminder{
			NoteID:          n.ID,
			TriggerAt:       n.DueAt.UnixMilli(),
			IsRecurring:     true,
			IntervalMinutes: createEvery,
		})
	}

	if createPre {
		if n.DueAt == nil {
			return nil, fmt.Errorf("--pre-reminders requires --due")
		}
		due := n.DueAt.UnixMilli()
		reminders = append(reminders,
			reminder.PreDeadline(n.ID, due, nowMillis, preCount, preInterval, reminder.UnitMinutes)...)
		if atDue := reminder.AtDue(n.ID, due, nowMillis); atDue != nil {
			reminders = append(reminders, *atDue)
		}
	}

	return reminders, nil
}

func init() {
	CreateCmd.Flags().StringVarP(&createContent, "content", "c", "", "note body")
	CreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "short description")
	CreateCmd.Flags().BoolVar(&createTask, "task", false, "create a task instead of a note")
	CreateCmd.Flags().StringVar(&createDue, "due", "", `due time for tasks ("2006-01-02 15:04")`)
	CreateCmd.Flags().StringArrayVar(&createAttach, "attach", nil, "attachment URI (repeatable)")
	CreateCmd.Flags().StringArrayVar(&createRemind, "remind", nil, "one-shot reminder time (repeatable)")
	CreateCmd.Flags().Int64Var(&createEvery, "every", 0, "recurring reminder interval in minutes, anchored at --due")
	CreateCmd.Flags().BoolVar(&createPre, "pre-reminders", false, "generate reminders leading up to --due")
}
