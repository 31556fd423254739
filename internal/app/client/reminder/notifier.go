package reminder

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"notas/internal/domain/note"
)

// Notifier delivers a due reminder to the user.
type Notifier interface {
	Notify(n note.Note, r note.Reminder) error
}

// ConsoleNotifier prints due reminders to a terminal.
type ConsoleNotifier struct {
	out io.Writer
}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stdout}
}

func (c *ConsoleNotifier) Notify(n note.Note, r note.Reminder) error {
	bell := color.New(color.FgYellow, color.Bold).Sprint("⏰ reminder")
	when := time.UnixMilli(r.TriggerAt).Format("15:04")

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}

	open := color.New(color.Faint).Sprintf("notas note get %s", n.ID)
	_, err := fmt.Fprintf(c.out, "%s %s  %s  (%s)\n", bell, when, title, open)
	if err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}
