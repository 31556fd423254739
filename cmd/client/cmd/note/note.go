package note

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"notas/cmd/client/cmd/types"
	"notas/internal/app/client"
)

var NoteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes and tasks",
}

const timeLayout = "2006-01-02 15:04"

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}

func parseWhen(value string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected %q", value, timeLayout)
	}
	return t, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
