package note

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"notas/internal/domain/note"
)

var (
	listType string
	listJSON bool
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes and tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var graphs []note.Graph
		switch listType {
		case "":
			graphs, err = app.Repo.All(cmd.Context())
		default:
			t := note.ItemType(listType)
			if !t.Valid() {
				return fmt.Errorf("unknown type %q, want NOTE or TASK", listType)
			}
			graphs, err = app.Repo.ByType(cmd.Context(), t)
		}
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(graphs)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tTITLE\tDUE\tDONE\tATT\tREM")
		for _, g := range graphs {
			due := "-"
			if g.Note.DueAt != nil {
				due = g.Note.DueAt.Format(timeLayout)
			}
			done := "-"
			if g.Note.Type == note.TypeTask {
				done = fmt.Sprintf("%t", g.Note.Completed)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
				g.Note.ID, g.Note.Type, truncate(g.Note.Title, 30),
				due, done, len(g.Attachments), len(g.Reminders))
		}
		return w.Flush()
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by type (NOTE or TASK)")
	ListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}
