package note

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var SearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search notes by title, description, or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		notes, err := app.Repo.Search(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("search notes: %w", err)
		}
		if len(notes) == 0 {
			fmt.Println("No matches.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tTITLE")
		for _, n := range notes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Type, truncate(n.Title, 40))
		}
		return w.Flush()
	},
}
