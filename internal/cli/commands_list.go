package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vector76/todo/internal/model"
	"github.com/vector76/todo/internal/store"
)

func newListCmd(a *app) *cobra.Command {
	var completed, pending bool
	var filePath string

	cmd := &cobra.Command{
		Use:     "l",
		Aliases: []string{"list", "ls"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)

			filters := store.ListFilters{FilePath: filePath}
			switch {
			case completed:
				status := model.StatusCompleted
				filters.Status = &status
			case pending:
				status := model.StatusPending
				filters.Status = &status
			}

			todos := a.Store().Filter(filters)
			if len(todos) == 0 {
				fmt.Fprintln(out, st.warn.Render("No todos found."))
				return nil
			}
			store.SortForDisplay(todos)

			width := a.cfg.List.MaxWidth
			if width == 0 {
				width = terminalWidth(out)
			}

			fmt.Fprintf(out, "Found %d todo(s):\n", len(todos))
			fmt.Fprintln(out, renderTable(st, todos, descriptionWidth(width)))
			fmt.Fprintf(out, "Use %s to show full details of a specific todo.\n", st.bold.Render("todo s <id>"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "show only completed todos")
	cmd.Flags().BoolVar(&pending, "pending", false, "show only pending todos")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "filter by file path (partial match)")
	cmd.MarkFlagsMutuallyExclusive("completed", "pending")

	return cmd
}
