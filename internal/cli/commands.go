package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vector76/todo/internal/model"
	"github.com/vector76/todo/internal/store"
)

var errNoMatch = errors.New("no matching todos")

// noMatch fails cmd without cobra's error line; the command has already
// reported what was not found.
func noMatch(cmd *cobra.Command) error {
	cmd.SilenceErrors = true
	return errNoMatch
}

const specifyIDsMsg = "Please specify either todo ID(s) or use the --all flag"

func newAddCmd(a *app) *cobra.Command {
	var priority string
	var filePath string

	cmd := &cobra.Command{
		Use:     "a <description>",
		Aliases: []string{"add"},
		Short:   "Add a new todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			t, err := model.NewTodo(args[0])
			if err != nil {
				return err
			}
			t.Priority = p
			t.FilePath = filePath

			added, err := a.Store().Add(t)
			if err != nil {
				return err
			}

			st := newStyles(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added todo %s: %s %s\n",
				st.accent.Render("#"+added.ID),
				added.Description,
				st.priority(p).Bold(true).Render("("+string(p)+")"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "priority (high, medium, low or h, m, l)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "associate with a file path")

	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "s <id>",
		Aliases: []string{"show"},
		Short:   "Show todo details",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)

			t, ok := a.Store().Get(args[0])
			if !ok {
				fmt.Fprintln(out, st.danger.Render("❌ Todo #"+args[0]+" not found."))
				return noMatch(cmd)
			}
			fmt.Fprintln(out, renderDetail(st, t))
			return nil
		},
	}
}

// statusTarget describes one direction of the complete/pending toggle.
type statusTarget struct {
	use     string
	alias   string
	status  model.Status
	label   string
	noneMsg string
}

var (
	statusCompleted = statusTarget{
		use:     "c",
		alias:   "complete",
		status:  model.StatusCompleted,
		label:   "Completed",
		noneMsg: "No pending todos to complete",
	}
	statusPending = statusTarget{
		use:     "p",
		alias:   "pending",
		status:  model.StatusPending,
		label:   "Pending",
		noneMsg: "No completed todos to mark as pending",
	}
)

func newStatusCmd(a *app, target statusTarget) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     target.use + " [ids...]",
		Aliases: []string{target.alias},
		Short:   fmt.Sprintf("Mark todos as %s", target.status),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)
			s := a.Store()

			var todos []model.Todo
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("cannot combine todo IDs with --all")
			case all:
				from := target.status.Opposite()
				todos = s.Filter(store.ListFilters{Status: &from})
				if len(todos) == 0 {
					fmt.Fprintln(out, st.warn.Render(target.noneMsg))
					return nil
				}
				store.SortForDisplay(todos)
			case len(args) == 0:
				fmt.Fprintln(out, st.warn.Render(specifyIDsMsg))
				return nil
			default:
				todos = lookup(out, st, s, args)
				if len(todos) == 0 {
					return noMatch(cmd)
				}
			}

			var changed []model.Todo
			for _, t := range todos {
				var updated model.Todo
				var ok bool
				if target.status == model.StatusCompleted {
					updated, ok = s.MarkComplete(t.ID)
				} else {
					updated, ok = s.MarkPending(t.ID)
				}
				if ok {
					changed = append(changed, updated)
				}
			}

			if len(changed) == 1 {
				fmt.Fprintf(out, "Marked as %s: %s\n", target.label, st.status(target.status).Bold(true).Render(changed[0].Description))
			} else {
				fmt.Fprintln(out, st.status(target.status).Bold(true).Render(
					fmt.Sprintf("Marked %d todos as %s", len(changed), target.status)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, fmt.Sprintf("mark every %s todo", target.status.Opposite()))

	return cmd
}

func newEraseCmd(a *app) *cobra.Command {
	var all, completed, pending, force bool

	cmd := &cobra.Command{
		Use:     "e [ids...]",
		Aliases: []string{"erase"},
		Short:   "Erase todos",
		Long: "Erase todos. Given IDs, each todo is marked completed and then removed.\n" +
			"With --all, --completed or --pending, every matching todo is erased.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)
			s := a.Store()

			var todos []model.Todo
			what := "todos"
			switch {
			case len(args) > 0 && (all || completed || pending):
				return fmt.Errorf("cannot combine todo IDs with --all, --completed or --pending")
			case len(args) > 0:
				todos = lookup(out, st, s, args)
				if len(todos) == 0 {
					return noMatch(cmd)
				}
			case all:
				todos = s.All()
			case completed:
				status := model.StatusCompleted
				todos = s.Filter(store.ListFilters{Status: &status})
				what = "completed todos"
			case pending:
				status := model.StatusPending
				todos = s.Filter(store.ListFilters{Status: &status})
				what = "pending todos"
			default:
				fmt.Fprintln(out, st.warn.Render("Please specify either a todo ID or use --all, --completed, or --pending flags."))
				return nil
			}

			if len(todos) == 0 {
				fmt.Fprintln(out, st.warn.Render(fmt.Sprintf("No %s to erase.", what)))
				return nil
			}
			store.SortForDisplay(todos)

			if !force {
				question := fmt.Sprintf("Are you sure you want to erase %d %s?", len(todos), what)
				if len(todos) == 1 {
					question = fmt.Sprintf("Are you sure you want to erase: %s?", todos[0].Description)
				}
				ok, err := confirm(cmd, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, st.warn.Render("Operation cancelled."))
					return nil
				}
			}

			for _, t := range todos {
				if !t.Completed() {
					t.MarkComplete()
					if _, err := s.Update(t); err != nil {
						return err
					}
				}
				s.Remove(t.ID)
			}

			if len(todos) == 1 {
				fmt.Fprintf(out, "✨ Erased: %s\n", st.success.Render(todos[0].Description))
			} else {
				fmt.Fprintln(out, st.success.Render(fmt.Sprintf("✨ Erased %d %s", len(todos), what)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "erase all todos (both completed and pending)")
	cmd.Flags().BoolVar(&completed, "completed", false, "erase all completed todos")
	cmd.Flags().BoolVar(&pending, "pending", false, "erase all pending todos")
	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	cmd.MarkFlagsMutuallyExclusive("all", "completed", "pending")

	return cmd
}

func newModifyCmd(a *app) *cobra.Command {
	var priority string
	var all bool

	cmd := &cobra.Command{
		Use:     "m [ids...] -p <priority>",
		Aliases: []string{"modify"},
		Short:   "Modify the priority of todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := newStyles(out)
			s := a.Store()

			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}

			var todos []model.Todo
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("cannot combine todo IDs with --all")
			case all:
				todos = s.All()
				if len(todos) == 0 {
					fmt.Fprintln(out, st.warn.Render("No todos to update"))
					return nil
				}
			case len(args) == 0:
				fmt.Fprintln(out, st.warn.Render(specifyIDsMsg))
				return nil
			default:
				todos = lookup(out, st, s, args)
				if len(todos) == 0 {
					return noMatch(cmd)
				}
			}

			for _, t := range todos {
				t.Priority = p
				if _, err := s.Update(t); err != nil {
					return err
				}
			}

			msg := "Updated priority to " + st.priority(p).Bold(true).Render(string(p))
			if len(todos) > 1 {
				msg += fmt.Sprintf(" for %d todos", len(todos))
			}
			fmt.Fprintln(out, msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority (high, medium, low or h, m, l)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "modify every todo")
	cmd.MarkFlagRequired("priority")

	return cmd
}

// lookup returns the todos for ids in argument order, skipping duplicates.
// Each unknown id is reported on out.
func lookup(out io.Writer, st styles, s *store.Store, ids []string) []model.Todo {
	seen := make(map[string]bool, len(ids))
	var found []model.Todo
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		t, ok := s.Get(id)
		if !ok {
			fmt.Fprintln(out, st.danger.Render("❌ Todo not found: "+id))
			continue
		}
		found = append(found, t)
	}
	return found
}
