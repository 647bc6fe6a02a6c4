package cli

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var version = "dev"

func init() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok &&
			info.Main.Version != "" &&
			info.Main.Version != "(devel)" {
			version = strings.TrimPrefix(info.Main.Version, "v")
		}
	}
}

// NewRootCmd creates the root cobra command for the todo CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "Todo CLI - a simple command-line todo application",
		Long: "Todo CLI - a simple command-line todo application.\n\n" +
			"Todos are stored in ~/.todo/todos.json unless --data-file, TODO_FILE or\n" +
			"data_file in ~/.todo/config.yaml says otherwise.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if !showVersion {
				return cmd.Help()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "todo %s\n", version)
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.Flags().BoolP("version", "v", false, "show version information")
	root.PersistentFlags().StringVar(&a.dataFileFlag, "data-file", "", "path to the todo data file")
	root.PersistentFlags().StringVar(&a.configFlag, "config", "", "path to the config file")
	root.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddGroup(
		&cobra.Group{ID: "todos", Title: "Todo Commands:"},
		&cobra.Group{ID: "other", Title: "Other Commands:"},
	)

	for _, cmd := range []*cobra.Command{
		newAddCmd(a),
		newListCmd(a),
		newStatusCmd(a, statusCompleted),
		newStatusCmd(a, statusPending),
		newShowCmd(a),
		newEraseCmd(a),
		newModifyCmd(a),
	} {
		cmd.GroupID = "todos"
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newServeCmd(a),
		newInfoCmd(a),
	} {
		cmd.GroupID = "other"
		root.AddCommand(cmd)
	}

	return root
}
