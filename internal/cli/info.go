package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vector76/todo/internal/store"
)

// infoOutput is printed by `todo info`.
type infoOutput struct {
	Version    string `json:"version"`
	ConfigFile string `json:"config_file"`
	DataFile   string `json:"data_file"`
	Todos      int    `json:"todos"`
	Available  int    `json:"available"`
	Capacity   int    `json:"capacity"`
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print resolved paths and capacity usage as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.Store()
			out, err := json.Marshal(infoOutput{
				Version:    version,
				ConfigFile: a.configPath,
				DataFile:   s.Path(),
				Todos:      s.Len(),
				Available:  s.Available(),
				Capacity:   store.Capacity,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
