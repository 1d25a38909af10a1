/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package notebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/config"
	"github.com/Paintersrp/nnt/internal/state"
)

// NewCmdNotebook manages the configured notebooks. It works on the config
// file directly so it can run before any notebook exists.
func NewCmdNotebook() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notebook",
		Aliases: []string{"nb"},
		Short:   "Manage notebooks",
	}

	cmd.AddCommand(
		newCmdNotebookList(),
		newCmdNotebookUse(),
		newCmdNotebookAdd(),
		newCmdNotebookRemove(),
	)

	return cmd
}

func loadConfig() (*config.Config, error) {
	home, err := state.GetHomeDir()
	if err != nil {
		return nil, err
	}
	var initErr *config.ConfigInitError
	if err := config.EnsureConfigExists(home); err != nil && !errors.As(err, &initErr) {
		return nil, err
	}
	return config.Load(home)
}

func newCmdNotebookList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured notebooks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			names := cfg.NotebookNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notebooks configured")
				return nil
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			for _, name := range names {
				marker := " "
				if name == cfg.CurrentNotebook {
					marker = color.GreenString("*")
				}
				auth := ""
				if cfg.Notebooks[name].Token != "" {
					auth = color.New(color.Faint).Sprint("token")
				}
				tbl.AddRow(marker, name, cfg.Notebooks[name].URL, auth)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}

func newCmdNotebookUse() *cobra.Command {
	return &cobra.Command{
		Use:     "use <name>",
		Aliases: []string{"switch"},
		Short:   "Switch the current notebook",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(args[0])
			if target == "" {
				return fmt.Errorf("notebook name cannot be empty")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.SwitchNotebook(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to notebook %q\n", target)
			return nil
		},
	}
}

func newCmdNotebookAdd() *cobra.Command {
	var token string
	var makeCurrent bool

	cmd := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add a notebook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("notebook name is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			nb := &config.Notebook{URL: strings.TrimSpace(args[1]), Token: token}
			if err := cfg.AddNotebook(name, nb, makeCurrent); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added notebook %q at %s\n", name, nb.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token sent with every request")
	cmd.Flags().BoolVar(&makeCurrent, "current", false, "Switch to the new notebook")

	return cmd
}

func newCmdNotebookRemove() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a notebook",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("notebook name cannot be empty")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RemoveNotebook(name); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed notebook %q\n", name)
			return nil
		},
	}
}
