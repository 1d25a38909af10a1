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
package auth

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/config"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
)

// NewCmdAuth manages the bearer token of a notebook.
func NewCmdAuth(f *state.Factory, notebook func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"a"},
		Short:   "Manage the access token of a notebook.",
	}

	cmd.AddCommand(
		newCmdLogin(notebook),
		newCmdLogout(notebook),
		newCmdStatus(f),
	)

	return cmd
}

func loadConfig(notebook func() string) (*config.Config, string, error) {
	home, err := state.GetHomeDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(home)
	if err != nil {
		return nil, "", err
	}
	name := cfg.CurrentNotebook
	if notebook != nil && notebook() != "" {
		name = notebook()
	}
	if name == "" {
		return nil, "", errors.New("no notebook is configured, add one with `nnt notebook add <name> <url>`")
	}
	return cfg, name, nil
}

func newCmdLogin(notebook func() string) *cobra.Command {
	var stdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for the notebook",
		Long: heredoc.Doc(`
			Stores the bearer token sent with every request to the notebook.
			The token is asked for interactively, or read from stdin with --stdin.
		`),
		Example: heredoc.Doc(`
			nnt auth login
			echo "$NOTES_TOKEN" | nnt auth login --stdin -b work
		`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, name, err := loadConfig(notebook)
			if err != nil {
				return err
			}

			token, err := readToken(cmd.InOrStdin(), stdin)
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("token cannot be empty")
			}
			if exp, ok := api.TokenExpiry(token); ok && exp.Before(time.Now()) {
				return fmt.Errorf("token expired at %s", exp.Format(time.RFC1123))
			}

			if err := cfg.SetToken(name, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored token for notebook %q\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read the token from stdin")

	return cmd
}

func readToken(r io.Reader, stdin bool) (string, error) {
	if stdin {
		raw, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	if !cli.Interactive() {
		return "", errors.New("not a terminal, pass --stdin to read the token")
	}

	input := textinput.New("Token:")
	input.Hidden = true
	token, err := input.RunPrompt()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func newCmdLogout(notebook func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the notebook's access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, name, err := loadConfig(notebook)
			if err != nil {
				return err
			}
			if err := cfg.SetToken(name, ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for notebook %q\n", name)
			return nil
		},
	}
}

func newCmdStatus(f *state.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the notebook accepts the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := f.Get()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			token := ""
			if s.Notebook != nil {
				token = s.Notebook.Token
			}
			switch exp, ok := api.TokenExpiry(token); {
			case token == "":
				fmt.Fprintln(out, "Token:   none")
			case ok:
				fmt.Fprintf(out, "Token:   expires %s\n", exp.Format(time.RFC1123))
			default:
				fmt.Fprintln(out, "Token:   set")
			}

			tags, err := s.Client.Tags(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "Server:  %s\n", color.RedString(api.Detail(err)))
				return err
			}
			fmt.Fprintf(out, "Server:  %s (%d tags)\n", color.GreenString("ok"), len(tags))
			return nil
		},
	}
}
