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
package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/nnt/internal/constants"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/cmd/auth"
	"github.com/Paintersrp/nnt/pkg/cmd/find"
	"github.com/Paintersrp/nnt/pkg/cmd/new"
	"github.com/Paintersrp/nnt/pkg/cmd/notebook"
	"github.com/Paintersrp/nnt/pkg/cmd/notes"
	"github.com/Paintersrp/nnt/pkg/cmd/preview"
	"github.com/Paintersrp/nnt/pkg/cmd/tags"
	"github.com/Paintersrp/nnt/pkg/cmd/todo"
	"github.com/Paintersrp/nnt/pkg/cmd/toggle"
	"github.com/Paintersrp/nnt/pkg/cmd/ui"
)

var (
	notebookName string
	debug        bool
)

// NewCmdRoot builds the command tree. State is built on first use from
// the --notebook flag.
func NewCmdRoot(f *state.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Browse and edit a Notes'n'Todos notebook from the terminal.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			nnt talks to a Notes'n'Todos notebook server. Without a subcommand it opens
			the interactive notebook: tick todos, edit notes and save them in one batch.

			  nnt notebook add home https://example.com/notes/
			  nnt todos
			  nnt toggle groceries.md 0
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          ui.NewCmdUI(f).RunE,
	}

	cmd.PersistentFlags().
		StringVarP(
			&notebookName,
			"notebook",
			"b",
			"",
			"Notebook to use for this command.",
		)
	viper.BindPFlag("notebook", cmd.PersistentFlags().Lookup("notebook"))

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug logs.")
	viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	cmd.AddCommand(
		ui.NewCmdUI(f),
		tags.NewCmdTags(f),
		notes.NewCmdNotes(f),
		todo.NewCmdTodos(f),
		toggle.NewCmdToggle(f),
		new.NewCmdNew(f),
		preview.NewCmdPreview(f),
		find.NewCmdFind(f),
		notebook.NewCmdNotebook(),
		auth.NewCmdAuth(f, NotebookOverride),
	)

	return cmd
}

// NotebookOverride returns the notebook named by --notebook or NNT_NOTEBOOK.
func NotebookOverride() string {
	if notebookName != "" {
		return notebookName
	}
	return viper.GetString("notebook")
}
