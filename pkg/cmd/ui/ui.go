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
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/internal/tui/notes"
)

func NewCmdUI(f *state.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ui",
		Aliases: []string{"tui"},
		Short:   "Open the interactive notebook.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.Get()
			if err != nil {
				return err
			}
			return run(cmd.Context(), s)
		},
	}

	return cmd
}

func run(ctx context.Context, s *state.State) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m := notes.NewModel(s.NewApp, notes.Options{
		Title:   s.NotebookName,
		Context: ctx,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		s.Logger.Error("ui exited", "err", err)
	}
	return err
}
