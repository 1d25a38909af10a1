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
package tags

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/render"
	tagfilter "github.com/Paintersrp/nnt/internal/tags"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
)

func NewCmdTags(f *state.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags, their note counts and whether the notebook shows them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.Get()
			if err != nil {
				return err
			}

			sess, err := cli.Open(cmd.Context(), s, false)
			if err != nil {
				return err
			}

			printTags(cmd.OutOrStdout(), sess.App)
			return nil
		},
	}

	return cmd
}

func printTags(w io.Writer, app *notebook.App) {
	counts := map[string]int{}
	for _, c := range app.Notes() {
		rec := c.Record()
		if len(rec.Tags) == 0 {
			counts[tagfilter.None]++
		}
		for _, t := range rec.Tags {
			counts[t]++
		}
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Shown"), bold.Sprint("Tag"), bold.Sprint("Notes"))

	f := app.Tags()
	for _, t := range f.All() {
		label := tagfilter.Label(t)
		if !f.IsChecked(t) {
			label = faint.Sprint(label)
		}
		tbl.AddRow(render.Box(f.IsChecked(t)), label, counts[t])
	}

	fmt.Fprintln(w, tbl)
}
