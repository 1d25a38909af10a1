package todo

import (
	"fmt"
	"io"
	"sort"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
	"github.com/Paintersrp/nnt/pkg/shared/flags"
)

type row struct {
	note  *notebook.NoteController
	index int
	label string
}

func NewCmdTodos(f *state.Factory) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "todos",
		Aliases: []string{"todo", "td"},
		Short:   "List open todos of the shown notes, newest first.",
		Long: heredoc.Doc(`
			Lists the open todos of every note the tag filter shows. The
			number before each todo is the index "nnt toggle" takes.
		`),
		Example: heredoc.Doc(`
			nnt todos --tag work
			nnt toggle plan.md 0
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := flags.HandleTags(cmd)
			if err != nil {
				return err
			}

			s, err := f.Get()
			if err != nil {
				return err
			}
			sess, err := cli.Open(cmd.Context(), s, false)
			if err != nil {
				return err
			}
			if err := sess.Filter(tags, all); err != nil {
				return err
			}

			printTodos(cmd.OutOrStdout(), collect(sess.App))
			return nil
		},
	}

	flags.AddTags(cmd, "Show only todos of notes with these tags.")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show todos of every note.")

	return cmd
}

func collect(app *notebook.App) []row {
	var notes []*notebook.NoteController
	for _, c := range app.Notes() {
		if c.TodoVisible() {
			notes = append(notes, c)
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		ti, oki := notes[i].Record().Time()
		tj, okj := notes[j].Record().Time()
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})

	var rows []row
	for _, c := range notes {
		for k, t := range c.Todos() {
			rows = append(rows, row{note: c, index: k, label: t.Label})
		}
	}
	return rows
}

func printTodos(w io.Writer, rows []row) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Todos"), faint.Sprintf("(%d)", len(rows)))
	if len(rows) == 0 {
		fmt.Fprintln(w, faint.Sprint(" none"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for _, r := range rows {
		rec := r.note.Record()
		tbl.AddRow(faint.Sprint(rec.FullName), r.index, "[ ] "+r.label, faint.Sprint(rec.Date))
	}
	fmt.Fprintln(w, tbl)
}
