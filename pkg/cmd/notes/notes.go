package notes

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
	"github.com/Paintersrp/nnt/pkg/shared/flags"
)

type options struct {
	all  bool
	tags []string
}

func NewCmdNotes(f *state.Factory) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"n", "ls"},
		Short:   "List the notes the tag filter shows.",
		Long: heredoc.Doc(`
			Lists notes with their date, tags and open todo count. The tag filter
			chosen in the interactive notebook applies unless --tag or --all is given.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.tags, err = flags.HandleTags(cmd)
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
			if err := sess.Filter(opts.tags, opts.all); err != nil {
				return err
			}

			printNotes(cmd.OutOrStdout(), sess.App)
			return nil
		},
	}

	flags.AddTags(cmd, "Show only notes with these tags.")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Show every note.")

	return cmd
}

func printNotes(w io.Writer, app *notebook.App) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	counts := app.Counts()
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Notes"), faint.Sprintf("(%d)", counts.Notes))
	if counts.Notes == 0 {
		fmt.Fprintln(w, faint.Sprint(" none"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Name"), bold.Sprint("Tags"), bold.Sprint("Todos"), bold.Sprint("File"))
	for _, c := range app.Notes() {
		if !c.Visible() {
			continue
		}
		rec := c.Record()
		tbl.AddRow(rec.Date, rec.Title(), strings.Join(rec.Tags, ", "), len(rec.Todos), faint.Sprint(rec.FullName))
	}
	fmt.Fprintln(w, tbl)
}
