package find

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/fzf"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/render"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
	"github.com/Paintersrp/nnt/pkg/shared/flags"
)

type finderFunc func(f *fzf.NoteFinder, query string) (*note.Record, error)

type options struct {
	raw  bool
	all  bool
	find finderFunc
}

func NewCmdFind(f *state.Factory) *cobra.Command {
	return newCmdFind(f, (*fzf.NoteFinder).Find)
}

func newCmdFind(f *state.Factory, find finderFunc) *cobra.Command {
	opts := options{find: find}

	cmd := &cobra.Command{
		Use:     "find [query]",
		Aliases: []string{"f"},
		Short:   "Fuzzy find a note and print it.",
		Long: heredoc.Doc(`
			Opens a fuzzy finder over the notes the tag filter shows, with a
			rendered preview of each. The chosen note is printed.
		`),
		Args: cobra.MaximumNArgs(1),
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
			if err := sess.Filter(tags, opts.all); err != nil {
				return err
			}

			var records []*note.Record
			for _, c := range sess.App.Notes() {
				if c.Visible() {
					records = append(records, c.Record())
				}
			}

			source := func(ctx context.Context, id note.ID) (string, error) {
				src, _, err := s.Client.NoteSource(ctx, id)
				return src, err
			}
			finder := fzf.NewNoteFinder(cmd.Context(), records, source)
			finder.Header = "Notes"
			if s.Style != "" {
				finder.Style = s.Style
			}
			if s.WordWrap > 0 {
				finder.Width = s.WordWrap
			}

			var query string
			if len(args) > 0 {
				query = args[0]
			}
			rec, err := opts.find(finder, query)
			if errors.Is(err, fzf.ErrNoSelection) {
				return nil
			}
			if err != nil {
				return err
			}

			src, _, err := s.Client.NoteSource(cmd.Context(), rec.ID())
			if err != nil {
				return err
			}
			return show(cmd.OutOrStdout(), rec, src, opts.raw, s.Style, s.WordWrap)
		},
	}

	flags.AddTags(cmd, "Search only notes with these tags.")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Search every note.")
	cmd.Flags().BoolVarP(&opts.raw, "raw", "r", false, "Print the markdown source.")

	return cmd
}

func show(w io.Writer, rec *note.Record, src string, raw bool, style string, width int) error {
	if raw {
		_, err := io.WriteString(w, src)
		return err
	}
	out, err := render.Markdown(src, style, width)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, color.New(color.Faint).Sprint(rec.FullName))
	_, err = io.WriteString(w, out)
	return err
}
