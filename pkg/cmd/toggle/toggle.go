package toggle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/render"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
	"github.com/Paintersrp/nnt/pkg/shared/flags"
)

type options struct {
	inline bool
}

func NewCmdToggle(f *state.Factory) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "toggle <fullname> <index>",
		Short: "Check or uncheck a task of a note and save it.",
		Long: heredoc.Doc(`
			Flips one checkbox of a note and saves the note. The index is the
			todo position shown by "nnt todos", or with --inline the position of
			the checkbox in the note body counting checked ones too.
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}

			s, err := f.Get()
			if err != nil {
				return err
			}
			sess, err := cli.Open(cmd.Context(), s, false)
			if err != nil {
				return err
			}

			c, err := sess.App.Note(note.ID(args[0]))
			if err != nil {
				return err
			}

			view := notebook.TodoView
			value := true
			if opts.inline {
				view = notebook.InlineView
				value = !c.InlineChecked(index)
			} else if index >= 0 && index < len(c.Todos()) {
				value = !c.TodoChecked(index)
			}

			if err := sess.App.ClickCheckbox(c.ID(), view, index, value); err != nil {
				return err
			}
			if err := sess.Err(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", render.Box(value), label(c, view, index), color.New(color.Faint).Sprint(c.ID()))

			if err := cli.Confirm("Save "+string(c.ID())+"?", flags.HandleYes(cmd)); err != nil {
				return err
			}
			if err := sess.Save(); err != nil {
				return err
			}
			fmt.Fprintln(out, color.GreenString("Saved"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.inline, "inline", "i", false, "Index counts every checkbox in the note body.")
	flags.AddYes(cmd)

	return cmd
}

func label(c *notebook.NoteController, view notebook.View, index int) string {
	if view == notebook.TodoView {
		return c.Todos()[index].Label
	}
	segs := c.Body().Segments
	for k, seg := range segs {
		if seg.Check != index || k+1 >= len(segs) || segs[k+1].IsCheck() {
			continue
		}
		text, _, _ := strings.Cut(strings.TrimSpace(segs[k+1].Text), "\n")
		return text
	}
	return fmt.Sprintf("checkbox %d", index)
}
