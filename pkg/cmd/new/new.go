package new

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/checkbox"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/arg"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
	"github.com/Paintersrp/nnt/pkg/shared/flags"
)

type options struct {
	file string
	todo bool
	now  func() time.Time
}

func NewCmdNew(f *state.Factory) *cobra.Command {
	opts := options{now: time.Now}

	cmd := &cobra.Command{
		Use:     "new [body...]",
		Aliases: []string{"add"},
		Short:   "Create a note from arguments, a file or the clipboard.",
		Long: heredoc.Doc(`
			Creates a note headed with today's date and the given tags. The body
			comes from the arguments, from --file (use - for stdin) or from the
			clipboard with --paste.
		`),
		Example: heredoc.Doc(`
			nnt new -t work "Call the printer vendor"
			git log -1 | nnt new --file - --tag release
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := flags.HandleTags(cmd)
			if err != nil {
				return err
			}
			paste, err := flags.HandlePaste(cmd)
			if err != nil {
				return err
			}

			body, err := readBody(cmd, args, paste, opts.file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(body) == "" {
				return fmt.Errorf("note body is empty")
			}

			s, err := f.Get()
			if err != nil {
				return err
			}
			sess, err := cli.Open(cmd.Context(), s, false)
			if err != nil {
				return err
			}

			header := note.Header(opts.now(), tags)
			n := sess.App.NewNote()
			session := n.Session()
			session.SetValue(header + strings.TrimRight(body, "\n") + "\n")
			if opts.todo {
				session.Select(checkbox.Range{Anchor: len(header), Head: len(session.Value())})
				session.ToggleCheckbox()
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, n.Value())
			if err := cli.Confirm("Create this note?", flags.HandleYes(cmd)); err != nil {
				return err
			}
			if err := sess.Save(); err != nil {
				return err
			}
			fmt.Fprintln(out, color.GreenString("Saved"))
			return nil
		},
	}

	flags.AddTags(cmd, "Tags of the new note.")
	flags.AddPaste(cmd)
	flags.AddYes(cmd)
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the body from a file, - for stdin.")
	cmd.Flags().BoolVar(&opts.todo, "todo", false, "Turn every body line into a task.")
	cmd.MarkFlagsMutuallyExclusive("paste", "file")

	return cmd
}

func readBody(cmd *cobra.Command, args []string, paste bool, file string) (string, error) {
	switch {
	case paste:
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	case file == "-":
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		return arg.HandleContent(args, 0), nil
	}
}
