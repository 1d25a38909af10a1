package preview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/render"
	"github.com/Paintersrp/nnt/internal/state"
	"github.com/Paintersrp/nnt/pkg/shared/cli"
)

func NewCmdPreview(f *state.Factory) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "preview <file|->",
		Short: "Show how the server would render a note.",
		Long: heredoc.Doc(`
			Sends a note to the server for rendering without saving it and
			prints the result. Use - to read the note from stdin.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := read(cmd.InOrStdin(), args[0])
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
			p, err := sess.Preview(src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printHeader(out, p)
			if markdown {
				body, err := render.Markdown(src, s.Style, s.WordWrap)
				if err != nil {
					return err
				}
				fmt.Fprint(out, body)
				return nil
			}
			body := render.ParseBody(p.HTML)
			fmt.Fprintln(out, body.Plain(func(i int) bool {
				return i < len(body.Checked) && body.Checked[i]
			}))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "Render the source locally instead of the server HTML.")

	return cmd
}

func read(stdin io.Reader, path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func printHeader(w io.Writer, p *note.Preview) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "(untitled)"
	}
	fmt.Fprintln(w, color.New(color.Bold, color.FgCyan).Sprint(name))

	var meta []string
	if p.Date != "" {
		meta = append(meta, p.Date)
	}
	if len(p.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(p.Tags, " #"))
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, color.New(color.Faint).Sprint(strings.Join(meta, "  ")))
	}
	fmt.Fprintln(w)
}
