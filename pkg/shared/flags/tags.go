package flags

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/nnt/pkg/shared/arg"
)

func AddTags(cmd *cobra.Command, usage string) {
	cmd.Flags().StringSliceP("tag", "t", nil, usage)
}

// HandleTags returns the tags given with --tag, split and de-duplicated.
func HandleTags(cmd *cobra.Command) ([]string, error) {
	raw, err := cmd.Flags().GetStringSlice("tag")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range raw {
		out = append(out, arg.ParseTags(r)...)
	}
	return arg.Dedupe(out), nil
}
