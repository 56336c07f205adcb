package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/combochart/internal/theme"
)

func newThemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Long:  "List built-in themes and those loaded from the config directory or COMBOCHART_THEME_DIR.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listThemes(cmd.OutOrStdout())
		},
	}
}

func listThemes(out io.Writer) error {
	active := theme.Active().Name

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tBACKGROUND\tACCENT\tSERIES")
	for _, th := range theme.Available() {
		marker := ""
		if th.Name == active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			marker,
			th.Label(),
			th.Background,
			th.Accent,
			len(th.Series),
		)
	}
	return w.Flush()
}
