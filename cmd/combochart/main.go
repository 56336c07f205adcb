package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/combochart/internal/appupdate"
	"github.com/janekbaraniewski/combochart/internal/config"
	"github.com/janekbaraniewski/combochart/internal/theme"
	"github.com/janekbaraniewski/combochart/internal/version"
)

func main() {
	if os.Getenv("COMBOCHART_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}
	if err := theme.Load(config.ConfigDir()); err != nil {
		log.Printf("[themes] %v", err)
	}
	theme.SetActive(cfg.Theme)

	root := newRootCommand(cfg)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "combochart",
		Short:         "combochart draws bar and line series over a shared category axis.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newRenderCommand(cfg))
	root.AddCommand(newViewCommand(cfg))
	root.AddCommand(newThemesCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "combochart "+version.String())
			if !check {
				return nil
			}
			return printUpdateStatus(cmd.Context(), out, appupdate.CheckOptions{CurrentVersion: version.Version})
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func printUpdateStatus(ctx context.Context, out io.Writer, opts appupdate.CheckOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := appupdate.Check(ctx, opts)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}
	switch {
	case result.CurrentVersion == "":
		fmt.Fprintln(out, "development build, update check skipped")
	case result.UpdateAvailable:
		fmt.Fprintf(out, "update available: %s -> %s\n  %s\n", result.CurrentVersion, result.LatestVersion, result.UpgradeHint)
	default:
		fmt.Fprintln(out, "up to date")
	}
	return nil
}

// resolveTheme picks the named theme, or the active one when name is empty.
func resolveTheme(name string) (theme.Theme, error) {
	if name == "" {
		return theme.Active(), nil
	}
	th, ok := theme.Lookup(name)
	if !ok {
		return theme.Theme{}, fmt.Errorf("unknown theme %q (see 'combochart themes')", name)
	}
	return th, nil
}
