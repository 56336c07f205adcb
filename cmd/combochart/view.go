package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/combochart/internal/config"
	"github.com/janekbaraniewski/combochart/internal/source"
	"github.com/janekbaraniewski/combochart/internal/theme"
	"github.com/janekbaraniewski/combochart/internal/tui"
)

func newViewCommand(cfg config.Config) *cobra.Command {
	var (
		data      string
		sheet     string
		themeName string
		noWatch   bool
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a chart interactively in the terminal",
		Long: "Open the data file in a terminal chart. Click or drag to select a category,\n" +
			"use the arrow keys to step, t to cycle themes. The chart reloads when the\n" +
			"file changes on disk.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := os.Stat(data); err != nil {
				return fmt.Errorf("data file: %w", err)
			}
			th, err := resolveTheme(themeName)
			if err != nil {
				return err
			}
			theme.SetActive(th.Name)
			return runViewer(tui.Options{Path: data, Sheet: sheet, Config: cfg, Theme: th}, !noWatch)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "chart data file (.json or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for .xlsx data (default: first sheet)")
	cmd.Flags().StringVar(&themeName, "theme", "", "theme name (default: configured theme)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the file changes")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runViewer(opts tui.Options, watch bool) error {
	model := tui.NewModel(opts)
	defer model.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if watch {
		go func() {
			err := source.Watch(ctx, opts.Path, source.DefaultDebounce, func() {
				program.Send(tui.FileChangedMsg{})
			})
			if err != nil {
				log.Printf("[view] watch %s: %v", opts.Path, err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
