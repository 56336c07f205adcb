package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/combochart/internal/chart"
	"github.com/janekbaraniewski/combochart/internal/config"
	"github.com/janekbaraniewski/combochart/internal/core"
	"github.com/janekbaraniewski/combochart/internal/render/raster"
	"github.com/janekbaraniewski/combochart/internal/render/svgcanvas"
	"github.com/janekbaraniewski/combochart/internal/source"
	"github.com/janekbaraniewski/combochart/internal/theme"
)

type renderOptions struct {
	data      string
	sheet     string
	out       string
	theme     string
	selectKey string
	width     int
	height    int
	dump      bool
}

func newRenderCommand(cfg config.Config) *cobra.Command {
	opts := renderOptions{
		width:  cfg.Render.Width,
		height: cfg.Render.Height,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart to PNG or SVG",
		Long: "Render a JSON or XLSX data file to an image. The output format follows the\n" +
			"--out extension. --dump prints every drawing call instead of, or as well as,\n" +
			"writing an image.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "chart data file (.json or .xlsx)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet name for .xlsx data (default: first sheet)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output image (.png or .svg)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme name (default: configured theme)")
	cmd.Flags().StringVar(&opts.selectKey, "select", "", "category key to highlight")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the drawing operations to stdout")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runRender(cfg config.Config, opts renderOptions, stdout io.Writer) error {
	if opts.out == "" && !opts.dump {
		return errors.New("nothing to do: pass --out, --dump or both")
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}

	th, err := resolveTheme(opts.theme)
	if err != nil {
		return err
	}
	doc, err := source.Load(opts.data, opts.sheet)
	if err != nil {
		return err
	}
	data, err := doc.Build(th, cfg.Chart.GroupSpace)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.data, err)
	}

	v, err := buildView(cfg, th, data, opts)
	if err != nil {
		return err
	}

	if opts.dump {
		measure := raster.NewMeasurer()
		defer measure.Close()
		rec := &chart.Recorder{Measurer: measure}
		v.Draw(rec)
		if err := rec.Dump(stdout); err != nil {
			return fmt.Errorf("writing dump: %w", err)
		}
	}
	if opts.out == "" {
		return nil
	}
	return writeImage(opts.out, v, theme.RGBA(th.Background, cfg.ChartConfig(th).AxisBackgroundColor))
}

func buildView(cfg config.Config, th theme.Theme, data source.Chart, opts renderOptions) (*chart.View, error) {
	v := chart.New(cfg.ChartConfig(th))
	v.SetBounds(chart.Size{W: float64(opts.width), H: float64(opts.height)})
	v.SetAxes(data.Axes)
	v.SetBarData(data.Bars)
	v.SetLineData(data.Lines)

	if opts.selectKey != "" {
		idx := lo.IndexOf(lo.Map(data.Axes, func(a core.Axis, _ int) string { return a.Key }), opts.selectKey)
		if idx < 0 {
			return nil, fmt.Errorf("--select: no category with key %q", opts.selectKey)
		}
		v.SelectIndex(idx)
	}
	return v, nil
}

func writeImage(path string, v *chart.View, bg color.Color) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported output format %q (want .png or .svg)", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	size := v.Bounds()
	w, h := int(size.W), int(size.H)
	switch ext {
	case ".png":
		c := raster.New(w, h, bg)
		defer c.Close()
		v.Draw(c)
		if err := c.EncodePNG(f); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
	case ".svg":
		c := svgcanvas.New(f, w, h, bg)
		v.Draw(c)
		if err := c.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	log.Printf("[render] wrote %s (%dx%d)", path, w, h)
	return nil
}
