package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ds124wfegd/imagehist/config"
	"github.com/ds124wfegd/imagehist/internal/appServer"
	"github.com/ds124wfegd/imagehist/internal/pkg/processor"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "processor",
		Short:        "Rotate images and plot their color histograms",
		SilenceUsage: true,
	}
	root.AddCommand(newRotateCmd(afero.NewOsFs()))
	return root
}

type rotateOptions struct {
	input string
	angle int
	out   string
}

func newRotateCmd(fs afero.Fs) *cobra.Command {
	var opts rotateOptions

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate an image counter-clockwise and write histograms of both versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			charts, err := processor.NewChartRenderer(appServer.ChartOptions(loadChartConfig()))
			if err != nil {
				return err
			}
			return runRotate(cmd, fs, processor.NewImageProcessor(charts), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "image to rotate (png, jpeg or gif)")
	cmd.Flags().IntVarP(&opts.angle, "angle", "a", 0, "rotation angle in degrees, counter-clockwise")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// loadChartConfig uses ./config/config.yaml when present.
func loadChartConfig() config.ChartConfig {
	v, err := config.LoadConfig()
	if err == nil {
		if cfg, err := config.ParseConfig(v); err == nil {
			return cfg.Chart
		}
	}
	logrus.Warn("config not usable, falling back to default chart settings")
	return config.Default().Chart
}

func runRotate(cmd *cobra.Command, fs afero.Fs, proc processor.ImageProcessor, opts rotateOptions) error {
	data, err := afero.ReadFile(fs, opts.input)
	if err != nil {
		return err
	}

	res, err := proc.Analyze(cmd.Context(), data, opts.angle)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}

	name := filepath.Base(opts.input)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	outputs := map[string][]byte{
		"rotated_" + stem + processor.Extension(res.RotatedFormat): res.RotatedData,
		stem + "_hist.png":              res.OriginalChart.PNG,
		"rotated_" + stem + "_hist.png": res.RotatedChart.PNG,
	}
	for file, body := range outputs {
		path := filepath.Join(opts.out, file)
		if err := afero.WriteFile(fs, path, body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		cmd.Printf("wrote %s\n", path)
	}

	cmd.Printf("%s: %dx%d %s -> %dx%d (angle %d)\n",
		name, res.Original.Width(), res.Original.Height(), res.Original.Layout(),
		res.Rotated.Width(), res.Rotated.Height(), opts.angle)
	for _, h := range res.RotatedHist {
		st := h.Stats()
		cmd.Printf("  %-5s mean=%.2f std=%.2f median=%.0f min=%d max=%d\n",
			st.Channel, st.Mean, st.StdDev, st.Median, st.Min, st.Max)
	}
	return nil
}
