package main

import (
	"cockpitview/config"
	"cockpitview/log"
	"cockpitview/panel"
	"cockpitview/server"
	"cockpitview/ui/scale"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/HugoSmits86/nativewebp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	virtualFlag   string
	windowFlag    string
	toleranceFlag float64
	canvasFlag    string
	outputFlag    string

	computeCmd = &cobra.Command{
		Use:   "compute",
		Short: "Print the scale sample and the framing of every fit policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			virtual, err := parseSize(virtualFlag)
			if err != nil {
				return fmt.Errorf("invalid --virtual: %w", err)
			}
			if err := virtual.Validate(); err != nil {
				return err
			}

			var winW, winH float64
			if windowFlag != "" {
				win, err := parseSize(windowFlag)
				if err != nil {
					return fmt.Errorf("invalid --window: %w", err)
				}
				winW, winH = float64(win.Width), float64(win.Height)
			} else {
				winW, winH = terminalPixels(cfg)
			}

			tolerance := cfg.CropTolerance
			if cmd.Flags().Changed("tolerance") {
				tolerance = toleranceFlag
			}
			return writeCompute(cmd.OutOrStdout(), virtual, winW, winH, tolerance)
		},
	}

	exportCmd = &cobra.Command{
		Use:   "export <file>",
		Short: "Write the stored display settings to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			m, err := startManager(config.LoadConfig())
			if err != nil {
				return err
			}
			defer m.Stop()
			if err := m.ExportFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("Exported display settings to %s\n", args[0])
			return nil
		},
	}

	importCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a snapshot file into the stored display settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			m, err := startManager(config.LoadConfig())
			if err != nil {
				return err
			}
			defer m.Stop()
			if err := m.ImportFile(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}
			key, r := m.Resolution()
			fmt.Printf("Imported %s: resolution %s (%s), policy %s, ui scale %.2f\n",
				args[0], key, r, m.Policy(), m.UIScaleMultiplier())
			return nil
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render <panel>",
		Short: "Rasterize a panel's calibration pattern into a canvas image (.webp or .png)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, err := parseSize(canvasFlag)
			if err != nil {
				return fmt.Errorf("invalid --canvas: %w", err)
			}
			out := outputFlag
			if out == "" {
				out = args[0] + ".webp"
			}
			return renderPanel(panel.DefaultRegistry(), args[0], canvas, out)
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the cockpit preview over SSH",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(true)
			defer log.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := server.ConfigFromEnv(config.LoadConfig())
			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("Serving cockpit preview on %s\n", cfg.Addr())
			return srv.Run(ctx)
		},
	}
)

func init() {
	computeCmd.Flags().StringVar(&virtualFlag, "virtual", scale.DefaultResolution.String(),
		"Virtual resolution as WIDTHxHEIGHT")
	computeCmd.Flags().StringVar(&windowFlag, "window", "",
		"Window size in pixels as WIDTHxHEIGHT. Defaults to the terminal size in pixels")
	computeCmd.Flags().Float64Var(&toleranceFlag, "tolerance", scale.DefaultTolerance,
		"Crop tolerance of the cropTolerant policy")

	renderCmd.Flags().StringVar(&canvasFlag, "canvas", "800x600", "Canvas size in pixels as WIDTHxHEIGHT")
	renderCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (.webp or .png)")
}

// parseSize parses WIDTHxHEIGHT.
func parseSize(s string) (scale.Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return scale.Resolution{}, fmt.Errorf("%q is not WIDTHxHEIGHT", s)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil {
		return scale.Resolution{}, fmt.Errorf("%q is not WIDTHxHEIGHT", s)
	}
	r := scale.Resolution{Width: width, Height: height}
	if r.Width <= 0 || r.Height <= 0 {
		return scale.Resolution{}, fmt.Errorf("%q must have positive dimensions", s)
	}
	return r, nil
}

// terminalPixels converts the size of the controlling terminal into pixels.
// Without a terminal the default virtual resolution is used.
func terminalPixels(cfg *config.Config) (float64, float64) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return float64(scale.DefaultVirtualWidth), float64(scale.DefaultVirtualHeight)
	}
	return float64(cols * cfg.CellWidthPx), float64(rows * cfg.CellHeightPx)
}

func writeCompute(w io.Writer, virtual scale.Resolution, winW, winH, tolerance float64) error {
	if winW <= 0 || winH <= 0 {
		return fmt.Errorf("window %vx%v must have positive dimensions", winW, winH)
	}
	s := scale.Compute(float64(virtual.Width), float64(virtual.Height), winW, winH, tolerance)

	fmt.Fprintf(w, "virtual %s  window %gx%g  tolerance %.2f\n", virtual, winW, winH, tolerance)
	fmt.Fprintf(w, "aspect  window %.4f  virtual %.4f\n", s.AspectRatio, s.BaseAspectRatio)
	fmt.Fprintf(w, "scales  contain %.6f  cropTolerant %.6f  cover %.6f\n",
		s.ContainScale, s.CropTolerantScale, s.CoverScale)
	for _, p := range scale.Policies {
		f := scale.ComputeFraming(s, p)
		t := scale.Centered(s.VirtualWidth, s.VirtualHeight, winW, winH, f.Scale)
		fmt.Fprintf(w, "%-13s scale %.6f  offset %.1f,%.1f  bars %.1fx%.1f  crop %.1fx%.1f (%.1f%%)\n",
			p, f.Scale, t.OffsetX, t.OffsetY, f.LetterboxX, f.LetterboxY, f.CropX, f.CropY, f.CropFraction*100)
	}
	return nil
}

// renderPanel fits a panel into a canvas of the given size and writes the
// rasterized calibration pattern. The format follows the file extension.
func renderPanel(reg *panel.Registry, name string, canvas scale.Resolution, path string) error {
	spec, ok := reg.Spec(name)
	if !ok {
		return fmt.Errorf("unknown panel %q (known: %s)", name, strings.Join(reg.Names(), ", "))
	}
	l, err := reg.Layout(name, float64(canvas.Width), float64(canvas.Height))
	if err != nil {
		return err
	}
	img := panel.Rasterize(l, panel.Pattern(spec))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := encodeImage(f, img, filepath.Ext(path)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func encodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	case ".png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
