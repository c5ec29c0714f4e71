package main

import (
	"context"
	"fmt"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/willbeason/starfish/pkg/encode"
	"github.com/willbeason/starfish/pkg/julia"
	"github.com/willbeason/starfish/pkg/render"
	"os"
	"strconv"
	"time"
)

const (
	DefaultSize   = 1024
	DefaultOutput = "julia_starfish.png"
)

const (
	widthFlag       = "width"
	heightFlag      = "height"
	iterationsFlag  = "iterations"
	crFlag          = "cr"
	ciFlag          = "ci"
	xMinFlag        = "xmin"
	xMaxFlag        = "xmax"
	yMinFlag        = "ymin"
	yMaxFlag        = "ymax"
	outputFlag      = "output"
	workersFlag     = "workers"
	supersampleFlag = "supersample"
	profileFlag     = "profile"
)

func mainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "julia [N] [M] [out.png]",
		Short: "Render the starfish Julia set to a PNG",
		Long: `Render the Julia set of z^2 + c with smooth escape-time coloring.

N sets both the width and height of the image, M the iteration cap, and
out.png the output path. Positional arguments take precedence over flags.`,
		Args: cobra.MaximumNArgs(3),
		RunE: runCmd,
	}

	defaults := julia.Default(DefaultSize, DefaultSize)

	flags := cmd.Flags()
	flags.Int(widthFlag, defaults.Width, "image columns")
	flags.Int(heightFlag, defaults.Height, "image rows")
	flags.Int(iterationsFlag, defaults.MaxIterations, "maximum iterations before a point is considered interior")
	flags.Float64(crFlag, real(defaults.C), "real part of the Julia constant c")
	flags.Float64(ciFlag, imag(defaults.C), "imaginary part of the Julia constant c")
	flags.Float64(xMinFlag, defaults.View.XMin, "left edge of the viewport")
	flags.Float64(xMaxFlag, defaults.View.XMax, "right edge of the viewport")
	flags.Float64(yMinFlag, defaults.View.YMin, "bottom edge of the viewport")
	flags.Float64(yMaxFlag, defaults.View.YMax, "top edge of the viewport")
	flags.StringP(outputFlag, "o", DefaultOutput, "path of the PNG to write")
	flags.Int(workersFlag, 0, "goroutines rendering rows; 0 for one per CPU")
	flags.Int(supersampleFlag, 1, "render NxN points per pixel and downscale")
	flags.String(profileFlag, "", "write a profile while rendering: cpu, mem or trace")

	return cmd
}

func runCmd(cmd *cobra.Command, args []string) error {
	cfg, output, err := parseConfig(cmd.Flags(), args)
	if err != nil {
		return err
	}

	opts := render.Options{}
	opts.Workers, err = cmd.Flags().GetInt(workersFlag)
	if err != nil {
		return err
	}
	opts.Supersample, err = cmd.Flags().GetInt(supersampleFlag)
	if err != nil {
		return err
	}

	mode, err := cmd.Flags().GetString(profileFlag)
	if err != nil {
		return err
	}
	stop, err := startProfile(mode, ".")
	if err != nil {
		return err
	}

	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true
	defer stop()

	start := time.Now()
	img, err := render.Render(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered in %v\n", time.Since(start).Round(time.Millisecond))

	err = encode.WritePNG(output, img)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, M=%d)\n", output, cfg.Width, cfg.Height, cfg.MaxIterations)

	return nil
}

// parseConfig builds the render configuration from flags, then applies the
// positional [N] [M] [out.png] arguments.
func parseConfig(flags *pflag.FlagSet, args []string) (julia.Config, string, error) {
	var cfg julia.Config
	var err error

	ints := []struct {
		name string
		dst  *int
	}{
		{widthFlag, &cfg.Width},
		{heightFlag, &cfg.Height},
		{iterationsFlag, &cfg.MaxIterations},
	}
	for _, f := range ints {
		*f.dst, err = flags.GetInt(f.name)
		if err != nil {
			return cfg, "", err
		}
	}

	var cr, ci float64
	floats := []struct {
		name string
		dst  *float64
	}{
		{crFlag, &cr},
		{ciFlag, &ci},
		{xMinFlag, &cfg.View.XMin},
		{xMaxFlag, &cfg.View.XMax},
		{yMinFlag, &cfg.View.YMin},
		{yMaxFlag, &cfg.View.YMax},
	}
	for _, f := range floats {
		*f.dst, err = flags.GetFloat64(f.name)
		if err != nil {
			return cfg, "", err
		}
	}
	cfg.C = complex(cr, ci)
	cfg.Escape2 = julia.DefaultEscape2

	output, err := flags.GetString(outputFlag)
	if err != nil {
		return cfg, "", err
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return cfg, "", fmt.Errorf("invalid N %q: must be a positive integer", args[0])
		}
		cfg.Width, cfg.Height = n, n
	}
	if len(args) > 1 {
		m, err := strconv.Atoi(args[1])
		if err != nil || m <= 0 {
			return cfg, "", fmt.Errorf("invalid M %q: must be a positive integer", args[1])
		}
		cfg.MaxIterations = m
	}
	if len(args) > 2 {
		output = args[2]
	}

	return cfg, output, cfg.Validate()
}

// startProfile begins profiling, writing the profile into dir. The returned function stops it.
func startProfile(mode, dir string) (func(), error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	case "trace":
		kind = profile.TraceProfile
	default:
		return nil, fmt.Errorf("unknown profile %q: want cpu, mem or trace", mode)
	}

	return profile.Start(kind, profile.ProfilePath(dir), profile.NoShutdownHook).Stop, nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
