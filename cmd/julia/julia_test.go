package main

import (
	"bytes"
	"context"
	"errors"
	"github.com/willbeason/starfish/pkg/julia"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := mainCmd()
	cmd.SetArgs(args)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCmd_Positional(t *testing.T) {
	path := filepath.Join(t.TempDir(), "star.png")

	out, err := execute(t, "16", "40", path)
	if err != nil {
		t.Fatalf("execute() = %v\n%s", err, out)
	}

	if want := "Wrote " + path + " (16x16, M=40)"; !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got.X != 16 || got.Y != 16 {
		t.Errorf("image size = %v, want 16x16", got)
	}
}

func TestRunCmd_Flags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")

	out, err := execute(t,
		"--width", "12", "--height", "5", "--iterations", "20",
		"--cr=0", "--ci=0", "--workers", "2", "--supersample", "2",
		"-o", path)
	if err != nil {
		t.Fatalf("execute() = %v\n%s", err, out)
	}

	if want := "(12x5, M=20)"; !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestRunCmd_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{name: "zero N", args: []string{"0"}},
		{name: "negative M", args: []string{"8", "-1"}},
		{name: "non-numeric N", args: []string{"big"}},
		{name: "single pixel", args: []string{"1", "10", filepath.Join(dir, "a.png")}},
		{name: "too many args", args: []string{"8", "8", "a.png", "extra"}},
		{name: "NaN constant", args: []string{"--cr=NaN", "8", "10", filepath.Join(dir, "nan.png")}},
		{name: "infinite viewport", args: []string{"--xmin=-Inf", "8", "10", filepath.Join(dir, "inf.png")}},
		{name: "flipped viewport", args: []string{"--xmin=1", "--xmax=-1", "8"}},
		{name: "unknown profile", args: []string{"--profile", "gpu", "8", "8", filepath.Join(dir, "b.png")}},
		{name: "unwritable output", args: []string{"8", "8", filepath.Join(dir, "missing", "c.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Fatalf("execute(%v) succeeded, want error", tt.args)
			}
		})
	}
}

func TestRunCmd_ProfileInWorkingDirectory(t *testing.T) {
	work := t.TempDir()
	outDir := t.TempDir()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := execute(t, "--profile", "cpu", "8", "10", filepath.Join(outDir, "p.png"))
	if err != nil {
		t.Fatalf("execute() = %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(work, "cpu.pprof")); err != nil {
		t.Errorf("profile not written to working directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "cpu.pprof")); err == nil {
		t.Error("profile written next to the output image")
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cmd := mainCmd()

	cfg, output, err := parseConfig(cmd.Flags(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if want := julia.Default(DefaultSize, DefaultSize); cfg != want {
		t.Errorf("parseConfig() = %+v, want %+v", cfg, want)
	}
	if output != DefaultOutput {
		t.Errorf("output = %q, want %q", output, DefaultOutput)
	}
}

func TestParseConfig_SingleRow(t *testing.T) {
	cmd := mainCmd()
	if err := cmd.Flags().Parse([]string{"--height", "1"}); err != nil {
		t.Fatal(err)
	}

	_, _, err := parseConfig(cmd.Flags(), nil)
	if !errors.Is(err, julia.ErrInvalidDimensions) {
		t.Fatalf("parseConfig() = %v, want %v", err, julia.ErrInvalidDimensions)
	}
}
