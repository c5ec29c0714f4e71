package render

import (
	"context"
	"errors"
	"fmt"
	"github.com/nfnt/resize"
	"github.com/willbeason/starfish/pkg/julia"
	"github.com/willbeason/starfish/pkg/palette"
	"image"
	"image/draw"
	"math"
	"runtime"
	"sync"
)

// ErrOutOfMemory is returned when the output buffer cannot be allocated.
var ErrOutOfMemory = errors.New("out of memory")

// bytesPerPixel is the size of one RGBA pixel in the output buffer.
const bytesPerPixel = 4

type Options struct {
	// Workers is the number of goroutines rendering rows.
	// Zero means one per CPU.
	Workers int

	// Supersample renders Supersample x Supersample points per pixel and
	// downscales the result with a Lanczos filter. Values below 2 disable
	// supersampling. The filter blends neighbouring samples, so a pixel whose
	// own sample is interior may come out tinted rather than black.
	Supersample int
}

// Render computes every pixel of cfg into a new image.
//
// The image's Pix slice is the output buffer: row-major, top row first, four
// bytes per pixel. It is only returned once every pixel has been written.
func Render(ctx context.Context, cfg julia.Config, opts Options) (*image.RGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.Supersample < 2 {
		return render(ctx, cfg, opts.Workers)
	}

	return supersample(ctx, cfg, opts)
}

func render(ctx context.Context, cfg julia.Config, workers int) (*image.RGBA, error) {
	img, err := allocate(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, cfg.Height)

	yChannel := make(chan int)

	go func() {
		defer close(yChannel)
		for y := 0; y < cfg.Height; y++ {
			select {
			case yChannel <- y:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Rows are disjoint ranges of img.Pix, so workers need no locking.
	ywg := sync.WaitGroup{}
	ywg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer ywg.Done()
			for y := range yChannel {
				Row(cfg, img, y)
			}
		}()
	}
	ywg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return img, nil
}

// Row writes row y of cfg into img.
func Row(cfg julia.Config, img *image.RGBA, y int) {
	p := img.PixOffset(0, y)
	pix := img.Pix[p : p+cfg.Width*bytesPerPixel]

	for x := 0; x < cfg.Width; x++ {
		c := palette.Color(cfg.Evaluate(x, y), cfg.MaxIterations)

		i := x * bytesPerPixel
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func supersample(ctx context.Context, cfg julia.Config, opts Options) (*image.RGBA, error) {
	k := opts.Supersample
	if cfg.Width > math.MaxInt/k || cfg.Height > math.MaxInt/k {
		return nil, fmt.Errorf("%w: %dx supersampling of %dx%d", ErrOutOfMemory, k, cfg.Width, cfg.Height)
	}

	hi := cfg
	hi.Width *= k
	hi.Height *= k

	big, err := render(ctx, hi, opts.Workers)
	if err != nil {
		return nil, err
	}

	small := resize.Resize(uint(cfg.Width), uint(cfg.Height), big, resize.Lanczos3)
	if rgba, ok := small.(*image.RGBA); ok {
		return rgba, nil
	}

	img, err := allocate(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	draw.Draw(img, img.Bounds(), small, small.Bounds().Min, draw.Src)

	return img, nil
}

// allocate returns a zeroed width x height image, or ErrOutOfMemory if the
// buffer cannot be represented or allocated.
func allocate(width, height int) (img *image.RGBA, err error) {
	if width > math.MaxInt/bytesPerPixel/height {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrOutOfMemory, width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%w: %dx%d pixels: %v", ErrOutOfMemory, width, height, r)
		}
	}()

	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}
