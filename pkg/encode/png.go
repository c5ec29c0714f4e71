package encode

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
)

// ErrEncodingFailed wraps any failure to persist an image.
var ErrEncodingFailed = errors.New("encoding failed")

// WritePNG writes img to path as a PNG, replacing any existing file.
func WritePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("%w: closing %s: %w", ErrEncodingFailed, path, closeErr)
		}
	}()

	err = png.Encode(f, img)
	if err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrEncodingFailed, path, err)
	}

	return nil
}
