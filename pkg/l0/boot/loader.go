package boot

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// StaticImage is an ImageSource with a known header.
type StaticImage ImageHeader

// ImageHeader implements ImageSource.
func (s StaticImage) ImageHeader() (ImageHeader, error) {
	return ImageHeader(s), nil
}

// ImageFile reads the header from the start of an image file.
type ImageFile string

// ImageHeader implements ImageSource.
func (f ImageFile) ImageHeader() (ImageHeader, error) {
	if f == "" {
		return ImageHeader{}, ErrNoImage
	}
	file, err := os.Open(string(f))
	if err != nil {
		return ImageHeader{}, errors.Wrap(err, "open update image")
	}
	defer file.Close()
	b := make([]byte, ImageHeaderSize)
	if _, err = io.ReadFull(file, b); err != nil {
		return ImageHeader{}, errors.Wrapf(err, "read header of %s", string(f))
	}
	return ParseImageHeader(b)
}

// ChainLoadFunc is func form of ChainLoader.
type ChainLoadFunc func(ImageHeader) error

// ChainLoad implements ChainLoader.
func (f ChainLoadFunc) ChainLoad(hdr ImageHeader) error {
	return f(hdr)
}
