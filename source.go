package exfatprobe

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/vdiskfs/exfatprobe/checkpoint"
)

// These errors may occur while reading from a disk image.
var (
	ErrOpenImage     = errors.New("could not open the image")
	ErrOffsetRange   = errors.New("offset is outside of the image")
	ErrTruncatedRead = errors.New("the image ends inside the requested range")
)

// Source provides read access to raw byte ranges of a disk image.
// It mainly exists to be able to mock the image access in tests.
// Generated mock using mockgen:
//
//	mockgen -source=source.go -destination=source_mock.go -package exfatprobe
type Source interface {
	// ReadAt reads length bytes starting at the absolute byte offset.
	// It may return fewer bytes together with ErrTruncatedRead when the
	// image ends inside the requested range.
	ReadAt(offset int64, length int) ([]byte, error)
}

// ImageSource reads byte ranges from a container file on an afero
// filesystem. The file is opened for each read and closed again
// afterwards, no state is kept between calls. This makes it safe to
// run several inspections against the same read-only image at once.
type ImageSource struct {
	fs   afero.Fs
	path string
}

// NewImageSource returns an ImageSource for the image at path.
// The file is not touched until the first read.
func NewImageSource(fs afero.Fs, path string) *ImageSource {
	return &ImageSource{
		fs:   fs,
		path: path,
	}
}

// ReadAt performs one positioned read against the image.
//
// A range starting at or behind the end of the image fails with
// ErrOffsetRange. A range that starts inside the image but ends behind
// it returns the available bytes together with ErrTruncatedRead, the
// caller decides whether the short block is still worth decoding.
func (s *ImageSource) ReadAt(offset int64, length int) ([]byte, error) {
	file, err := s.fs.Open(s.path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	if offset < 0 || offset >= info.Size() {
		return nil, checkpoint.Wrap(fmt.Errorf("offset %d, image size %d", offset, info.Size()), ErrOffsetRange)
	}

	buffer := make([]byte, length)
	n, err := file.ReadAt(buffer, offset)
	if err != nil && err != io.EOF {
		return nil, checkpoint.Wrap(err, ErrOpenImage)
	}

	if n < length {
		return buffer[:n], checkpoint.Wrap(io.ErrUnexpectedEOF, ErrTruncatedRead)
	}

	return buffer, nil
}
