package imagesearch

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF for DecodeConfig
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig

	"github.com/gabriel-vasile/mimetype"
)

// Format is an accepted raster image format.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
)

var allowedFormats = map[string]Format{
	"image/jpeg": JPEG,
	"image/png":  PNG,
	"image/gif":  GIF,
	// animated PNG is still a PNG stream; the first frame is the default image
	"image/vnd.mozilla.apng": PNG,
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// DetectFormat sniffs data and accepts only JPEG, PNG and GIF.
func DetectFormat(data []byte) (Format, error) {
	mt := mimetype.Detect(data)
	if f, ok := allowedFormats[mt.String()]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
}

// Image is one downloaded, validated picture.
type Image struct {
	URL    string
	Data   []byte
	Format Format
	Width  int
	Height int
}

func decodeImage(link string, data []byte) (*Image, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnsupportedFormat, format, err)
	}
	return &Image{
		URL:    link,
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
