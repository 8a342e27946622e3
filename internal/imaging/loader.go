package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgUserUnitsPerInch is the CSS reference resolution SVG user units are measured in.
const svgUserUnitsPerInch = 96.0

// ErrUnsupportedFormat is returned for files that are neither a supported raster
// format nor SVG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// Entries are keyed by path and resolution, since an SVG rasterised at one DPI is
// a different pixel buffer than the same file at another. Cached images are
// shared; callers must treat them as read-only and crop or clone before drawing.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/poster.svg", 150)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/poster.svg") // Re-read on next Load
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Image),
	}
}

func cacheKey(path string, dpi float64) string {
	return fmt.Sprintf("%s@%g", path, dpi)
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Raster files (PNG, JPEG, GIF) are decoded as is and tagged with dpi on both
// axes. SVG files are rasterised so that one inch of the drawing spans dpi
// pixels, on a white background.
//
// # Errors
//
//   - Returns error if dpi is not positive
//   - Returns error if the file does not exist or cannot be read
//   - Returns ErrUnsupportedFormat for unknown extensions
func (c *ImageCache) Load(path string, dpi float64) (*Image, error) {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return nil, fmt.Errorf("invalid resolution %g dpi", dpi)
	}

	key := cacheKey(path, dpi)
	c.mu.RLock()
	if img, ok := c.images[key]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := loadFile(path, dpi)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()

	return img, nil
}

// Evict removes every cached rendition of path, so the next Load reads the
// file from disk again.
func (c *ImageCache) Evict(path string) {
	prefix := path + "@"
	c.mu.Lock()
	for key := range c.images {
		if strings.HasPrefix(key, prefix) {
			delete(c.images, key)
		}
	}
	c.mu.Unlock()
}

// formatOf maps a file extension to the format name used in ImageInfo.
func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".svg":
		return "svg"
	}
	return "unknown"
}

func loadFile(path string, dpi float64) (*Image, error) {
	format := formatOf(path)
	if format == "unknown" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if format == "svg" {
		return decodeSVG(f, dpi)
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return New(img, dpi, dpi), nil
}

// decodeSVG rasterises an SVG document at the given resolution.
func decodeSVG(r io.Reader, dpi float64) (*Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}

	scale := dpi / svgUserUnitsPerInch
	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("failed to parse svg: empty view box %gx%g", icon.ViewBox.W, icon.ViewBox.H)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return New(canvas, dpi, dpi), nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// DPI is the resolution the image was loaded at.
	DPI float64 `json:"dpi"`

	// WidthInches is the physical width at DPI.
	WidthInches float64 `json:"width_inches"`

	// HeightInches is the physical height at DPI.
	HeightInches float64 `json:"height_inches"`

	// Format is "png", "jpeg", "gif" or "svg", detected from the file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string, dpi float64) (*ImageInfo, error) {
	img, err := cache.Load(path, dpi)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		DPI:           dpi,
		WidthInches:   img.WidthInches(),
		HeightInches:  img.HeightInches(),
		Format:        formatOf(path),
		FileSizeBytes: stat.Size(),
	}, nil
}
