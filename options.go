package xlstamp

// Options holds configuration for the Stamper.
type Options struct {
	imagesDir       string
	imageSize       float64
	lockAspectRatio bool
	scanColumns     int
	condition       string
	jpegQuality     int
	newID           func() string
}

func defaultOptions() *Options {
	return &Options{
		imagesDir:   "images",
		imageSize:   60,
		scanColumns: 6,
		condition:   DefaultPropagateCondition,
		jpegQuality: 90,
		newID:       NewIdentifier,
	}
}

// Option configures the Stamper.
type Option func(*Options)

// WithImagesDir sets the name of the export directory created beside the
// workbook (default: "images").
func WithImagesDir(name string) Option {
	return func(o *Options) { o.imagesDir = name }
}

// WithImageSize sets the square footprint of the placed picture in pixels
// (default: 60).
func WithImageSize(size float64) Option {
	return func(o *Options) { o.imageSize = size }
}

// WithLockAspectRatio controls aspect-ratio locking on the placed picture.
// Off by default: the picture is stretched to the exact square footprint.
func WithLockAspectRatio(lock bool) Option {
	return func(o *Options) { o.lockAspectRatio = lock }
}

// WithScanColumns sets how many leading columns the propagation check reads
// per row (default: 6).
func WithScanColumns(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.scanColumns = n
		}
	}
}

// WithPropagateCondition sets the expr condition evaluated per row during
// propagation. The environment exposes "cells" ([]string, the scanned column
// values) and "row" (1-based row number). Propagation continues while the
// condition is true.
func WithPropagateCondition(condition string) Option {
	return func(o *Options) {
		if condition != "" {
			o.condition = condition
		}
	}
}

// WithJPEGQuality sets the JPEG encoder quality, 1-100 (default: 90).
func WithJPEGQuality(q int) Option {
	return func(o *Options) {
		if q >= 1 && q <= 100 {
			o.jpegQuality = q
		}
	}
}

// WithIdentifierFunc sets a custom identifier generator. Enclosing braces are
// stripped from whatever the generator returns.
func WithIdentifierFunc(fn func() string) Option {
	return func(o *Options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
