// Package asset fetches remote brand images and re-encodes them into
// embeddable rasters for the brochure pipeline.
//
// Failure is an expected outcome here: a brand's logo or hero URL is user
// supplied and frequently dead. The loader returns a typed error and the
// composer draws a labeled placeholder instead — a missing asset must never
// abort a whole document.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/h2non/bimg"
	"go.uber.org/zap"
)

// ErrUnavailable wraps every fetch/decode failure so callers can branch on
// "no asset" without inspecting the cause.
var ErrUnavailable = errors.New("asset unavailable")

// Re-encode parameters. Rasters are rendered at 4x the placement pixel size
// so they stay sharp in print, then compressed as JPEG at fixed quality.
const (
	dotsPerMM     = 96.0 / 25.4 // screen DPI in millimeter terms
	sharpnessMult = 4
	jpegQuality   = 80
	maxFetchBytes = 10 << 20 // refuse images over 10MB
)

// Image is a raster ready for embedding: re-encoded bytes plus the format
// tag the PDF layer needs to register it.
type Image struct {
	Data   []byte
	Format string // always "JPEG" after re-encode
}

// Loader fetches and re-encodes remote images. One attempt per URL, no
// retry — generation latency stays bounded and the placeholder path covers
// the failure.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a Loader with a bounded-timeout HTTP client.
func NewLoader(timeout time.Duration, logger *zap.Logger) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads the image at url and re-encodes it to fit a placement box
// of widthMM x heightMM. Any failure — network, status, decode — comes back
// wrapped in ErrUnavailable.
func (l *Loader) Fetch(ctx context.Context, url string, widthMM, heightMM float64) (*Image, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := l.download(ctx, url)
	if err != nil {
		l.logger.Warn("asset fetch failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	data, err := reencode(raw, widthMM, heightMM)
	if err != nil {
		l.logger.Warn("asset re-encode failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Image{Data: data, Format: "JPEG"}, nil
}

func (l *Loader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "brochure-service/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body for %s", url)
	}

	return data, nil
}

// reencode resizes the raw image (any format bimg/libvips understands) into
// the placement box at print resolution and flattens it to JPEG.
func reencode(raw []byte, widthMM, heightMM float64) ([]byte, error) {
	widthPx := int(widthMM * dotsPerMM * sharpnessMult)
	heightPx := int(heightMM * dotsPerMM * sharpnessMult)

	img := bimg.NewImage(raw)
	out, err := img.Process(bimg.Options{
		Width:   widthPx,
		Height:  heightPx,
		Type:    bimg.JPEG,
		Quality: jpegQuality,
		Embed:   true, // letterbox instead of distorting the aspect ratio
		Enlarge: true,
		Background: bimg.Color{
			R: 255, G: 255, B: 255,
		},
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, fmt.Errorf("re-encoding to %dx%dpx: %w", widthPx, heightPx, err)
	}
	return out, nil
}
