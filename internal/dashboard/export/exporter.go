package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/energydash/energydash/internal/observability"
)

const dataURIPrefix = "data:image/png;base64,"

// ErrNotDataURI is returned when decoding a href that is not a PNG data URI.
var ErrNotDataURI = errors.New("export: not a png data uri")

// Anchor is a transient download link.
type Anchor struct {
	Href     string
	Download string
}

// Downloader activates an anchor, delivering its contents to the user.
type Downloader interface {
	Click(ctx context.Context, anchor Anchor)
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, anchor Anchor)

// Click calls f(ctx, anchor).
func (f DownloaderFunc) Click(ctx context.Context, anchor Anchor) {
	f(ctx, anchor)
}

// Recorder counts export outcomes.
type Recorder interface {
	ObserveExport(outcome string)
}

// Exporter saves chart surfaces as PNG downloads.
type Exporter struct {
	cache   *Cache
	logger  *slog.Logger
	metrics Recorder
}

// NewExporter wires an exporter. cache and metrics may be nil.
func NewExporter(cache *Cache, logger *slog.Logger, metrics Recorder) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{cache: cache, logger: logger, metrics: metrics}
}

// Export resolves the surface mounted under id, encodes it as a PNG data
// URI and clicks a one-off anchor named "<id>.png". A missing surface or an
// encoding failure results in no download and nothing returned.
func (e *Exporter) Export(ctx context.Context, resolver SurfaceResolver, downloader Downloader, id string) {
	if resolver == nil || downloader == nil {
		e.observe(observability.ExportMissing)
		return
	}
	surface, ok := resolver.ResolveSurface(id)
	if !ok || surface == nil {
		e.logger.Debug("export surface not mounted", slog.String("id", id))
		e.observe(observability.ExportMissing)
		return
	}
	data, err := e.Encode(ctx, surface)
	if err != nil {
		e.logger.Warn("export encode failed", slog.String("id", id), slog.Any("error", err))
		e.observe(observability.ExportFailed)
		return
	}
	downloader.Click(ctx, Anchor{Href: EncodeDataURI(data), Download: Filename(id)})
	e.observe(observability.ExportDownloaded)
}

// Encode renders a surface to PNG bytes, serving repeated requests for the
// same contents from the cache.
func (e *Exporter) Encode(ctx context.Context, surface Surface) ([]byte, error) {
	key, err := e.cache.BuildKey(ctx, keyChart(surface.ID(), surface.Fingerprint())...)
	if err != nil {
		e.logger.Warn("export cache key", slog.Any("error", err))
		return encodeSurface(surface)
	}
	var renderErr error
	data, err := e.cache.FetchBytes(ctx, key, func(context.Context) ([]byte, error) {
		out, err := encodeSurface(surface)
		renderErr = err
		return out, err
	})
	if renderErr != nil {
		return nil, renderErr
	}
	if err != nil {
		e.logger.Warn("export cache unavailable", slog.Any("error", err))
		return encodeSurface(surface)
	}
	return data, nil
}

// Warm encodes every surface into the cache and returns how many were
// freshly rendered.
func (e *Exporter) Warm(ctx context.Context, surfaces SurfaceSet) (int, error) {
	rendered := 0
	for _, id := range surfaces.IDs() {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		surface := surfaces[id]
		key, err := e.cache.BuildKey(ctx, keyChart(id, surface.Fingerprint())...)
		if err != nil {
			return rendered, err
		}
		cached, err := e.cache.Has(ctx, key)
		if err != nil {
			return rendered, err
		}
		if cached {
			continue
		}
		if _, err := e.cache.FetchBytes(ctx, key, func(context.Context) ([]byte, error) {
			return encodeSurface(surface)
		}); err != nil {
			return rendered, fmt.Errorf("warm %s: %w", id, err)
		}
		rendered++
	}
	return rendered, nil
}

func (e *Exporter) observe(outcome string) {
	if e.metrics != nil {
		e.metrics.ObserveExport(outcome)
	}
}

func encodeSurface(surface Surface) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export: render %s panicked: %v", surface.ID(), r)
		}
	}()
	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename is the download name of a chart.
func Filename(id string) string {
	return id + ".png"
}

// EncodeDataURI wraps PNG bytes in a data URI.
func EncodeDataURI(data []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI extracts the PNG bytes from a data URI built by EncodeDataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, ErrNotDataURI
	}
	return base64.StdEncoding.DecodeString(payload)
}
