package surface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/link"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// ErrNotMeasured is returned when Mount gives up before the host reported a
// usable size.
var ErrNotMeasured = errors.New("host surface not measured")

// Host is the mount target. Bounds reports ok=false until the host has a
// physical size; Resized signals that it may have changed.
type Host interface {
	Bounds() (width, height float64, ok bool)
	Resized() <-chan struct{}
}

// FixedHost is a host with a known size.
type FixedHost struct {
	Width, Height float64
}

// Bounds implements Host.
func (h FixedHost) Bounds() (float64, float64, bool) {
	return h.Width, h.Height, h.Width > 0 && h.Height > 0
}

// Resized implements Host. A fixed host never resizes.
func (FixedHost) Resized() <-chan struct{} { return nil }

// Options are the caller-supplied drawing dimensions. Zero values mean "use
// the host's size".
type Options struct {
	Width  float64
	Height float64
}

// Mount lays out the dataset and returns a ready surface. Missing dimensions
// are taken from the host; if the host cannot be measured yet, Mount waits for
// its resize signal. Only cancellation of ctx aborts the wait.
func Mount(ctx context.Context, host Host, ds *taxonomy.Dataset, opts Options) (*Surface, error) {
	width, height := opts.Width, opts.Height
	if !(width > 0) || !(height > 0) {
		var err error
		width, height, err = measure(ctx, host)
		if err != nil {
			return nil, err
		}
	}

	sc, err := NewScene(ds, width, height)
	if err != nil {
		return nil, err
	}
	return New(sc), nil
}

// NewScene lays out and resolves ds at a known size. Scenes are read-only
// once built and may back any number of surfaces.
func NewScene(ds *taxonomy.Dataset, width, height float64) (*Scene, error) {
	cfg, err := layout.NewConfig(width, height)
	if err != nil {
		return nil, err
	}
	d := layout.Build(ds, cfg)
	g := link.Resolve(d)
	if n := len(g.Unresolved()); n > 0 {
		slog.Debug("unresolved scheme members", "count", n)
	}
	return Build(d, g), nil
}

func measure(ctx context.Context, host Host) (float64, float64, error) {
	if host == nil {
		return 0, 0, fmt.Errorf("%w: no host", ErrNotMeasured)
	}
	for {
		if w, h, ok := host.Bounds(); ok {
			return w, h, nil
		}
		resized := host.Resized()
		if resized == nil {
			return 0, 0, fmt.Errorf("%w: host cannot report a size", ErrNotMeasured)
		}
		slog.Debug("deferring layout until host is measured")
		select {
		case <-ctx.Done():
			return 0, 0, fmt.Errorf("%w: %w", ErrNotMeasured, ctx.Err())
		case _, open := <-resized:
			if !open {
				if w, h, ok := host.Bounds(); ok {
					return w, h, nil
				}
				return 0, 0, fmt.Errorf("%w: host closed", ErrNotMeasured)
			}
		}
	}
}
