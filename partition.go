package paintdev

import (
	"context"
	"image"
	"log/slog"
	"runtime"

	"github.com/gogpu/paintdev/device"
	"github.com/gogpu/paintdev/internal/parallel"
)

// PartitionFunc processes one strip of a partitioned rectangle. w wraps
// the device being processed and is owned by the call.
type PartitionFunc func(ctx context.Context, w *PreciseWrapper, strip image.Rectangle) error

// ProcessPartitioned splits rect into horizontal strips aligned to the
// device's tile rows and calls fn for each strip with its own
// PreciseWrapper. Strips run on up to workers goroutines; a non-positive
// workers value uses GOMAXPROCS. Devices in wrap-around mode are processed
// sequentially, because strips may alias the same storage.
//
// ctx is checked before each strip. The first error returned by fn or the
// context error is returned.
func ProcessPartitioned(ctx context.Context, dev *device.PaintDevice, rect image.Rectangle, workers int, fn PartitionFunc, opts ...PreciseOption) error {
	if !assertRecoverable(dev != nil && fn != nil, "partitioned processing without device or func") {
		return nil
	}
	strips := tileRowStrips(rect, dev.Offset().Y)
	if len(strips) == 0 {
		return nil
	}

	if dev.DefaultBounds().WrapAroundMode() {
		workers = 1
	}

	tasks := make([]parallel.Task, len(strips))
	for i, strip := range strips {
		tasks[i] = func(ctx context.Context) error {
			return fn(ctx, NewPreciseWrapper(dev, opts...), strip)
		}
	}

	pool := parallel.NewWorkerPool(min(workerCount(workers), len(strips)))
	defer pool.Close()

	Logger().Debug("paintdev: partitioned run",
		slog.Int("strips", len(strips)), slog.Int("workers", pool.Workers()))
	return pool.Run(ctx, tasks)
}

// workerCount resolves a non-positive worker count to GOMAXPROCS.
func workerCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// tileRowStrips splits rect at every tile row boundary. offsetY is the
// device offset, which shifts the tile grid in image space.
func tileRowStrips(rect image.Rectangle, offsetY int) []image.Rectangle {
	if rect.Empty() {
		return nil
	}
	var strips []image.Rectangle
	for y := rect.Min.Y; y < rect.Max.Y; {
		rel := (y - offsetY) % device.TileSize
		if rel < 0 {
			rel += device.TileSize
		}
		next := min(y+device.TileSize-rel, rect.Max.Y)
		strips = append(strips, image.Rect(rect.Min.X, y, rect.Max.X, next))
		y = next
	}
	return strips
}
