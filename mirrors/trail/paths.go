package trail

import (
	"fmt"
	"time"

	"github.com/jdginn/go-mirror-box/mirrors"
)

// Paths re-traces every entry of h at now and pairs each path with its opacity.
// Fully faded entries are skipped.
func Paths(scene *mirrors.Scene, h *History, now time.Time, maxBounces int) ([]mirrors.FadedPath, error) {
	snapshot := h.Snapshot(now)
	out := make([]mirrors.FadedPath, 0, len(snapshot))
	for _, f := range snapshot {
		if f.Opacity <= 0 {
			continue
		}
		path, err := scene.TraceDegrees(f.AngleDeg, maxBounces)
		if err != nil {
			return nil, fmt.Errorf("re-tracing %v degrees: %w", f.AngleDeg, err)
		}
		out = append(out, mirrors.FadedPath{Path: path, Opacity: f.Opacity})
	}
	return out, nil
}
