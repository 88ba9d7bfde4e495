// Package host holds the glue shared by the window and terminal front ends.
package host

import (
	"log/slog"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/scheduler"
)

// Resize forwards new surface bounds to the scheduler and logs a failure. It
// reports whether the scheduler accepted the bounds.
func Resize(s *scheduler.Scheduler, logger *slog.Logger, width, height float64) bool {
	if err := s.OnResize(field.Bounds{Width: width, Height: height}); err != nil {
		logger.Error("resize", "width", width, "height", height, "err", err)
		return false
	}
	return true
}
