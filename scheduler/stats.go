package scheduler

import (
	"reflect"
	"time"
)

// Stats provides statistics about scheduler execution.
type Stats struct {
	Ticks   int64
	Skipped int64
	Failed  int64
	Stages  []StageStats
}

// StageStats provides execution statistics for a single stage.
type StageStats struct {
	Name  string
	Count int64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Last  time.Duration
	Total time.Duration
}

type stageStatsInternal struct {
	name  string
	count int64
	min   time.Duration
	max   time.Duration
	total time.Duration
	last  time.Duration
}

func newStageStats(stage Stage) *stageStatsInternal {
	return &stageStatsInternal{
		name: stageName(stage),
		min:  time.Duration(1<<63 - 1),
	}
}

func stageName(stage Stage) string {
	if n, ok := stage.(Named); ok {
		return n.Name()
	}
	t := reflect.TypeOf(stage)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func (s *stageStatsInternal) record(d time.Duration) {
	s.count++
	s.last = d
	s.total += d
	if d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

func (s *stageStatsInternal) snapshot() StageStats {
	out := StageStats{
		Name:  s.name,
		Count: s.count,
		Max:   s.max,
		Last:  s.last,
		Total: s.total,
	}
	if s.count > 0 {
		out.Min = s.min
		out.Avg = s.total / time.Duration(s.count)
	}
	return out
}
