package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

// Point is a single sample returned by Query.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = map[string]int64{}
)

// InitMetrics opens the time series storage under <workdir>/data/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	dir := filepath.Join(workdir, "data", "metrics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(dir),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(6*time.Hour),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	counters = map[string]int64{}
	return nil
}

// SetGauge records the current value of a gauge.
func SetGauge(name string, value int64) {
	insert(name, value)
}

// Incr adds delta to a counter and records the running total.
func Incr(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	total := counters[name]
	mu.Unlock()
	insert(name, total)
}

// Counter returns the in-process running total of a counter.
func Counter(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

func insert(name string, value int64) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return
	}
	err := s.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
	if err != nil {
		zap.L().Warn("metrics insert error", zap.String("metric", name), zap.Error(err))
	}
}

// Query returns the samples of a metric within [start, end).
func Query(name string, start, end time.Time) ([]Point, error) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return []Point{}, nil
	}
	points, err := s.Select(name, nil, start.Unix(), end.Unix())
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, err
	}
	result := make([]Point, 0, len(points))
	for _, p := range points {
		result = append(result, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return result, nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
