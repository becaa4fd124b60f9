package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/rhiz/internal/registry"
)

// ProbeModule is a shared, self-contained module for concurrency tests. Its
// builtins record when each labelled call ran and how many ran at once.
//
//	(probe "label")                 sleeps briefly, then succeeds
//	(fail-after "50ms" "message")   sleeps for the duration, then fails
type ProbeModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
	active         atomic.Int32
	peak           atomic.Int32
}

// NewProbeModule creates a probe module whose `probe` calls sleep for the
// given duration.
func NewProbeModule(sleep time.Duration) *ProbeModule {
	return &ProbeModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// Register registers the "probe" and "fail-after" builtins.
func (m *ProbeModule) Register(r *registry.Registry) {
	r.Register(&registry.Builtin{
		Name:      "probe",
		Signature: registry.Fixed(registry.Text("label")),
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			m.track(inv.Word(0), m.sleepDuration)
			return nil
		},
	})
	r.Register(&registry.Builtin{
		Name:      "fail-after",
		Signature: registry.Fixed(registry.Text("delay"), registry.Text("message")),
		Run: func(ctx context.Context, inv *registry.Invocation) error {
			d, err := time.ParseDuration(inv.Word(0))
			if err != nil {
				return err
			}
			m.track(inv.Word(1), d)
			return errors.New(inv.Word(1))
		},
	})
}

func (m *ProbeModule) track(label string, d time.Duration) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	startTime := time.Now()
	time.Sleep(d)
	endTime := time.Now()

	m.mu.Lock()
	m.ExecutionTimes[label] = &ExecutionRecord{Start: startTime, End: endTime}
	m.mu.Unlock()
}

// Labels returns the labels of every finished call, sorted.
func (m *ProbeModule) Labels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.ExecutionTimes))
	for label := range m.ExecutionTimes {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Record returns the execution record for label.
func (m *ProbeModule) Record(label string) (*ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.ExecutionTimes[label]
	return rec, ok
}

// Peak returns the highest number of probe calls that ran at the same time.
func (m *ProbeModule) Peak() int {
	return int(m.peak.Load())
}
