package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOnlyAfterInterval(t *testing.T) {
	p := NewProfiler()

	stop := p.Begin(PhaseRender)
	stop()
	assert.False(t, p.Tick())

	// Backdate the last report so the next tick crosses the interval.
	p.lastReport = time.Now().Add(-2 * time.Second)
	p.Record(PhaseCompute, 3*time.Millisecond)
	p.Record(PhaseCompute, 5*time.Millisecond)
	assert.True(t, p.Tick())

	// Samples are cleared after a report.
	assert.Empty(t, p.samples[PhaseCompute])
	assert.False(t, p.Tick())
}
