package humanoid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pjkea/social-media-scraper-api/internal/config"
)

func testHumanoid(t *testing.T) *Humanoid {
	return New(config.HumanoidConfig{
		KeyDelayMinMs:   50,
		KeyDelayMaxMs:   150,
		PauseMinMs:      300,
		PauseMaxMs:      900,
		PointerSteps:    4,
		PointerJitterPx: 6,
	}, zaptest.NewLogger(t))
}

func TestKeyDelayStaysInRange(t *testing.T) {
	h := testHumanoid(t)
	for i := 0; i < 200; i++ {
		d := h.KeyDelay()
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.Less(t, d, 150*time.Millisecond)
	}
}

func TestPauseStaysInRange(t *testing.T) {
	h := testHumanoid(t)
	for i := 0; i < 200; i++ {
		d := h.Pause()
		assert.GreaterOrEqual(t, d, 300*time.Millisecond)
		assert.Less(t, d, 900*time.Millisecond)
	}
}

func TestDelaysVaryAcrossCalls(t *testing.T) {
	h := testHumanoid(t)

	values := map[time.Duration]int{}
	for i := 0; i < 100; i++ {
		values[h.KeyDelay()]++
	}
	// A human never types with metronome timing; with a 100ms span, 100
	// draws must produce many distinct values.
	assert.Greater(t, len(values), 10)
}

func TestDegenerateRangeIsConstant(t *testing.T) {
	h := New(config.HumanoidConfig{KeyDelayMinMs: 80, KeyDelayMaxMs: 80}, zaptest.NewLogger(t))
	assert.Equal(t, 80*time.Millisecond, h.KeyDelay())
}

func TestPointerPath(t *testing.T) {
	h := testHumanoid(t)
	target := Point{X: 200, Y: 120}

	path := h.PointerPath(target)
	require.NotEmpty(t, path)

	t.Run("ends exactly on target", func(t *testing.T) {
		assert.Equal(t, target, path[len(path)-1])
	})

	t.Run("has the configured number of steps", func(t *testing.T) {
		assert.Len(t, path, 4)
	})

	t.Run("next path starts from the new position", func(t *testing.T) {
		second := h.PointerPath(Point{X: 210, Y: 130})
		// Waypoints stay near the short segment between the two targets.
		for _, p := range second {
			assert.InDelta(t, 205, p.X, 30)
			assert.InDelta(t, 125, p.Y, 30)
		}
	})
}

func TestPointerPathMinimumSteps(t *testing.T) {
	h := New(config.HumanoidConfig{PointerSteps: 0}, zaptest.NewLogger(t))
	path := h.PointerPath(Point{X: 10, Y: 10})
	assert.Len(t, path, 2)
}

func TestJitterWithin(t *testing.T) {
	h := testHumanoid(t)

	points := map[Point]int{}
	for i := 0; i < 100; i++ {
		p := h.JitterWithin(100, 50, 80, 30)
		assert.GreaterOrEqual(t, p.X, 100.0)
		assert.LessOrEqual(t, p.X, 180.0)
		assert.GreaterOrEqual(t, p.Y, 50.0)
		assert.LessOrEqual(t, p.Y, 80.0)
		points[p]++
	}
	// Repeated clicks must not land on one pixel.
	assert.Greater(t, len(points), 50)
}
