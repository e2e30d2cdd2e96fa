// Package humanoid wraps the raw browser input primitives with human-paced
// behavior: randomized per-keystroke delays, cognitive pauses, and pointer
// movement along a jittered multi-step path. Structure is deterministic,
// timing is not; no two calls draw identical delay values across a run.
package humanoid

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/internal/config"
)

// Point is a 2D page coordinate.
type Point struct {
	X float64
	Y float64
}

// Humanoid generates human-paced input actions for a single browser session.
// Safe for use from one request pipeline at a time; the internal mutex only
// guards the shared RNG and cursor state.
type Humanoid struct {
	cfg    config.HumanoidConfig
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
	pos Point
}

// New creates a Humanoid seeded from the current time. The starting cursor
// position approximates the middle of a common desktop viewport.
func New(cfg config.HumanoidConfig, logger *zap.Logger) *Humanoid {
	return &Humanoid{
		cfg:    cfg,
		logger: logger.Named("humanoid"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		pos:    Point{X: 683, Y: 384},
	}
}

// KeyDelay draws a fresh inter-keystroke delay from the configured range.
func (h *Humanoid) KeyDelay() time.Duration {
	return h.randDuration(h.cfg.KeyDelayMinMs, h.cfg.KeyDelayMaxMs)
}

// Pause draws a fresh cognitive pause, used after focusing a field and after
// finishing a burst of input.
func (h *Humanoid) Pause() time.Duration {
	return h.randDuration(h.cfg.PauseMinMs, h.cfg.PauseMaxMs)
}

func (h *Humanoid) randDuration(minMs, maxMs int) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	span := maxMs - minMs
	if span <= 0 {
		return time.Duration(minMs) * time.Millisecond
	}
	return time.Duration(minMs+h.rng.Intn(span)) * time.Millisecond
}

// PointerPath plans a short multi-step path from the current cursor position
// to target. Intermediate waypoints are jittered off the straight line; the
// final point is always exactly the target.
func (h *Humanoid) PointerPath(target Point) []Point {
	h.mu.Lock()
	defer h.mu.Unlock()

	steps := h.cfg.PointerSteps
	if steps < 2 {
		steps = 2
	}
	jitter := float64(h.cfg.PointerJitterPx)

	from := h.pos
	path := make([]Point, 0, steps)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		path = append(path, Point{
			X: from.X + (target.X-from.X)*t + (h.rng.Float64()*2-1)*jitter,
			Y: from.Y + (target.Y-from.Y)*t + (h.rng.Float64()*2-1)*jitter,
		})
	}
	path = append(path, target)
	h.pos = target
	return path
}

// JitterWithin picks a click point inside the element bounds, offset from
// the center so repeated clicks never land on the exact same pixel.
func (h *Humanoid) JitterWithin(x, y, width, height float64) Point {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Stay within the middle 60% of the box.
	jx := (h.rng.Float64() - 0.5) * width * 0.6
	jy := (h.rng.Float64() - 0.5) * height * 0.6
	return Point{X: x + width/2 + jx, Y: y + height/2 + jy}
}
