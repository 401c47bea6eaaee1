package monitor

import (
	"math"
	"sync"
	"time"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Monitor classifies the local user as WORKING or IDLE from raw input
// events. A single locked timestamp records the last qualifying event;
// everything else is derived. Event intake methods may be called from any
// goroutine.
type Monitor struct {
	mu sync.Mutex

	idleThreshold float64 // seconds
	jitterPixels  float64
	longPress     time.Duration

	lastActivity time.Time
	lastX, lastY float64
	held         map[uint16]time.Time
	running      bool

	now func() time.Time
}

// New creates a monitor with the given thresholds. idleThreshold and
// longPress are in seconds, jitterPixels in screen pixels.
func New(idleThreshold, jitterPixels, longPress float64) *Monitor {
	return &Monitor{
		idleThreshold: idleThreshold,
		jitterPixels:  jitterPixels,
		longPress:     time.Duration(longPress * float64(time.Second)),
		held:          make(map[uint16]time.Time),
		now:           time.Now,
	}
}

// Start begins accepting input events. The activity timer resets to now so
// a freshly started session classifies as WORKING. Idempotent.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.lastActivity = m.now()
	util.LogInfo("Activity monitor started")
}

// Stop halts event intake. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	util.LogInfo("Activity monitor stopped")
}

// Running reports whether the monitor is accepting events.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// SetIdleThreshold updates the idle threshold, in seconds. Used by config
// hot reload.
func (m *Monitor) SetIdleThreshold(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds > 0 {
		m.idleThreshold = seconds
	}
}

// Status returns the current classification and the seconds elapsed since
// the last qualifying event. The boundary is closed-open: elapsed equal to
// the threshold still counts as WORKING.
func (m *Monitor) Status() (model.ActivityState, float64) {
	m.mu.Lock()
	elapsed := m.now().Sub(m.lastActivity).Seconds()
	threshold := m.idleThreshold
	m.mu.Unlock()

	if elapsed > threshold {
		return model.StateIdle, elapsed
	}
	return model.StateWorking, elapsed
}

// PointerMove handles a pointer movement to absolute position (x, y).
// Movements below the jitter threshold do not qualify and do not advance
// the recorded position.
func (m *Monitor) PointerMove(x, y float64) {
	defer m.absorb()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}

	if math.Hypot(x-m.lastX, y-m.lastY) < m.jitterPixels {
		return
	}
	m.lastX = x
	m.lastY = y
	m.lastActivity = m.now()
}

// Click handles a button press or release. Always qualifies.
func (m *Monitor) Click() {
	defer m.absorb()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.lastActivity = m.now()
}

// Scroll handles a wheel event. Always qualifies.
func (m *Monitor) Scroll() {
	defer m.absorb()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.lastActivity = m.now()
}

// KeyPress handles a key-down or key-repeat for the given key code. A key
// held continuously beyond the long-press threshold stops qualifying, so a
// stuck key cannot mask idleness forever.
func (m *Monitor) KeyPress(code uint16) {
	defer m.absorb()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}

	now := m.now()
	if first, ok := m.held[code]; ok {
		if now.Sub(first) > m.longPress {
			return
		}
	} else {
		m.held[code] = now
	}
	m.lastActivity = now
}

// KeyRelease handles a key-up for the given key code. Always qualifies and
// clears long-press tracking for that key.
func (m *Monitor) KeyRelease(code uint16) {
	defer m.absorb()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}

	delete(m.held, code)
	m.lastActivity = m.now()
}

// absorb swallows panics at the event-handler boundary. A misbehaving
// input backend must never take the monitor down; worst case is a missed
// activity update.
func (m *Monitor) absorb() {
	if r := recover(); r != nil {
		util.LogErrorf("Input event handler panic: %v", r)
	}
}
