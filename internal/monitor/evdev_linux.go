//go:build linux

package monitor

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// Linux input event constants, from linux/input-event-codes.h.
const (
	evKey = 0x01
	evRel = 0x02
	evAbs = 0x03

	relX     = 0x00
	relY     = 0x01
	relWheel = 0x08

	absX = 0x00
	absY = 0x01

	btnMouseFirst = 0x110 // BTN_LEFT
	btnMouseLast  = 0x117 // BTN_TASK

	keyValueRelease = 0
	keyValuePress   = 1
	keyValueRepeat  = 2
)

// eventSize is sizeof(struct input_event) on 64-bit Linux: two 8-byte
// timeval words plus type, code, value.
const eventSize = 24

// EvdevSource feeds raw events from /dev/input/event* devices into a
// Monitor. Relative pointer motion is integrated into a virtual absolute
// position so the jitter filter sees distances.
type EvdevSource struct {
	dir string
	mon *Monitor

	mu    sync.Mutex
	virtX float64
	virtY float64
}

// NewInputSource creates the platform input source reading from dir
// (normally /dev/input).
func NewInputSource(dir string, mon *Monitor) *EvdevSource {
	return &EvdevSource{dir: dir, mon: mon}
}

// Run opens every event device under the source directory and reads until
// ctx is done. Devices that cannot be opened (permissions, hotplug races)
// are skipped with a warning; a total absence of readable devices is an
// error worth surfacing once, but never fatal to the caller.
func (s *EvdevSource) Run(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	opened := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "event") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		// Non-blocking so readers poll with a timeout and notice ctx
		// cancellation; a blocking read on a quiet device never returns.
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			util.LogDebugf("Skipping input device %s: %v", path, err)
			continue
		}
		opened++
		wg.Add(1)
		go func(path string, fd int) {
			defer wg.Done()
			s.readDevice(ctx, path, fd)
		}(path, fd)
	}

	if opened == 0 {
		util.LogWarn("No readable input devices found; activity will read as idle")
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

// readDevice polls the device fd with a short timeout and dispatches
// decoded events. All failures end the reader quietly; classification
// just stops receiving updates from that device.
func (s *EvdevSource) readDevice(ctx context.Context, path string, fd int) {
	defer unix.Close(fd)
	defer func() {
		if r := recover(); r != nil {
			util.LogErrorf("Input reader panic on %s: %v", path, r)
		}
	}()

	buf := make([]byte, eventSize*64)
	pollSet := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ready, err := unix.Poll(pollSet, 500)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			util.LogDebugf("Input device %s poll failed: %v", path, err)
			return
		}
		if ready == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			util.LogDebugf("Input device %s closed: %v", path, err)
			return
		}
		if n == 0 {
			return
		}

		for off := 0; off+eventSize <= n; off += eventSize {
			typ := binary.LittleEndian.Uint16(buf[off+16 : off+18])
			code := binary.LittleEndian.Uint16(buf[off+18 : off+20])
			value := int32(binary.LittleEndian.Uint32(buf[off+20 : off+24]))
			s.dispatch(typ, code, value)
		}
	}
}

func (s *EvdevSource) dispatch(typ, code uint16, value int32) {
	switch typ {
	case evRel:
		switch code {
		case relX:
			s.moveBy(float64(value), 0)
		case relY:
			s.moveBy(0, float64(value))
		case relWheel:
			s.mon.Scroll()
		}
	case evAbs:
		switch code {
		case absX:
			s.moveTo(float64(value), -1)
		case absY:
			s.moveTo(-1, float64(value))
		}
	case evKey:
		if code >= btnMouseFirst && code <= btnMouseLast {
			if value == keyValuePress {
				s.mon.Click()
			}
			return
		}
		switch value {
		case keyValuePress, keyValueRepeat:
			s.mon.KeyPress(code)
		case keyValueRelease:
			s.mon.KeyRelease(code)
		}
	}
}

func (s *EvdevSource) moveBy(dx, dy float64) {
	s.mu.Lock()
	s.virtX += dx
	s.virtY += dy
	x, y := s.virtX, s.virtY
	s.mu.Unlock()
	s.mon.PointerMove(x, y)
}

func (s *EvdevSource) moveTo(x, y float64) {
	s.mu.Lock()
	if x >= 0 {
		s.virtX = x
	}
	if y >= 0 {
		s.virtY = y
	}
	x, y = s.virtX, s.virtY
	s.mu.Unlock()
	s.mon.PointerMove(x, y)
}
