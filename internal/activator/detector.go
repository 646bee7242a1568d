package activator

import (
	"sync"
	"time"
)

// holdDetector reports an activation once the button has been held for the
// threshold. Releasing earlier cancels it.
type holdDetector struct {
	threshold  time.Duration
	onActivate func(detail any)

	mu      sync.Mutex
	pressed bool
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func (d *holdDetector) Start(detail any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || d.pressed {
		return
	}
	d.pressed = true
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.threshold, func() {
		d.mu.Lock()
		// Only fire if this press is still the current one
		fire := d.pressed && d.gen == gen && !d.stopped
		d.timer = nil
		d.mu.Unlock()

		if fire {
			d.onActivate(detail)
		}
	})
}

func (d *holdDetector) End(any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pressed = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *holdDetector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pressed = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// repeatDetector reports an activation when a second start phase arrives
// before the window opened by the first one expires.
type repeatDetector struct {
	window     time.Duration
	onActivate func(detail any)

	mu      sync.Mutex
	waiting bool
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func (d *repeatDetector) Start(detail any) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	// Second press inside the window
	if d.waiting {
		d.waiting = false
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
		d.mu.Unlock()
		d.onActivate(detail)
		return
	}

	d.waiting = true
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.gen == gen {
			d.waiting = false
			d.timer = nil
		}
		d.mu.Unlock()
	})
	d.mu.Unlock()
}

func (d *repeatDetector) End(any) {}

func (d *repeatDetector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.waiting = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

type edgeDetector struct {
	onEnd      bool
	onActivate func(detail any)

	mu      sync.Mutex
	stopped bool
}

func (d *edgeDetector) Start(detail any) {
	if !d.onEnd {
		d.fire(detail)
	}
}

func (d *edgeDetector) End(detail any) {
	if d.onEnd {
		d.fire(detail)
	}
}

func (d *edgeDetector) fire(detail any) {
	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if !stopped {
		d.onActivate(detail)
	}
}

func (d *edgeDetector) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
