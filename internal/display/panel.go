package display

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"github.com/pleimann/camel-map/internal/config"
	"github.com/pleimann/camel-map/internal/hid"
)

// FrameSender sends frames to the device
type FrameSender interface {
	SendFrame(frame *hid.DisplayFrame) error
}

// StatusSource provides the TUI status line
type StatusSource interface {
	StatusLine() string
}

// Panel renders the mapping status to the OLED panel: active profile, last
// action and TUI status, each in a configured region.
type Panel struct {
	width    int
	height   int
	interval time.Duration
	device   FrameSender
	renderer *Renderer

	mu      sync.Mutex
	regions []*region
	dirty   bool
	cancel  context.CancelFunc
	done    chan struct{}
}

type region struct {
	config.DisplayRegion
	text string
}

// DefaultRegions is the layout used when the config defines none: the
// active profile in an inverted header and the last action below it.
func DefaultRegions(width, height int) []config.DisplayRegion {
	header := 16
	return []config.DisplayRegion{
		{Name: "profile", Width: width, Height: header, Source: config.SourceActiveMapping},
		{Name: "action", Y: header, Width: width, Height: height - header, Source: config.SourceLastAction},
	}
}

// NewPanel creates a panel for the display config
func NewPanel(cfg config.DisplayConfig, device FrameSender) *Panel {
	regions := cfg.Regions
	if len(regions) == 0 {
		regions = DefaultRegions(cfg.Width, cfg.Height)
	}

	p := &Panel{
		width:    cfg.Width,
		height:   cfg.Height,
		interval: time.Duration(cfg.UpdateIntervalMs) * time.Millisecond,
		device:   device,
		renderer: NewRenderer(cfg.Width, cfg.Height),
		dirty:    true,
	}
	for _, rc := range regions {
		r := &region{DisplayRegion: rc}
		if rc.Source == config.SourceStatic {
			r.text = rc.Content
		}
		p.regions = append(p.regions, r)
	}
	return p
}

// SetActiveMapping shows the active profile
func (p *Panel) SetActiveMapping(name string) {
	p.set(config.SourceActiveMapping, name)
}

// SetLastAction shows the last action run
func (p *Panel) SetLastAction(name string) {
	p.set(config.SourceLastAction, name)
}

// SetStatus shows the TUI status line
func (p *Panel) SetStatus(line string) {
	p.set(config.SourceTUIOutput, line)
}

func (p *Panel) set(source, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.regions {
		if r.Source == source && r.text != text {
			r.text = text
			p.dirty = true
		}
	}
}

// Text returns the text shown in the named region
func (p *Panel) Text(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.regions {
		if r.Name == name {
			return r.text, true
		}
	}
	return "", false
}

// Start refreshes the panel every update interval, pulling the status line
// from status when it is not nil
func (p *Panel) Start(ctx context.Context, status StatusSource) {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if status != nil {
					p.SetStatus(status.StatusLine())
				}
				if err := p.Flush(); err != nil {
					log.Printf("Display update failed: %v", err)
				}
			}
		}
	}()
}

// Stop stops refreshing and clears the panel
func (p *Panel) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if p.device != nil {
		p.device.SendFrame(hid.NewClearCommand())
	}
}

// Flush renders and sends the panel if anything changed since the last
// flush
func (p *Panel) Flush() error {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return nil
	}
	p.dirty = false
	p.renderer.Clear()
	for _, r := range p.regions {
		p.draw(r)
	}
	data := p.renderer.FrameBuffer()
	p.mu.Unlock()

	for _, frame := range Chunk(p.width, p.height, data) {
		if err := p.device.SendFrame(frame); err != nil {
			p.mu.Lock()
			p.dirty = true
			p.mu.Unlock()
			return err
		}
	}
	return nil
}

func (p *Panel) draw(r *region) {
	baseline := r.Y + p.renderer.Ascent() + 1
	switch r.Source {
	case config.SourceActiveMapping:
		p.renderer.FillRect(r.X, r.Y, r.Width, r.Height)
		p.renderer.DrawText(r.X+2, baseline, r.text, true)
	default:
		p.renderer.DrawTextWrapped(r.X+2, baseline, r.Width-4, r.text)
	}
}

// Bitmap returns the packed pixels of the named region, for tests and
// previews
func (p *Panel) Bitmap(name string) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.regions {
		if r.Name == name {
			return p.renderer.Pack(image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
		}
	}
	return nil
}
