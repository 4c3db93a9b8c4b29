package panel

import (
	"fmt"
	"math"
	"sync"
	"time"

	"cockpitview/log"
	"cockpitview/ui/scale"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Slot is where a panel sits on the cockpit, in cockpit virtual pixels.
type Slot struct {
	Name string
	Rect scale.Rect
}

// Mapper is the part of display.Mapper a registry needs to place slots.
type Mapper interface {
	VirtualRectToScreen(r scale.Rect) (scale.Rect, error)
}

type layoutKey struct {
	name string
	w, h int
}

// Registry holds the known display types and caches their layouts per
// canvas size.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
	order    []string
	cache    *expirable.LRU[layoutKey, Layout]
}

// NewRegistry returns an empty registry caching up to size layouts.
func NewRegistry(size int) *Registry {
	return &Registry{
		adapters: make(map[string]*Adapter),
		cache:    expirable.NewLRU[layoutKey, Layout](size, nil, 10*time.Minute),
	}
}

// DefaultRegistry returns a registry with the built-in display types.
func DefaultRegistry() *Registry {
	r := NewRegistry(64)
	for _, spec := range Defaults {
		if err := r.Register(spec); err != nil {
			log.ErrorLog.Printf("built-in panel %s: %v", spec.Name, err)
		}
	}
	return r
}

// Register adds or replaces a display type.
func (r *Registry) Register(spec Spec) error {
	a, err := NewAdapter(spec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[spec.Name]; !ok {
		r.order = append(r.order, spec.Name)
	}
	r.adapters[spec.Name] = a
	r.cache.Purge()
	return nil
}

// Names returns the registered display types in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Spec returns the registered spec for name.
func (r *Registry) Spec(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	if !ok {
		return Spec{}, false
	}
	return a.Spec(), true
}

// Layout fits the named panel into a canvas. Canvas sizes are rounded to
// whole pixels for caching.
func (r *Registry) Layout(name string, canvasW, canvasH float64) (Layout, error) {
	r.mu.RLock()
	a, ok := r.adapters[name]
	r.mu.RUnlock()
	if !ok {
		return Layout{}, fmt.Errorf("unknown panel %q", name)
	}

	key := layoutKey{name: name, w: int(math.Round(canvasW)), h: int(math.Round(canvasH))}
	if l, ok := r.cache.Get(key); ok {
		return l, nil
	}

	l, err := a.Layout(float64(key.w), float64(key.h))
	if err != nil {
		return Layout{}, err
	}
	r.cache.Add(key, l)
	return l, nil
}

// Place fits the panel of slot into the screen area the cockpit mapper gives
// the slot's rectangle. The cockpit scale only decides the canvas; the panel
// content uses its own contain fit inside it.
func (r *Registry) Place(m Mapper, slot Slot) (Layout, error) {
	screen, err := m.VirtualRectToScreen(slot.Rect)
	if err != nil {
		return Layout{}, err
	}
	l, err := r.Layout(slot.Name, screen.Width, screen.Height)
	if err != nil {
		return Layout{}, err
	}
	return l.At(scale.Point{X: screen.X, Y: screen.Y}), nil
}

// Cached returns the number of cached layouts.
func (r *Registry) Cached() int {
	return r.cache.Len()
}

// DefaultSlots positions the built-in panels on a 1920x1080 cockpit.
var DefaultSlots = []Slot{
	{Name: "radar", Rect: scale.Rect{X: 660, Y: 140, Width: 600, Height: 600}},
	{Name: "console", Rect: scale.Rect{X: 40, Y: 640, Width: 560, Height: 400}},
	{Name: "mfd", Rect: scale.Rect{X: 1400, Y: 640, Width: 400, Height: 400}},
}

// ScaleSlots rescales slots authored for from onto the to resolution.
func ScaleSlots(slots []Slot, from, to scale.Resolution) []Slot {
	sx := float64(to.Width) / float64(from.Width)
	sy := float64(to.Height) / float64(from.Height)
	out := make([]Slot, len(slots))
	for i, s := range slots {
		out[i] = Slot{
			Name: s.Name,
			Rect: scale.Rect{X: s.Rect.X * sx, Y: s.Rect.Y * sy, Width: s.Rect.Width * sx, Height: s.Rect.Height * sy},
		}
	}
	return out
}
