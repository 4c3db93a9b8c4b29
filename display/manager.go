package display

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"cockpitview/config"
	"cockpitview/log"
	"cockpitview/ui/scale"
)

// Options configures a Manager.
type Options struct {
	// Store persists settings. Nil keeps settings in memory only.
	Store config.Store
	// SettingsKey is the store key of the settings record.
	SettingsKey string
	// Tolerance bounds how far the crop-tolerant scale may exceed contain.
	Tolerance float64
	// Delay is the trailing-edge delay applied to viewport changes.
	Delay time.Duration
	// Scheduler runs throttled recomputes. Nil uses time.AfterFunc.
	Scheduler Scheduler
	// Surface receives published states. Nil publishes to Global.
	Surface *Surface
	// Now is the clock used for export timestamps.
	Now func() time.Time
}

// DefaultOptions returns options matching config.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig derives manager options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SettingsKey: cfg.SettingsKey,
		Tolerance:   cfg.CropTolerance,
		Delay:       cfg.ResizeDelay(),
	}
}

// Manager is the single owner of the display pipeline. All mutating calls are
// serialized. Events are delivered after the lock is released, in the order
// their states were published, so the last scaleChanged a subscriber sees
// always carries the current state.
type Manager struct {
	mu   sync.Mutex
	opts Options

	settings      *config.Settings
	resolutionKey string
	resolution    scale.Resolution
	policy        scale.FitPolicy
	uiScale       float64

	viewportW float64
	viewportH float64

	state    *State
	loadedAt time.Time

	// outbox holds events not yet delivered; delivering is set while one
	// goroutine drains it.
	outbox     []queued
	delivering bool

	surface  *Surface
	bus      *Bus
	throttle *throttle
}

// NewManager loads persisted settings and returns a manager that has not
// published anything yet. Call Start once the viewport size is known.
func NewManager(opts Options) *Manager {
	if opts.SettingsKey == "" {
		opts.SettingsKey = config.DefaultConfig().SettingsKey
	}
	if opts.Tolerance < 0 || math.IsNaN(opts.Tolerance) {
		opts.Tolerance = scale.DefaultTolerance
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	surface := opts.Surface
	if surface == nil {
		surface = Global
	}

	m := &Manager{
		opts:          opts,
		settings:      config.LoadSettings(opts.Store, opts.SettingsKey),
		resolutionKey: scale.PresetAuto,
		resolution:    scale.DefaultResolution,
		policy:        scale.CropTolerant,
		uiScale:       scale.DefaultUIScale,
		loadedAt:      time.Now(),
		surface:       surface,
		bus:           NewBus(),
	}
	m.throttle = newThrottle(opts.Delay, opts.Scheduler, func() { m.Recompute() })
	return m
}

// mutate runs fn under the manager lock and then delivers the events it
// queued. When another call is already delivering, the events are left in
// the outbox for that call, which keeps delivery in publish order across
// goroutines and for handlers that mutate again.
func (m *Manager) mutate(fn func(b *batch) error) error {
	b := &batch{}
	m.mu.Lock()
	err := fn(b)
	m.outbox = append(m.outbox, b.events...)
	if m.delivering {
		m.mu.Unlock()
		return err
	}
	m.delivering = true
	m.mu.Unlock()

	m.deliver()
	return err
}

func (m *Manager) deliver() {
	for {
		m.mu.Lock()
		events := m.outbox
		m.outbox = nil
		if len(events) == 0 {
			m.delivering = false
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		for _, ev := range events {
			m.bus.Emit(ev.name, ev.payload)
		}
	}
}

// Start records the initial viewport size and applies the persisted settings
// with a single recompute. It replaces any ready-polling: callers invoke it
// once the rendering surface exists.
func (m *Manager) Start(width, height float64) error {
	return m.mutate(func(b *batch) error {
		m.viewportW, m.viewportH = width, height
		log.InfoLog.Printf("display starting with viewport %vx%v", width, height)
		return m.applyLocked(b)
	})
}

// Stop cancels a pending recompute and drops every subscriber. The last
// published state stays on the surface.
func (m *Manager) Stop() {
	m.throttle.Cancel()
	m.bus.Clear()
}

// Resize records a new viewport size and schedules a throttled recompute.
func (m *Manager) Resize(width, height float64) {
	m.mu.Lock()
	m.viewportW, m.viewportH = width, height
	m.mu.Unlock()

	log.ScaleTrace("resize %vx%v", width, height)
	m.throttle.Trigger()
}

// OrientationChanged is Resize for rotation events, which arrive with the
// post-rotation viewport size.
func (m *Manager) OrientationChanged(width, height float64) {
	log.ScaleTrace("orientation changed")
	m.Resize(width, height)
}

// Pending reports whether a throttled recompute is scheduled.
func (m *Manager) Pending() bool {
	return m.throttle.Pending()
}

// Recompute runs the scale pipeline for the current viewport and publishes
// the result. It returns the published state, which is the previous one when
// the viewport is unusable.
func (m *Manager) Recompute() State {
	var st State
	_ = m.mutate(func(b *batch) error {
		m.recomputeLocked(b)
		if m.state != nil {
			st = *m.state
		}
		return nil
	})
	return st
}

func (m *Manager) recomputeLocked(b *batch) {
	defer log.GetProfiler().StartRender("recompute")()

	ww, wh := m.viewportW, m.viewportH
	if !(ww > 0) || !(wh > 0) || math.IsInf(ww, 0) || math.IsInf(wh, 0) {
		log.WarningLog.Printf("skipping recompute for viewport %vx%v", ww, wh)
		return
	}

	vw, vh := float64(m.resolution.Width), float64(m.resolution.Height)
	sample := scale.Compute(vw, vh, ww, wh, m.opts.Tolerance)
	content := m.policy.Select(sample)
	if !(content > 0) || math.IsInf(content, 0) {
		log.WarningLog.Printf("skipping recompute: %s scale %v for %s in %vx%v",
			m.policy, content, m.resolution, ww, wh)
		return
	}

	t := scale.Centered(vw, vh, ww, wh, content)
	st := &State{
		ResolutionKey:  m.resolutionKey,
		Resolution:     m.resolution,
		Policy:         m.policy,
		ContentScale:   content,
		UIScale:        m.uiScale,
		EffectiveScale: content * m.uiScale,
		InverseScale:   1 / content,
		WindowWidth:    ww,
		WindowHeight:   wh,
		ScaledWidth:    vw * content,
		ScaledHeight:   vh * content,
		OffsetX:        t.OffsetX,
		OffsetY:        t.OffsetY,
		Sample:         sample,
	}
	m.state = st
	m.surface.Publish(st)
	b.add(EventScaleChanged, ScaleChanged{State: *st, Sample: sample})

	log.ScaleTrace("published %s %s scale=%.4f ui=%.2f offset=(%.1f,%.1f)",
		m.resolution, m.policy, content, m.uiScale, t.OffsetX, t.OffsetY)
}

// SetVirtualResolution selects a preset. For "custom", width and height give
// the new size; zero for both reuses the stored custom size. "fullscreen"
// snapshots the current viewport once. Invalid input leaves everything
// unchanged and returns a *scale.ValidationError.
func (m *Manager) SetVirtualResolution(key string, width, height int) error {
	return m.mutate(func(b *batch) error {
		if err := m.setResolutionLocked(b, key, width, height); err != nil {
			log.WarningLog.Printf("rejected resolution %q %dx%d: %v", key, width, height, err)
			return err
		}
		m.persistLocked()
		m.recomputeLocked(b)
		return nil
	})
}

func (m *Manager) resolvePreset(key string, width, height int) (scale.Preset, scale.Resolution, error) {
	preset, ok := scale.LookupPreset(key)
	if !ok {
		return preset, scale.Resolution{}, &scale.ValidationError{Field: "resolution", Value: key, Reason: "unknown preset"}
	}

	var r scale.Resolution
	switch {
	case preset.Size != nil:
		r = *preset.Size
	case key == scale.PresetAuto:
		r = scale.DefaultResolution
	case key == scale.PresetFullscreen:
		if !(m.viewportW > 0) || !(m.viewportH > 0) {
			return preset, r, &scale.ValidationError{Field: "resolution", Value: key, Reason: "viewport size unknown"}
		}
		r = scale.Resolution{Width: int(math.Round(m.viewportW)), Height: int(math.Round(m.viewportH))}
	case key == scale.PresetCustom:
		r = scale.Resolution{Width: width, Height: height}
		if width == 0 && height == 0 {
			r = m.settings.CustomSize()
		}
	}
	if err := r.Validate(); err != nil {
		return preset, r, err
	}
	return preset, r, nil
}

func (m *Manager) setResolutionLocked(b *batch, key string, width, height int) error {
	preset, r, err := m.resolvePreset(key, width, height)
	if err != nil {
		return err
	}

	if key == scale.PresetCustom {
		m.settings.SetCustomSize(r)
	}
	m.settings.Set(config.KeyResolution, key)

	if key == m.resolutionKey && r == m.resolution {
		return nil
	}
	m.resolutionKey = key
	m.resolution = r
	b.add(EventResolutionChanged, ResolutionChanged{Key: key, Width: r.Width, Height: r.Height, Preset: preset})
	return nil
}

// SetFitPolicy selects the fit policy by name. Unknown names are rejected
// without changing anything.
func (m *Manager) SetFitPolicy(name string) error {
	return m.mutate(func(b *batch) error {
		p, err := scale.ParseFitPolicy(name)
		if err != nil {
			log.WarningLog.Printf("rejected fit policy: %v", err)
			return err
		}
		m.policy = p
		m.settings.Set(config.KeyFitPolicy, p.String())
		m.persistLocked()
		m.recomputeLocked(b)
		return nil
	})
}

// SetUIScaleMultiplier sets the chrome multiplier. Values outside
// [scale.MinUIScale, scale.MaxUIScale] are rejected, not clamped.
func (m *Manager) SetUIScaleMultiplier(v float64) error {
	return m.mutate(func(b *batch) error {
		if err := validateUIScale(v); err != nil {
			log.WarningLog.Printf("rejected ui scale: %v", err)
			return err
		}
		m.uiScale = v
		m.settings.Set(config.KeyUIScaleMultiplier, v)
		m.persistLocked()
		m.recomputeLocked(b)
		return nil
	})
}

func validateUIScale(v float64) error {
	if !scale.ValidUIScale(v) {
		return &scale.ValidationError{
			Field:  "uiScaleMultiplier",
			Value:  v,
			Reason: fmt.Sprintf("must be within [%v, %v]", scale.MinUIScale, scale.MaxUIScale),
		}
	}
	return nil
}

// ApplySettings applies the current settings in order: resolution, fit
// policy, UI scale, then exactly one recompute. Invalid stored values are
// reported and the previous value for that step is kept.
func (m *Manager) ApplySettings() error {
	return m.mutate(m.applyLocked)
}

func (m *Manager) applyLocked(b *batch) error {
	var errs []error
	s := m.settings

	if err := m.setResolutionLocked(b, s.Resolution(), 0, 0); err != nil {
		log.WarningLog.Printf("stored resolution %q not applied: %v", s.Resolution(), err)
		errs = append(errs, err)
	}

	if p, err := scale.ParseFitPolicy(s.FitPolicy()); err == nil {
		m.policy = p
	} else {
		log.WarningLog.Printf("stored fit policy not applied, keeping %s: %v", m.policy, err)
		errs = append(errs, err)
	}

	if v := s.UIScaleMultiplier(); validateUIScale(v) == nil {
		m.uiScale = v
	} else {
		err := validateUIScale(v)
		log.WarningLog.Printf("stored ui scale not applied: %v", err)
		errs = append(errs, err)
	}

	m.recomputeLocked(b)
	return errors.Join(errs...)
}

// validateSettings checks the display keys of s without applying them.
// Fullscreen is accepted here since its size is only known when applied.
func validateSettings(s *config.Settings) error {
	if _, ok := scale.LookupPreset(s.Resolution()); !ok {
		return &scale.ValidationError{Field: "resolution", Value: s.Resolution(), Reason: "unknown preset"}
	}
	if err := s.CustomSize().Validate(); err != nil {
		return err
	}
	if _, err := scale.ParseFitPolicy(s.FitPolicy()); err != nil {
		return err
	}
	return validateUIScale(s.UIScaleMultiplier())
}

// persistLocked saves the settings. Persistence failures never fail the
// caller: the in-memory change stands and the engine stays usable.
func (m *Manager) persistLocked() {
	if m.opts.Store == nil {
		return
	}
	if err := config.SaveSettings(m.opts.Store, m.opts.SettingsKey, m.settings); err != nil {
		log.ErrorLog.Printf("settings not persisted: %v", err)
		return
	}
	m.loadedAt = time.Now()
}

// Reload re-reads the settings record when the store reports it changed
// since it was last read or written, and applies it. It returns whether a
// reload happened.
func (m *Manager) Reload() (bool, error) {
	var reloaded bool
	err := m.mutate(func(b *batch) error {
		if m.opts.Store == nil || !config.NeedsRefresh(m.opts.Store, m.opts.SettingsKey, m.loadedAt) {
			return nil
		}
		m.settings = config.LoadSettings(m.opts.Store, m.opts.SettingsKey)
		m.loadedAt = time.Now()
		reloaded = true
		log.InfoLog.Printf("settings %q changed on disk, reapplying", m.opts.SettingsKey)
		return m.applyLocked(b)
	})
	return reloaded, err
}

// Subscribe registers h for the named event.
func (m *Manager) Subscribe(event string, h Handler) *Subscription {
	return m.bus.Subscribe(event, h)
}

// OnScaleChanged registers fn for scale changes.
func (m *Manager) OnScaleChanged(fn func(ScaleChanged)) *Subscription {
	return m.bus.Subscribe(EventScaleChanged, func(p any) {
		if ev, ok := p.(ScaleChanged); ok {
			fn(ev)
		}
	})
}

// OnResolutionChanged registers fn for resolution changes.
func (m *Manager) OnResolutionChanged(fn func(ResolutionChanged)) *Subscription {
	return m.bus.Subscribe(EventResolutionChanged, func(p any) {
		if ev, ok := p.(ResolutionChanged); ok {
			fn(ev)
		}
	})
}

// State returns the last published state.
func (m *Manager) State() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return State{}, false
	}
	return *m.state, true
}

// Settings returns a copy of the current settings.
func (m *Manager) Settings() *config.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.Clone()
}

// Resolution returns the active preset key and virtual size.
func (m *Manager) Resolution() (string, scale.Resolution) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolutionKey, m.resolution
}

// Policy returns the active fit policy.
func (m *Manager) Policy() scale.FitPolicy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.policy
}

// UIScaleMultiplier returns the active chrome multiplier.
func (m *Manager) UIScaleMultiplier() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uiScale
}

// Viewport returns the last viewport size reported to the manager.
func (m *Manager) Viewport() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewportW, m.viewportH
}

// Tolerance returns the crop tolerance in use.
func (m *Manager) Tolerance() float64 {
	return m.opts.Tolerance
}

// Surface returns the surface the manager publishes to.
func (m *Manager) Surface() *Surface {
	return m.surface
}

// Mapper returns a coordinate mapper bound to the manager's surface.
func (m *Manager) Mapper() *Mapper {
	return NewMapper(m.surface)
}
