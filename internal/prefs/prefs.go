// Package prefs manages UI preference state: theme and locale, persisted to
// client-local storage and optionally tracking the OS colour-scheme signal.
//
// The manager is an explicit context object with a defined lifecycle: the
// presentation layer constructs one, calls Init exactly once, and calls
// Close on teardown. All mutation goes through the manager's operations.
package prefs

import (
	"log/slog"
	"sync"
)

// Theme is one of the closed set of theme values.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is inside the closed theme domain.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Locale is a UI language code from the configured supported set.
type Locale string

// rtlLocales are written right-to-left.
var rtlLocales = map[Locale]bool{"ar": true, "he": true, "fa": true}

// IsRTL reports whether l is a right-to-left locale.
func IsRTL(l Locale) bool {
	return rtlLocales[l]
}

// Persisted storage keys. Three independent keys, no schema versioning.
const (
	ThemeKey      = "tblog-theme"
	SystemPrefKey = "tblog-use-system-theme"
	LocaleKey     = "tblog-locale"
)

// Storage is durable client-local key-value storage. Write failures degrade
// the manager to in-memory operation; they are logged, never surfaced.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// SignalSource is the OS-level colour-scheme signal: a last-observed value
// plus push notifications on change.
type SignalSource interface {
	// Current returns the last-observed signal; ok is false when the
	// source cannot determine one.
	Current() (dark bool, ok bool)
	// Subscribe registers fn for change notifications and returns an
	// unsubscribe function. fn is invoked serially.
	Subscribe(fn func(dark bool)) (unsubscribe func())
}

// DocumentSink receives resolved document-level effects (theme class,
// language and direction attributes). AppliedTheme exposes the current
// state so reconciliation can skip redundant writes.
type DocumentSink interface {
	AppliedTheme() (Theme, bool)
	ApplyTheme(Theme)
	AppliedLocale() (Locale, bool)
	ApplyLocale(locale Locale, rtl bool)
}

// Options configures a Manager.
type Options struct {
	DefaultTheme           Theme
	EnableSystemPreference bool
	DefaultLocale          Locale
	Locales                []Locale
}

// State is a point-in-time snapshot of preference state.
type State struct {
	Theme        Theme
	SystemTheme  *Theme
	FollowSystem bool
	Locale       Locale
}

// Manager holds preference state and serialises all mutations. Reads are
// synchronous; the only asynchronous boundary is the signal subscription,
// whose handler takes the same lock, so last-write-wins.
type Manager struct {
	opts    Options
	storage Storage
	signal  SignalSource
	sink    DocumentSink
	logger  *slog.Logger

	mu           sync.Mutex
	theme        Theme
	systemTheme  *Theme
	followSystem bool
	locale       Locale
	initialized  bool
	unsubscribe  func()

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(State)
}

// NewManager creates an uninitialised manager. Call Init before use.
func NewManager(storage Storage, signal SignalSource, sink DocumentSink, opts Options, logger *slog.Logger) *Manager {
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = ThemeLight
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		opts:        opts,
		storage:     storage,
		signal:      signal,
		sink:        sink,
		logger:      logger,
		theme:       opts.DefaultTheme,
		locale:      opts.DefaultLocale,
		subscribers: make(map[int]func(State)),
	}
}

// Init hydrates state from storage, reconciles against whatever theme an
// earlier Bootstrap pass already applied, and starts the signal listener.
// Runs at most once; later calls are no-ops. Reconciliation is idempotent:
// an already-correct document gets no redundant sink or storage writes.
func (m *Manager) Init() {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true

	if m.signal != nil {
		if dark, ok := m.signal.Current(); ok {
			st := themeFor(dark)
			m.systemTheme = &st
		}
	}

	m.followSystem = m.storage != nil && get(m.storage, SystemPrefKey) == "true"

	switch {
	case m.followSystem && m.opts.EnableSystemPreference && m.systemTheme != nil:
		m.theme = *m.systemTheme
	default:
		if m.followSystem && !m.opts.EnableSystemPreference {
			m.followSystem = false
		}
		if saved := Theme(get(m.storage, ThemeKey)); saved.Valid() {
			m.theme = saved
		} else {
			m.theme = m.opts.DefaultTheme
		}
	}
	m.applyThemeLocked()

	if saved := Locale(get(m.storage, LocaleKey)); saved != "" && m.supported(saved) {
		m.locale = saved
	}
	m.applyLocaleLocked()

	if m.signal != nil {
		m.unsubscribe = m.signal.Subscribe(m.onSignal)
	}
	m.mu.Unlock()
	m.notify()
}

// Close stops the signal listener. Safe to call more than once.
func (m *Manager) Close() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// StateSnapshot returns the current preference state.
func (m *Manager) StateSnapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// SetTheme applies an explicit theme override. Disables follow-system mode
// and persists both the theme value and the cleared flag.
func (m *Manager) SetTheme(t Theme) {
	if !t.Valid() {
		m.logger.Warn("prefs: invalid theme ignored", slog.String("theme", string(t)))
		return
	}
	m.mu.Lock()
	m.theme = t
	m.followSystem = false
	m.applyThemeLocked()
	m.persist(ThemeKey, string(t))
	m.persist(SystemPrefKey, "false")
	m.mu.Unlock()
	m.notify()
}

// ToggleTheme flips light and dark, delegating to SetTheme.
func (m *Manager) ToggleTheme() {
	m.mu.Lock()
	current := m.theme
	m.mu.Unlock()
	if current == ThemeLight {
		m.SetTheme(ThemeDark)
	} else {
		m.SetTheme(ThemeLight)
	}
}

// EnableSystemPreference switches to follow-system mode: adopts the
// last-observed OS signal, persists the flag, and clears the persisted
// explicit theme. An explicit theme resumes only via SetTheme.
func (m *Manager) EnableSystemPreference() {
	if !m.opts.EnableSystemPreference {
		return
	}
	m.mu.Lock()
	if m.systemTheme == nil && m.signal != nil {
		if dark, ok := m.signal.Current(); ok {
			st := themeFor(dark)
			m.systemTheme = &st
		}
	}
	if m.systemTheme == nil {
		m.mu.Unlock()
		return
	}
	m.theme = *m.systemTheme
	m.followSystem = true
	m.applyThemeLocked()
	m.persist(SystemPrefKey, "true")
	m.remove(ThemeKey)
	m.mu.Unlock()
	m.notify()
}

// DisableSystemPreference leaves follow-system mode and persists the theme
// in effect at this moment so it survives the mode switch.
func (m *Manager) DisableSystemPreference() {
	m.mu.Lock()
	m.followSystem = false
	m.persist(SystemPrefKey, "false")
	m.persist(ThemeKey, string(m.theme))
	m.mu.Unlock()
	m.notify()
}

// SetLocale switches the UI language. Codes outside the configured
// supported set are logged and ignored.
func (m *Manager) SetLocale(l Locale) {
	if !m.supported(l) {
		m.logger.Warn("prefs: unsupported locale ignored", slog.String("locale", string(l)))
		return
	}
	m.mu.Lock()
	m.locale = l
	m.applyLocaleLocked()
	m.persist(LocaleKey, string(l))
	m.mu.Unlock()
	m.notify()
}

// Subscribe registers fn for state-change notifications and returns an
// unsubscribe function.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// onSignal handles an OS colour-scheme change. Always records the system
// theme; adopts it as the live theme only in follow-system mode. No
// persistence happens here: the explicit theme key stays cleared.
func (m *Manager) onSignal(dark bool) {
	st := themeFor(dark)
	m.mu.Lock()
	m.systemTheme = &st
	if m.followSystem {
		m.theme = st
		m.applyThemeLocked()
	}
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) stateLocked() State {
	return State{
		Theme:        m.theme,
		SystemTheme:  m.systemTheme,
		FollowSystem: m.followSystem,
		Locale:       m.locale,
	}
}

// applyThemeLocked pushes the current theme to the sink unless the document
// already shows it.
func (m *Manager) applyThemeLocked() {
	if m.sink == nil {
		return
	}
	if applied, ok := m.sink.AppliedTheme(); ok && applied == m.theme {
		return
	}
	m.sink.ApplyTheme(m.theme)
}

func (m *Manager) applyLocaleLocked() {
	if m.sink == nil || m.locale == "" {
		return
	}
	if applied, ok := m.sink.AppliedLocale(); ok && applied == m.locale {
		return
	}
	m.sink.ApplyLocale(m.locale, IsRTL(m.locale))
}

// persist writes one key, skipping the write when the stored value already
// matches. Storage failures downgrade to in-memory operation.
func (m *Manager) persist(key, value string) {
	if m.storage == nil {
		return
	}
	if current, ok := m.storage.Get(key); ok && current == value {
		return
	}
	if err := m.storage.Set(key, value); err != nil {
		m.logger.Warn("prefs: storage write failed, continuing in memory",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

func (m *Manager) remove(key string) {
	if m.storage == nil {
		return
	}
	if _, ok := m.storage.Get(key); !ok {
		return
	}
	if err := m.storage.Remove(key); err != nil {
		m.logger.Warn("prefs: storage remove failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	state := m.stateLocked()
	m.mu.Unlock()

	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (m *Manager) supported(l Locale) bool {
	for _, s := range m.opts.Locales {
		if s == l {
			return true
		}
	}
	return false
}

func get(s Storage, key string) string {
	if s == nil {
		return ""
	}
	v, _ := s.Get(key)
	return v
}

func themeFor(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
