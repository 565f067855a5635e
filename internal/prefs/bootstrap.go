package prefs

// Bootstrap is the early, minimal theme pass that runs before the manager
// attaches, so the first paint shows the right theme. It resolves the theme
// the same way Init does and applies it to the sink only when the document
// does not already show it. Applying the same theme twice is a no-op, so
// Bootstrap followed by Init leaves exactly one applied theme and no
// redundant writes.
func Bootstrap(storage Storage, signal SignalSource, sink DocumentSink, opts Options) Theme {
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = ThemeLight
	}

	theme := opts.DefaultTheme
	follow := storage != nil && get(storage, SystemPrefKey) == "true"

	if follow && opts.EnableSystemPreference && signal != nil {
		if dark, ok := signal.Current(); ok {
			theme = themeFor(dark)
		}
	} else if saved := Theme(get(storage, ThemeKey)); saved.Valid() {
		theme = saved
	}

	if sink != nil {
		if applied, ok := sink.AppliedTheme(); !ok || applied != theme {
			sink.ApplyTheme(theme)
		}
	}
	return theme
}
