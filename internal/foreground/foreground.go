// Package foreground reports which application owns the active window.
package foreground

// Provider returns the name of the foreground application.
type Provider interface {
	// ForegroundApp returns the owner of the topmost normal on-screen window,
	// or false when it cannot be determined.
	ForegroundApp() (string, bool)
}

// Func adapts a function to the Provider interface.
type Func func() (string, bool)

// ForegroundApp calls the underlying function.
func (f Func) ForegroundApp() (string, bool) {
	return f()
}

// Static always reports the same application. The empty name reports none.
type Static string

// ForegroundApp implements Provider.
func (s Static) ForegroundApp() (string, bool) {
	if s == "" {
		return "", false
	}
	return string(s), true
}

// System returns the Provider for the current platform.
func System() Provider {
	return systemProvider{}
}
