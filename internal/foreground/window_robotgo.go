//go:build !darwin && cgo

package foreground

import (
	"strings"

	"github.com/go-vgo/robotgo"
)

type systemProvider struct{}

// ForegroundApp resolves the process owning the active window.
func (systemProvider) ForegroundApp() (string, bool) {
	pid := robotgo.GetPid()
	if pid <= 0 {
		return "", false
	}
	name, err := robotgo.FindName(pid)
	if err != nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}
