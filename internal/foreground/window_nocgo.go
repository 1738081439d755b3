//go:build !darwin && !cgo

package foreground

type systemProvider struct{}

func (systemProvider) ForegroundApp() (string, bool) {
	return "", false
}
