package foreground

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatic(t *testing.T) {
	name, ok := Static("Terminal").ForegroundApp()
	assert.True(t, ok)
	assert.Equal(t, "Terminal", name)

	_, ok = Static("").ForegroundApp()
	assert.False(t, ok)
}

func TestFunc(t *testing.T) {
	calls := 0
	p := Func(func() (string, bool) {
		calls++
		return "Xcode", true
	})
	name, ok := p.ForegroundApp()
	assert.True(t, ok)
	assert.Equal(t, "Xcode", name)
	assert.Equal(t, 1, calls)
}

func TestSystemImplementsProvider(t *testing.T) {
	var _ Provider = System()
}
