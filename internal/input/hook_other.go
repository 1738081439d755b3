//go:build !darwin

package input

func installPlatformHook(hookKind, func(rawEvent)) (hook, error) {
	return nil, ErrUnsupportedPlatform
}

func platformSupported() error {
	return ErrUnsupportedPlatform
}
