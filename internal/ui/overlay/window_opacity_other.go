//go:build !windows

package overlay

// applyNativeOpacity is a no-op; other drivers only honor the background alpha.
func (overlay *Window) applyNativeOpacity(uint8) {}
