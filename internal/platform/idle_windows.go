package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"timeout/internal/core/scheduler"
)

var procGetLastInputInfo = windows.NewLazySystemDLL("user32.dll").NewProc("GetLastInputInfo")

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type lastInputSource struct{}

func newIdleSource() scheduler.IdleSource {
	if err := procGetLastInputInfo.Find(); err != nil {
		return unsupportedIdleSource{reason: err.Error()}
	}
	return lastInputSource{}
}

func (lastInputSource) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0, fmt.Errorf("get last input info: %w", err)
	}

	// dwTime is a 32-bit tick count; unsigned subtraction survives the wrap.
	idleMillis := uint32(windows.GetTickCount64()) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
