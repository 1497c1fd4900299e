//go:build windows
// +build windows

package dirmerge

import (
	"errors"

	"golang.org/x/sys/windows"
)

var errCrossDevice error = windows.ERROR_NOT_SAME_DEVICE

// isCrossDevice reports whether err is a rename failure caused by the source
// and destination living on different devices.
func isCrossDevice(err error) bool {
	return errors.Is(err, errCrossDevice)
}
