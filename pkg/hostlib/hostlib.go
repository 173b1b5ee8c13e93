// Package hostlib is the stock capability surface scripts run against: a
// java.lang subset and an emulated Android device.
package hostlib

import (
	"io"

	"zapush/interpreter-go/pkg/host"
)

// Register installs java.lang and the Android surface. Console output goes to
// out and rendered toasts and log lines to screen.
func Register(reg *host.Registry, out, screen io.Writer) (*Android, error) {
	if err := RegisterLang(reg, out); err != nil {
		return nil, err
	}
	return RegisterAndroid(reg, screen)
}

// NewRegistry is a registry with the full stock surface installed.
func NewRegistry(out, screen io.Writer) (*host.Registry, *Android, error) {
	reg := host.NewRegistry()
	device, err := Register(reg, out, screen)
	if err != nil {
		return nil, nil, err
	}
	return reg, device, nil
}
