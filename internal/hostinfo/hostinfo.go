// Package hostinfo collects host facts for the operator diagnostics page.
package hostinfo

import (
	t "phonemouse/internal/types"

	"github.com/kbinani/screenshot"
	"github.com/shirou/gopsutil/v4/host"
)

// Displays lists the active monitors. It returns an empty list when no
// display server is reachable.
func Displays() (out []t.Display) {
	out = []t.Display{}
	defer func() {
		// Some platform backends panic instead of erroring without a display.
		if recover() != nil {
			out = []t.Display{}
		}
	}()
	n := screenshot.NumActiveDisplays()
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		out = append(out, t.Display{
			Index:  i,
			X:      b.Min.X,
			Y:      b.Min.Y,
			Width:  b.Dx(),
			Height: b.Dy(),
		})
	}
	return out
}

// Host returns the host name and a platform description such as
// "linux ubuntu 24.04".
func Host() (hostname, platform string, err error) {
	info, err := host.Info()
	if err != nil {
		return "", "", err
	}
	platform = info.OS
	if info.Platform != "" {
		platform += " " + info.Platform
	}
	if info.PlatformVersion != "" {
		platform += " " + info.PlatformVersion
	}
	return info.Hostname, platform, nil
}
