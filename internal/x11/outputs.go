package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xscreensplit/internal/display"
)

// output is the part of a RandR output/CRTC pair the probe cares about.
type output struct {
	id       randr.Output
	name     string
	widthMM  uint32
	heightMM uint32
	x, y     int16
	width    uint16
	height   uint16
}

// Outputs returns every connected output that drives an active CRTC, in
// screen-resource order, with the primary output flagged. Virtual monitors
// defined with --setmonitor are not outputs and never appear here.
func (c *Connection) Outputs() ([]display.Monitor, error) {
	conn := c.XUtil.Conn()

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var outs []output
	for _, id := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn, id, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtc.Width == 0 || crtc.Height == 0 {
			continue
		}
		outs = append(outs, output{
			id:       id,
			name:     string(info.Name),
			widthMM:  info.MmWidth,
			heightMM: info.MmHeight,
			x:        crtc.X,
			y:        crtc.Y,
			width:    crtc.Width,
			height:   crtc.Height,
		})
	}

	return toMonitors(outs, primary), nil
}

func toMonitors(outs []output, primary randr.Output) []display.Monitor {
	monitors := make([]display.Monitor, 0, len(outs))
	for i, o := range outs {
		monitors = append(monitors, display.Monitor{
			Index:   i,
			Name:    o.name,
			Primary: primary != 0 && o.id == primary,
			Geometry: display.Geometry{
				Width:    int(o.width),
				Height:   int(o.height),
				WidthMM:  int(o.widthMM),
				HeightMM: int(o.heightMM),
				X:        int(o.x),
				Y:        int(o.y),
			},
			Outputs: []string{o.name},
		})
	}
	return monitors
}

// Snapshot is the physical output layout plus the output under the pointer.
type Snapshot struct {
	Outputs []display.Monitor
	Pointer int // index into Outputs, -1 when the pointer position is unknown
}

// PointerOutput returns the index of the output containing the pointer, or -1.
func (c *Connection) PointerOutput(outputs []display.Monitor) int {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return -1
	}
	return display.IndexAt(outputs, int(pointer.RootX), int(pointer.RootY))
}

// OutputsStandalone opens a temporary connection and returns a Snapshot.
func OutputsStandalone() (Snapshot, error) {
	conn, err := NewConnection()
	if err != nil {
		return Snapshot{Pointer: -1}, err
	}
	defer conn.Close()

	outputs, err := conn.Outputs()
	if err != nil {
		return Snapshot{Pointer: -1}, err
	}
	return Snapshot{Outputs: outputs, Pointer: conn.PointerOutput(outputs)}, nil
}
