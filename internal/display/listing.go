package display

import (
	"errors"
	"strconv"
	"strings"
)

// Monitor is one row of `xrandr --listactivemonitors`.
type Monitor struct {
	Index    int
	Name     string
	Primary  bool
	Geometry Geometry
	Outputs  []string // empty for monitors without a backing output
}

var (
	ErrNoPrimary     = errors.New("no primary monitor in listing")
	ErrMalformedLine = errors.New("expected \"<index>: [+][*]<name> <geometry> [outputs]\"")
)

// ParseListing parses the output of `xrandr --listactivemonitors`:
//
//	Monitors: 2
//	 0: +*DP-0 2560/597x1440/336+0+0  DP-0
//	 1: +HDMI-0 1920/531x1080/299+2560+0  HDMI-0
func ParseListing(output string) ([]Monitor, error) {
	var monitors []Monitor
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "Monitors:") {
			continue
		}
		m, err := parseMonitorLine(line)
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, m)
	}
	return monitors, nil
}

func parseMonitorLine(line string) (Monitor, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || !strings.HasSuffix(fields[0], ":") {
		return Monitor{}, &GeometryParseError{Text: line, Err: ErrMalformedLine}
	}

	idx, err := strconv.Atoi(strings.TrimSuffix(fields[0], ":"))
	if err != nil {
		return Monitor{}, &GeometryParseError{Text: line, Err: ErrMalformedLine}
	}

	flags := fields[1][:len(fields[1])-len(strings.TrimLeft(fields[1], "+*"))]
	name := strings.TrimLeft(fields[1], "+*")
	if name == "" {
		return Monitor{}, &GeometryParseError{Text: line, Err: ErrMalformedLine}
	}

	geom, err := ParseGeometry(fields[2])
	if err != nil {
		return Monitor{}, err
	}

	m := Monitor{
		Index:    idx,
		Name:     name,
		Primary:  strings.Contains(flags, "*"),
		Geometry: geom,
	}
	if len(fields) > 3 {
		m.Outputs = append([]string(nil), fields[3:]...)
	}
	return m, nil
}

// FindPrimary returns the monitor flagged as primary.
func FindPrimary(monitors []Monitor) (Monitor, error) {
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	names := make([]string, 0, len(monitors))
	for _, m := range monitors {
		names = append(names, m.Name)
	}
	return Monitor{}, &GeometryParseError{Text: strings.Join(names, ", "), Err: ErrNoPrimary}
}

// Virtual returns the monitors whose names start with prefix, in listing order.
func Virtual(monitors []Monitor, prefix string) []Monitor {
	var out []Monitor
	for _, m := range monitors {
		if strings.HasPrefix(m.Name, prefix) {
			out = append(out, m)
		}
	}
	return out
}

// IndexAt returns the index of the first monitor containing the point, or -1.
func IndexAt(monitors []Monitor, x, y int) int {
	for i, m := range monitors {
		if m.Geometry.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Request describes one virtual monitor to define.
type Request struct {
	Name        string
	Geometry    Geometry
	CloneSource string // existing output name, or NoClone
}

// Clones reports whether the request takes over an existing output.
func (r Request) Clones() bool {
	return r.CloneSource != "" && r.CloneSource != NoClone
}
