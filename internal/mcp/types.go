package mcp

import "github.com/1broseidon/xscreensplit/internal/display"

// ProfileInput names a stored layout profile.
type ProfileInput struct {
	Profile string `json:"profile,omitempty" jsonschema:"Profile name without extension (default: the configured default profile)"`
}

// ListProfilesInput is the input for the list_profiles tool.
type ListProfilesInput struct{}

// ListProfilesOutput is the output for the list_profiles tool.
type ListProfilesOutput struct {
	Dir      string   `json:"dir"`
	Profiles []string `json:"profiles"`
}

// VerifyProfileOutput is the output for the verify_profile tool.
type VerifyProfileOutput struct {
	Profile    string `json:"profile"`
	Valid      bool   `json:"valid"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// MonitorInfo describes one monitor or virtual monitor.
type MonitorInfo struct {
	Name        string `json:"name"`
	Geometry    string `json:"geometry"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Primary     bool   `json:"primary,omitempty"`
	Virtual     bool   `json:"virtual,omitempty"`
	CloneSource string `json:"clone_source,omitempty"`
	Error       string `json:"error,omitempty"`
}

// PlanOutput is the output for the plan_split and split_display tools.
type PlanOutput struct {
	Profile  string        `json:"profile"`
	Applied  bool          `json:"applied"`
	Monitors []MonitorInfo `json:"monitors"`
	Failed   int           `json:"failed"`
}

// RestoreInput is the input for the restore_display tool.
type RestoreInput struct{}

// RestoreOutput is the output for the restore_display tool.
type RestoreOutput struct {
	Removed []string `json:"removed"`
	Failed  []string `json:"failed,omitempty"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

func requestInfo(r display.Request) MonitorInfo {
	return MonitorInfo{
		Name:        r.Name,
		Geometry:    r.Geometry.String(),
		Width:       r.Geometry.Width,
		Height:      r.Geometry.Height,
		X:           r.Geometry.X,
		Y:           r.Geometry.Y,
		Virtual:     true,
		CloneSource: r.CloneSource,
	}
}
