package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xscreensplit/internal/layout"
)

func (s *Server) handleListProfiles(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListProfilesInput) (*mcpsdk.CallToolResult, ListProfilesOutput, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, ListProfilesOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, ListProfilesOutput{Dir: s.store.Dir, Profiles: names}, nil
}

func (s *Server) handleVerifyProfile(_ context.Context, _ *mcpsdk.CallToolRequest, args ProfileInput) (*mcpsdk.CallToolResult, VerifyProfileOutput, error) {
	name := s.profileName(args)
	root, err := s.store.Load(name)
	if err != nil {
		return nil, VerifyProfileOutput{}, err
	}
	ok, diag := layout.Verify(root)
	return nil, VerifyProfileOutput{Profile: name, Valid: ok, Diagnostic: diag}, nil
}

func (s *Server) handlePlanSplit(ctx context.Context, _ *mcpsdk.CallToolRequest, args ProfileInput) (*mcpsdk.CallToolResult, PlanOutput, error) {
	name := s.profileName(args)
	root, err := s.store.Load(name)
	if err != nil {
		return nil, PlanOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reqs, err := s.splitter.Plan(ctx, root)
	if err != nil {
		return nil, PlanOutput{}, err
	}
	out := PlanOutput{Profile: name, Monitors: make([]MonitorInfo, 0, len(reqs))}
	for _, r := range reqs {
		out.Monitors = append(out.Monitors, requestInfo(r))
	}
	return nil, out, nil
}

func (s *Server) handleSplitDisplay(ctx context.Context, _ *mcpsdk.CallToolRequest, args ProfileInput) (*mcpsdk.CallToolResult, PlanOutput, error) {
	name := s.profileName(args)
	root, err := s.store.Load(name)
	if err != nil {
		return nil, PlanOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.splitter.Split(ctx, root)
	if err != nil {
		return nil, PlanOutput{}, err
	}
	out := PlanOutput{Profile: name, Applied: true, Monitors: make([]MonitorInfo, 0, len(report.Outcomes))}
	for _, o := range report.Outcomes {
		info := MonitorInfo{Name: o.Name, Virtual: true}
		if o.Request != nil {
			info = requestInfo(*o.Request)
		}
		if o.Err != nil {
			info.Error = o.Err.Error()
			out.Failed++
		}
		out.Monitors = append(out.Monitors, info)
	}
	return nil, out, nil
}

func (s *Server) handleRestoreDisplay(ctx context.Context, _ *mcpsdk.CallToolRequest, _ RestoreInput) (*mcpsdk.CallToolResult, RestoreOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.splitter.Restore(ctx)
	if err != nil {
		return nil, RestoreOutput{}, err
	}
	out := RestoreOutput{Removed: []string{}}
	for _, o := range report.Outcomes {
		if o.Err != nil {
			out.Failed = append(out.Failed, fmt.Sprintf("%s: %v", o.Name, o.Err))
			continue
		}
		out.Removed = append(out.Removed, o.Name)
	}
	return nil, out, nil
}

func (s *Server) handleListMonitors(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	monitors, err := s.backend.ListMonitors(ctx)
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(monitors))}
	for _, m := range monitors {
		out.Monitors = append(out.Monitors, MonitorInfo{
			Name:     m.Name,
			Geometry: m.Geometry.String(),
			Width:    m.Geometry.Width,
			Height:   m.Geometry.Height,
			X:        m.Geometry.X,
			Y:        m.Geometry.Y,
			Primary:  m.Primary,
			Virtual:  strings.HasPrefix(m.Name, s.splitter.Prefix()),
		})
	}
	return nil, out, nil
}
