// ABOUTME: MCP resource implementations for the activity log.
// ABOUTME: Provides timetrack://today and timetrack://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "timetrack://today"
	summaryURI = "timetrack://summary"
)

func (s *Server) registerResources() {
	// timetrack://today - Today's activities with totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Activities",
		Description: "Every activity logged today with total and remaining minutes",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// timetrack://summary - Today's analytics
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Today's Summary",
		Description: "Category breakdown, bar chart and timeline data for today",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	day, err := s.fetchDay(ctx, "")
	if err != nil {
		return nil, err
	}
	return jsonResource(todayURI, toDayOutput(day))
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	day, err := s.fetchDay(ctx, "")
	if err != nil {
		return nil, err
	}
	return jsonResource(summaryURI, analytics.Summarize(day.Date, day.Activities))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
