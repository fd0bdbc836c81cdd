package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

// ThresholdRevealInput represents the MCP tool input for a manual
// threshold reveal.
type ThresholdRevealInput struct {
	TopicID     string `json:"topic_id" jsonschema:"topic identifier"`
	ThresholdID string `json:"threshold_id" jsonschema:"threshold identifier"`
	Resend      bool   `json:"resend,omitempty" jsonschema:"re-fire notifications for an already revealed threshold"`
}

// LocationRevealInput represents the MCP tool input for a manual
// location reveal.
type LocationRevealInput struct {
	TopicID    string `json:"topic_id" jsonschema:"topic identifier"`
	LocationID string `json:"location_id" jsonschema:"location identifier"`
	Resend     bool   `json:"resend,omitempty" jsonschema:"re-fire notifications for an already revealed location"`
}

// RevealResult represents the MCP tool output for manual reveals.
type RevealResult struct {
	Notified bool `json:"notified" jsonschema:"whether reveal notifications were dispatched"`
}

// ThresholdRevealTool defines the MCP tool schema for manual threshold reveals.
func ThresholdRevealTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_threshold_reveal",
		Description: "Reveals a threshold by hand and notifies players and GM; reveals never undo",
	}
}

// LocationRevealTool defines the MCP tool schema for manual location reveals.
func LocationRevealTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_location_reveal",
		Description: "Reveals a location by hand and notifies players and GM",
	}
}

// ThresholdRevealHandler executes a manual threshold reveal.
func ThresholdRevealHandler(svc *tracker.Service) mcp.ToolHandlerFor[ThresholdRevealInput, RevealResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ThresholdRevealInput) (*mcp.CallToolResult, RevealResult, error) {
		notified, err := svc.SendThresholdReveal(ctx, input.TopicID, input.ThresholdID, input.Resend)
		if err != nil {
			return nil, RevealResult{}, fmt.Errorf("threshold reveal failed: %w", err)
		}
		return nil, RevealResult{Notified: notified}, nil
	}
}

// LocationRevealHandler executes a manual location reveal.
func LocationRevealHandler(svc *tracker.Service) mcp.ToolHandlerFor[LocationRevealInput, RevealResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationRevealInput) (*mcp.CallToolResult, RevealResult, error) {
		notified, err := svc.SendLocationReveal(ctx, input.TopicID, input.LocationID, input.Resend)
		if err != nil {
			return nil, RevealResult{}, fmt.Errorf("location reveal failed: %w", err)
		}
		return nil, RevealResult{Notified: notified}, nil
	}
}
