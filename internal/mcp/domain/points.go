package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/lorekeeper/internal/errors"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

// PointsAdjustInput represents the MCP tool input for a direct topic
// progress adjustment.
type PointsAdjustInput struct {
	TopicID   string `json:"topic_id" jsonschema:"topic identifier"`
	Delta     int    `json:"delta" jsonschema:"signed point change"`
	Reason    string `json:"reason,omitempty" jsonschema:"optional journal message"`
	ActorUUID string `json:"actor_uuid,omitempty" jsonschema:"acting character identifier"`
	ActorName string `json:"actor_name,omitempty" jsonschema:"acting character name"`
}

// LocationPointsAdjustInput represents the MCP tool input for a location
// point adjustment.
type LocationPointsAdjustInput struct {
	TopicID    string `json:"topic_id" jsonschema:"parent topic identifier"`
	LocationID string `json:"location_id" jsonschema:"location identifier"`
	Delta      int    `json:"delta" jsonschema:"signed point change, clamped to the location budget"`
	Reason     string `json:"reason,omitempty" jsonschema:"optional journal message"`
	ActorUUID  string `json:"actor_uuid,omitempty" jsonschema:"acting character identifier"`
	ActorName  string `json:"actor_name,omitempty" jsonschema:"acting character name"`
}

// PointsAdjustResult represents the MCP tool output for point adjustments.
type PointsAdjustResult struct {
	Applied bool         `json:"applied" jsonschema:"whether any state changed"`
	Topic   TopicPayload `json:"topic" jsonschema:"topic state after the adjustment"`
}

// PointsAdjustTool defines the MCP tool schema for direct topic adjustments.
func PointsAdjustTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_points_adjust",
		Description: "Adjusts a topic's own progress counter; rejected when progress derives from locations",
	}
}

// LocationPointsAdjustTool defines the MCP tool schema for location adjustments.
func LocationPointsAdjustTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_location_points_adjust",
		Description: "Adjusts a location's collected points; thresholds unlock automatically",
	}
}

// PointsAdjustHandler executes a direct topic progress adjustment.
func PointsAdjustHandler(svc *tracker.Service) mcp.ToolHandlerFor[PointsAdjustInput, PointsAdjustResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PointsAdjustInput) (*mcp.CallToolResult, PointsAdjustResult, error) {
		applied, err := svc.AdjustPoints(ctx, input.TopicID, input.Delta, tracker.Metadata{
			Reason:    input.Reason,
			ActorUUID: input.ActorUUID,
			ActorName: input.ActorName,
		})
		if err != nil {
			return nil, PointsAdjustResult{}, fmt.Errorf("points adjust failed: %w", err)
		}
		topic, found := svc.Topic(input.TopicID)
		if !found {
			return nil, PointsAdjustResult{}, apperrors.Newf(apperrors.CodeTopicNotFound, "topic %q not found", input.TopicID)
		}
		return nil, PointsAdjustResult{Applied: applied, Topic: topicPayload(topic)}, nil
	}
}

// LocationPointsAdjustHandler executes a location point adjustment.
func LocationPointsAdjustHandler(svc *tracker.Service) mcp.ToolHandlerFor[LocationPointsAdjustInput, PointsAdjustResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationPointsAdjustInput) (*mcp.CallToolResult, PointsAdjustResult, error) {
		applied, err := svc.AdjustLocationPoints(ctx, input.TopicID, input.LocationID, input.Delta, tracker.Metadata{
			Reason:    input.Reason,
			ActorUUID: input.ActorUUID,
			ActorName: input.ActorName,
		})
		if err != nil {
			return nil, PointsAdjustResult{}, fmt.Errorf("location points adjust failed: %w", err)
		}
		topic, found := svc.Topic(input.TopicID)
		if !found {
			return nil, PointsAdjustResult{}, apperrors.Newf(apperrors.CodeTopicNotFound, "topic %q not found", input.TopicID)
		}
		return nil, PointsAdjustResult{Applied: applied, Topic: topicPayload(topic)}, nil
	}
}
