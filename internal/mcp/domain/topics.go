package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/lorekeeper/internal/errors"
	research "github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

// TopicCreateInput represents the MCP tool input for topic creation.
type TopicCreateInput struct {
	Name       string          `json:"name" jsonschema:"topic name"`
	Target     int             `json:"target" jsonschema:"point target for topics without locations"`
	Skill      string          `json:"skill,omitempty" jsonschema:"optional topic-level skill gate"`
	Locations  []LocationSpec  `json:"locations,omitempty" jsonschema:"initial research locations"`
	Thresholds []ThresholdSpec `json:"thresholds,omitempty" jsonschema:"initial reveal thresholds"`
}

// TopicUpdateInput represents the MCP tool input for a partial topic update.
// Omitted fields keep their current value.
type TopicUpdateInput struct {
	ID         string           `json:"id" jsonschema:"topic identifier"`
	Name       *string          `json:"name,omitempty" jsonschema:"new topic name"`
	Target     *int             `json:"target,omitempty" jsonschema:"new point target"`
	Progress   *int             `json:"progress,omitempty" jsonschema:"new progress value for topics without locations"`
	Skill      *string          `json:"skill,omitempty" jsonschema:"new topic-level skill gate"`
	Locations  *[]LocationSpec  `json:"locations,omitempty" jsonschema:"replacement location list"`
	Thresholds *[]ThresholdSpec `json:"thresholds,omitempty" jsonschema:"replacement threshold list"`
}

// TopicDeleteInput represents the MCP tool input for topic deletion.
type TopicDeleteInput struct {
	ID string `json:"id" jsonschema:"topic identifier"`
}

// TopicDeleteResult represents the MCP tool output for topic deletion.
type TopicDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether the topic existed and was removed"`
}

// TopicCreateTool defines the MCP tool schema for creating research topics.
func TopicCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_topic_create",
		Description: "Creates a research topic, optionally with locations and reveal thresholds",
	}
}

// TopicUpdateTool defines the MCP tool schema for updating research topics.
func TopicUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_topic_update",
		Description: "Applies a partial update to a research topic; derived progress recomputes",
	}
}

// TopicDeleteTool defines the MCP tool schema for deleting research topics.
func TopicDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_topic_delete",
		Description: "Deletes a research topic and its journal entries",
	}
}

// TopicCreateHandler executes a topic creation request.
func TopicCreateHandler(svc *tracker.Service) mcp.ToolHandlerFor[TopicCreateInput, TopicPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TopicCreateInput) (*mcp.CallToolResult, TopicPayload, error) {
		topic, err := svc.CreateTopic(ctx, research.Topic{
			Name:       input.Name,
			Target:     input.Target,
			Skill:      input.Skill,
			Locations:  locationsFromSpec(input.Locations),
			Thresholds: thresholdsFromSpec(input.Thresholds),
		})
		if err != nil {
			return nil, TopicPayload{}, fmt.Errorf("topic create failed: %w", err)
		}
		return nil, topicPayload(topic), nil
	}
}

// TopicUpdateHandler executes a partial topic update request.
func TopicUpdateHandler(svc *tracker.Service) mcp.ToolHandlerFor[TopicUpdateInput, TopicPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TopicUpdateInput) (*mcp.CallToolResult, TopicPayload, error) {
		update := tracker.TopicUpdate{
			Name:     input.Name,
			Progress: input.Progress,
			Target:   input.Target,
			Skill:    input.Skill,
		}
		if input.Locations != nil {
			locations := locationsFromSpec(*input.Locations)
			update.Locations = &locations
		}
		if input.Thresholds != nil {
			thresholds := thresholdsFromSpec(*input.Thresholds)
			update.Thresholds = &thresholds
		}

		topic, found, err := svc.UpdateTopic(ctx, input.ID, update)
		if err != nil {
			return nil, TopicPayload{}, fmt.Errorf("topic update failed: %w", err)
		}
		if !found {
			return nil, TopicPayload{}, apperrors.Newf(apperrors.CodeTopicNotFound, "topic %q not found", input.ID)
		}
		return nil, topicPayload(topic), nil
	}
}

// TopicDeleteHandler executes a topic deletion request.
func TopicDeleteHandler(svc *tracker.Service) mcp.ToolHandlerFor[TopicDeleteInput, TopicDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TopicDeleteInput) (*mcp.CallToolResult, TopicDeleteResult, error) {
		deleted, err := svc.DeleteTopic(ctx, input.ID)
		if err != nil {
			return nil, TopicDeleteResult{}, fmt.Errorf("topic delete failed: %w", err)
		}
		return nil, TopicDeleteResult{Deleted: deleted}, nil
	}
}
