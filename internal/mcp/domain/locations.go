package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/lorekeeper/internal/errors"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

// LocationCreateInput represents the MCP tool input for adding a location.
type LocationCreateInput struct {
	TopicID        string      `json:"topic_id" jsonschema:"parent topic identifier"`
	Name           string      `json:"name" jsonschema:"location name"`
	MaxPoints      int         `json:"max_points" jsonschema:"point budget, 0 for uncapped"`
	Checks         []CheckSpec `json:"checks,omitempty" jsonschema:"skill checks that gather points here"`
	Description    string      `json:"description,omitempty" jsonschema:"narrative shown on reveal"`
	AssignedActors []ActorSpec `json:"assigned_actors,omitempty" jsonschema:"actors pre-assigned to this location"`
}

// LocationUpdateInput represents the MCP tool input for a partial location
// update. Omitted fields keep their current value.
type LocationUpdateInput struct {
	TopicID        string       `json:"topic_id" jsonschema:"parent topic identifier"`
	LocationID     string       `json:"location_id" jsonschema:"location identifier"`
	Name           *string      `json:"name,omitempty" jsonschema:"new location name"`
	MaxPoints      *int         `json:"max_points,omitempty" jsonschema:"new point budget"`
	Collected      *int         `json:"collected,omitempty" jsonschema:"new collected value"`
	Checks         *[]CheckSpec `json:"checks,omitempty" jsonschema:"replacement check list"`
	Description    *string      `json:"description,omitempty" jsonschema:"new reveal narrative"`
	AssignedActors *[]ActorSpec `json:"assigned_actors,omitempty" jsonschema:"replacement actor assignments"`
	IsRevealed     *bool        `json:"is_revealed,omitempty" jsonschema:"explicit reveal flag override"`
}

// LocationDeleteInput represents the MCP tool input for removing a location.
type LocationDeleteInput struct {
	TopicID    string `json:"topic_id" jsonschema:"parent topic identifier"`
	LocationID string `json:"location_id" jsonschema:"location identifier"`
}

// LocationDeleteResult represents the MCP tool output for removing a location.
type LocationDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether the location existed and was removed"`
}

// LocationCreateTool defines the MCP tool schema for adding locations.
func LocationCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_location_create",
		Description: "Adds a research location to a topic; the topic target re-derives",
	}
}

// LocationUpdateTool defines the MCP tool schema for updating locations.
func LocationUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_location_update",
		Description: "Applies a partial update to a research location",
	}
}

// LocationDeleteTool defines the MCP tool schema for removing locations.
func LocationDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_location_delete",
		Description: "Removes a research location; the topic aggregate re-derives",
	}
}

// LocationCreateHandler executes a location creation request.
func LocationCreateHandler(svc *tracker.Service) mcp.ToolHandlerFor[LocationCreateInput, LocationPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationCreateInput) (*mcp.CallToolResult, LocationPayload, error) {
		loc, found, err := svc.CreateLocation(ctx, input.TopicID, locationFromSpec(LocationSpec{
			Name:           input.Name,
			MaxPoints:      input.MaxPoints,
			Checks:         input.Checks,
			Description:    input.Description,
			AssignedActors: input.AssignedActors,
		}))
		if err != nil {
			return nil, LocationPayload{}, fmt.Errorf("location create failed: %w", err)
		}
		if !found {
			return nil, LocationPayload{}, apperrors.Newf(apperrors.CodeTopicNotFound, "topic %q not found", input.TopicID)
		}
		return nil, locationPayload(loc), nil
	}
}

// LocationUpdateHandler executes a partial location update request.
func LocationUpdateHandler(svc *tracker.Service) mcp.ToolHandlerFor[LocationUpdateInput, LocationPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationUpdateInput) (*mcp.CallToolResult, LocationPayload, error) {
		update := tracker.LocationUpdate{
			Name:        input.Name,
			MaxPoints:   input.MaxPoints,
			Collected:   input.Collected,
			Description: input.Description,
			IsRevealed:  input.IsRevealed,
		}
		if input.Checks != nil {
			checks := checksFromSpec(*input.Checks)
			update.Checks = &checks
		}
		if input.AssignedActors != nil {
			actors := actorsFromSpec(*input.AssignedActors)
			update.AssignedActors = &actors
		}

		loc, found, err := svc.UpdateLocation(ctx, input.TopicID, input.LocationID, update)
		if err != nil {
			return nil, LocationPayload{}, fmt.Errorf("location update failed: %w", err)
		}
		if !found {
			return nil, LocationPayload{}, apperrors.Newf(apperrors.CodeLocationNotFound, "location %q not found on topic %q", input.LocationID, input.TopicID)
		}
		return nil, locationPayload(loc), nil
	}
}

// LocationDeleteHandler executes a location deletion request.
func LocationDeleteHandler(svc *tracker.Service) mcp.ToolHandlerFor[LocationDeleteInput, LocationDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LocationDeleteInput) (*mcp.CallToolResult, LocationDeleteResult, error) {
		deleted, err := svc.DeleteLocation(ctx, input.TopicID, input.LocationID)
		if err != nil {
			return nil, LocationDeleteResult{}, fmt.Errorf("location delete failed: %w", err)
		}
		return nil, LocationDeleteResult{Deleted: deleted}, nil
	}
}
