package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/lorekeeper/internal/errors"
	"github.com/louisbranch/lorekeeper/internal/research/check"
	"github.com/louisbranch/lorekeeper/internal/research/matcher"
)

// CheckOutcomeInput represents the MCP tool input for applying a finished
// skill check. Either degree or total plus dc must be supplied; when both
// are present the explicit degree wins.
type CheckOutcomeInput struct {
	EventID            string          `json:"event_id,omitempty" jsonschema:"stable event identifier used to drop redeliveries"`
	Skill              string          `json:"skill" jsonschema:"skill the check was rolled against"`
	Degree             string          `json:"degree,omitempty" jsonschema:"outcome degree (criticalFailure, failure, success, criticalSuccess)"`
	Total              int             `json:"total,omitempty" jsonschema:"check total, used with dc when degree is omitted"`
	DC                 *int            `json:"dc,omitempty" jsonschema:"difficulty class the check was rolled against"`
	DieFace            int             `json:"die_face,omitempty" jsonschema:"natural die result for critical adjustment, 0 if unknown"`
	ActorUUID          string          `json:"actor_uuid" jsonschema:"acting character identifier"`
	ActorName          string          `json:"actor_name,omitempty" jsonschema:"acting character name"`
	ActorKind          string          `json:"actor_kind,omitempty" jsonschema:"actor kind, defaults to character"`
	IsPlayerControlled *bool           `json:"is_player_controlled,omitempty" jsonschema:"whether a player controls the actor, defaults to true"`
	Roll               json.RawMessage `json:"roll,omitempty" jsonschema:"opaque roll payload stored with the journal entry"`
}

// CheckOutcomeResult represents the MCP tool output for a skill check.
type CheckOutcomeResult struct {
	Applied bool   `json:"applied" jsonschema:"whether the outcome changed any research state"`
	Degree  string `json:"degree" jsonschema:"resolved outcome degree"`
	Delta   int    `json:"delta" jsonschema:"point delta implied by the degree"`
}

// CheckOutcomeTool defines the MCP tool schema for applying check outcomes.
func CheckOutcomeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_check_outcome",
		Description: "Routes a finished skill check to the matching research target, or abstains when ambiguous",
	}
}

// CheckOutcomeHandler resolves and applies one skill-check outcome.
func CheckOutcomeHandler(m *matcher.Matcher) mcp.ToolHandlerFor[CheckOutcomeInput, CheckOutcomeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CheckOutcomeInput) (*mcp.CallToolResult, CheckOutcomeResult, error) {
		degree := check.Degree(input.Degree)
		if !degree.Valid() {
			if input.Degree != "" {
				return nil, CheckOutcomeResult{}, apperrors.Newf(apperrors.CodeCheckInvalidDegree, "degree %q is not valid", input.Degree)
			}
			if input.DC == nil {
				return nil, CheckOutcomeResult{}, apperrors.New(apperrors.CodeCheckInvalidDegree, "either degree or total and dc are required")
			}
			degree = check.DegreeOf(input.Total, *input.DC, input.DieFace)
		}

		kind := input.ActorKind
		if kind == "" {
			kind = matcher.ActorKindCharacter
		}
		playerControlled := true
		if input.IsPlayerControlled != nil {
			playerControlled = *input.IsPlayerControlled
		}

		applied, err := m.HandleCheck(ctx, matcher.CheckEvent{
			ID:        input.EventID,
			SkillSlug: input.Skill,
			Degree:    degree,
			DC:        input.DC,
			Actor: matcher.Actor{
				UUID:               input.ActorUUID,
				Name:               input.ActorName,
				Kind:               kind,
				IsPlayerControlled: playerControlled,
			},
			Roll: input.Roll,
		})
		if err != nil {
			return nil, CheckOutcomeResult{}, fmt.Errorf("check outcome failed: %w", err)
		}
		return nil, CheckOutcomeResult{
			Applied: applied,
			Degree:  string(degree),
			Delta:   matcher.DeltaForDegree(degree),
		}, nil
	}
}
