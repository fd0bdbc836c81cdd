package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/lorekeeper/internal/research/journal"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

// JournalRecordInput represents the MCP tool input for a manual journal note.
type JournalRecordInput struct {
	TopicID   string `json:"topic_id" jsonschema:"topic identifier"`
	Message   string `json:"message" jsonschema:"journal note text"`
	ActorUUID string `json:"actor_uuid,omitempty" jsonschema:"acting character identifier"`
	ActorName string `json:"actor_name,omitempty" jsonschema:"acting character name"`
}

// JournalEntryPayload is the wire form of one journal entry.
type JournalEntryPayload struct {
	ID        string          `json:"id"`
	TopicID   string          `json:"topic_id"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
	Points    *int            `json:"points,omitempty"`
	ActorUUID string          `json:"actor_uuid,omitempty"`
	ActorName string          `json:"actor_name,omitempty"`
	Roll      json.RawMessage `json:"roll,omitempty"`
}

// JournalPayload represents the MCP resource payload for the journal.
type JournalPayload struct {
	Entries []JournalEntryPayload `json:"entries"`
}

// TopicListPayload represents the MCP resource payload for topic listings.
type TopicListPayload struct {
	Topics []TopicPayload `json:"topics"`
}

// JournalRecordTool defines the MCP tool schema for manual journal notes.
func JournalRecordTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "research_journal_record",
		Description: "Appends a free-form note to a topic's research journal",
	}
}

// TopicListResource defines the MCP resource for topic listings.
func TopicListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "research_topics",
		Title:       "Research Topics",
		Description: "Readable listing of every research topic with derived progress",
		MIMEType:    "application/json",
		URI:         "research://topics",
	}
}

// JournalResource defines the MCP resource for the research journal.
func JournalResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "research_journal",
		Title:       "Research Journal",
		Description: "Readable research journal in timestamp order",
		MIMEType:    "application/json",
		URI:         "research://journal",
	}
}

// JournalRecordHandler appends a manual journal note.
func JournalRecordHandler(svc *tracker.Service) mcp.ToolHandlerFor[JournalRecordInput, JournalEntryPayload] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input JournalRecordInput) (*mcp.CallToolResult, JournalEntryPayload, error) {
		entry, err := svc.RecordJournal(ctx, journal.Entry{
			TopicID:   input.TopicID,
			Message:   input.Message,
			ActorUUID: input.ActorUUID,
			ActorName: input.ActorName,
		})
		if err != nil {
			return nil, JournalEntryPayload{}, fmt.Errorf("journal record failed: %w", err)
		}
		return nil, journalEntryPayload(entry), nil
	}
}

// TopicListResourceHandler returns the readable topic listing resource.
func TopicListResourceHandler(svc *tracker.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		payload := TopicListPayload{}
		for _, topic := range svc.Topics() {
			payload.Topics = append(payload.Topics, topicPayload(topic))
		}
		return resourceResult(TopicListResource().URI, req, payload)
	}
}

// JournalResourceHandler returns the readable journal resource.
func JournalResourceHandler(svc *tracker.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		payload := JournalPayload{}
		for _, entry := range svc.Journal() {
			payload.Entries = append(payload.Entries, journalEntryPayload(entry))
		}
		return resourceResult(JournalResource().URI, req, payload)
	}
}

func journalEntryPayload(entry journal.Entry) JournalEntryPayload {
	return JournalEntryPayload{
		ID:        entry.ID,
		TopicID:   entry.TopicID,
		Message:   entry.Message,
		Timestamp: entry.Timestamp.Format(time.RFC3339),
		Points:    entry.Points,
		ActorUUID: entry.ActorUUID,
		ActorName: entry.ActorName,
		Roll:      entry.Roll,
	}
}

func resourceResult(uri string, req *mcp.ReadResourceRequest, payload any) (*mcp.ReadResourceResult, error) {
	if req != nil && req.Params != nil && req.Params.URI != "" {
		uri = req.Params.URI
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
