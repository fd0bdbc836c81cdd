package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/lorekeeper/internal/mcp/domain"
	"github.com/louisbranch/lorekeeper/internal/research/matcher"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
)

func registerTrackerTools(mcpServer *mcp.Server, svc *tracker.Service) {
	mcp.AddTool(mcpServer, domain.TopicCreateTool(), domain.TopicCreateHandler(svc))
	mcp.AddTool(mcpServer, domain.TopicUpdateTool(), domain.TopicUpdateHandler(svc))
	mcp.AddTool(mcpServer, domain.TopicDeleteTool(), domain.TopicDeleteHandler(svc))
	mcp.AddTool(mcpServer, domain.LocationCreateTool(), domain.LocationCreateHandler(svc))
	mcp.AddTool(mcpServer, domain.LocationUpdateTool(), domain.LocationUpdateHandler(svc))
	mcp.AddTool(mcpServer, domain.LocationDeleteTool(), domain.LocationDeleteHandler(svc))
	mcp.AddTool(mcpServer, domain.PointsAdjustTool(), domain.PointsAdjustHandler(svc))
	mcp.AddTool(mcpServer, domain.LocationPointsAdjustTool(), domain.LocationPointsAdjustHandler(svc))
	mcp.AddTool(mcpServer, domain.ThresholdRevealTool(), domain.ThresholdRevealHandler(svc))
	mcp.AddTool(mcpServer, domain.LocationRevealTool(), domain.LocationRevealHandler(svc))
	mcp.AddTool(mcpServer, domain.JournalRecordTool(), domain.JournalRecordHandler(svc))
}

func registerCheckTools(mcpServer *mcp.Server, m *matcher.Matcher) {
	mcp.AddTool(mcpServer, domain.CheckOutcomeTool(), domain.CheckOutcomeHandler(m))
}

// registerTrackerResources registers readable research MCP resources.
func registerTrackerResources(mcpServer *mcp.Server, svc *tracker.Service) {
	mcpServer.AddResource(domain.TopicListResource(), domain.TopicListResourceHandler(svc))
	mcpServer.AddResource(domain.JournalResource(), domain.JournalResourceHandler(svc))
}
