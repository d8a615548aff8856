package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/xplorehub/internal/services/mcp/domain"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

func registerEventTools(registrar mcpRegistrationTarget, api domain.EventsAPI) error {
	if err := registerTool(registrar, domain.EventsListTool(), domain.EventsListHandler(api)); err != nil {
		return err
	}
	return registerTool(registrar, domain.EventGetTool(), domain.EventGetHandler(api))
}

func registerGeocodingTools(registrar mcpRegistrationTarget, api domain.EventsAPI) error {
	if err := registerTool(registrar, domain.EventsNearbyTool(), domain.EventsNearbyHandler(api)); err != nil {
		return err
	}
	return registerTool(registrar, domain.GeocodeTool(), domain.GeocodeHandler(api))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerEventResources registers readable event MCP resources.
func registerEventResources(registrar mcpRegistrationTarget, api domain.EventsAPI) {
	registrar.AddResource(domain.UpcomingEventsResource(), domain.UpcomingEventsResourceHandler(api))
}
