package service

import (
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/mcp/domain"
)

const (
	serverName    = "XploreHub MCP"
	serverVersion = "0.1.0"
)

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpEventToolsModuleName     = "event-tools"
	mcpGeocodingToolsModuleName = "geocoding-tools"
	mcpEventResourceModuleName  = "event-resources"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

// mcpToolRegistrar bridges untyped registrations to the generic mcp.AddTool.
type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.EventsListInput, domain.EventsListResult](),
	newMCPToolRegistrar[domain.EventGetInput, domain.EventGetResult](),
	newMCPToolRegistrar[domain.EventsNearbyInput, domain.EventsNearbyResult](),
	newMCPToolRegistrar[domain.GeocodeInput, domain.GeocodeResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(api domain.EventsAPI) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpEventToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerEventTools(registrar, api)
			},
		},
		{
			name: mcpGeocodingToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerGeocodingTools(registrar, api)
			},
		},
		{
			name: mcpEventResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerEventResources(registrar, api)
				return nil
			},
		},
	}
}

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves the streamable HTTP transport.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	APIURL     string
	Transport  TransportKind
	HTTPAddr   string // defaults to localhost:8081 for the HTTP transport
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

// New creates an MCP server whose tools call the REST API at cfg.APIURL.
func New(cfg Config) (*Server, error) {
	var opts []client.Option
	if cfg.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(cfg.HTTPClient))
	}
	api, err := client.New(cfg.APIURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	return newServer(api, cfg.Logger)
}

// newServer binds every registration module once.
func newServer(api domain.EventsAPI, logger *zap.Logger) (*Server, error) {
	if api == nil {
		return nil, fmt.Errorf("events api is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	registrar := mcpServerRegistrationAdapter{server: mcpServer}
	for _, module := range newMCPRegistrationModules(api) {
		if err := module.register(registrar); err != nil {
			return nil, fmt.Errorf("register %s: %w", module.name, err)
		}
		logger.Debug("mcp module registered", zap.String("module", module.name), zap.Bool("resources", module.kind == mcpRegistrationKindResources))
	}
	return &Server{mcpServer: mcpServer, logger: logger}, nil
}
