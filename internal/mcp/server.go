// Package mcp serves autobot's read-mostly spec operations over the Model
// Context Protocol so an agent can browse and scaffold specs.
//
// Verbs that run an AI tool are not exposed: update needs an interactive
// confirmation, and an agent driving another agent is out of scope.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/history"
	"github.com/gorewood/autobot/internal/lifecycle"
)

// RunLister reads the run history.
type RunLister interface {
	List(ctx context.Context, f history.Filter) ([]history.Record, error)
}

// Deps are the services the tools call. Runs may be nil, in which case the
// list_runs tool is not registered.
type Deps struct {
	Engine   *lifecycle.Engine
	Adapters *adapter.Registry
	Runs     RunLister
}

// NewServer creates an MCP server with every autobot tool registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "autobot",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations marks tools that add files without touching existing ones.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_specs",
		Description: "List the names of all stored application specs.",
		Annotations: readOnlyAnnotations(),
	}, handleListSpecs(deps.Engine))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show_spec",
		Description: "Return the Markdown content of one spec by name.",
		Annotations: readOnlyAnnotations(),
	}, handleShowSpec(deps.Engine))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_spec",
		Description: "Create a new spec from the standard skeleton. Fails if a spec with that name already exists.",
		Annotations: writeAnnotations(),
	}, handleCreateSpec(deps.Engine))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dryrun",
		Description: "Return the shell command that generating an application from a spec would run, without running it.",
		Annotations: readOnlyAnnotations(),
	}, handleDryRun(deps.Engine))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_adapters",
		Description: "List the registered AI tool adapters and whether each tool's binary is on PATH.",
		Annotations: readOnlyAnnotations(),
	}, handleListAdapters(deps.Adapters))

	if deps.Runs != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "list_runs",
			Description: "List recent AI tool runs, newest first, optionally for one spec.",
			Annotations: readOnlyAnnotations(),
		}, handleListRuns(deps.Runs))
	}
}

func historyFilter(input ListRunsInput) history.Filter {
	return history.Filter{Spec: input.Spec, Limit: input.Last}
}
