package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/lifecycle"
)

// --- list_specs ---

// ListSpecsInput takes no parameters.
type ListSpecsInput struct{}

// ListSpecsOutput is the output for list_specs.
type ListSpecsOutput struct {
	Count int      `json:"count" jsonschema:"number of specs"`
	Specs []string `json:"specs" jsonschema:"spec names in sorted order"`
}

func handleListSpecs(engine *lifecycle.Engine) mcp.ToolHandlerFor[ListSpecsInput, ListSpecsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListSpecsInput) (*mcp.CallToolResult, ListSpecsOutput, error) {
		names, err := engine.List()
		if err != nil {
			return nil, ListSpecsOutput{}, err
		}
		return nil, ListSpecsOutput{Count: len(names), Specs: names}, nil
	}
}

// --- show_spec ---

// SpecInput names one spec.
type SpecInput struct {
	Name string `json:"name" jsonschema:"spec name, e.g. todo-app"`
}

// ShowSpecOutput is the output for show_spec.
type ShowSpecOutput struct {
	Name    string `json:"name"    jsonschema:"spec name"`
	Content string `json:"content" jsonschema:"Markdown content of the spec"`
}

func handleShowSpec(engine *lifecycle.Engine) mcp.ToolHandlerFor[SpecInput, ShowSpecOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SpecInput) (*mcp.CallToolResult, ShowSpecOutput, error) {
		data, err := engine.Show(input.Name)
		if err != nil {
			return nil, ShowSpecOutput{}, err
		}
		return nil, ShowSpecOutput{Name: input.Name, Content: string(data)}, nil
	}
}

// --- create_spec ---

// CreateSpecOutput is the output for create_spec.
type CreateSpecOutput struct {
	Name string `json:"name" jsonschema:"spec name"`
	Path string `json:"path" jsonschema:"file the skeleton was written to"`
}

func handleCreateSpec(engine *lifecycle.Engine) mcp.ToolHandlerFor[SpecInput, CreateSpecOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SpecInput) (*mcp.CallToolResult, CreateSpecOutput, error) {
		path, err := engine.Create(input.Name)
		if err != nil {
			return nil, CreateSpecOutput{}, err
		}
		return nil, CreateSpecOutput{Name: input.Name, Path: path}, nil
	}
}

// --- dryrun ---

// DryRunInput is the input for dryrun.
type DryRunInput struct {
	Name string `json:"name"           jsonschema:"spec name"`
	Tool string `json:"tool,omitempty" jsonschema:"AI tool adapter name; defaults to the configured tool"`
}

// DryRunOutput is the output for dryrun.
type DryRunOutput struct {
	Name    string `json:"name"    jsonschema:"spec name"`
	Command string `json:"command" jsonschema:"shell command generate would run"`
}

func handleDryRun(engine *lifecycle.Engine) mcp.ToolHandlerFor[DryRunInput, DryRunOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DryRunInput) (*mcp.CallToolResult, DryRunOutput, error) {
		command, err := engine.DryRun(input.Name, input.Tool)
		if err != nil {
			return nil, DryRunOutput{}, err
		}
		return nil, DryRunOutput{Name: input.Name, Command: command}, nil
	}
}

// --- list_adapters ---

// ListAdaptersInput takes no parameters.
type ListAdaptersInput struct{}

// AdapterInfo describes one registered adapter.
type AdapterInfo struct {
	Name      string `json:"name"      jsonschema:"adapter name used with --tool"`
	Display   string `json:"display"   jsonschema:"human readable tool name"`
	Binary    string `json:"binary"    jsonschema:"executable the command invokes"`
	Streams   bool   `json:"streams"   jsonschema:"true if the prompt is streamed on stdin rather than inlined"`
	Available bool   `json:"available" jsonschema:"true if the binary is on PATH"`
}

// ListAdaptersOutput is the output for list_adapters.
type ListAdaptersOutput struct {
	Adapters []AdapterInfo `json:"adapters" jsonschema:"registered adapters in name order"`
}

func handleListAdapters(registry *adapter.Registry) mcp.ToolHandlerFor[ListAdaptersInput, ListAdaptersOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListAdaptersInput) (*mcp.CallToolResult, ListAdaptersOutput, error) {
		out := ListAdaptersOutput{Adapters: []AdapterInfo{}}
		for _, name := range registry.Names() {
			a, err := registry.Resolve(name)
			if err != nil {
				return nil, ListAdaptersOutput{}, fmt.Errorf("resolving %s: %w", name, err)
			}
			out.Adapters = append(out.Adapters, AdapterInfo{
				Name:      a.Name(),
				Display:   a.DisplayName(),
				Binary:    a.Binary(),
				Streams:   a.Streams(),
				Available: adapter.Available(a),
			})
		}
		return nil, out, nil
	}
}

// --- list_runs ---

// ListRunsInput is the input for list_runs.
type ListRunsInput struct {
	Spec string `json:"spec,omitempty" jsonschema:"only runs for this spec"`
	Last int    `json:"last,omitempty" jsonschema:"maximum number of runs (default 20)"`
}

// RunInfo is one history record.
type RunInfo struct {
	ID         string `json:"id"          jsonschema:"run ID"`
	Verb       string `json:"verb"        jsonschema:"lifecycle verb"`
	Spec       string `json:"spec"        jsonschema:"spec name"`
	Adapter    string `json:"adapter"     jsonschema:"adapter name"`
	Outcome    string `json:"outcome"     jsonschema:"applied, unverified or failed"`
	ExitCode   int    `json:"exit_code"   jsonschema:"AI tool exit code"`
	StartedAt  string `json:"started_at"  jsonschema:"RFC 3339 start time"`
	DurationMS int64  `json:"duration_ms" jsonschema:"run time in milliseconds"`
}

// ListRunsOutput is the output for list_runs.
type ListRunsOutput struct {
	Runs []RunInfo `json:"runs" jsonschema:"runs, newest first"`
}

func handleListRuns(runs RunLister) mcp.ToolHandlerFor[ListRunsInput, ListRunsOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListRunsInput) (*mcp.CallToolResult, ListRunsOutput, error) {
		records, err := runs.List(ctx, historyFilter(input))
		if err != nil {
			return nil, ListRunsOutput{}, err
		}
		out := ListRunsOutput{Runs: make([]RunInfo, 0, len(records))}
		for _, rec := range records {
			out.Runs = append(out.Runs, RunInfo{
				ID:         rec.ID,
				Verb:       rec.Verb,
				Spec:       rec.Spec,
				Adapter:    rec.Adapter,
				Outcome:    rec.Outcome,
				ExitCode:   rec.ExitCode,
				StartedAt:  rec.StartedAt.Format(time.RFC3339),
				DurationMS: rec.Duration.Milliseconds(),
			})
		}
		return nil, out, nil
	}
}
