// Package mcpserver exposes the explanation service as MCP tools over stdio,
// so editor agents can request code explanations without the HTTP boundary.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"codexplain/internal/delegate"
	"codexplain/internal/dispatch"
	"codexplain/internal/patterns"
)

// Server wraps the MCP server and connects it to the dispatcher.
type Server struct {
	mcp  *mcp.Server
	disp *dispatch.Dispatcher
	reg  *delegate.Registry
}

// New creates a new MCP server wired to the given dispatcher.
func New(disp *dispatch.Dispatcher, reg *delegate.Registry) (*Server, error) {
	s := &Server{disp: disp, reg: reg}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "codexplain",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[mcpserver] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// explainCodeArgs are the arguments for the explain_code tool.
type explainCodeArgs struct {
	Code           string `json:"code" jsonschema:"required,Source code to explain"`
	Language       string `json:"language" jsonschema:"required,Source language: javascript, python, java, or c++"`
	AnalysisMethod string `json:"analysis_method,omitempty" jsonschema:"Analysis method: rule (pattern-based, default) or nlp (external model)"`
	ModelName      string `json:"model_name,omitempty" jsonschema:"Model id for the nlp method (see list_analyzers)"`
}

// listAnalyzersArgs are the arguments for the list_analyzers tool.
type listAnalyzersArgs struct{}

// registerTools adds the explanation tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "explain_code",
		Description: "Explain a snippet of source code in natural language, using pattern-based structural analysis or an external language model.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args explainCodeArgs) (*mcp.CallToolResult, any, error) {
		res, err := s.disp.Dispatch(ctx, dispatch.Request{
			Code:      args.Code,
			Language:  args.Language,
			Method:    args.AnalysisMethod,
			ModelName: args.ModelName,
		})
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: res.Explanation},
			},
		}, nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_analyzers",
		Description: "List the supported languages, analysis methods, and available models.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listAnalyzersArgs) (*mcp.CallToolResult, any, error) {
		catalog := map[string]any{
			"languages": patterns.All(),
			"methods":   []string{dispatch.MethodRule, dispatch.MethodNLP},
			"models":    s.reg.Catalog(),
		}
		data, err := json.MarshalIndent(catalog, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal catalog: %v", err)), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(data)},
			},
		}, nil, nil
	})
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
