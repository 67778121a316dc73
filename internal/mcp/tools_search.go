package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolSearchInput struct {
	Query    string `json:"query" jsonschema:"Regex pattern or search query matched against tool names, descriptions and keywords"`
	Category string `json:"category,omitempty" jsonschema:"Filter results to a category (catalog, views, search)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default: 5)"`
}

type toolSearchOutput struct {
	Query      string          `json:"query" jsonschema:"Search query used"`
	Results    []*SearchResult `json:"results" jsonschema:"Matching tools with match score"`
	Count      int             `json:"count" jsonschema:"Number of tools found"`
	TotalTools int             `json:"total_tools" jsonschema:"Total number of tools in registry"`
}

type toolListInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter to a specific category"`
}

type toolListOutput struct {
	Tools []*ToolMetadata `json:"tools" jsonschema:"Registered tools with metadata"`
	Count int             `json:"count" jsonschema:"Number of tools returned"`
}

func (s *Server) registerSearchTools() error {
	err := addTool(s, &ToolMetadata{
		Name:        "tool_search",
		Description: "Search for available tools by name, description, or keyword",
		Category:    CategorySearch,
		Keywords:    []string{"discover", "find"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args toolSearchInput) (*mcp.CallToolResult, toolSearchOutput, error) {
		return invoke(s, ctx, "tool_search", func(context.Context) (toolSearchOutput, error) {
			if args.Query == "" {
				return toolSearchOutput{}, fmt.Errorf("query is required")
			}
			limit := args.Limit
			if limit <= 0 {
				limit = 5
			}

			var results []*SearchResult
			if args.Category != "" {
				results = s.toolRegistry.SearchByCategory(args.Query, ToolCategory(args.Category))
			} else {
				results = s.toolRegistry.Search(args.Query)
			}
			if len(results) > limit {
				results = results[:limit]
			}
			if results == nil {
				results = []*SearchResult{}
			}

			return toolSearchOutput{
				Query:      args.Query,
				Results:    results,
				Count:      len(results),
				TotalTools: s.toolRegistry.Count(),
			}, nil
		})
	})
	if err != nil {
		return err
	}

	return addTool(s, &ToolMetadata{
		Name:        "tool_list",
		Description: "List all available tools with their metadata",
		Category:    CategorySearch,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args toolListInput) (*mcp.CallToolResult, toolListOutput, error) {
		return invoke(s, ctx, "tool_list", func(context.Context) (toolListOutput, error) {
			tools := s.toolRegistry.List()
			if args.Category != "" {
				tools = s.toolRegistry.ListByCategory(ToolCategory(args.Category))
			}
			return toolListOutput{Tools: tools, Count: len(tools)}, nil
		})
	})
}
