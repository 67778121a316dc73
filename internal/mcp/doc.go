// Package mcp exposes collegeroi explanations as MCP tools.
//
// Tools use the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp) and call
// the selection controller directly. Each tool returns its view as structured
// content. Selection failures come back as tool errors whose text names the
// horizon, school or feature that could not be resolved.
//
// Catalog tools: list_horizons, list_schools, list_features.
// View tools: explain_school, feature_scatter, global_importance, rank_predictions.
// Discovery tools: tool_search, tool_list.
package mcp
