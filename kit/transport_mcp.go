// CLAUDE:SUMMARY Bridges Endpoints onto MCP tools: decode arguments, run, encode result or tool error.
package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCPTool registers an Endpoint as an MCP tool. decode extracts the
// typed request from the raw JSON arguments; the endpoint's response is
// serialised as JSON text content. Endpoint errors become tool errors, never
// protocol errors, so a misuse leaves the MCP session healthy.
//
// render, when non-nil, turns the response into human-readable text instead
// of raw JSON.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint,
	decode func(*mcp.CallToolRequest) (any, error),
	render func(resp any) string,
) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = WithTransport(ctx, "mcp")

		decoded, err := decode(req)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		resp, err := endpoint(ctx, decoded)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		var text string
		if render != nil {
			text = render(resp)
		} else {
			data, err := json.Marshal(resp)
			if err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("marshal: %w", err))
				return &res, nil
			}
			text = string(data)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

// DecodeJSON unmarshals tool arguments into a fresh T.
func DecodeJSON[T any](req *mcp.CallToolRequest) (*T, error) {
	var r T
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
	}
	return &r, nil
}
