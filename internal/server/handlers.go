package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/colorscope/colorscope/internal/analyzer"
	"github.com/colorscope/colorscope/internal/service"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall executes a tool and wraps its result in MCP's content
// format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithField("tool", params.Name).WithError(err).Info("Tool call failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "color_analyze_image":
		return s.handleAnalyzeImage(args)
	case "color_analyze_file":
		return s.handleAnalyzeFile(args)
	case "color_classify_hsv":
		return s.handleClassifyHSV(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to a pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) roi(requested *int) (int, error) {
	if requested == nil {
		return s.svc.DefaultROI(), nil
	}
	if *requested < 0 {
		return 0, errors.New("roi_half_width must be non-negative")
	}
	return *requested, nil
}

type analyzeImageArgs struct {
	Image        string `json:"image"`
	ROIHalfWidth *int   `json:"roi_half_width,omitempty"`
}

func (s *Server) handleAnalyzeImage(args json.RawMessage) (interface{}, error) {
	var a analyzeImageArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	roi, err := s.roi(a.ROIHalfWidth)
	if err != nil {
		return nil, err
	}
	return s.svc.AnalyzeFrame(a.Image, roi)
}

type analyzeFileArgs struct {
	Path         string `json:"path"`
	ROIHalfWidth *int   `json:"roi_half_width,omitempty"`
}

// handleAnalyzeFile applies the upload rules to a local file, then analyzes
// it through the grid cache.
func (s *Server) handleAnalyzeFile(args json.RawMessage) (interface{}, error) {
	var a analyzeFileArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	roi, err := s.roi(a.ROIHalfWidth)
	if err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, service.ErrNoFile
	}
	if !service.AllowedExtension(a.Path) {
		return nil, fmt.Errorf("%w: %s", service.ErrUnsupportedType, filepath.Ext(a.Path))
	}

	grid, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.svc.AnalyzeGrid(grid, roi)
}

type classifyHSVArgs struct {
	H *int `json:"h"`
	S *int `json:"s"`
	V *int `json:"v"`
}

func (s *Server) handleClassifyHSV(args json.RawMessage) (interface{}, error) {
	var a classifyHSVArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.H == nil || a.S == nil || a.V == nil {
		return nil, errors.New("h, s and v are required")
	}

	hsv := analyzer.HSV{H: *a.H, S: *a.S, V: *a.V}
	if !hsv.Valid() {
		return nil, fmt.Errorf("hsv out of range: h must be 0-%d, s and v 0-255 (got %d,%d,%d)",
			analyzer.MaxHue, hsv.H, hsv.S, hsv.V)
	}
	return analyzer.Describe(hsv), nil
}
