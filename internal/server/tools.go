package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var roiHalfWidthProperty = map[string]interface{}{
	"type":        "integer",
	"minimum":     0,
	"description": "Half width of the square sampled around the image center. Defaults to the server's configured value (6 unless overridden).",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "color_analyze_image",
			Description: "Name the color at the center of an image passed inline as a data URL (data:image/png;base64,...) or bare base64. Returns the name, mean HSV (H 0-179, S and V 0-255), RGB and hex.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Data URL or base64-encoded image bytes (PNG, JPEG, BMP, GIF, TIFF or WebP)",
					},
					"roi_half_width": roiHalfWidthProperty,
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "color_analyze_file",
			Description: "Name the color at the center of an image file on disk. Accepts .png, .jpg, .jpeg, .bmp and .webp files. Decoded files are cached until they change.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"roi_half_width": roiHalfWidthProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "color_classify_hsv",
			Description: "Name an HSV color directly, without an image. Uses the same classification as the image tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"h": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     179,
						"description": "Hue at half resolution (degrees / 2)",
					},
					"s": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     255,
						"description": "Saturation",
					},
					"v": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     255,
						"description": "Value (brightness)",
					},
				},
				"required": []string{"h", "s", "v"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
