package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colorscope/colorscope/internal/analyzer"
)

func pngBytes(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// createTestImageFile writes a solid image to a temp dir and returns its path.
func createTestImageFile(t *testing.T, name string, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, pngBytes(t, width, height, c), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// toolResult decodes the JSON text content of a successful tool call.
func toolResult(t *testing.T, resp *MCPResponse) analyzer.ColorResult {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content should hold one item, got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	var cr analyzer.ColorResult
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &cr); err != nil {
		t.Fatalf("content text is not a color result: %v", err)
	}
	return cr
}

func assertToolError(t *testing.T, resp *MCPResponse, wantData string) {
	t.Helper()
	if resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	if !strings.Contains(data, wantData) {
		t.Errorf("Error data: got %q, want it to contain %q", data, wantData)
	}
}

func TestHandleToolsCall_AnalyzeImage(t *testing.T) {
	s := newTestServer()
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 30, 30, color.RGBA{255, 0, 0, 255}))

	got := toolResult(t, callTool(t, s, "color_analyze_image", map[string]interface{}{"image": dataURL}))

	want := analyzer.ColorResult{Name: "Light Red", HSV: analyzer.HSV{H: 0, S: 255, V: 255}, RGB: analyzer.RGB{R: 255}, Hex: "#FF0000"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestHandleToolsCall_AnalyzeImage_BareBase64(t *testing.T) {
	s := newTestServer()
	raw := base64.StdEncoding.EncodeToString(pngBytes(t, 10, 10, color.RGBA{128, 128, 128, 255}))

	got := toolResult(t, callTool(t, s, "color_analyze_image", map[string]interface{}{"image": raw}))
	if got.Name != "Gray" {
		t.Errorf("Name: got %q, want Gray", got.Name)
	}
}

func TestHandleToolsCall_AnalyzeImage_ROI(t *testing.T) {
	// White background with a black center pixel.
	img := image.NewRGBA(image.Rect(0, 0, 9, 9))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Set(4, 4, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	s := newTestServer()
	got := toolResult(t, callTool(t, s, "color_analyze_image", map[string]interface{}{"image": dataURL, "roi_half_width": 0}))
	if got.Name != "Black" {
		t.Errorf("roi 0: got %q, want Black", got.Name)
	}
}

func TestHandleToolsCall_AnalyzeImage_Errors(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		name     string
		args     interface{}
		wantData string
	}{
		{"missing image", map[string]interface{}{}, "missing image data"},
		{"not an image", map[string]interface{}{"image": "data:image/png;base64,aGVsbG8="}, "could not decode image"},
		{"bad base64", map[string]interface{}{"image": "data:image/png;base64,@@@"}, "invalid base64"},
		{"negative roi", map[string]interface{}{"image": "x", "roi_half_width": -1}, "roi_half_width"},
		{"wrong type", map[string]interface{}{"image": 42}, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertToolError(t, callTool(t, s, "color_analyze_image", tt.args), tt.wantData)
		})
	}
}

func TestHandleToolsCall_AnalyzeFile(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, "swatch.png", 20, 20, color.RGBA{0, 0, 255, 255})

	got := toolResult(t, callTool(t, s, "color_analyze_file", map[string]interface{}{"path": path}))
	if got.HSV != (analyzer.HSV{H: 120, S: 255, V: 255}) {
		t.Errorf("HSV: got %+v, want {120 255 255}", got.HSV)
	}
	if s.cache.Len() != 1 {
		t.Errorf("file should be cached, Len = %d", s.cache.Len())
	}

	// Second call is served from the cache with the same answer.
	again := toolResult(t, callTool(t, s, "color_analyze_file", map[string]interface{}{"path": path}))
	if again != got {
		t.Errorf("cached result differs: got %+v, want %+v", again, got)
	}
}

func TestHandleToolsCall_AnalyzeFile_Errors(t *testing.T) {
	s := newTestServer()
	dir := t.TempDir()

	gif := filepath.Join(dir, "anim.gif")
	if err := os.WriteFile(gif, pngBytes(t, 4, 4, color.White), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	fake := filepath.Join(dir, "fake.jpg")
	if err := os.WriteFile(fake, []byte("not really a jpeg"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		wantData string
	}{
		{"no path", "", "no file selected"},
		{"unsupported extension", gif, "unsupported file type"},
		{"missing file", filepath.Join(dir, "missing.png"), "stat image"},
		{"not an image", fake, "could not decode image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertToolError(t, callTool(t, s, "color_analyze_file", map[string]interface{}{"path": tt.path}), tt.wantData)
		})
	}
}

func TestHandleToolsCall_ClassifyHSV(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		name    string
		h, s, v int
		want    analyzer.ColorResult
	}{
		{"light sky blue", 60, 200, 220, analyzer.ColorResult{
			Name: "Light Sky Blue", HSV: analyzer.HSV{H: 60, S: 200, V: 220}, RGB: analyzer.RGB{R: 47, G: 220, B: 47}, Hex: "#2FDC2F",
		}},
		{"gray", 0, 0, 127, analyzer.ColorResult{
			Name: "Gray", HSV: analyzer.HSV{H: 0, S: 0, V: 127}, RGB: analyzer.RGB{R: 127, G: 127, B: 127}, Hex: "#7F7F7F",
		}},
		{"brown", 15, 60, 100, analyzer.ColorResult{
			Name: "Medium Brown", HSV: analyzer.HSV{H: 15, S: 60, V: 100}, RGB: analyzer.RGB{R: 100, G: 88, B: 76}, Hex: "#64584C",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toolResult(t, callTool(t, s, "color_classify_hsv", map[string]int{"h": tt.h, "s": tt.s, "v": tt.v}))
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_ClassifyHSV_Errors(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		name     string
		args     interface{}
		wantData string
	}{
		{"missing channel", map[string]int{"h": 10, "s": 10}, "required"},
		{"no arguments", nil, "required"},
		{"hue too large", map[string]int{"h": 180, "s": 10, "v": 10}, "out of range"},
		{"negative value", map[string]int{"h": 0, "s": 10, "v": -1}, "out of range"},
		{"saturation too large", map[string]int{"h": 0, "s": 256, "v": 10}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertToolError(t, callTool(t, s, "color_classify_hsv", tt.args), tt.wantData)
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	assertToolError(t, callTool(t, newTestServer(), "image_load", map[string]string{}), "unknown tool")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid json}`),
	})

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}
