package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/aseprite"
)

// maxCanvasDim is the largest width or height Aseprite handles reliably.
const maxCanvasDim = 8192

// CreateCanvasInput holds the arguments for the create_canvas tool.
type CreateCanvasInput struct {
	Width    int    `json:"width" jsonschema:"Width of the canvas in pixels (must be > 0)"`
	Height   int    `json:"height" jsonschema:"Height of the canvas in pixels (must be > 0)"`
	Filename string `json:"filename,omitempty" jsonschema:"Name of the output file (default: canvas.aseprite)"`
}

// CreateCanvas creates a new sprite with the requested dimensions and saves
// it to disk.
func (t *Tools) CreateCanvas(ctx context.Context, _ *mcp.CallToolRequest, in CreateCanvasInput) (*mcp.CallToolResult, any, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return textResult("Error: Width and height must be positive integers"), nil, nil
	}
	if in.Width > maxCanvasDim || in.Height > maxCanvasDim {
		return textResult(fmt.Sprintf("Error: Canvas dimensions too large (max %dx%d)", maxCanvasDim, maxCanvasDim)), nil, nil
	}

	filename := in.Filename
	if filename == "" {
		filename = "canvas.aseprite"
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".aseprite" && ext != ".ase" {
		filename = stem(filename) + ".aseprite"
	}

	name := aseprite.LuaString(filename)
	script := fmt.Sprintf(`local spr = Sprite(%d, %d)
if spr then
    spr:saveAs(%s)
    return "Canvas created successfully: " .. %s
else
    return "Failed to create sprite"
end`, in.Width, in.Height, name, name)

	res, err := t.client.RunScript(ctx, script, "", 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to create canvas", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to create canvas: %s", res.Output)), nil, nil
	}

	t.logger.Info("canvas created", "filename", filename, "width", in.Width, "height", in.Height)
	return textResult(fmt.Sprintf("Canvas created successfully: %s (%dx%d)", filename, in.Width, in.Height)), nil, nil
}

// AddLayerInput holds the arguments for the add_layer tool.
type AddLayerInput struct {
	Filename  string `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
	LayerName string `json:"layer_name" jsonschema:"Name of the new layer (must not be empty)"`
}

// AddLayer appends a named layer to an existing sprite.
func (t *Tools) AddLayer(ctx context.Context, _ *mcp.CallToolRequest, in AddLayerInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.LayerName) == "" {
		return textResult("Error: Layer name cannot be empty"), nil, nil
	}
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	script := fmt.Sprintf(`local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Add Layer", function()
    local new_layer = spr:newLayer()
    if new_layer then
        new_layer.name = %s
    else
        return "Error: Failed to create layer"
    end
end)

spr:saveAs(spr.filename)
return "Layer added successfully"`, aseprite.LuaString(in.LayerName))

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to add layer", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to add layer: %s", res.Output)), nil, nil
	}

	t.logger.Info("layer added", "layer", in.LayerName, "filename", in.Filename)
	return textResult(fmt.Sprintf("Layer '%s' added successfully to %s", in.LayerName, in.Filename)), nil, nil
}

// AddFrameInput holds the arguments for the add_frame tool.
type AddFrameInput struct {
	Filename string `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
}

// AddFrame appends a frame to an existing sprite.
func (t *Tools) AddFrame(ctx context.Context, _ *mcp.CallToolRequest, in AddFrameInput) (*mcp.CallToolResult, any, error) {
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	script := `local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Add Frame", function()
    local new_frame = spr:newFrame()
    if not new_frame then
        return "Error: Failed to create frame"
    end
end)

spr:saveAs(spr.filename)
return "Frame added successfully"`

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to add frame", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to add frame: %s", res.Output)), nil, nil
	}

	t.logger.Info("frame added", "filename", in.Filename)
	return textResult(fmt.Sprintf("New frame added successfully to %s", in.Filename)), nil, nil
}

// GetCanvasInfoInput holds the arguments for the get_canvas_info tool.
type GetCanvasInfoInput struct {
	Filename string `json:"filename" jsonschema:"Name of the Aseprite file to inspect"`
}

// GetCanvasInfo reports the dimensions, layer count, frame count, and color
// mode of a sprite.
func (t *Tools) GetCanvasInfo(ctx context.Context, _ *mcp.CallToolRequest, in GetCanvasInfoInput) (*mcp.CallToolResult, any, error) {
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	script := `local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

local info = {
    width = spr.width,
    height = spr.height,
    layers = #spr.layers,
    frames = #spr.frames,
    colorMode = spr.colorMode
}

return "Canvas: " .. info.width .. "x" .. info.height ..
       ", Layers: " .. info.layers ..
       ", Frames: " .. info.frames ..
       ", Color Mode: " .. tostring(info.colorMode)`

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		return textResult(fmt.Sprintf("Failed to get canvas info: %s", res.Output)), nil, nil
	}
	return textResult(res.Output), nil, nil
}
