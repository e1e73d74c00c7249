package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// parseHexColor normalizes a hex color like "#FF0000" or "ff0000" and
// returns its RGB components. ok is false when color is not a six-digit hex
// code.
func parseHexColor(color string) (r, g, b uint8, ok bool) {
	s := strings.TrimLeft(color, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Pixel is a single pixel assignment for the draw_pixels tool.
type Pixel struct {
	X     int    `json:"x" jsonschema:"X coordinate (must be >= 0)"`
	Y     int    `json:"y" jsonschema:"Y coordinate (must be >= 0)"`
	Color string `json:"color" jsonschema:"Hex color code such as #FF0000"`
}

// DrawPixelsInput holds the arguments for the draw_pixels tool.
type DrawPixelsInput struct {
	Filename string  `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
	Pixels   []Pixel `json:"pixels" jsonschema:"List of pixels to draw, each with x, y, and color"`
}

// DrawPixels writes individual pixels into the active cel of a sprite.
func (t *Tools) DrawPixels(ctx context.Context, _ *mcp.CallToolRequest, in DrawPixelsInput) (*mcp.CallToolResult, any, error) {
	if len(in.Pixels) == 0 {
		return textResult("Error: No pixels provided"), nil, nil
	}
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}
	for i, p := range in.Pixels {
		if p.X < 0 || p.Y < 0 {
			return textResult(fmt.Sprintf("Error: Pixel %d coordinates must be non-negative", i)), nil, nil
		}
		if _, _, _, ok := parseHexColor(p.Color); !ok {
			return textResult(fmt.Sprintf("Error: Pixel %d has invalid color format '%s'", i, p.Color)), nil, nil
		}
	}

	var sb strings.Builder
	sb.WriteString(`local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Draw Pixels", function()
    local cel = app.activeCel
    if not cel then
        -- Create a new cel if none exists
        app.activeLayer = spr.layers[1]
        app.activeFrame = spr.frames[1]
        cel = spr:newCel(app.activeLayer, app.activeFrame)
        if not cel then
            return "Error: Could not create cel"
        end
    end

    local img = cel.image
`)
	for _, p := range in.Pixels {
		r, g, b, _ := parseHexColor(p.Color)
		fmt.Fprintf(&sb, `    if %d >= 0 and %d >= 0 and %d < img.width and %d < img.height then
        img:putPixel(%d, %d, Color(%d, %d, %d, 255))
    end
`, p.X, p.Y, p.X, p.Y, p.X, p.Y, r, g, b)
	}
	sb.WriteString(`end)

spr:saveAs(spr.filename)
return "Pixels drawn successfully"`)

	res, err := t.client.RunScript(ctx, sb.String(), in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to draw pixels", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to draw pixels: %s", res.Output)), nil, nil
	}

	t.logger.Info("pixels drawn", "count", len(in.Pixels), "filename", in.Filename)
	return textResult(fmt.Sprintf("Successfully drew %d pixels in %s", len(in.Pixels), in.Filename)), nil, nil
}

// DrawLineInput holds the arguments for the draw_line tool.
type DrawLineInput struct {
	Filename  string `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
	X1        int    `json:"x1" jsonschema:"Starting x coordinate"`
	Y1        int    `json:"y1" jsonschema:"Starting y coordinate"`
	X2        int    `json:"x2" jsonschema:"Ending x coordinate"`
	Y2        int    `json:"y2" jsonschema:"Ending y coordinate"`
	Color     string `json:"color,omitempty" jsonschema:"Hex color code (default: #000000)"`
	Thickness *int   `json:"thickness,omitempty" jsonschema:"Line thickness in pixels (default: 1, max: 100)"`
}

// DrawLine draws a straight line between two points.
func (t *Tools) DrawLine(ctx context.Context, _ *mcp.CallToolRequest, in DrawLineInput) (*mcp.CallToolResult, any, error) {
	thickness := orInt(in.Thickness, 1)
	if thickness < 1 || thickness > 100 {
		return textResult("Error: Thickness must be between 1 and 100"), nil, nil
	}
	color := in.Color
	if color == "" {
		color = "#000000"
	}
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return textResult(fmt.Sprintf("Error: Invalid color format '%s'", color)), nil, nil
	}
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	script := fmt.Sprintf(`local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Draw Line", function()
    local cel = app.activeCel
    if not cel then
        app.activeLayer = spr.layers[1]
        app.activeFrame = spr.frames[1]
        cel = spr:newCel(app.activeLayer, app.activeFrame)
        if not cel then
            return "Error: Could not create cel"
        end
    end

    local color = Color(%d, %d, %d, 255)
    local brush = Brush()
    brush.size = %d

    app.useTool({
        tool="line",
        color=color,
        brush=brush,
        points={Point(%d, %d), Point(%d, %d)}
    })
end)

spr:saveAs(spr.filename)
return "Line drawn successfully"`, r, g, b, thickness, in.X1, in.Y1, in.X2, in.Y2)

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to draw line", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to draw line: %s", res.Output)), nil, nil
	}

	t.logger.Info("line drawn", "from", fmt.Sprintf("(%d,%d)", in.X1, in.Y1), "to", fmt.Sprintf("(%d,%d)", in.X2, in.Y2), "filename", in.Filename)
	return textResult(fmt.Sprintf("Line drawn successfully from (%d,%d) to (%d,%d) in %s", in.X1, in.Y1, in.X2, in.Y2, in.Filename)), nil, nil
}

// DrawRectangleInput holds the arguments for the draw_rectangle tool.
type DrawRectangleInput struct {
	Filename string `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
	X        int    `json:"x" jsonschema:"Top-left x coordinate"`
	Y        int    `json:"y" jsonschema:"Top-left y coordinate"`
	Width    int    `json:"width" jsonschema:"Width of the rectangle (must be > 0)"`
	Height   int    `json:"height" jsonschema:"Height of the rectangle (must be > 0)"`
	Color    string `json:"color,omitempty" jsonschema:"Hex color code (default: #000000)"`
	Fill     bool   `json:"fill,omitempty" jsonschema:"Whether to fill the rectangle (default: false)"`
}

// DrawRectangle draws an outlined or filled rectangle.
func (t *Tools) DrawRectangle(ctx context.Context, _ *mcp.CallToolRequest, in DrawRectangleInput) (*mcp.CallToolResult, any, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return textResult("Error: Width and height must be positive"), nil, nil
	}
	color := in.Color
	if color == "" {
		color = "#000000"
	}
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return textResult(fmt.Sprintf("Error: Invalid color format '%s'", color)), nil, nil
	}
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	tool := "rectangle"
	if in.Fill {
		tool = "filled_rectangle"
	}
	script := fmt.Sprintf(`local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Draw Rectangle", function()
    local cel = app.activeCel
    if not cel then
        app.activeLayer = spr.layers[1]
        app.activeFrame = spr.frames[1]
        cel = spr:newCel(app.activeLayer, app.activeFrame)
        if not cel then
            return "Error: Could not create cel"
        end
    end

    local color = Color(%d, %d, %d, 255)
    app.useTool({
        tool="%s",
        color=color,
        points={Point(%d, %d), Point(%d, %d)}
    })
end)

spr:saveAs(spr.filename)
return "Rectangle drawn successfully"`, r, g, b, tool, in.X, in.Y, in.X+in.Width, in.Y+in.Height)

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to draw rectangle", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to draw rectangle: %s", res.Output)), nil, nil
	}

	prefix := ""
	if in.Fill {
		prefix = "Filled "
	}
	t.logger.Info("rectangle drawn", "filled", in.Fill, "x", in.X, "y", in.Y, "filename", in.Filename)
	return textResult(fmt.Sprintf("%sRectangle drawn successfully at (%d,%d) size %dx%d in %s", prefix, in.X, in.Y, in.Width, in.Height, in.Filename)), nil, nil
}

// FillAreaInput holds the arguments for the fill_area tool.
type FillAreaInput struct {
	Filename string `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
	X        int    `json:"x" jsonschema:"X coordinate to fill from"`
	Y        int    `json:"y" jsonschema:"Y coordinate to fill from"`
	Color    string `json:"color,omitempty" jsonschema:"Hex color code (default: #000000)"`
}

// FillArea flood-fills a region starting from the given point.
func (t *Tools) FillArea(ctx context.Context, _ *mcp.CallToolRequest, in FillAreaInput) (*mcp.CallToolResult, any, error) {
	color := in.Color
	if color == "" {
		color = "#000000"
	}
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return textResult(fmt.Sprintf("Error: Invalid color format '%s'", color)), nil, nil
	}
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	script := fmt.Sprintf(`local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Fill Area", function()
    local cel = app.activeCel
    if not cel then
        app.activeLayer = spr.layers[1]
        app.activeFrame = spr.frames[1]
        cel = spr:newCel(app.activeLayer, app.activeFrame)
        if not cel then
            return "Error: Could not create cel"
        end
    end

    local color = Color(%d, %d, %d, 255)
    app.useTool({
        tool="paint_bucket",
        color=color,
        points={Point(%d, %d)}
    })
end)

spr:saveAs(spr.filename)
return "Area filled successfully"`, r, g, b, in.X, in.Y)

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to fill area", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to fill area: %s", res.Output)), nil, nil
	}

	t.logger.Info("area filled", "x", in.X, "y", in.Y, "filename", in.Filename)
	return textResult(fmt.Sprintf("Area filled successfully at (%d,%d) in %s", in.X, in.Y, in.Filename)), nil, nil
}

// DrawCircleInput holds the arguments for the draw_circle tool.
type DrawCircleInput struct {
	Filename string `json:"filename" jsonschema:"Name of the Aseprite file to modify"`
	CenterX  int    `json:"center_x" jsonschema:"X coordinate of circle center"`
	CenterY  int    `json:"center_y" jsonschema:"Y coordinate of circle center"`
	Radius   int    `json:"radius" jsonschema:"Radius of the circle in pixels (must be > 0)"`
	Color    string `json:"color,omitempty" jsonschema:"Hex color code (default: #000000)"`
	Fill     bool   `json:"fill,omitempty" jsonschema:"Whether to fill the circle (default: false)"`
}

// DrawCircle draws an outlined or filled circle.
func (t *Tools) DrawCircle(ctx context.Context, _ *mcp.CallToolRequest, in DrawCircleInput) (*mcp.CallToolResult, any, error) {
	if in.Radius <= 0 {
		return textResult("Error: Radius must be positive"), nil, nil
	}
	color := in.Color
	if color == "" {
		color = "#000000"
	}
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return textResult(fmt.Sprintf("Error: Invalid color format '%s'", color)), nil, nil
	}
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	tool := "ellipse"
	if in.Fill {
		tool = "filled_ellipse"
	}
	script := fmt.Sprintf(`local spr = app.activeSprite
if not spr then
    return "Error: No active sprite"
end

app.transaction("Draw Circle", function()
    local cel = app.activeCel
    if not cel then
        app.activeLayer = spr.layers[1]
        app.activeFrame = spr.frames[1]
        cel = spr:newCel(app.activeLayer, app.activeFrame)
        if not cel then
            return "Error: Could not create cel"
        end
    end

    local color = Color(%d, %d, %d, 255)
    app.useTool({
        tool="%s",
        color=color,
        points={
            Point(%d, %d),
            Point(%d, %d)
        }
    })
end)

spr:saveAs(spr.filename)
return "Circle drawn successfully"`, r, g, b, tool,
		in.CenterX-in.Radius, in.CenterY-in.Radius, in.CenterX+in.Radius, in.CenterY+in.Radius)

	res, err := t.client.RunScript(ctx, script, in.Filename, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to draw circle", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to draw circle: %s", res.Output)), nil, nil
	}

	prefix := ""
	if in.Fill {
		prefix = "Filled "
	}
	t.logger.Info("circle drawn", "filled", in.Fill, "center_x", in.CenterX, "center_y", in.CenterY, "radius", in.Radius, "filename", in.Filename)
	return textResult(fmt.Sprintf("%sCircle drawn successfully at (%d,%d) radius %d in %s", prefix, in.CenterX, in.CenterY, in.Radius, in.Filename)), nil, nil
}
