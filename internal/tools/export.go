package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// exportFormats lists the formats export_sprite accepts, in the order they
// are reported to the user.
var exportFormats = []struct {
	Name        string
	Description string
}{
	{"png", "PNG image"},
	{"gif", "GIF animation"},
	{"jpg", "JPEG image"},
	{"jpeg", "JPEG image"},
	{"bmp", "Bitmap image"},
	{"tga", "Targa image"},
	{"webp", "WebP image"},
}

// exportFormat returns the display description for a format name.
func exportFormat(name string) (string, bool) {
	for _, f := range exportFormats {
		if f.Name == name {
			return f.Description, true
		}
	}
	return "", false
}

// exportFormatNames renders the supported format names as a comma-separated
// list.
func exportFormatNames() string {
	names := make([]string, len(exportFormats))
	for i, f := range exportFormats {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// ensureExt normalizes name so it carries the given extension. The check is
// case-insensitive; a mismatched extension is replaced.
func ensureExt(name, ext string) string {
	if strings.ToLower(filepath.Ext(name)) != "."+ext {
		return stem(name) + "." + ext
	}
	return name
}

// ExportSpriteInput holds the arguments for the export_sprite tool.
type ExportSpriteInput struct {
	Filename       string `json:"filename" jsonschema:"Name of the Aseprite file to export"`
	OutputFilename string `json:"output_filename" jsonschema:"Name of the output file"`
	Format         string `json:"format,omitempty" jsonschema:"Output format (default: png; supported: png, gif, jpg, jpeg, bmp, tga, webp)"`
}

// ExportSprite converts a sprite to another image format via batch mode.
func (t *Tools) ExportSprite(ctx context.Context, _ *mcp.CallToolRequest, in ExportSpriteInput) (*mcp.CallToolResult, any, error) {
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" {
		format = "png"
	}
	desc, ok := exportFormat(format)
	if !ok {
		return textResult(fmt.Sprintf("Error: Unsupported format '%s'. Supported formats: %s", format, exportFormatNames())), nil, nil
	}
	output := ensureExt(in.OutputFilename, format)

	args := []string{"--batch", in.Filename, "--save-as", output}
	res, err := t.client.Run(ctx, args, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to export sprite", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to export sprite: %s", res.Output)), nil, nil
	}

	t.logger.Info("sprite exported", "source", in.Filename, "destination", output, "format", strings.ToUpper(format))
	return textResult(fmt.Sprintf("Sprite exported successfully from %s to %s (%s)", in.Filename, output, desc)), nil, nil
}

// ExportAnimationInput holds the arguments for the export_animation tool.
type ExportAnimationInput struct {
	Filename       string `json:"filename" jsonschema:"Name of the Aseprite file to export"`
	OutputFilename string `json:"output_filename" jsonschema:"Name of the output file"`
	Format         string `json:"format,omitempty" jsonschema:"Output format (default: gif; supported: gif, webp)"`
	Scale          *int   `json:"scale,omitempty" jsonschema:"Scale factor for the output (default: 1, max: 10)"`
}

// ExportAnimation converts a sprite to an animated image, optionally scaled.
func (t *Tools) ExportAnimation(ctx context.Context, _ *mcp.CallToolRequest, in ExportAnimationInput) (*mcp.CallToolResult, any, error) {
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" {
		format = "gif"
	}
	if format != "gif" && format != "webp" {
		return textResult("Error: Animation export only supports 'gif' and 'webp' formats"), nil, nil
	}
	scale := orInt(in.Scale, 1)
	if scale < 1 || scale > 10 {
		return textResult("Error: Scale must be between 1 and 10"), nil, nil
	}
	output := ensureExt(in.OutputFilename, format)

	args := []string{"--batch", in.Filename}
	if scale > 1 {
		args = append(args, "--scale", strconv.Itoa(scale))
	}
	args = append(args, "--save-as", output)

	res, err := t.client.Run(ctx, args, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to export animation", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to export animation: %s", res.Output)), nil, nil
	}

	t.logger.Info("animation exported", "source", in.Filename, "destination", output, "format", strings.ToUpper(format))
	return textResult(fmt.Sprintf("Animation exported successfully from %s to %s (scale: %dx)", in.Filename, output, scale)), nil, nil
}

// spritesheetFormats are the still-image formats export_spritesheet accepts.
var spritesheetFormats = []string{"png", "jpg", "jpeg", "bmp", "tga"}

// sheetTypes are the layouts Aseprite's --sheet-type flag understands.
var sheetTypes = []string{"horizontal", "vertical", "rows", "columns", "packed"}

// ExportSpritesheetInput holds the arguments for the export_spritesheet tool.
type ExportSpritesheetInput struct {
	Filename       string `json:"filename" jsonschema:"Name of the Aseprite file to export"`
	OutputFilename string `json:"output_filename" jsonschema:"Name of the output file"`
	Format         string `json:"format,omitempty" jsonschema:"Output format (default: png; supported: png, jpg, jpeg, bmp, tga)"`
	SheetType      string `json:"sheet_type,omitempty" jsonschema:"Sprite sheet layout (default: horizontal; one of horizontal, vertical, rows, columns, packed)"`
}

// ExportSpritesheet lays the frames of a sprite out into a single sheet
// image.
func (t *Tools) ExportSpritesheet(ctx context.Context, _ *mcp.CallToolRequest, in ExportSpritesheetInput) (*mcp.CallToolResult, any, error) {
	if msg := checkFile(in.Filename); msg != "" {
		return textResult(msg), nil, nil
	}

	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" {
		format = "png"
	}
	if !slices.Contains(spritesheetFormats, format) {
		return textResult(fmt.Sprintf("Error: Sprite sheet export supports: %s", strings.Join(spritesheetFormats, ", "))), nil, nil
	}
	sheetType := in.SheetType
	if sheetType == "" {
		sheetType = "horizontal"
	}
	if !slices.Contains(sheetTypes, sheetType) {
		return textResult(fmt.Sprintf("Error: Invalid sheet type. Valid types: %s", strings.Join(sheetTypes, ", "))), nil, nil
	}
	output := ensureExt(in.OutputFilename, format)

	args := []string{"--batch", in.Filename, "--sheet-type", sheetType, "--save-as", output}
	res, err := t.client.Run(ctx, args, 0)
	if err != nil {
		return textResult(t.commandFailure(err)), nil, nil
	}
	if !res.OK() {
		t.logger.Error("failed to export sprite sheet", "output", res.Output)
		return textResult(fmt.Sprintf("Failed to export sprite sheet: %s", res.Output)), nil, nil
	}

	t.logger.Info("sprite sheet exported", "source", in.Filename, "destination", output, "layout", sheetType)
	return textResult(fmt.Sprintf("Sprite sheet exported successfully from %s to %s (%s layout)", in.Filename, output, sheetType)), nil, nil
}
