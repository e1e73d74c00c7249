package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RouteFileInput holds the arguments for the route_file tool.
type RouteFileInput struct {
	SourceFile           string `json:"source_file" jsonschema:"Path to the source file to copy"`
	DestinationDirectory string `json:"destination_directory" jsonschema:"Target directory path (absolute or relative)"`
	Filename             string `json:"filename,omitempty" jsonschema:"Optional new filename (uses the original if not provided)"`
	Overwrite            bool   `json:"overwrite,omitempty" jsonschema:"Whether to overwrite existing files (default: false)"`
	CreateDirs           *bool  `json:"create_dirs,omitempty" jsonschema:"Whether to create missing destination directories (default: true)"`
	VerifyPermissions    *bool  `json:"verify_permissions,omitempty" jsonschema:"Whether to verify write permissions before copying (default: true)"`
}

// RouteFile copies a finished file into a destination directory after
// checking boundaries, permissions, and overwrite conflicts.
func (t *Tools) RouteFile(ctx context.Context, _ *mcp.CallToolRequest, in RouteFileInput) (*mcp.CallToolResult, any, error) {
	source, err := filepath.Abs(in.SourceFile)
	if err != nil {
		return textResult(fmt.Sprintf("Error: Unexpected error during file routing: %v", err)), nil, nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return textResult(fmt.Sprintf("Error: Source file not found: %s", source)), nil, nil
	}
	if !info.Mode().IsRegular() {
		return textResult(fmt.Sprintf("Error: Source path is not a file: %s", source)), nil, nil
	}

	destDir, err := filepath.Abs(in.DestinationDirectory)
	if err != nil {
		return textResult(fmt.Sprintf("Error: Unexpected error during file routing: %v", err)), nil, nil
	}
	if !safeDestination(destDir) {
		return textResult(fmt.Sprintf("Error: Destination directory appears to be outside safe boundaries: %s", destDir)), nil, nil
	}

	if destInfo, err := os.Stat(destDir); err != nil {
		if !orTrue(in.CreateDirs) {
			return textResult(fmt.Sprintf("Error: Destination directory does not exist and create_dirs=false: %s", destDir)), nil, nil
		}
		if err := os.MkdirAll(destDir, 0o750); err != nil {
			return textResult(fmt.Sprintf("Error: Failed to create destination directory: %v", err)), nil, nil
		}
		t.logger.Info("created directory", "path", destDir)
	} else if !destInfo.IsDir() {
		return textResult(fmt.Sprintf("Error: Destination path exists but is not a directory: %s", destDir)), nil, nil
	}

	if orTrue(in.VerifyPermissions) && !writable(destDir) {
		return textResult(fmt.Sprintf("Error: No write permission for destination directory: %s", destDir)), nil, nil
	}

	finalName := in.Filename
	if finalName == "" {
		finalName = filepath.Base(source)
	}
	destFile := filepath.Join(destDir, finalName)

	destExisted := false
	if _, err := os.Stat(destFile); err == nil {
		destExisted = true
		if !in.Overwrite {
			return textResult(fmt.Sprintf("Error: Destination file exists and overwrite=false: %s", destFile)), nil, nil
		}
		if !writable(destFile) {
			return textResult(fmt.Sprintf("Error: Cannot overwrite read-only file: %s", destFile)), nil, nil
		}
	}

	if err := copyFile(source, destFile); err != nil {
		return textResult(fmt.Sprintf("Error: Failed to copy file: %v", err)), nil, nil
	}
	destInfo, err := os.Stat(destFile)
	if err != nil {
		return textResult(fmt.Sprintf("Error: Unexpected error during file routing: %v", err)), nil, nil
	}

	op := "Created"
	if destExisted {
		op = "Overwritten"
	}
	t.logger.Info("file routed", "source", source, "destination", destFile)
	return textResult(fmt.Sprintf("File routed successfully!\nSource: %s\nDestination: %s\nSize: %s bytes\nOperation: %s",
		source, destFile, formatBytes(destInfo.Size()), op)), nil, nil
}

// safeDestination reports whether dir falls inside the boundaries file
// routing is allowed to write to: near the working directory, under the
// user's home, or under a recognized temp location.
func safeDestination(dir string) bool {
	if cwd, err := os.Getwd(); err == nil {
		root := cwd
		for range 3 {
			root = filepath.Dir(root)
		}
		if within(root, dir) {
			return true
		}
	}
	prefixes := []string{os.TempDir(), "/tmp", "/var/tmp", `C:\Users`, `C:\temp`, `C:\tmp`}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		prefixes = append(prefixes, home)
	}
	for _, p := range prefixes {
		if within(p, dir) {
			return true
		}
	}
	return false
}

// within reports whether path is root itself or located inside it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// copyFile copies src to dst, preserving the file mode and modification
// time the way an archival copy would.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src) //nolint:gosec // the tool operates on caller-supplied paths
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only handle

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // the tool operates on caller-supplied paths
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec // the copy error takes precedence
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, time.Now(), info.ModTime())
}

// ValidateOutputDirectoryInput holds the arguments for the
// validate_output_directory tool.
type ValidateOutputDirectoryInput struct {
	DirectoryPath    string `json:"directory_path" jsonschema:"Path to validate"`
	CheckWriteAccess *bool  `json:"check_write_access,omitempty" jsonschema:"Whether to verify write permissions (default: true)"`
	CheckSpace       *bool  `json:"check_space,omitempty" jsonschema:"Whether to check available disk space (default: true)"`
	MinSpaceMB       *int   `json:"min_space_mb,omitempty" jsonschema:"Minimum required space in MB (default: configured output.min_space_mb; 0 disables the floor)"`
}

// ValidateOutputDirectory reports whether a directory is ready to receive
// routed files.
func (t *Tools) ValidateOutputDirectory(_ context.Context, _ *mcp.CallToolRequest, in ValidateOutputDirectoryInput) (*mcp.CallToolResult, any, error) {
	return textResult(t.validateDirectory(in)), nil, nil
}

// validateDirectory builds the validation report shared by
// validate_output_directory and set_default_output_directory.
func (t *Tools) validateDirectory(in ValidateOutputDirectoryInput) string {
	dir, err := filepath.Abs(in.DirectoryPath)
	if err != nil {
		return fmt.Sprintf("Error: Failed to validate directory: %v", err)
	}
	minSpace := orInt(in.MinSpaceMB, t.minSpaceMB())

	var errs, warns []string
	info, statErr := os.Stat(dir)
	exists := statErr == nil
	isDir := exists && info.IsDir()

	var writableState *bool
	var spaceMB *float64

	if !exists {
		errs = append(errs, "Directory does not exist")
		parent := filepath.Dir(dir)
		if pinfo, err := os.Stat(parent); err == nil && pinfo.IsDir() {
			if writable(parent) {
				warns = append(warns, "Directory can be created (parent is writable)")
			} else {
				errs = append(errs, "Cannot create directory (parent not writable)")
			}
		} else {
			errs = append(errs, "Parent directory does not exist")
		}
	} else if !isDir {
		errs = append(errs, "Path exists but is not a directory")
	}

	if orTrue(in.CheckWriteAccess) && isDir {
		w := writable(dir)
		writableState = &w
		if !w {
			errs = append(errs, "Directory is not writable")
		}
	}

	if orTrue(in.CheckSpace) && exists {
		if mb, err := availableMB(dir); err != nil {
			errs = append(errs, fmt.Sprintf("Error checking disk space: %v", err))
		} else {
			spaceMB = &mb
			switch {
			case mb < float64(minSpace):
				errs = append(errs, fmt.Sprintf("Insufficient disk space: %.1fMB < %dMB required", mb, minSpace))
			case mb < float64(minSpace)*2:
				warns = append(warns, fmt.Sprintf("Low disk space: %.1fMB available", mb))
			}
		}
	}

	status := "VALID"
	switch {
	case len(errs) > 0:
		status = "INVALID"
	case len(warns) > 0:
		status = "VALID (with warnings)"
	}

	report := []string{
		"Directory Validation Report: " + status,
		"Path: " + dir,
		fmt.Sprintf("Exists: %t", exists),
	}
	if exists {
		report = append(report, fmt.Sprintf("Is Directory: %t", isDir))
		if writableState != nil {
			report = append(report, fmt.Sprintf("Writable: %t", *writableState))
		}
		if spaceMB != nil {
			report = append(report, fmt.Sprintf("Available Space: %s MB", formatMB(*spaceMB)))
		}
	}
	if len(errs) > 0 {
		report = append(report, "\nErrors:")
		for _, e := range errs {
			report = append(report, "  ❌ "+e)
		}
	}
	if len(warns) > 0 {
		report = append(report, "\nWarnings:")
		for _, w := range warns {
			report = append(report, "  ⚠️  "+w)
		}
	}
	if status == "VALID" {
		report = append(report, "\n✅ Directory is ready for file routing operations")
	}
	return strings.Join(report, "\n")
}

// SetDefaultOutputDirectoryInput holds the arguments for the
// set_default_output_directory tool.
type SetDefaultOutputDirectoryInput struct {
	DirectoryPath string `json:"directory_path" jsonschema:"Path to set as default"`
	FileType      string `json:"file_type,omitempty" jsonschema:"File type to associate with this directory, such as png, gif, aseprite, or all (default: all)"`
	Validate      *bool  `json:"validate,omitempty" jsonschema:"Whether to validate the directory before setting (default: true)"`
}

// SetDefaultOutputDirectory records a default destination for a file type
// in the configuration file.
func (t *Tools) SetDefaultOutputDirectory(_ context.Context, _ *mcp.CallToolRequest, in SetDefaultOutputDirectoryInput) (*mcp.CallToolResult, any, error) {
	fileType := in.FileType
	if fileType == "" {
		fileType = "all"
	}

	if orTrue(in.Validate) {
		report := t.validateDirectory(ValidateOutputDirectoryInput{DirectoryPath: in.DirectoryPath})
		if strings.Contains(report, "INVALID") {
			return textResult(fmt.Sprintf("Cannot set default directory - validation failed:\n%s", report)), nil, nil
		}
	}

	dir, err := filepath.Abs(in.DirectoryPath)
	if err != nil {
		return textResult(fmt.Sprintf("Error: Failed to set default directory: %v", err)), nil, nil
	}
	if t.loader != nil {
		if err := t.loader.SetDefaultOutputDir(fileType, dir); err != nil {
			return textResult(fmt.Sprintf("Error: Failed to set default directory: %v", err)), nil, nil
		}
	}

	t.logger.Info("default output directory set", "file_type", fileType, "directory", dir)
	return textResult(fmt.Sprintf("Default output directory configured:\nFile Type: %s\nDirectory: %s\nStatus: Ready for file routing\nNote: Use route_file() to move files to this directory", fileType, dir)), nil, nil
}

// ListRecentRoutesInput holds the arguments for the list_recent_routes tool.
type ListRecentRoutesInput struct {
	Limit *int `json:"limit,omitempty" jsonschema:"Maximum number of recent routes to show (default: 10)"`
}

// ListRecentRoutes lists recent routing operations. History is not
// persisted, so the listing is informational.
func (t *Tools) ListRecentRoutes(_ context.Context, _ *mcp.CallToolRequest, in ListRecentRoutesInput) (*mcp.CallToolResult, any, error) {
	limit := orInt(in.Limit, 10)
	return textResult(fmt.Sprintf("Recent File Routes (last %d):\nNote: Route history tracking not yet implemented.\nUse route_file() to move files to desired destinations.\nUse validate_output_directory() to check destination validity.", limit)), nil, nil
}

// CreateOrganizedStructureInput holds the arguments for the
// create_organized_structure tool.
type CreateOrganizedStructureInput struct {
	BaseDirectory string `json:"base_directory" jsonschema:"Base directory to create the structure in"`
	StructureType string `json:"structure_type,omitempty" jsonschema:"Type of organization: by_type, by_date, or by_project (default: by_type)"`
	IncludeDate   bool   `json:"include_date,omitempty" jsonschema:"Whether to include date-based subdirectories (default: true)"`
}

// CreateOrganizedStructure lays out a directory tree for routed files.
func (t *Tools) CreateOrganizedStructure(_ context.Context, _ *mcp.CallToolRequest, in CreateOrganizedStructureInput) (*mcp.CallToolResult, any, error) {
	base, err := filepath.Abs(in.BaseDirectory)
	if err != nil {
		return textResult(fmt.Sprintf("Error: Failed to create directory structure: %v", err)), nil, nil
	}
	if info, err := os.Stat(base); err == nil {
		if !info.IsDir() {
			return textResult(fmt.Sprintf("Error: Base path is not a directory: %s", base)), nil, nil
		}
	} else if err := os.MkdirAll(base, 0o750); err != nil {
		return textResult(fmt.Sprintf("Error: Failed to create directory structure: %v", err)), nil, nil
	}

	structType := in.StructureType
	if structType == "" {
		structType = "by_type"
	}

	var subdirs []string
	switch structType {
	case "by_type":
		subdirs = []string{
			"images/png",
			"images/jpg",
			"images/gif",
			"sprites/aseprite",
			"sprites/sheets",
			"animations",
			"exports/final",
			"exports/drafts",
			"projects/active",
			"projects/archive",
		}
	case "by_date":
		yearMonth := time.Now().Format("2006/01")
		subdirs = []string{
			yearMonth + "/exports",
			yearMonth + "/projects",
			yearMonth + "/drafts",
			"archive",
			"templates",
		}
	case "by_project":
		subdirs = []string{
			"current_projects",
			"completed_projects",
			"templates",
			"resources/sprites",
			"resources/backgrounds",
			"exports/final",
			"exports/previews",
		}
	default:
		return textResult(fmt.Sprintf("Error: Unknown structure type: %s. Use 'by_type', 'by_date', or 'by_project'", structType)), nil, nil
	}

	created := make([]string, 0, len(subdirs))
	for _, sub := range subdirs {
		full := filepath.Join(base, filepath.FromSlash(sub))
		if err := os.MkdirAll(full, 0o750); err != nil {
			return textResult(fmt.Sprintf("Error: Failed to create directory structure: %v", err)), nil, nil
		}
		created = append(created, full)
	}
	sort.Strings(created)

	report := []string{
		"Organized Directory Structure Created: " + structType,
		"Base Directory: " + base,
		fmt.Sprintf("Directories Created: %d", len(created)),
		"",
		"Structure:",
	}
	for _, dir := range created {
		rel, err := filepath.Rel(base, dir)
		if err != nil {
			rel = dir
		}
		report = append(report, "  📁 "+rel)
	}
	report = append(report,
		"",
		"✅ Directory structure ready for file routing operations",
		"Use route_file() to move files into this organized structure",
	)

	t.logger.Info("organized structure created", "type", structType, "base", base)
	return textResult(strings.Join(report, "\n")), nil, nil
}
