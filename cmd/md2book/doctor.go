package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/hints"
	"github.com/alnah/go-md2book/internal/toolchain"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// versionTimeout bounds each "<tool> --version" call.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Tools    []toolInfo `json:"tools"`
	Env      envInfo    `json:"environment"`
	Missing  []string   `json:"missing,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds the detection result for one external tool.
type toolInfo struct {
	Name     string `json:"name"`
	Purpose  string `json:"purpose"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS               string `json:"os"`
	Arch             string `json:"arch"`
	Container        bool   `json:"container"`
	EbookConvertPath string `json:"ebook_convert_path,omitempty"`
}

// doctorTools lists what the build may run. Diagram tools are optional:
// without them diagrams are skipped with a warning.
var doctorTools = []toolInfo{
	{Name: toolchain.ToolPandoc, Purpose: "Markdown to LaTeX", Required: true},
	{Name: toolchain.ToolXeLaTeX, Purpose: "PDF typesetting", Required: true},
	{Name: toolchain.ToolEbookConvert, Purpose: "ebook conversion", Required: true},
	{Name: toolchain.ToolDia, Purpose: "diagram export"},
	{Name: toolchain.ToolEpsToPDF, Purpose: "diagram PDF conversion"},
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = ready (including warnings), 4 = a required tool is missing.
func runDoctorCmd(ctx context.Context, args []string, deps *Dependencies) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(deps.Stderr)
	jsonOutput := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(ctx, deps)

	if *jsonOutput {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(deps.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitDependency
	}
	return ExitSuccess
}

// runDoctor locates every tool and asks it for its version.
func runDoctor(ctx context.Context, deps *Dependencies) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:               runtime.GOOS,
			Arch:             runtime.GOARCH,
			Container:        hints.IsInContainer(),
			EbookConvertPath: deps.Getenv(toolchain.EbookConvertEnv),
		},
	}

	for _, tool := range doctorTools {
		tool.Path = locate(tool.Name, deps)
		tool.Found = tool.Path != ""

		switch {
		case !tool.Found && tool.Required:
			result.Missing = append(result.Missing, tool.Name)
			result.Errors = append(result.Errors, tool.Name+" not found")
		case !tool.Found:
			result.Warnings = append(result.Warnings, tool.Name+" not found, diagrams will be skipped")
		default:
			vctx, cancel := context.WithTimeout(ctx, versionTimeout)
			version, err := toolchain.Version(vctx, deps.Runner, tool.Path)
			cancel()
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("could not get %s version: %v", tool.Name, err))
			}
			tool.Version = version
		}
		result.Tools = append(result.Tools, tool)
	}

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

func locate(name string, deps *Dependencies) string {
	if name == toolchain.ToolEbookConvert {
		return toolchain.ResolveEbookConvert(deps.Getenv, deps.LookPath, fileutil.FileExists)
	}
	path, err := deps.LookPath(name)
	if err != nil {
		return ""
	}
	return path
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2book doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	for _, t := range r.Tools {
		switch {
		case t.Found && t.Version != "":
			fmt.Fprintf(w, "  [OK] %s: %s (%s)\n", t.Name, t.Path, t.Version)
		case t.Found:
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		case t.Required:
			fmt.Fprintf(w, "  [ERROR] %s: not found (%s)\n", t.Name, t.Purpose)
		default:
			fmt.Fprintf(w, "  [WARN] %s: not found (%s)\n", t.Name, t.Purpose)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.EbookConvertPath != "" {
		fmt.Fprintf(w, "  [OK] %s=%s\n", toolchain.EbookConvertEnv, r.Env.EbookConvertPath)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		if hint := hints.ForMissingTools(r.Missing); hint != "" {
			fmt.Fprintln(w, hint[1:])
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
