package main

// Notes:
// - Tools are located through a fake lookPath; versions come from stubRunner.
// - The macOS calibre bundle fallback depends on the host and is covered in
//   the toolchain package instead.

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alnah/go-md2book/internal/toolchain"
)

var allVersions = map[string]string{
	"pandoc":        "pandoc 3.1.3",
	"xelatex":       "XeTeX 3.141592653-2.6-0.999995 (TeX Live 2023)",
	"ebook-convert": "ebook-convert (calibre 7.6.0)",
	"dia":           "Dia version 0.97.3",
	"epstopdf":      "epstopdf 2.31",
}

func toolByName(r *doctorResult, name string) toolInfo {
	for _, tool := range r.Tools {
		if tool.Name == name {
			return tool
		}
	}
	return toolInfo{}
}

// ---------------------------------------------------------------------------
// TestRunDoctor - Tool detection
// ---------------------------------------------------------------------------

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		found       []string
		versions    map[string]string
		env         map[string]string
		wantStatus  string
		wantMissing []string
	}{
		{
			name:       "everything installed",
			found:      []string{"pandoc", "xelatex", "ebook-convert", "dia", "epstopdf"},
			versions:   allVersions,
			wantStatus: statusReady,
		},
		{
			name:       "diagram tools missing",
			found:      []string{"pandoc", "xelatex", "ebook-convert"},
			versions:   allVersions,
			wantStatus: statusWarnings,
		},
		{
			name:        "required tool missing",
			found:       []string{"pandoc", "dia", "epstopdf"},
			versions:    allVersions,
			wantStatus:  statusErrors,
			wantMissing: []string{"xelatex", "ebook-convert"},
		},
		{
			name:       "ebook-convert from environment",
			found:      []string{"pandoc", "xelatex", "dia", "epstopdf"},
			versions:   allVersions,
			env:        map[string]string{toolchain.EbookConvertEnv: "/opt/calibre/ebook-convert"},
			wantStatus: statusReady,
		},
		{
			name:       "version unavailable",
			found:      []string{"pandoc", "xelatex", "ebook-convert", "dia", "epstopdf"},
			versions:   map[string]string{"pandoc": "pandoc 3.1.3"},
			wantStatus: statusWarnings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deps, _, _ := testDeps(&stubRunner{versions: tt.versions}, lookIn(tt.found...), tt.env)
			r := runDoctor(context.Background(), deps)

			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (warnings %v, errors %v)", r.Status, tt.wantStatus, r.Warnings, r.Errors)
			}
			if strings.Join(r.Missing, ",") != strings.Join(tt.wantMissing, ",") {
				t.Errorf("Missing = %v, want %v", r.Missing, tt.wantMissing)
			}
			if len(r.Tools) != len(doctorTools) {
				t.Errorf("Tools = %d entries, want %d", len(r.Tools), len(doctorTools))
			}
		})
	}
}

func TestRunDoctor_Details(t *testing.T) {
	t.Parallel()

	env := map[string]string{toolchain.EbookConvertEnv: "/opt/calibre/ebook-convert"}
	deps, _, _ := testDeps(&stubRunner{versions: allVersions}, lookIn("pandoc", "xelatex"), env)
	r := runDoctor(context.Background(), deps)

	pandoc := toolByName(r, "pandoc")
	if !pandoc.Found || pandoc.Path != "/usr/bin/pandoc" || pandoc.Version != "pandoc 3.1.3" {
		t.Errorf("pandoc = %+v", pandoc)
	}
	ebook := toolByName(r, "ebook-convert")
	if ebook.Path != "/opt/calibre/ebook-convert" {
		t.Errorf("ebook-convert path = %q, want the environment override", ebook.Path)
	}
	if r.Env.EbookConvertPath != "/opt/calibre/ebook-convert" {
		t.Errorf("Env.EbookConvertPath = %q", r.Env.EbookConvertPath)
	}
	if dia := toolByName(r, "dia"); dia.Found || dia.Required {
		t.Errorf("dia = %+v, want optional and not found", dia)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_Text(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := testDeps(&stubRunner{versions: allVersions}, lookIn("pandoc"), nil)
	code := runDoctorCmd(context.Background(), nil, deps)

	if code != ExitDependency {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitDependency)
	}
	out := stdout.String()
	for _, want := range []string{
		"[OK] pandoc: /usr/bin/pandoc (pandoc 3.1.3)",
		"[ERROR] xelatex: not found",
		"[WARN] dia: not found",
		"hint:",
		"Status: Not ready",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	found := []string{"pandoc", "xelatex", "ebook-convert", "dia", "epstopdf"}
	deps, stdout, _ := testDeps(&stubRunner{versions: allVersions}, lookIn(found...), nil)
	code := runDoctorCmd(context.Background(), []string{"--json"}, deps)

	if code != ExitSuccess {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitSuccess)
	}
	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if got.Status != statusReady || len(got.Tools) != len(doctorTools) {
		t.Errorf("decoded result = %+v", got)
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	deps, _, _ := testDeps(&stubRunner{}, lookIn(), nil)
	if code := runDoctorCmd(context.Background(), []string{"--yaml"}, deps); code != ExitUsage {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitUsage)
	}
}
