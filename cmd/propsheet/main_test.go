package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/propsheet/internal/property"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"== Application ==", "== Build ==", "[License]", "Optimize code", "Configuration=Release: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Remote machine host name") {
		t.Error("hidden property listed without --all")
	}
}

func TestList_SetAndAll(t *testing.T) {
	out, err := execute(t, "list", "--set", "Use remote machine=true", "--search", "remote")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Remote machine host name") {
		t.Errorf("host name should show once remote debugging is set:\n%s", out)
	}
	if strings.Contains(out, "Optimize code") {
		t.Error("search should filter unrelated properties")
	}

	out, err = execute(t, "list", "--all", "--search", "host")
	if err != nil {
		t.Fatalf("list --all failed: %v", err)
	}
	if !strings.Contains(out, "hidden") {
		t.Errorf("--all should mark hidden properties:\n%s", out)
	}
}

func TestList_BadSet(t *testing.T) {
	if _, err := execute(t, "list", "--set", "novalue"); err == nil {
		t.Error("expected error for malformed --set")
	}
	if _, err := execute(t, "list", "--set", "Optimize code=maybe"); err == nil {
		t.Error("expected error for non-boolean value")
	}
}

func TestSearch(t *testing.T) {
	out, err := execute(t, "search", "spdx")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// License expression matches but is hidden until a license type is chosen.
	if !strings.Contains(out, "0 visible") {
		t.Errorf("output = %q, want 0 visible", out)
	}

	out, err = execute(t, "search", "ARCHITECTURE")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "Build | General | Platform target") || !strings.Contains(out, "1 visible") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestVaryAndSingle(t *testing.T) {
	out, err := execute(t, "vary", "Platform target", "platform")
	if err != nil {
		t.Fatalf("vary failed: %v", err)
	}
	if !strings.Contains(out, "Vary by Platform") || !strings.Contains(out, "Platform=x64") {
		t.Errorf("unexpected vary output:\n%s", out)
	}

	out, err = execute(t, "vary", "Optimize code", "Configuration")
	if err != nil {
		t.Fatalf("vary failed: %v", err)
	}
	if !strings.Contains(out, "Stop varying by Configuration") || strings.Contains(out, "true") {
		t.Errorf("collapse should keep the Debug value:\n%s", out)
	}

	out, err = execute(t, "single", "Optimize code")
	if err != nil {
		t.Fatalf("single failed: %v", err)
	}
	if !strings.Contains(out, property.SingleValueCaption) || strings.Contains(out, "Configuration=") {
		t.Errorf("unexpected single output:\n%s", out)
	}
}

func TestVary_Errors(t *testing.T) {
	if _, err := execute(t, "vary", "Output type", "Configuration"); !errors.Is(err, property.ErrNotSupported) {
		t.Errorf("error = %v, want ErrNotSupported", err)
	}
	if _, err := execute(t, "vary", "Optimize code", "Flavor"); !errors.Is(err, property.ErrUnknownDimension) {
		t.Errorf("error = %v, want ErrUnknownDimension", err)
	}
	if _, err := execute(t, "vary", "Nope", "Configuration"); !errors.Is(err, property.ErrPropertyNotFound) {
		t.Errorf("error = %v, want ErrPropertyNotFound", err)
	}
}

func TestCommands(t *testing.T) {
	out, err := execute(t, "commands", "Output type")
	if err != nil {
		t.Fatalf("commands failed: %v", err)
	}
	for _, want := range []string{"Vary by Configuration", "Vary by Platform", property.SingleValueCaption, "unavailable"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProfiles(t *testing.T) {
	out, err := execute(t, "profiles", "--duplicate", "Remote")
	if err != nil {
		t.Fatalf("profiles failed: %v", err)
	}
	for _, want := range []string{"Project", "Executable", "Remote"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCatalogFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "properties:\n  - page: Build\n    category: General\n    name: Output path\n    values:\n      - value: bin/\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--catalog", path, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, `"bin/"`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "--catalog", filepath.Join(t.TempDir(), "missing.toml"), "list"); err == nil {
		t.Error("expected error for missing catalog")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, appName+" version") {
		t.Errorf("output = %q", out)
	}
}
