package metrics

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dshills/propsheet/internal/property"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func remoteContext(t *testing.T) *property.Context {
	t.Helper()
	useRemote := property.NewIdentity("Debug", "Remote", "Use remote machine")
	host := property.NewIdentity("Debug", "Remote", "Remote machine host name")
	ctx, err := property.NewBuilder(property.WithLogger(quietLogger())).
		Dimension("Configuration", "Debug", "Release").
		Add(&property.Metadata{Page: useRemote.Page, Category: useRemote.Category, Name: useRemote.Name,
			SupportsPerConfigurationValues: true}, property.NewValue(property.Bool(false))).
		Add(&property.Metadata{Page: host.Page, Category: host.Category, Name: host.Name},
			property.NewValue(property.Text(""))).
		Condition(useRemote, property.Bool(true), host).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return ctx
}

func TestMetrics_ObserveLoad(t *testing.T) {
	m := New()

	m.ObserveLoad("initial", 3*time.Millisecond, nil)
	m.ObserveLoad("reload", time.Millisecond, errors.New("bad catalog"))
	m.ObserveLoad("reload", time.Millisecond, nil)

	tests := []struct {
		kind, result string
		want         float64
	}{
		{"initial", ResultOK, 1},
		{"reload", ResultOK, 1},
		{"reload", ResultError, 1},
		{"initial", ResultError, 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.loads.WithLabelValues(tt.kind, tt.result)); got != tt.want {
			t.Errorf("loads{%s,%s} = %v, want %v", tt.kind, tt.result, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(m.loadDuration); n != 2 {
		t.Errorf("load duration series = %d, want 2", n)
	}
}

func TestMetrics_Instrument(t *testing.T) {
	m := New()
	ctx := remoteContext(t)
	detach := m.Instrument(ctx)

	if got := testutil.ToFloat64(m.properties); got != 2 {
		t.Errorf("properties = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.visible); got != 1 {
		t.Errorf("visible = %v, want 1", got)
	}

	useRemote, _ := ctx.Lookup("Use remote machine")
	useRemote.Values()[0].SetEvaluatedValue(property.Bool(true))
	if got := testutil.ToFloat64(m.visible); got != 2 {
		t.Errorf("visible after enabling remote = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.visibilityFlips); got != 1 {
		t.Errorf("visibility flips = %v, want 1", got)
	}

	cmd := ctx.ConfigurationCommands()[0]
	if err := cmd.Execute(useRemote); err != nil {
		t.Fatal(err)
	}
	m.ObserveCommand(cmd.Caption(useRemote))
	if got := testutil.ToFloat64(m.valueReplacements); got != 1 {
		t.Errorf("value replacements = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.commands.WithLabelValues("Stop varying by Configuration")); got != 1 {
		t.Errorf("commands = %v, want 1", got)
	}

	detach()
	ctx.UpdateSearchState("no such property")
	if got := testutil.ToFloat64(m.visibilityFlips); got != 1 {
		t.Errorf("flips after detach = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New(WithRuntimeCollectors())
	m.ObserveLoad("initial", time.Millisecond, nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`propsheet_context_loads_total{kind="initial",result="ok"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
