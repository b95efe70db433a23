package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/varcar/internal/report"
	"github.com/vk/varcar/internal/tokens"
)

const fixtureDoc = `{
  "collections": [
    {
      "id": "C:semi",
      "name": "00_Semi semantics",
      "modes": [{"modeId": "1:0", "name": "Light"}],
      "variables": [
        {"id": "V:1", "name": "Indigo/900/High", "resolvedType": "COLOR",
         "valuesByMode": {"1:0": {"r": 1, "g": 1, "b": 1, "a": 0.87}}},
        {"id": "V:2", "name": "Gold/300/Low", "resolvedType": "COLOR",
         "valuesByMode": {"1:0": {"type": "VARIABLE_ALIAS", "id": "abc123/45:6"}}}
      ]
    },
    {
      "id": "C:theme",
      "name": "9 Theme",
      "modes": [{"modeId": "2:0", "name": "Light"}],
      "variables": [
        {"id": "V:3", "name": "Text/Primary", "resolvedType": "COLOR",
         "valuesByMode": {"2:0": {"type": "VARIABLE_ALIAS", "id": "V:1"}}},
        {"id": "V:4", "name": "Text/Accent", "resolvedType": "COLOR",
         "valuesByMode": {"2:0": {"type": "VARIABLE_ALIAS", "id": "V:2"}}},
        {"id": "V:5", "name": "Text/Plain", "resolvedType": "COLOR",
         "valuesByMode": {"2:0": {"r": 0.1, "g": 0.2, "b": 0.3, "a": 1}}}
      ]
    }
  ]
}`

const fixturePalette = `{"indigo": {"base": "oklch(50% 0.1 270)", "900": "oklch(30% 0.1 270)"}}`

const fixtureRules = `
validation {
  collections = ["9 Theme"]
}
`

type fixture struct {
	dir     string
	doc     string
	palette string
	rules   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:     dir,
		doc:     filepath.Join(dir, "vars.json"),
		palette: filepath.Join(dir, "palette.json"),
		rules:   filepath.Join(dir, "rules.hcl"),
	}
	require.NoError(t, os.WriteFile(f.doc, []byte(fixtureDoc), 0o644))
	require.NoError(t, os.WriteFile(f.palette, []byte(fixturePalette), 0o644))
	require.NoError(t, os.WriteFile(f.rules, []byte(fixtureRules), 0o644))
	return f
}

func loadDoc(t *testing.T, path string) *tokens.Document {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := tokens.Load(f)
	require.NoError(t, err)
	return doc
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		want    Config
		errText string
	}{
		{name: "defaults", cfg: Config{}, want: Config{LogFormat: "text", LogLevel: "info"}},
		{name: "normalised case", cfg: Config{LogFormat: "JSON", LogLevel: "Debug"}, want: Config{LogFormat: "json", LogLevel: "debug"}},
		{name: "bad format", cfg: Config{LogFormat: "xml"}, errText: "invalid log-format"},
		{name: "bad level", cfg: Config{LogLevel: "trace"}, errText: "invalid log-level"},
		{name: "empty rules path", cfg: Config{RulesPaths: []string{" "}}, errText: "rules path cannot be empty"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.cfg)
			if tc.errText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	buf := &SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestValidate_ReportsProblems(t *testing.T) {
	f := newFixture(t)
	a, out, logs := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})

	err := a.Validate(context.Background(), ValidateOptions{Document: f.doc})
	require.ErrorIs(t, err, ErrValidationFailed)

	assert.Contains(t, out.String(), "⚠ 9 Theme:")
	assert.Contains(t, out.String(), "   Broken chains:   1")
	assert.Contains(t, out.String(), "Text/Accent -> Gold/300/Low -> EXTERNAL_REF: abc123/45:6")
	assert.Contains(t, logs.String(), "Inputs loaded.")
}

func TestValidate_NoFailAndJSON(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})

	err := a.Validate(context.Background(), ValidateOptions{
		Document:    f.doc,
		Collections: []string{"9 Theme", "00_Semi semantics"},
		Format:      report.FormatJSON,
		NoFail:      true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"collection_name": "00_Semi semantics"`)
	assert.Contains(t, out.String(), `"broken_chains": 2`)
}

func TestRepair_WritesBackupAndFixesDocument(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})
	ctx := context.Background()

	err := a.Repair(ctx, RepairOptions{Document: f.doc, Palette: f.palette, Backup: true})
	require.NoError(t, err)

	backup := filepath.Join(f.dir, "vars_backup_20250102_030405.json")
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.JSONEq(t, fixtureDoc, string(data))

	doc := loadDoc(t, f.doc)
	semi := doc.Collections[0]

	indigo := semi.Variables[0].ValuesByMode["1:0"]
	require.Equal(t, tokens.KindColor, indigo.Kind)
	assert.InDelta(t, 0.1068, indigo.Color.R, 1e-4)
	assert.InDelta(t, 0.1547, indigo.Color.G, 1e-4)
	assert.InDelta(t, 0.3729, indigo.Color.B, 1e-4)
	assert.Equal(t, 0.87, indigo.Color.A)

	gold := semi.Variables[1].ValuesByMode["1:0"]
	require.Equal(t, tokens.KindColor, gold.Kind)
	assert.Equal(t, tokens.Color{R: 0.06, G: 0.05, B: 0.04, A: 0.55}, gold.Color)

	// Downstream aliases are left alone.
	assert.Equal(t, tokens.KindAlias, doc.Collections[1].Variables[0].ValuesByMode["2:0"].Kind)

	assert.Contains(t, out.String(), "Variables repaired:  2")
	assert.Contains(t, out.String(), "After repair: 3 valid, 0 broken, 0 white, 3 proper")

	out2 := &SafeBuffer{}
	a.outW = out2
	require.NoError(t, a.Validate(ctx, ValidateOptions{Document: f.doc}))
	assert.Contains(t, out2.String(), "✓ All collections validated successfully!")
}

func TestRepair_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})

	require.NoError(t, a.Repair(context.Background(), RepairOptions{Document: f.doc, Palette: f.palette, DryRun: true, Backup: true}))

	data, err := os.ReadFile(f.doc)
	require.NoError(t, err)
	assert.Equal(t, fixtureDoc, string(data))
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Contains(t, out.String(), "Dry run: no files written.")
}

func TestRepair_BadFormatWritesNothing(t *testing.T) {
	f := newFixture(t)
	a, _, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})

	err := a.Repair(context.Background(), RepairOptions{Document: f.doc, Palette: f.palette, Backup: true, Format: "xml"})
	require.Error(t, err)

	data, err := os.ReadFile(f.doc)
	require.NoError(t, err)
	assert.Equal(t, fixtureDoc, string(data))
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no backup was written")
}

func TestRepair_SeparateOutput(t *testing.T) {
	f := newFixture(t)
	a, _, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})
	fixed := filepath.Join(f.dir, "fixed.json")

	require.NoError(t, a.Repair(context.Background(), RepairOptions{
		Document:  f.doc,
		Palette:   f.palette,
		Output:    fixed,
		SkipWhite: true,
	}))

	doc := loadDoc(t, fixed)
	assert.True(t, doc.Collections[0].Variables[0].ValuesByMode["1:0"].Color.IsWhitePlaceholder(), "white placeholders were skipped")
	assert.Equal(t, tokens.KindColor, doc.Collections[0].Variables[1].ValuesByMode["1:0"].Kind)

	original, err := os.ReadFile(f.doc)
	require.NoError(t, err)
	assert.Equal(t, fixtureDoc, string(original))
}

func TestValidate_RecordsHistoryAndDetectsRegression(t *testing.T) {
	f := newFixture(t)
	a, _, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})
	ctx := context.Background()
	db := filepath.Join(f.dir, "history.db")

	fixed := filepath.Join(f.dir, "fixed.json")
	require.NoError(t, a.Repair(ctx, RepairOptions{Document: f.doc, Palette: f.palette, Output: fixed}))
	fixedData, err := os.ReadFile(fixed)
	require.NoError(t, err)

	// A clean run first.
	require.NoError(t, os.WriteFile(f.doc, fixedData, 0o644))
	require.NoError(t, a.Validate(ctx, ValidateOptions{Document: f.doc, HistoryPath: db}))

	// Then the broken document again.
	require.NoError(t, os.WriteFile(f.doc, []byte(fixtureDoc), 0o644))
	a.now = func() time.Time { return time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC) }
	out2 := &SafeBuffer{}
	a.outW = out2
	require.NoError(t, a.Validate(ctx, ValidateOptions{Document: f.doc, HistoryPath: db, NoFail: true}))
	assert.Contains(t, out2.String(), "Regressions since previous run: 3")
	assert.Contains(t, out2.String(), "9 Theme: broken 0 -> 1")
	assert.Contains(t, out2.String(), "9 Theme: white 0 -> 1")

	out3 := &SafeBuffer{}
	a.outW = out3
	require.NoError(t, a.History(ctx, HistoryOptions{Path: db}))
	assert.Contains(t, out3.String(), "2025-01-03 00:00:00")
	assert.Contains(t, out3.String(), "2025-01-02 03:04:05")
	assert.Contains(t, out3.String(), "Regressions in latest run: 3")
}

func TestTrace(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})

	require.NoError(t, a.Trace(context.Background(), TraceOptions{Document: f.doc, Variable: "Text/Accent"}))
	assert.Contains(t, out.String(), "Text/Accent")
	assert.Contains(t, out.String(), "[Light] external_reference")

	err := a.Trace(context.Background(), TraceOptions{Document: f.doc, Variable: "Nope"})
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{})

	require.NoError(t, a.Inspect(context.Background(), f.doc, report.FormatText))
	assert.Contains(t, out.String(), "Collections:    2")
	assert.Contains(t, out.String(), "00_Semi semantics")
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})
	md := filepath.Join(f.dir, "report.md")

	require.NoError(t, a.Report(context.Background(), ReportOptions{Document: f.doc, Palette: f.palette, Output: md}))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(md)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# Variables report")
	assert.Contains(t, text, "generated 2025-01-02 03:04:05 UTC")
	assert.Contains(t, text, "| 9 Theme | 3 | 2 | 1 | 0 | 1 | 1 | 1 |")
	assert.Contains(t, text, "### indigo")
	assert.Contains(t, text, "| Text/Plain |")

	require.NoError(t, a.Report(context.Background(), ReportOptions{Document: f.doc, Render: true, Width: 60}))
	assert.Contains(t, out.String(), "Variables report")
}

func TestConvert(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{})

	require.NoError(t, a.Convert(context.Background(), []string{"oklch(50% 0.1 180)", "oklch(30% 0.1 270)"}, f.palette, report.FormatText))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "#007565")
	assert.Contains(t, lines[1], "#1b275f")
	assert.Contains(t, lines[1], "~indigo/900")

	err := a.Convert(context.Background(), []string{"rgb(1,2,3)"}, "", report.FormatText)
	require.Error(t, err)
}

func TestWatch_RevalidatesOnChange(t *testing.T) {
	f := newFixture(t)
	a, out, _ := SetupAppTest(t, Config{RulesPaths: []string{f.rules}})

	fixed := filepath.Join(t.TempDir(), "fixed.json")
	require.NoError(t, a.Repair(context.Background(), RepairOptions{Document: f.doc, Palette: f.palette, Output: fixed}))
	fixedData, err := os.ReadFile(fixed)
	require.NoError(t, err)
	out.b.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, ValidateOptions{Document: f.doc}) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "broken alias chains found")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(f.doc, fixedData, 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "All collections validated successfully!")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_RejectsRemoteDocument(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{})
	err := a.Watch(context.Background(), ValidateOptions{Document: "s3://bucket/vars.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only local files can be watched")
}

func TestLoad_MissingDocument(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{})
	err := a.Validate(context.Background(), ValidateOptions{Document: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
