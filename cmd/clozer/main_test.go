package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/drafter"
)

type cliTestEnv struct {
	configPath string
	dbPath     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CLOZER_DATABASE_URL", "")
	return &cliTestEnv{
		configPath: filepath.Join(base, "missing.toml"),
		dbPath:     filepath.Join(base, "data", "clozer.db"),
	}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	flags := []string{"--config", env.configPath, "--db", env.dbPath}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "defaults were used")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}
}

func TestGenerateCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "generate", "--lang", "en", "However,", "we", "left", "yesterday.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var c domain.Candidates
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(c.Keys.Pass1) != 2 {
		t.Errorf("pass1 = %+v", c.Keys.Pass1)
	}

	out, _, err = runCLI(t, env, "昨日、彼は東京に行った。\n", "generate", "--lang", "ja", "--validate")
	if err != nil {
		t.Fatalf("generate --validate: %v", err)
	}
	var res domain.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Report.Sentences != 1 || res.Report.Len != 12 {
		t.Errorf("report = %+v", res.Report)
	}

	if _, _, err := runCLI(t, env, "", "generate", "text"); err == nil {
		t.Error("expected error without --lang")
	}
}

func TestValidateCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := `{
		"lang": "en",
		"text": "I went to Tokyo. She loves it there.",
		"keys": {"pass2": [{"pron": [17, 20], "antecedents": [[10, 15]]}]},
		"cloze_short": [{"start": 10, "end": 15, "answer": "Tokyo"}]
	}`

	out, stderr, err := runCLI(t, env, doc, "validate", "--report")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	requireContains(t, stderr, "sentences")
	var res domain.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(res.Keys.Pass2) != 0 || len(res.ClozeShort) != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.ClozeShort[0].Hint != "blank" {
		t.Errorf("cloze defaults not filled: %+v", res.ClozeShort[0])
	}

	if _, _, err := runCLI(t, env, `{"lang":"en","text":"Hi."}`, "validate"); err == nil {
		t.Error("expected error for missing keys")
	}
	_, _, err = runCLI(t, env, `{"lang":"fr","text":"Salut.","keys":{}}`, "validate")
	if !errors.Is(err, domain.ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestManualDraftLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	text := "Tom bought a new bicycle yesterday. However, he rides it slowly."

	out, _, err := runCLI(t, env, "", "draft", "manual", "--lang", "en", "--title", "Bike", text)
	if err != nil {
		t.Fatalf("draft manual: %v", err)
	}
	var created domain.Draft
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if created.Title != "Bike" || created.Text != text || created.Source != domain.SourceManual {
		t.Fatalf("created = %+v", created)
	}

	out, _, err = runCLI(t, env, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var drafts []domain.Draft
	if err := json.Unmarshal([]byte(out), &drafts); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(drafts) != 1 || drafts[0].ID != created.ID {
		t.Errorf("list = %+v", drafts)
	}

	out, _, err = runCLI(t, env, "", "show", created.ID[:8])
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, created.ID)

	out, _, err = runCLI(t, env, "", "revalidate", created.ID[:8])
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	var revalidated domain.Draft
	if err := json.Unmarshal([]byte(out), &revalidated); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if revalidated.Report != created.Report {
		t.Errorf("report changed: %+v vs %+v", revalidated.Report, created.Report)
	}

	if _, _, err := runCLI(t, env, "", "show", "ffffffff"); err == nil {
		t.Error("expected error for missing draft")
	}
}

func TestEmptyListIsJSONArray(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("list = %q, want []", out)
	}
}

func TestDraftAIWithoutKey(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "draft", "ai", "--lang", "en", "--topic", "travel")
	if !errors.Is(err, drafter.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestRenderDraftList(t *testing.T) {
	out := renderDraftList([]domain.Draft{{
		ID:     "0123456789abcdef",
		Lang:   domain.Japanese,
		Source: domain.SourceURL,
		Title:  "ニュース",
		Report: domain.Report{Sentences: 3, ClozeShort: 2, ClozeLong: 3},
	}})
	requireContains(t, out, "01234567")
	requireContains(t, out, "2/3")
	if strings.Contains(out, "0123456789") {
		t.Errorf("id not shortened: %s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("a\nb", 10); got != "a b" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("東京に行きました", 6); got != "東京に..." {
		t.Errorf("truncate = %q", got)
	}
}
