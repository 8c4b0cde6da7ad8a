package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kuberocketai/contenthub/internal/config"
	"github.com/kuberocketai/contenthub/internal/domain/content"
)

const tasksJSON = `{"tasks":[
 {"id":"a","name":"Alpha","description":"first task","categories":["Testing"]},
 {"id":"b","name":"Beta","description":"second task","categories":["Development"]}
],"metadata":{"totalTasks":2,"categories":["Development","Testing"]}}`

const badTemplatesJSON = `{"templates":[
 {"id":"t","name":"Tpl","description":"x","categories":["unknown label"]}
],"metadata":{"totalTemplates":3}}`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	if err := os.Mkdir(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dataDir, "tasks.json"):     tasksJSON,
		filepath.Join(dataDir, "templates.json"): badTemplatesJSON,
		filepath.Join(dir, "test.yaml"): "http:\n  port: 8080\ncontent:\n  driver: file\n  dir: " + dataDir +
			"\nsearch:\n  tasks:\n    max_results: 1\n",
	}
	for path, data := range files {
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "test.yaml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearch_Text(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := run(t, "search", "tasks", "alp", "--config", cfgPath, "--env", "test")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "a\tAlpha\t[Testing]") {
		t.Errorf("missing Alpha line:\n%s", out)
	}
	if strings.Contains(out, "Beta") {
		t.Errorf("Beta should not match:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 tasks, 2 categories") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestSearch_TruncatedByConfig(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := run(t, "search", "tasks", "--config", cfgPath, "--env", "test")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "2 of 2 tasks (showing 1)") {
		t.Errorf("expected truncation summary:\n%s", out)
	}
}

func TestSearch_JSONCategory(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := run(t, "search", "tasks", "--category", "Development", "--format", "json",
		"--config", cfgPath, "--env", "test")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var got searchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got.Items) != 1 || got.Items[0]["id"] != "b" {
		t.Errorf("items = %v", got.Items)
	}
	if got.Category != "Development" || got.Matched != 1 || got.Total != 2 {
		t.Errorf("output = %+v", got)
	}
}

func TestSearch_Errors(t *testing.T) {
	cfgPath := writeFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown tab", []string{"search", "widgets"}},
		{"missing file", []string{"search", "agents"}},
		{"bad format", []string{"search", "tasks", "--format", "xml"}},
		{"negative limit", []string{"search", "tasks", "--limit", "-1"}},
		{"no tab", []string{"search"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--config", cfgPath, "--env", "test")
			if _, err := run(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := run(t, "validate", "tasks", "--config", cfgPath, "--env", "test")
	if err != nil {
		t.Fatalf("validate tasks: %v\n%s", err, out)
	}
	if !strings.Contains(out, "tasks: OK") {
		t.Errorf("output:\n%s", out)
	}

	out, err = run(t, "validate", "templates", "agents", "--config", cfgPath, "--env", "test")
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
	if !strings.Contains(out, "templates: INVALID") || !strings.Contains(out, "agents: FAILED") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(out, "error: ") {
		t.Errorf("expected error lines:\n%s", out)
	}
}

func TestValidate_JSON(t *testing.T) {
	cfgPath := writeFixture(t)

	out, err := run(t, "validate", "tasks", "-f", "json", "--config", cfgPath, "--env", "test")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var got []validateOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got) != 1 || !got[0].Valid || got[0].Tab != "tasks" {
		t.Errorf("got %+v", got)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "contenthub dev") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchConfigs(t *testing.T) {
	got, err := searchConfigs(map[string]config.SearchConfig{
		"tasks": {MaxResults: 10, Placeholder: "Find a task"},
	})
	if err != nil {
		t.Fatalf("searchConfigs: %v", err)
	}
	if len(got) != len(content.Types()) {
		t.Fatalf("got %d configs", len(got))
	}
	tasks := got[content.TypeTasks]
	if tasks.MaxResults() != 10 || tasks.Placeholder() != "Find a task" {
		t.Errorf("tasks override not applied: max=%d placeholder=%q", tasks.MaxResults(), tasks.Placeholder())
	}
	if tasks.Debounce().Milliseconds() != 300 {
		t.Errorf("debounce = %v, want default", tasks.Debounce())
	}
	if got[content.TypeData].MinQueryLength() != 2 {
		t.Errorf("data min query length = %d, want 2", got[content.TypeData].MinQueryLength())
	}

	_, err = searchConfigs(map[string]config.SearchConfig{"agents": {Fields: []string{""}}})
	if err == nil || !strings.Contains(err.Error(), "search.agents") {
		t.Errorf("err = %v, want search.agents error", err)
	}
}
