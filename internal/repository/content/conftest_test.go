package content

import (
	"context"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn     func(ctx context.Context, key string) ([]byte, error)
	jsonGetFn func(ctx context.Context, key string) ([]byte, error)
	scanFn    func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

const agentsJSON = `{
  "agents": [
    {"id": "architect", "name": "Archie", "role": "Solution Architect", "description": "Designs systems",
     "goal": "Deliver architecture", "specializations": ["Architecture", "Design"], "whenToUse": ""},
    {"id": "dev", "name": "Devon", "role": "Developer", "description": "Writes code",
     "specializations": ["Development"], "whenToUse": "Use for implementation"}
  ],
  "metadata": {"totalAgents": 2, "specializations": ["Architecture", "Design", "Development"],
               "generatedAt": "2025-01-01T00:00:00Z", "version": "1.0.0"}
}`

const tasksJSON = `{
  "tasks": [
    {"id": "create-sad", "name": "Create SAD", "description": "Architecture document", "categories": ["Architecture"], "path": "tasks/create-sad.md"}
  ],
  "metadata": {"totalTasks": 1, "categories": ["Architecture"], "generatedAt": "2025-01-01T00:00:00Z", "version": "1.0.0"}
}`

const dataJSON = `{
  "dataFiles": [
    {"id": "go-standards", "name": "Go Standards", "description": "Coding rules", "categories": ["Standards"], "path": "data/go.md"}
  ],
  "metadata": {"totalDatafiles": 1, "categories": ["Standards"], "generatedAt": "2025-01-01T00:00:00Z", "version": "1.0.0"}
}`

const templatesJSON = `{
  "templates": [],
  "metadata": {"totalTemplates": 0, "categories": [], "generatedAt": "2025-01-01T00:00:00Z", "version": "1.0.0"}
}`
