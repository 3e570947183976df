package workspace

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/workspace/domain/repo"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture format used to populate a workspace store.
type Seed struct {
	Events    []*entity.Event    `yaml:"events"`
	Emails    []*entity.Email    `yaml:"emails"`
	Files     []*entity.File     `yaml:"files"`
	Documents []*entity.Document `yaml:"documents"`
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// Apply writes every seed record into r, assigning ids where missing.
func (s *Seed) Apply(ctx context.Context, r repo.WorkspaceRepository) error {
	for _, e := range s.Events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := r.SaveEvent(ctx, e); err != nil {
			return fmt.Errorf("seed event %q: %w", e.Title, err)
		}
	}
	for _, e := range s.Emails {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Folder == "" {
			e.Folder = entity.FolderInbox
		}
		if err := r.SaveEmail(ctx, e); err != nil {
			return fmt.Errorf("seed email %q: %w", e.Subject, err)
		}
	}
	for _, f := range s.Files {
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if err := r.SaveFile(ctx, f); err != nil {
			return fmt.Errorf("seed file %q: %w", f.Name, err)
		}
	}
	for _, d := range s.Documents {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if err := r.SaveDocument(ctx, d); err != nil {
			return fmt.Errorf("seed document %q: %w", d.Title, err)
		}
	}
	return nil
}
