// Package project persists packing plans as JSON files on disk.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mazenwkamel/StackTics/internal/model"
)

// Store keeps plans as one JSON file per plan under a data directory.
type Store struct {
	dir string
}

// NewStore creates a plan store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plan directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) planPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validID rejects ids that could escape the data directory.
func validID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsAny(id, `/\.`)
}

// Save writes a plan to disk, overwriting any existing plan with the
// same ID.
func (s *Store) Save(plan model.Plan) error {
	if !validID(plan.ID) {
		return fmt.Errorf("invalid plan id %q", plan.ID)
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.planPath(plan.ID), data, 0644)
}

// Load reads a single plan by ID. Returns os.ErrNotExist if no such
// plan is stored.
func (s *Store) Load(id string) (model.Plan, error) {
	if !validID(id) {
		return model.Plan{}, os.ErrNotExist
	}
	data, err := os.ReadFile(s.planPath(id))
	if err != nil {
		return model.Plan{}, err
	}
	var plan model.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return model.Plan{}, fmt.Errorf("failed to parse plan %s: %w", id, err)
	}
	if plan.Boxes == nil {
		plan.Boxes = []model.Box{}
	}
	return plan, nil
}

// List returns all stored plans sorted by name, then ID. Unreadable
// files are skipped.
func (s *Store) List() ([]model.Plan, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Plan{}, nil
		}
		return nil, err
	}
	plans := []model.Plan{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		plan, err := s.Load(id)
		if err != nil {
			continue
		}
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Name != plans[j].Name {
			return plans[i].Name < plans[j].Name
		}
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

// Delete removes a stored plan. Returns os.ErrNotExist if no such plan
// is stored.
func (s *Store) Delete(id string) error {
	if !validID(id) {
		return os.ErrNotExist
	}
	return os.Remove(s.planPath(id))
}
