// Package session holds the in-memory state of one interactive run:
// selected categories, the latest dorks per category and saved API keys.
// Nothing here is written to disk.
package session

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/0x6d61/dorkgen/internal/engine"
)

// State is created empty at startup and discarded at exit.
type State struct {
	// ID identifies the run in log records.
	ID string

	selected    []engine.Category
	results     *engine.Results
	credentials map[string]string
}

// Compile-time check that State can be handed to the coordinator.
var _ engine.Recorder = (*State)(nil)

// New returns an empty state with a fresh run id.
func New() *State {
	return &State{
		ID:          uuid.New().String(),
		results:     engine.NewResults(),
		credentials: make(map[string]string),
	}
}

// SelectInterest selects the catalog entry at the 1-based index. An index
// outside the catalog fails with engine.ErrInvalidChoice; a category that
// is already selected is returned together with engine.ErrAlreadySelected.
func (s *State) SelectInterest(index int) (engine.Category, error) {
	if index < 1 || index > len(engine.Catalog) {
		return "", fmt.Errorf("%w: %d is not between 1 and %d", engine.ErrInvalidChoice, index, len(engine.Catalog))
	}
	cat := engine.Catalog[index-1]
	if err := s.add(cat); err != nil {
		return cat, err
	}
	return cat, nil
}

// AddFilter selects an ad-hoc category such as "Domain: example.com".
func (s *State) AddFilter(label engine.Category) error {
	if strings.TrimSpace(string(label)) == "" {
		return fmt.Errorf("%w: filter value is required", engine.ErrInvalidInput)
	}
	return s.add(label)
}

func (s *State) add(cat engine.Category) error {
	if slices.Contains(s.selected, cat) {
		return fmt.Errorf("%w: %s", engine.ErrAlreadySelected, cat)
	}
	s.selected = append(s.selected, cat)
	return nil
}

// Selected returns the selected categories in selection order.
func (s *State) Selected() []engine.Category {
	return slices.Clone(s.selected)
}

// RecordResults replaces the in-memory dorks for cat.
func (s *State) RecordResults(cat engine.Category, dorks []string) {
	s.results.Set(cat, dorks)
}

// Results returns a snapshot of the in-memory dorks.
func (s *State) Results() *engine.Results {
	return s.results.Clone()
}

// Clear forgets every selection and every in-memory result. Saved
// credentials are kept.
func (s *State) Clear() {
	s.selected = nil
	s.results.Clear()
}

// SetCredential stores key for service, replacing any previous key.
func (s *State) SetCredential(service, key string) {
	s.credentials[service] = key
}

// Credentials returns a copy of the saved keys.
func (s *State) Credentials() map[string]string {
	return maps.Clone(s.credentials)
}

// Credential looks up a key by service name, ignoring case. An exact match
// wins over a case-insensitive one.
func (s *State) Credential(service string) (string, bool) {
	if key, ok := s.credentials[service]; ok {
		return key, true
	}
	for _, name := range slices.Sorted(maps.Keys(s.credentials)) {
		if strings.EqualFold(name, service) {
			return s.credentials[name], true
		}
	}
	return "", false
}
