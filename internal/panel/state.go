package panel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"fragboard/internal/view"
)

// Position is a fully resolved location in the view graph: which view is
// showing, its page, and any drill-down context.
type Position struct {
	View view.View
	Page int
	// Param is the drill-down filter label (a weapon, map or player name).
	// Empty for top-level views.
	Param string
	// ParentPage is the page the parent list was on when the user drilled
	// down, so returning to the parent tab restores the exact page.
	ParentPage int
}

// HomePosition is the default view the panel starts on and resets to after
// inactivity.
var HomePosition = Position{View: view.Home}

// State is the panel's single mutable context, shared by the interaction
// handlers and the inactivity supervisor. It is constructed once and
// injected; nothing is package-level. It owns the two surface message
// identities (persisted so a restart relocates the surfaces instead of
// duplicating them), the current position, and the render generation
// counter that guards against stale interaction completions regressing a
// newer state.
type State struct {
	mu   sync.Mutex
	path string

	surfaces surfacesFile
	pos      Position

	claimed uint64
	applied uint64
}

// surfacesFile is the persisted layout: the identities of the two rendered
// messages.
type surfacesFile struct {
	ToolbarID string `yaml:"toolbar_id"`
	ContentID string `yaml:"content_id"`
}

// LoadState reads the persisted panel state from path. A missing file is not
// an error: the surfaces are simply created afresh.
func LoadState(path string) (*State, error) {
	s := &State{path: path, pos: HomePosition}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading panel state: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.surfaces); err != nil {
		return nil, fmt.Errorf("parsing panel state %s: %w", path, err)
	}
	return s, nil
}

// Surfaces returns the persisted toolbar and content message IDs, either of
// which may be empty.
func (s *State) Surfaces() (toolbarID, contentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surfaces.ToolbarID, s.surfaces.ContentID
}

// SetSurfaces records freshly located or created surface identities and
// persists them in place.
func (s *State) SetSurfaces(toolbarID, contentID string) error {
	s.mu.Lock()
	s.surfaces = surfacesFile{ToolbarID: toolbarID, ContentID: contentID}
	data, err := yaml.Marshal(s.surfaces)
	path := s.path
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing panel state: %w", err)
	}
	return nil
}

// Position returns the currently applied position.
func (s *State) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Claim allocates a render generation for an interaction that has just
// arrived. Generations are monotonic: a later interaction always claims a
// higher generation.
func (s *State) Claim() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claimed++
	return s.claimed
}

// Commit attempts to apply a render generation. It returns false if a newer
// generation has already been applied, in which case the caller must discard
// its render rather than regress the surfaces.
func (s *State) Commit(gen uint64, pos Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied {
		return false
	}
	s.applied = gen
	s.pos = pos
	return true
}
