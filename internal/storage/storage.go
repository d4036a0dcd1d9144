package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/reel/internal/validate"
)

// DefaultPath is used when no state file is given.
const DefaultPath = "~/.local/state/reel/state.json"

// Data represents the structure of the state file.
type Data struct {
	// Positions holds the last centered index per source name.
	Positions map[string]int `json:"positions" validate:"dive,gte=0"`
	SessionID string         `json:"session_id,omitempty" validate:"omitempty,uuid4"`
}

// Storage handles the loading and saving of the state file.
type Storage struct {
	Path string `validate:"required,filepath"`
	Data Data
}

// ResolvePath picks the state file location: an explicit path wins, then
// $XDG_STATE_HOME, then DefaultPath.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "reel", "state.json")
	}
	return DefaultPath
}

// NewStorage creates a Storage for path and loads it when the file exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := expandTilde(ResolvePath(path))
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{Positions: make(map[string]int)},
	}

	if err := s.Load(); err != nil {
		// A missing file is a fresh state.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if s.Data.SessionID == "" {
		s.Data.SessionID = uuid.NewString()
	}

	return s, nil
}

func (s *Storage) Load() error {
	logrus.Debug("Loading state file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.Positions == nil {
		s.Data.Positions = make(map[string]int)
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		changed := false
		for name, idx := range s.Data.Positions {
			if idx < 0 {
				logrus.Warnf("Invalid position %d for %q in state; dropping.", idx, name)
				delete(s.Data.Positions, name)
				changed = true
			}
		}
		if s.Data.SessionID != "" && validate.Var(s.Data.SessionID, "uuid4") != nil {
			s.Data.SessionID = uuid.NewString()
			changed = true
		}
		if changed {
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Position returns the stored index for the named source.
func (s *Storage) Position(name string) (int, bool) {
	idx, ok := s.Data.Positions[name]
	return idx, ok
}

// SetPosition records idx for the named source. Negative indices clear the
// entry since they cannot be restored.
func (s *Storage) SetPosition(name string, idx int) {
	if idx < 0 {
		delete(s.Data.Positions, name)
		return
	}
	s.Data.Positions[name] = idx
}

// Reset forgets every stored position and starts a new session.
func (s *Storage) Reset() {
	s.Data.Positions = make(map[string]int)
	s.Data.SessionID = uuid.NewString()
}

// Save writes the state data to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving state file to: ", s.Path)
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
