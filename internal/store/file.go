package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kiprotich-dev/bahatibot/internal/ledger"
)

const (
	userDataFile    = "user_data.json"
	revenueDataFile = "revenue_data.json"
)

type userRecord struct {
	Paid bool `json:"paid"`
}

// FileStore keeps both records as JSON files in a directory. Writes go to a
// temp file first and are renamed into place, so readers never observe a
// partial file.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Load(_ context.Context) (map[string]bool, ledger.State, error) {
	paid := make(map[string]bool)
	ls := ledger.State{Players: []string{}}

	users := make(map[string]userRecord)
	if err := readJSON(filepath.Join(s.dir, userDataFile), &users); err != nil {
		return nil, ledger.State{}, fmt.Errorf("failed to load user data: %w", err)
	}
	for id, rec := range users {
		paid[id] = rec.Paid
	}

	if err := readJSON(filepath.Join(s.dir, revenueDataFile), &ls); err != nil {
		return nil, ledger.State{}, fmt.Errorf("failed to load revenue data: %w", err)
	}
	if ls.Players == nil {
		ls.Players = []string{}
	}
	return paid, ls, nil
}

func (s *FileStore) Save(_ context.Context, paid map[string]bool, ls ledger.State) error {
	users := make(map[string]userRecord, len(paid))
	for id, p := range paid {
		users[id] = userRecord{Paid: p}
	}
	if err := writeJSON(filepath.Join(s.dir, userDataFile), users); err != nil {
		return fmt.Errorf("failed to save user data: %w", err)
	}
	if err := writeJSON(filepath.Join(s.dir, revenueDataFile), ls); err != nil {
		return fmt.Errorf("failed to save revenue data: %w", err)
	}
	return nil
}

func (s *FileStore) Close() {}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
