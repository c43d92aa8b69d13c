package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"pickledger/internal/ledger"
	"pickledger/internal/pick"
)

// Store persists the picks collection and the derived monthly ledger as
// indented JSON files. Errors from Store methods abort a settlement run;
// silently losing a write is worse than partial state.
type Store struct {
	picksPath  string
	ledgerPath string
}

func New(picksPath, ledgerPath string) *Store {
	return &Store{picksPath: picksPath, ledgerPath: ledgerPath}
}

// LoadPicks reads the full picks collection. A missing file is an empty
// collection, not an error, so the first run starts clean.
func (s *Store) LoadPicks() ([]pick.Pick, error) {
	data, err := os.ReadFile(s.picksPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading picks file: %w", err)
	}

	var picks []pick.Pick
	if err := json.Unmarshal(data, &picks); err != nil {
		return nil, fmt.Errorf("parsing picks file: %w", err)
	}
	return picks, nil
}

// SavePicks rewrites the full picks collection. Callers only invoke this
// when a pass actually changed a pick.
func (s *Store) SavePicks(picks []pick.Pick) error {
	return writeJSON(s.picksPath, picks)
}

// SaveLedger rewrites the monthly ledger. The ledger is a pure derived view
// and is rewritten after every settlement pass.
func (s *Store) SaveLedger(entries []ledger.Entry) error {
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return writeJSON(s.ledgerPath, entries)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
