// Package storage implements persistence for the knowledge-base document:
// a YAML file with an ordered categories mapping and an ordered rule list.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emoralesr/diagwiz/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrNotFound indicates the knowledge-base document does not exist.
var ErrNotFound = errors.New("knowledge base document not found")

// KnowledgeBaseStore loads and persists knowledge-base snapshots. Load
// returns a fresh snapshot on every call; callers own any locking between
// concurrent loads and saves.
type KnowledgeBaseStore interface {
	Load() (*models.KnowledgeBase, error)
	Save(kb *models.KnowledgeBase) error
	Path() string
}

type fileStore struct {
	path string
}

// NewFileStore creates a KnowledgeBaseStore backed by a single YAML file.
func NewFileStore(path string) KnowledgeBaseStore {
	return &fileStore{path: path}
}

func (s *fileStore) Path() string { return s.path }

// Load reads and decodes the knowledge-base document. A missing file is
// reported as ErrNotFound; a malformed document is reported with the
// decoding error and the path.
func (s *fileStore) Load() (*models.KnowledgeBase, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("loading knowledge base %s: %w", s.path, ErrNotFound)
		}
		return nil, fmt.Errorf("loading knowledge base %s: %w", s.path, err)
	}

	var kb models.KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing knowledge base %s: %w", s.path, err)
	}
	return &kb, nil
}

// Save encodes and writes the knowledge-base document, creating parent
// directories as needed. An advisory lock on a sibling .lock file serializes
// writers across processes.
func (s *fileStore) Save(kb *models.KnowledgeBase) error {
	data, err := yaml.Marshal(kb)
	if err != nil {
		return fmt.Errorf("encoding knowledge base: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating knowledge base directory: %w", err)
		}
	}

	unlock, err := lockFile(s.path + ".lock")
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing knowledge base %s: %w", s.path, err)
	}
	return nil
}

// overlayStore layers a user-extended knowledge base over the bundled base
// document: reads prefer the user file when it exists, and every save goes
// to the user file, leaving the base document untouched.
type overlayStore struct {
	base KnowledgeBaseStore
	user KnowledgeBaseStore
}

// NewOverlayStore creates a store that reads the user knowledge base when
// present, falls back to the base document otherwise, and always writes the
// user knowledge base.
func NewOverlayStore(basePath, userPath string) KnowledgeBaseStore {
	return &overlayStore{
		base: NewFileStore(basePath),
		user: NewFileStore(userPath),
	}
}

func (s *overlayStore) Path() string { return s.user.Path() }

func (s *overlayStore) Load() (*models.KnowledgeBase, error) {
	kb, err := s.user.Load()
	if err == nil {
		return kb, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.base.Load()
}

func (s *overlayStore) Save(kb *models.KnowledgeBase) error {
	return s.user.Save(kb)
}
