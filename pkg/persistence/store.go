package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/varmodel/varmodel-go/pkg/document"
	"github.com/varmodel/varmodel-go/pkg/log"
	"github.com/varmodel/varmodel-go/pkg/version"
)

// ErrCorruptModel indicates a model file that exists but cannot be parsed.
// Load reports it after resetting to an empty tree.
var ErrCorruptModel = errors.New("corrupt model file")

// ErrIncompatibleModel indicates a model file stamped by an engine this
// one cannot read (different major, or a newer minor). Load reports it
// after resetting to an empty tree.
var ErrIncompatibleModel = errors.New("incompatible model file")

// modelFile is the on-disk envelope: the writing engine's version plus
// the serialized tree.
type modelFile struct {
	Version string          `json:"version"`
	Model   json.RawMessage `json:"model"`
}

// Store manages persistence of a model tree to a JSON file.
type Store struct {
	mu     sync.Mutex
	path   string
	logger log.Logger
}

// NewStore creates a model store for the given file path. A nil logger
// disables logging.
func NewStore(path string, logger log.Logger) *Store {
	return &Store{path: path, logger: log.OrNoop(logger)}
}

// Path returns the model file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes the tree to disk, stamped with the current engine version.
// The caller is expected to have run the pre-persistence sweep and value
// stripping first; Save itself only serializes.
func (s *Store) Save(nodes []*document.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tree, err := document.MarshalTree(nodes)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(modelFile{Version: version.Current, Model: tree}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return err
	}

	e := log.NewEvent(log.CategoryPersist)
	e.Persist = &log.PersistEvent{Action: "save", Path: s.path, Bytes: len(data)}
	s.logger.Log(e)
	return nil
}

// Load reads the tree from disk. A missing file yields an empty tree with
// no error. A corrupt file is the PersistenceLoadFailure condition: the
// tree resets to an empty top-level sequence (never partially parsed),
// logged once, and ErrCorruptModel is returned so callers can surface it.
// A file stamped by an incompatible engine resets the same way with
// ErrIncompatibleModel. A bare top-level array (a file predating the
// version stamp) loads without a compatibility gate.
func (s *Store) Load() ([]*document.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []*document.Node{}, nil
	}
	if err != nil {
		s.logger.Log(log.NewErrorEvent("", "", err, "model load"))
		return []*document.Node{}, err
	}

	tree := data
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var file modelFile
		if err := json.Unmarshal(data, &file); err != nil {
			s.logger.Log(log.NewErrorEvent("", "", ErrCorruptModel, err.Error()))
			return []*document.Node{}, ErrCorruptModel
		}
		if !version.Compatible(file.Version) {
			s.logger.Log(log.NewErrorEvent("", "", ErrIncompatibleModel,
				"written by engine "+file.Version+", running "+version.Current))
			return []*document.Node{}, ErrIncompatibleModel
		}
		tree = file.Model
	}

	nodes, err := document.UnmarshalTree(tree)
	if err != nil {
		s.logger.Log(log.NewErrorEvent("", "", ErrCorruptModel, err.Error()))
		return []*document.Node{}, ErrCorruptModel
	}

	e := log.NewEvent(log.CategoryPersist)
	e.Persist = &log.PersistEvent{Action: "load", Path: s.path, Bytes: len(data)}
	s.logger.Log(e)
	return nodes, nil
}

// Clear removes the model file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
