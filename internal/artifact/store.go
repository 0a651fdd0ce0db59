// Package artifact stores a finalized model as two co-located JSON files:
// the model document and a single-element bias array. The model document
// carries the SHA-256 of the bias file so a half-written or mismatched pair
// is rejected on load.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/sales-forecast/internal/models"
)

// Default file names.
const (
	DefaultModelFile = "model.json"
	DefaultBiasFile  = "model_bias.json"
)

var errDigestMismatch = errors.New("bias file does not match model digest")

// FileStore reads and writes artifacts in a directory.
type FileStore struct {
	dir       string
	modelFile string
	biasFile  string
}

// NewFileStore creates a store rooted at dir. Empty file names fall back to
// the defaults.
func NewFileStore(dir, modelFile, biasFile string) *FileStore {
	if modelFile == "" {
		modelFile = DefaultModelFile
	}
	if biasFile == "" {
		biasFile = DefaultBiasFile
	}
	return &FileStore{dir: dir, modelFile: modelFile, biasFile: biasFile}
}

// ModelPath returns the path of the model document.
func (s *FileStore) ModelPath() string {
	return filepath.Join(s.dir, s.modelFile)
}

// BiasPath returns the path of the bias array.
func (s *FileStore) BiasPath() string {
	return filepath.Join(s.dir, s.biasFile)
}

type modelDocument struct {
	*models.Artifact
	BiasFile   string `json:"bias_file"`
	BiasSHA256 string `json:"bias_sha256"`
}

// Save writes the bias file first and the model document last, each through
// a temporary file renamed into place. A reader never observes a model
// document whose digest does not match the bias file beside it.
func (s *FileStore) Save(a *models.Artifact) error {
	if a == nil {
		return &models.PersistenceError{Op: "save", Path: s.ModelPath(), Err: errors.New("nil artifact")}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &models.PersistenceError{Op: "mkdir", Path: s.dir, Err: err}
	}

	biasData, err := json.Marshal([]float64{a.Bias})
	if err != nil {
		return &models.PersistenceError{Op: "encode", Path: s.BiasPath(), Err: err}
	}
	doc := modelDocument{
		Artifact:   a,
		BiasFile:   s.biasFile,
		BiasSHA256: digest(biasData),
	}
	modelData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &models.PersistenceError{Op: "encode", Path: s.ModelPath(), Err: err}
	}

	if err := writeAtomic(s.BiasPath(), biasData); err != nil {
		return err
	}
	return writeAtomic(s.ModelPath(), modelData)
}

// Load reads both files and checks that they belong together.
func (s *FileStore) Load() (*models.Artifact, error) {
	modelData, err := os.ReadFile(s.ModelPath())
	if err != nil {
		return nil, &models.PersistenceError{Op: "read", Path: s.ModelPath(), Err: err}
	}
	biasData, err := os.ReadFile(s.BiasPath())
	if err != nil {
		return nil, &models.PersistenceError{Op: "read", Path: s.BiasPath(), Err: err}
	}

	doc := modelDocument{Artifact: &models.Artifact{}}
	if err := json.Unmarshal(modelData, &doc); err != nil {
		return nil, &models.PersistenceError{Op: "decode", Path: s.ModelPath(), Err: err}
	}
	if len(doc.State) == 0 {
		return nil, &models.PersistenceError{Op: "decode", Path: s.ModelPath(), Err: errors.New("missing model state")}
	}
	if doc.BiasSHA256 != digest(biasData) {
		return nil, &models.PersistenceError{Op: "verify", Path: s.BiasPath(), Err: errDigestMismatch}
	}

	var bias []float64
	if err := json.Unmarshal(biasData, &bias); err != nil {
		return nil, &models.PersistenceError{Op: "decode", Path: s.BiasPath(), Err: err}
	}
	if len(bias) != 1 {
		return nil, &models.PersistenceError{Op: "decode", Path: s.BiasPath(), Err: fmt.Errorf("expected 1 bias value, got %d", len(bias))}
	}

	a := doc.Artifact
	a.Bias = bias[0]
	return a, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &models.PersistenceError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return &models.PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &models.PersistenceError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &models.PersistenceError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &models.PersistenceError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
