package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// SeenPhoneme is a phoneme the learner has completed.
type SeenPhoneme struct {
	Phoneme  string `json:"phoneme"`
	AudioURL string `json:"audio_url,omitempty"`
}

type progressFile struct {
	Seen []SeenPhoneme `json:"phonemes_seen"`
}

// ProgressStore keeps learner progress in a JSON file.
type ProgressStore struct {
	mu   sync.Mutex
	path string
}

// NewProgressStore creates a store backed by path. The file is created on
// first save.
func NewProgressStore(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

// Load returns the seen phonemes in the order they were learned.
func (p *ProgressStore) Load() ([]SeenPhoneme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.read()
	if err != nil {
		return nil, err
	}
	return f.Seen, nil
}

// Add records a phoneme as seen. Adding it twice keeps the first entry.
func (p *ProgressStore) Add(phoneme, audioURL string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := p.read()
	if err != nil {
		return err
	}
	for _, s := range f.Seen {
		if s.Phoneme == phoneme {
			return nil
		}
	}
	f.Seen = append(f.Seen, SeenPhoneme{Phoneme: phoneme, AudioURL: audioURL})
	return p.write(f)
}

func (p *ProgressStore) read() (progressFile, error) {
	var f progressFile
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read progress: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse progress: %w", err)
	}
	return f, nil
}

func (p *ProgressStore) write(f progressFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return os.Rename(tmp, p.path)
}
