// Package scoring is a reference implementation of the phoneme scoring
// service that the trainer client talks to.
package scoring

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the set of phonemes the service can teach.
type Catalog struct {
	Phonemes []PhonemeEntry `yaml:"phonemes"`
}

// PhonemeEntry describes one phoneme.
type PhonemeEntry struct {
	Symbol     string           `yaml:"symbol"`
	Audio      string           `yaml:"audio"`
	Patterns   []Pattern        `yaml:"patterns"`
	Spelling   []SpellingEntry  `yaml:"spelling"`
	Homophones []HomophoneEntry `yaml:"homophones"`
}

// Pattern is a common spelling of the phoneme with example words.
type Pattern struct {
	Name     string   `yaml:"name"`
	Examples []string `yaml:"examples"`
}

// SpellingEntry is an IPA word and its options; the first option is correct.
type SpellingEntry struct {
	Word    string   `yaml:"word"`
	Options []string `yaml:"options"`
}

// HomophoneEntry is an IPA transcription shared by several words.
type HomophoneEntry struct {
	Sound string   `yaml:"sound"`
	Words []string `yaml:"words"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Phonemes) == 0 {
		return fmt.Errorf("catalog has no phonemes")
	}
	seen := make(map[string]bool)
	for _, p := range c.Phonemes {
		if p.Symbol == "" {
			return fmt.Errorf("catalog entry without symbol")
		}
		if seen[p.Symbol] {
			return fmt.Errorf("duplicate phoneme %q", p.Symbol)
		}
		seen[p.Symbol] = true
		for _, s := range p.Spelling {
			if len(s.Options) == 0 {
				return fmt.Errorf("phoneme %q: spelling %q has no options", p.Symbol, s.Word)
			}
		}
		for _, h := range p.Homophones {
			if len(h.Words) == 0 {
				return fmt.Errorf("phoneme %q: homophone %q has no words", p.Symbol, h.Sound)
			}
		}
	}
	return nil
}

// Lookup finds a phoneme by symbol.
func (c *Catalog) Lookup(symbol string) (*PhonemeEntry, bool) {
	for i := range c.Phonemes {
		if c.Phonemes[i].Symbol == symbol {
			return &c.Phonemes[i], true
		}
	}
	return nil, false
}
