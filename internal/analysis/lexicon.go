package analysis

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon holds the keyword buckets driving the heuristic analyzer:
// signal categories (trust, contact, pricing, cta, content), industry
// detection buckets, and audience detection buckets.
type Lexicon struct {
	Signals    map[string][]string `yaml:"signals"`
	Industries map[string][]string `yaml:"industries"`
	Audiences  map[string][]string `yaml:"audiences"`
}

// DefaultLexicon parses the embedded lexicon. The file is part of the
// build, so a parse failure is a programming error.
func DefaultLexicon() *Lexicon {
	lex, err := parseLexicon(defaultLexiconYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon invalid: %v", err))
	}
	return lex
}

// LoadLexicon reads a lexicon override from a YAML file. Buckets missing
// from the file keep their embedded defaults.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	lex, err := parseLexicon(data)
	if err != nil {
		return nil, err
	}

	base := DefaultLexicon()
	if len(lex.Signals) == 0 {
		lex.Signals = base.Signals
	}
	if len(lex.Industries) == 0 {
		lex.Industries = base.Industries
	}
	if len(lex.Audiences) == 0 {
		lex.Audiences = base.Audiences
	}
	return lex, nil
}

func parseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return &lex, nil
}
