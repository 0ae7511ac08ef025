package config

import (
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"subtext/internal/prompts"
)

// Suite holds the closed sets a run draws from: hidden labels, writing tasks
// and the evaluation question pool. Synonyms feed the post-hoc leak scan.
type Suite struct {
	Labels    []string            `toml:"labels"`
	Tasks     []string            `toml:"tasks"`
	Questions []string            `toml:"questions"`
	Synonyms  map[string][]string `toml:"synonyms,omitempty"`
}

// DefaultSuite returns the built-in sets.
func DefaultSuite() Suite {
	return Suite{
		Labels:    prompts.Labels,
		Tasks:     prompts.Tasks,
		Questions: prompts.Questions,
		Synonyms:  prompts.Synonyms,
	}
}

// LoadSuite loads a suite.toml from the given filesystem, overlaying only the
// keys the file defines onto the defaults. A label set can be swapped out
// without restating the question pool.
func LoadSuite(fsys fs.FS, name string) (Suite, error) {
	suite := DefaultSuite()

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return suite, fmt.Errorf("reading suite file: %w", err)
	}

	var loaded Suite
	md, err := toml.Decode(string(data), &loaded)
	if err != nil {
		return suite, fmt.Errorf("parsing suite file: %w", err)
	}

	if md.IsDefined("labels") {
		suite.Labels = loaded.Labels
	}
	if md.IsDefined("tasks") {
		suite.Tasks = loaded.Tasks
	}
	if md.IsDefined("questions") {
		suite.Questions = loaded.Questions
	}
	if md.IsDefined("synonyms") {
		suite.Synonyms = loaded.Synonyms
	}

	return suite, nil
}
