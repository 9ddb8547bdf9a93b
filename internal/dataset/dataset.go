// Package dataset produces the integer arrays sortscope sorts: parsed from a
// comma list, loaded from a YAML file or generated from a seed.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/sortscope/internal/errors"
)

// File is the YAML layout of a dataset file. A file holding a bare sequence
// of integers is accepted as well.
type File struct {
	// Name is an optional label shown in the UI
	Name string `yaml:"name,omitempty"`
	// Seed records the seed a generated file came from (optional)
	Seed uint64 `yaml:"seed,omitempty"`
	// Values is the array to sort
	Values []int `yaml:"values"`
}

// Parse reads a comma or whitespace separated list of integers.
func Parse(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	values := make([]int, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parsing value %d %q: %w", i, f, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// Load reads a dataset file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset file")
	}
	return Decode(data)
}

// Decode parses dataset YAML.
func Decode(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing dataset file")
	}
	if len(doc.Content) == 0 {
		return &File{}, nil
	}

	var f File
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&f.Values); err != nil {
			return nil, errors.Wrap(err, "parsing dataset values")
		}
	case yaml.MappingNode:
		if err := root.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "parsing dataset file")
		}
	default:
		return nil, fmt.Errorf("parsing dataset file: expected a list or a mapping, got %s", root.Tag)
	}
	return &f, nil
}

// Write stores values as a dataset file.
func Write(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encoding dataset")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing dataset file %s", path)
	}
	return nil
}

// Generate returns size random values in [0, maxValue]. A zero seed picks
// one from the clock; the seed used is returned either way.
func Generate(size, maxValue int, seed uint64) ([]int, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>32|1))
	values := make([]int, size)
	for i := range values {
		values[i] = rng.IntN(maxValue + 1)
	}
	return values, seed
}

// Validate reports the first value the sort engine would reject.
func Validate(values []int) error {
	for i, v := range values {
		if v < 0 {
			return errors.NewInputError(i, v, "negative value")
		}
	}
	return nil
}
