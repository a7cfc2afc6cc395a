package yamlsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dejo1307/a11ysnap/internal/source/fixture"

	"gopkg.in/yaml.v3"
)

// YAMLLoader reads screen fixtures written as YAML node trees.
type YAMLLoader struct{}

// New creates a new YAMLLoader.
func New() *YAMLLoader {
	return &YAMLLoader{}
}

func (l *YAMLLoader) Name() string {
	return "yaml"
}

// Detect returns true for .yaml and .yml files.
func (l *YAMLLoader) Detect(path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true, nil
	}
	return false, nil
}

// Load decodes the file's single document as the root node. Unknown keys are
// rejected so typos in attribute names surface as errors.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*fixture.Spec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	spec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	count := 0
	spec.Walk(func(*fixture.Spec) { count++ })
	log.Printf("[yaml-loader] loaded %d nodes from %s", count, path)
	return spec, nil
}

// Decode parses a YAML node tree.
func Decode(data []byte) (*fixture.Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec fixture.Spec
	if err := dec.Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	return &spec, nil
}
