package autoload

import (
	"io/ioutil"

	"github.com/jsccast/yaml"
)

// Manifest maps objfile names to script sources.
//
// Background: the YAML parser at https://github.com/go-yaml/yaml
// returns map[interface{}]interface{}, which is correct but
// inconvenient, so this repo uses the fork at
// https://github.com/jsccast/yaml, which returns
// map[string]interface{}.
type Manifest struct {
	// Scripts is objfile name -> script source (inline).
	Scripts map[string]string `yaml:"scripts"`
}

// LoadManifest reads a manifest file.
func LoadManifest(filename string) (*Manifest, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseManifest(bs)
}

// ParseManifest parses manifest YAML.
func ParseManifest(bs []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(bs, &m); err != nil {
		return nil, err
	}
	if m.Scripts == nil {
		m.Scripts = make(map[string]string)
	}
	return &m, nil
}
