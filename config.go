package tierbin

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptions reads YAML options over DefaultOptions. Unknown keys are
// rejected.
//
//	limits:
//	  max_capacity: 65536
//	  max_size: 4194304
//	utf8_simd_threshold: 64
//	zero_copy_strings: false
//	deterministic_maps: true
func LoadOptions(src io.Reader) (Options, error) {
	opts := DefaultOptions
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return LoadOptions(f)
}
