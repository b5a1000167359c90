package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/tierbin"
	"github.com/rawbytedev/tierbin/pkg/frame"
)

// config is the YAML file read with --config.
//
//	codec:
//	  limits:
//	    max_capacity: 65536
//	frame:
//	  compression: zstd
//	  checksum: blake3
//	log_level: debug
type config struct {
	Codec    tierbin.Options `yaml:"codec"`
	Frame    frame.Options   `yaml:"frame"`
	LogLevel string          `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Codec:    tierbin.DefaultOptions,
		Frame:    frame.DefaultOptions,
		LogLevel: "info",
	}
}

func (c config) validate() error {
	if err := c.Codec.Validate(); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if c.Frame.MinCompress < 0 {
		return fmt.Errorf("frame.min_compress must not be negative: %d", c.Frame.MinCompress)
	}
	if c.Frame.MaxSize < 0 {
		return fmt.Errorf("frame.max_size must not be negative: %d", c.Frame.MaxSize)
	}
	return nil
}

func parseConfig(src io.Reader) (config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config{}, err
	}
	defer f.Close()
	return parseConfig(f)
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
