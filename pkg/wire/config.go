package wire

import "fmt"

// Limits caps the allocations a decoder will make on behalf of a length
// header. A zero field means no limit.
type Limits struct {
	// MaxCapacity is the largest element count accepted for one container.
	// Strings and byte slices count bytes, so it also caps their length
	// even when MaxSize would allow more.
	MaxCapacity int `yaml:"max_capacity"`
	// MaxSize is the largest count × static element width accepted for one container.
	MaxSize int `yaml:"max_size"`
}

// Config is the runtime configuration shared by readers and writers.
type Config struct {
	Limits Limits `yaml:"limits"`
	// UTF8SIMDThreshold is the string length from which checked decoding
	// validates UTF-8 with the vectorised validator.
	UTF8SIMDThreshold int `yaml:"utf8_simd_threshold"`
	// ZeroCopyStrings makes checked and unchecked decoding alias the input
	// for strings and byte slices. The unsafe tier always aliases.
	ZeroCopyStrings bool `yaml:"zero_copy_strings"`
	// DeterministicMaps sorts map entries by their encoded key bytes.
	DeterministicMaps bool `yaml:"deterministic_maps"`
}

var DefaultLimits = Limits{
	MaxCapacity: 1 << 24,
	MaxSize:     256 << 20,
}

// SecureLimits are conservative limits for untrusted input.
var SecureLimits = Limits{
	MaxCapacity: 1 << 16,
	MaxSize:     4 << 20,
}

var DefaultConfig = Config{
	Limits:            DefaultLimits,
	UTF8SIMDThreshold: 64,
	DeterministicMaps: true,
}

var SecureConfig = Config{
	Limits:            SecureLimits,
	UTF8SIMDThreshold: 64,
	DeterministicMaps: true,
}

// Validate rejects negative limits and thresholds.
func (c Config) Validate() error {
	if c.Limits.MaxCapacity < 0 {
		return fmt.Errorf("limits.max_capacity must not be negative: %d", c.Limits.MaxCapacity)
	}
	if c.Limits.MaxSize < 0 {
		return fmt.Errorf("limits.max_size must not be negative: %d", c.Limits.MaxSize)
	}
	if c.UTF8SIMDThreshold < 0 {
		return fmt.Errorf("utf8_simd_threshold must not be negative: %d", c.UTF8SIMDThreshold)
	}
	return nil
}
