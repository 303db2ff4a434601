package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetMillisecond retrieves the configuration value associated with the given key as milliseconds.
	// If the key does not exist or the value cannot be converted to an integer,
	// the implementation should return zero.
	GetMillisecond(key string) time.Duration

	// GetSecond retrieves the configuration value associated with the given key as seconds.
	// If the key does not exist or the value cannot be converted to an integer,
	// the implementation should return zero.
	GetSecond(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations of this interface should handle the retrieval and type conversion
// of configuration data, returning zero values for missing keys.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt retrieves the configuration value associated with the given key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the configuration value associated with the given key as an int32.
	GetInt32(key string) int32

	// GetFloat64 retrieves the configuration value associated with the given key as a float64.
	GetFloat64(key string) float64

	// GetBool retrieves the configuration value associated with the given key as a bool.
	GetBool(key string) bool

	// GetString retrieves the configuration value associated with the given key as a string.
	GetString(key string) string

	// GetArray retrieves the configuration value associated with the given key as a slice of strings.
	// Configuration value is stored either as a list or with format <element1>,<element2>,...
	// Blank elements are dropped.
	GetArray(key string) []string
}
