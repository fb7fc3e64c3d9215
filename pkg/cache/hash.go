package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKeyOpts are the options that change a rendering's bytes.
type ArtifactKeyOpts struct {
	Format   string   `json:"format"`
	Scale    float64  `json:"scale,omitempty"`
	Shadow   bool     `json:"shadow,omitempty"`
	Grid     bool     `json:"grid,omitempty"`
	Routes   bool     `json:"routes,omitempty"`
	TypeLibs []string `json:"type_libs,omitempty"`
	Settings string   `json:"settings,omitempty"` // encoded block size settings
	Fonts    []string `json:"fonts,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys a rendering of the input with the given hash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the input hash together with every option.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
