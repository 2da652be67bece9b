package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of data. The runner hashes DOT text
// with it, so identical graphs share rendered artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKeyOpts holds the render settings that change an artifact for the
// same DOT input.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of the artifact rendered from a DOT graph
	// with the given content hash.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds keys of the form "artifact:<format>:<dot hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + opts.Format + ":" + dotHash
}
