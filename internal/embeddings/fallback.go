package embeddings

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// FallbackVector derives a deterministic vector of exactly dim values from
// text. The same text always yields the same vector, which keeps retrieval
// reproducible when the remote inference service is down and lets tests run
// without it.
//
// Derivation: sha256 of the lower-cased text, consecutive hex-digit pairs
// normalized to [0,1], then the resulting short sequence repeated
// cyclically until it reaches dim values.
func FallbackVector(text string, dim int) []float32 {
	if dim <= 0 {
		return nil
	}

	sum := sha256.Sum256([]byte(strings.ToLower(text)))
	digest := hex.EncodeToString(sum[:])

	seed := make([]float32, 0, len(digest)/2)
	for i := 0; i+2 <= len(digest); i += 2 {
		v, err := strconv.ParseUint(digest[i:i+2], 16, 8)
		if err != nil {
			continue // hex digest, cannot happen
		}
		seed = append(seed, float32(v)/255.0)
	}

	vector := make([]float32, dim)
	for i := range vector {
		vector[i] = seed[i%len(seed)]
	}
	return vector
}
