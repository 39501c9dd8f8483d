package engine

import (
	"crypto/sha256"
	"encoding/binary"

	wasmengines "github.com/wippyai/wasm-engines"
	"github.com/wippyai/wasm-engines/errors"
)

// Artifact envelope layout:
//
//	offset  size  field
//	0       4     magic "weng"
//	4       1     format version (currently 1)
//	5       1     variant that produced the artifact
//	6       2     reserved, zero
//	8       8     module length, little endian
//	16      n     module bytes
//	16+n    32    sha256 over bytes [0, 16+n)
//
// The envelope carries the module plus provenance; the machine code for
// native artifacts lives in the engine's compilation cache, keyed by the
// module's content hash, so loading an artifact on a configured native
// engine reuses the on-disk code without recompiling.
var artifactMagic = [4]byte{'w', 'e', 'n', 'g'}

const (
	artifactVersion    = 1
	artifactHeaderSize = 16
	artifactSumSize    = sha256.Size
)

// encodeArtifact wraps module bytes in the artifact envelope.
func encodeArtifact(variant wasmengines.Variant, module []byte) []byte {
	out := make([]byte, artifactHeaderSize+len(module)+artifactSumSize)
	copy(out[0:4], artifactMagic[:])
	out[4] = artifactVersion
	out[5] = byte(variant)
	binary.LittleEndian.PutUint64(out[8:16], uint64(len(module)))
	copy(out[artifactHeaderSize:], module)

	sum := sha256.Sum256(out[:artifactHeaderSize+len(module)])
	copy(out[artifactHeaderSize+len(module):], sum[:])
	return out
}

// decodeArtifact validates an envelope and returns the producing variant
// and the module bytes.
func decodeArtifact(data []byte) (wasmengines.Variant, []byte, error) {
	if len(data) < artifactHeaderSize+artifactSumSize {
		return 0, nil, errors.InvalidArtifact("artifact shorter than envelope header")
	}
	if [4]byte(data[0:4]) != artifactMagic {
		return 0, nil, errors.InvalidArtifact("bad artifact magic")
	}
	if data[4] != artifactVersion {
		return 0, nil, errors.New(errors.PhaseLoad, errors.KindInvalidArtifact).
			Detail("unsupported artifact version %d", data[4]).
			Build()
	}

	variant := wasmengines.Variant(data[5])
	if variant != wasmengines.VariantJIT && variant != wasmengines.VariantNative {
		return 0, nil, errors.New(errors.PhaseLoad, errors.KindInvalidArtifact).
			Detail("unknown producing variant %d", data[5]).
			Build()
	}

	n := binary.LittleEndian.Uint64(data[8:16])
	if n > uint64(len(data)) || uint64(len(data)) != artifactHeaderSize+n+artifactSumSize {
		return 0, nil, errors.InvalidArtifact("artifact length does not match header")
	}

	module := data[artifactHeaderSize : artifactHeaderSize+n]
	want := data[artifactHeaderSize+n:]
	sum := sha256.Sum256(data[:artifactHeaderSize+n])
	if [artifactSumSize]byte(want) != sum {
		return 0, nil, errors.InvalidArtifact("artifact checksum mismatch")
	}

	return variant, module, nil
}

// IsArtifact reports whether data begins with the artifact envelope magic.
func IsArtifact(data []byte) bool {
	return len(data) >= 4 && [4]byte(data[0:4]) == artifactMagic
}
