package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/fieldfit-ml/fieldfit/internal/tensor"
)

// Load reads a .ffck file and returns the header and reconstructed state
// dict. The checksum is validated before any tensor is decoded.
func Load(path string) (*Header, map[string]*tensor.RawTensor, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("serialization: read %s: %w", path, err)
	}
	if len(blob) < 16+ChecksumSize {
		return nil, nil, ErrTruncated
	}

	body := blob[:len(blob)-ChecksumSize]
	var stored [ChecksumSize]byte
	copy(stored[:], blob[len(blob)-ChecksumSize:])
	if sha256.Sum256(body) != stored {
		return nil, nil, ErrChecksumMismatch
	}

	if string(body[:4]) != MagicBytes {
		return nil, nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(body[4:8])
	if version != FormatVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	headerSize := binary.LittleEndian.Uint64(body[8:16])
	if headerSize > MaxHeaderSize {
		return nil, nil, ErrHeaderTooLarge
	}
	if uint64(len(body)) < 16+headerSize {
		return nil, nil, ErrTruncated
	}

	var header Header
	if err := json.Unmarshal(body[16:16+headerSize], &header); err != nil {
		return nil, nil, fmt.Errorf("serialization: unmarshal header: %w", err)
	}

	data := body[16+headerSize:]
	stateDict := make(map[string]*tensor.RawTensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > int64(len(data)) {
			return nil, nil, fmt.Errorf("serialization: tensor %q extends beyond data section", meta.Name)
		}
		n := int(meta.Size / 4)
		values := make([]float32, n)
		section := data[meta.Offset : meta.Offset+meta.Size]
		for i := 0; i < n; i++ {
			values[i] = math.Float32frombits(binary.LittleEndian.Uint32(section[i*4 : i*4+4]))
		}
		raw, err := tensor.FromData(values, tensor.Shape(meta.Shape))
		if err != nil {
			return nil, nil, fmt.Errorf("serialization: tensor %q: %w", meta.Name, err)
		}
		stateDict[meta.Name] = raw
	}
	return &header, stateDict, nil
}
