// Package serialization provides the native .ffck format for saving and
// loading trained coordinate-network weights.
//
//	Format structure:
//	  [4 bytes: Magic "FFCK"]
//	  [4 bytes: Version (uint32 LE)]
//	  [8 bytes: Header size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [Tensor data: float32 LE, packed in header order]
//	  [32 bytes: SHA-256 of everything above]
package serialization

import "time"

// Format constants.
const (
	MagicBytes    = "FFCK"
	FormatVersion = 1
	ChecksumSize  = 32
	MaxHeaderSize = 1 << 20
)

// Header is the JSON metadata block of a .ffck file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	Family        string            `json:"family"`     // nonlinearity family name
	CreatedAt     time.Time         `json:"created_at"` // when the file was written
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from start of the data section
	Size   int64  `json:"size"`   // bytes
}
