package codec

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
)

// Format identifies a document encoding
type Format uint8

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatFrame
)

// ErrUnknownFormat is returned for unrecognized format names
var ErrUnknownFormat = errors.New("codec: unknown document format")

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Extension returns the file extension conventionally used for the format
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatJSON:
		return ".json"
	case FormatFrame:
		return ".texframe"
	default:
		return ""
	}
}

// ParseFormat parses "yaml", "yml", "json" or "frame"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "frame", "bin":
		return FormatFrame, nil
	default:
		return FormatUnknown, errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Sniff guesses the encoding of a document: a frame if the header names a
// text body and its sizes account for every byte, JSON if it starts with an
// object, YAML otherwise. The frame CRC is not checked here, so a corrupted
// frame is still reported as a frame and fails in UnmarshalAs.
func Sniff(data []byte) Format {
	if f, err := NewFrameCodec().Decode(data); err == nil &&
		(f.BodyFormat == FormatYAML || f.BodyFormat == FormatJSON) &&
		f.Size() == len(data) {
		return FormatFrame
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}
