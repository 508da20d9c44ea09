package codec

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/texturedata/pkg/texrecord"
	"gopkg.in/yaml.v3"
)

// FrameBodyFormat is the body encoding Marshal uses inside frames.
var FrameBodyFormat = FormatJSON

// Document is a decoded texture document.
type Document struct {
	Format Format
	// Name and Time are set for frames only.
	Name   string
	Time   time.Time
	Record *texrecord.Record
}

// Marshal writes the persisted fields of r. name labels frames and is
// ignored by the text formats; an empty name gets a fresh KSUID.
func Marshal(format Format, name string, r *texrecord.Record) ([]byte, error) {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return nil, errors.Wrap(err, "codec: marshal yaml document")
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "codec: marshal json document")
		}
		return out, nil
	case FormatFrame:
		body, err := Marshal(FrameBodyFormat, "", r)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = ksuid.New().String()
		}
		return NewFrameCodec().Encode([]byte(name), FrameBodyFormat, body)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%d", format)
	}
}

// Unmarshal sniffs the encoding of data and decodes it into a new record
// built with opts.
func Unmarshal(data []byte, opts ...texrecord.Option) (*Document, error) {
	return UnmarshalAs(Sniff(data), data, opts...)
}

// UnmarshalAs decodes data in the given encoding. Frames are checked against
// their CRC before the body is read.
func UnmarshalAs(format Format, data []byte, opts ...texrecord.Option) (*Document, error) {
	doc := &Document{Format: format, Record: texrecord.New(opts...)}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, doc.Record); err != nil {
			return nil, errors.Wrap(err, "codec: unmarshal yaml document")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, doc.Record); err != nil {
			return nil, errors.Wrap(err, "codec: unmarshal json document")
		}
	case FormatFrame:
		f, err := NewFrameCodec().Decode(data)
		if err != nil {
			return nil, err
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if f.BodyFormat != FormatYAML && f.BodyFormat != FormatJSON {
			return nil, errors.Wrapf(ErrBodyFormat, "%s", f.BodyFormat)
		}
		body, err := UnmarshalAs(f.BodyFormat, f.Body, opts...)
		if err != nil {
			return nil, err
		}
		doc.Record = body.Record
		doc.Name = string(f.Name)
		doc.Time = f.Time()
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%d", format)
	}
	return doc, nil
}
