package codec

import (
	"encoding/binary"
	"hash/crc32"
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

// HeaderSize is the fixed frame header length:
// CRC32(4) + BodyFormat(1) + NameSize(2) + BodySize(4) + Timestamp(8).
const HeaderSize = 19

// Frame errors
var (
	ErrShortFrame   = errors.New("codec: data too short for frame")
	ErrChecksum     = errors.New("codec: frame checksum mismatch")
	ErrNameTooLarge = errors.New("codec: frame name too large")
	ErrBodyTooLarge = errors.New("codec: frame body too large")
	ErrBodyFormat   = errors.New("codec: unsupported frame body format")
)

// Frame is one texture document wrapped for embedding in a binary stream
type Frame struct {
	CRC32      uint32 // CRC32 over everything after this field
	BodyFormat Format // Encoding of Body, FormatYAML or FormatJSON
	NameSize   uint16 // Size of the name in bytes
	BodySize   uint32 // Size of the body in bytes
	Timestamp  uint64 // Unix timestamp in nanoseconds
	Name       []byte // Name of the texture within the enclosing document
	Body       []byte // Encoded record fields
}

// FrameCodec writes and reads frames
type FrameCodec struct{}

// NewFrameCodec creates a new frame codec instance
func NewFrameCodec() *FrameCodec {
	return &FrameCodec{}
}

// NewFrame creates a frame stamped with the current time
func NewFrame(name []byte, bodyFormat Format, body []byte) (*Frame, error) {
	if bodyFormat != FormatYAML && bodyFormat != FormatJSON {
		return nil, errors.Wrapf(ErrBodyFormat, "%s", bodyFormat)
	}
	if len(name) > math.MaxUint16 {
		return nil, errors.Wrapf(ErrNameTooLarge, "%d bytes", len(name))
	}
	if uint64(len(body)) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrBodyTooLarge, "%d bytes", len(body))
	}
	return &Frame{
		BodyFormat: bodyFormat,
		NameSize:   uint16(len(name)),
		BodySize:   uint32(len(body)),
		Timestamp:  uint64(time.Now().UnixNano()),
		Name:       name,
		Body:       body,
	}, nil
}

// Encode serializes a named body into the frame format
// Format: [CRC32(4)][BodyFormat(1)][NameSize(2)][BodySize(4)][Timestamp(8)][Name][Body]
func (c *FrameCodec) Encode(name []byte, bodyFormat Format, body []byte) ([]byte, error) {
	f, err := NewFrame(name, bodyFormat, body)
	if err != nil {
		return nil, err
	}
	f.CRC32 = f.calculateCRC32()

	buf := make([]byte, f.Size())
	binary.LittleEndian.PutUint32(buf[0:], f.CRC32)
	buf[4] = byte(f.BodyFormat)
	binary.LittleEndian.PutUint16(buf[5:], f.NameSize)
	binary.LittleEndian.PutUint32(buf[7:], f.BodySize)
	binary.LittleEndian.PutUint64(buf[11:], f.Timestamp)
	copy(buf[HeaderSize:], f.Name)
	copy(buf[HeaderSize+int(f.NameSize):], f.Body)

	return buf, nil
}

// Decode parses a frame. It does not check the CRC; call Validate for that.
// Name and Body alias data.
func (c *FrameCodec) Decode(data []byte) (*Frame, error) {
	if len(data) < HeaderSize {
		return nil, errors.Wrapf(ErrShortFrame, "%d < %d header bytes", len(data), HeaderSize)
	}

	f := &Frame{}
	f.CRC32 = binary.LittleEndian.Uint32(data[0:4])
	f.BodyFormat = Format(data[4])
	f.NameSize = binary.LittleEndian.Uint16(data[5:7])
	f.BodySize = binary.LittleEndian.Uint32(data[7:11])
	f.Timestamp = binary.LittleEndian.Uint64(data[11:19])

	end := uint64(HeaderSize) + uint64(f.NameSize) + uint64(f.BodySize)
	if uint64(len(data)) < end {
		return nil, errors.Wrapf(ErrShortFrame, "%d < %d for name/body sizes", len(data), end)
	}

	nameEnd := HeaderSize + int(f.NameSize)
	f.Name = data[HeaderSize:nameEnd]
	f.Body = data[nameEnd:int(end)]

	return f, nil
}

// Validate checks the integrity of a frame using CRC32
func (f *Frame) Validate() error {
	if sum := f.calculateCRC32(); f.CRC32 != sum {
		return errors.Wrapf(ErrChecksum, "%d != %d", f.CRC32, sum)
	}
	return nil
}

// Size returns the total size of the frame when encoded
func (f *Frame) Size() int {
	return HeaderSize + len(f.Name) + len(f.Body)
}

// Time returns the frame timestamp
func (f *Frame) Time() time.Time {
	return time.Unix(0, int64(f.Timestamp))
}

// calculateCRC32 computes the checksum over the header fields after the CRC, then name and body
func (f *Frame) calculateCRC32() uint32 {
	var header [HeaderSize - 4]byte
	header[0] = byte(f.BodyFormat)
	binary.LittleEndian.PutUint16(header[1:], f.NameSize)
	binary.LittleEndian.PutUint32(header[3:], f.BodySize)
	binary.LittleEndian.PutUint64(header[7:], f.Timestamp)

	crc := crc32.NewIEEE()
	// hash.Hash writes never fail
	_, _ = crc.Write(header[:])
	_, _ = crc.Write(f.Name)
	_, _ = crc.Write(f.Body)
	return crc.Sum32()
}
