// Package codec reads and writes texture documents: the five persisted fields
// of a texrecord.Record in YAML, JSON, or a checksummed binary frame.
//
// # Text Formats
//
// YAML and JSON documents hold the fields under the names the editor uses:
//
//	size:
//	    x: 64
//	    y: 128
//	textureFormat: RGBA32
//	mipCount: 1
//	linear: true
//	pngData: iVBORw0KGgo...
//
// textureFormat is written by name and accepted by name or by the engine's
// numeric value. A null pngData is preserved; the record fills it with a
// blank image on first read.
//
// # Frame Format
//
// Frames wrap a text document so it can be embedded in a binary stream:
//
//	[CRC32(4)][BodyFormat(1)][NameSize(2)][BodySize(4)][Timestamp(8)][Name][Body]
//
// Fields:
//   - CRC32: IEEE checksum of every byte after the CRC field (little-endian)
//   - BodyFormat: 1 for YAML, 2 for JSON
//   - NameSize: 16-bit name length in bytes (little-endian)
//   - BodySize: 32-bit body length in bytes (little-endian)
//   - Timestamp: 64-bit Unix timestamp in nanoseconds (little-endian)
//   - Name: label of the texture in the enclosing document; a KSUID when
//     the caller supplies none
//   - Body: the text document
//
// The total frame size is: 19 bytes (header) + len(name) + len(body)
//
// # Usage
//
//	out, err := codec.Marshal(codec.FormatFrame, "icon", record)
//	if err != nil {
//	    return err
//	}
//
//	doc, err := codec.Unmarshal(out)
//	if err != nil {
//	    return err // corrupted frames fail with ErrChecksum
//	}
//	tex := doc.Record.Texture()
//
// # Error Handling
//
// Errors wrap the package sentinels (ErrShortFrame, ErrChecksum,
// ErrBodyFormat, ErrUnknownFormat) and can be matched with errors.Is.
package codec
