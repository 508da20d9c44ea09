//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
)

// FuzzFrameCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzFrameCodec_RoundTrip(f *testing.F) {
	codec := NewFrameCodec()

	f.Add([]byte(""), []byte(""))
	f.Add([]byte("icon"), []byte(`{"mipCount":1}`))
	f.Add([]byte{0x00, 0x01, 0x02}, []byte{0xFF, 0xFE, 0xFD})

	f.Fuzz(func(t *testing.T, name, body []byte) {
		if len(name) > 0xFFFF || len(body) > 100000 {
			t.Skip("Input too large for fuzz test")
		}

		encoded, err := codec.Encode(name, FormatJSON, body)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		frame, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		if err := frame.Validate(); err != nil {
			t.Fatalf("Validation failed: %v", err)
		}

		if !bytes.Equal(frame.Name, name) || !bytes.Equal(frame.Body, body) {
			t.Fatalf("Round trip mismatch")
		}
	})
}

// FuzzUnmarshal checks that arbitrary input never panics
func FuzzUnmarshal(f *testing.F) {
	f.Add([]byte("size: {x: 1, y: 1}\n"))
	f.Add([]byte(`{"pngData":"!!"}`))
	f.Add([]byte{0x01, 0x02, 0x03})

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := Unmarshal(data)
		if err != nil {
			return
		}
		if len(data) < 4096 {
			_ = doc.Record.Data()
		}
	})
}
