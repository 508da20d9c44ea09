package graphics

import (
	"encoding/json"
	"image/color"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Format is a pixel format tag. Values match the engine's serialized enum so
// documents written by the editor load unchanged. Numeric values outside the
// supported set are kept as they are and allocate as BlankFormat.
type Format int

const (
	FormatUnknown Format = 0
	FormatAlpha8  Format = 1
	FormatRGB24   Format = 3
	FormatRGBA32  Format = 4
	FormatARGB32  Format = 5
	FormatBGRA32  Format = 14
	FormatRG16    Format = 62
	FormatR8      Format = 63
)

// DefaultFormat is the format a record carries before any texture is assigned.
const DefaultFormat = FormatARGB32

// BlankFormat is the format of textures allocated without explicit settings.
const BlankFormat = FormatRGBA32

var formatNames = map[Format]string{
	FormatAlpha8: "Alpha8",
	FormatRGB24:  "RGB24",
	FormatRGBA32: "RGBA32",
	FormatARGB32: "ARGB32",
	FormatBGRA32: "BGRA32",
	FormatRG16:   "RG16",
	FormatR8:     "R8",
}

// ErrUnknownFormat is returned when parsing a format name that is not supported.
var ErrUnknownFormat = errors.New("graphics: unknown texture format")

// String returns the format name, or the numeric value for unknown formats.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return strconv.Itoa(int(f))
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// Channels returns the number of color channels stored per pixel.
func (f Format) Channels() int {
	switch f {
	case FormatAlpha8, FormatR8:
		return 1
	case FormatRG16:
		return 2
	case FormatRGB24:
		return 3
	case FormatRGBA32, FormatARGB32, FormatBGRA32:
		return 4
	default:
		return 0
	}
}

// HasAlpha reports whether the format stores an alpha channel.
func (f Format) HasAlpha() bool {
	switch f {
	case FormatAlpha8, FormatRGBA32, FormatARGB32, FormatBGRA32:
		return true
	default:
		return false
	}
}

// quantize drops the channels a format cannot hold.
func (f Format) quantize(c color.NRGBA) color.NRGBA {
	switch f {
	case FormatAlpha8:
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: c.A}
	case FormatR8:
		return color.NRGBA{R: c.R, A: 0xff}
	case FormatRG16:
		return color.NRGBA{R: c.R, G: c.G, A: 0xff}
	case FormatRGB24:
		c.A = 0xff
		return c
	default:
		return c
	}
}

// ParseFormat accepts a format name (case-insensitive) or any numeric value.
// Only names must belong to the supported set.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Format(n), nil
	}
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return FormatUnknown, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// MarshalText encodes the format by name.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a format name or number.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalJSON accepts a format name as a string or the numeric value as
// a number.
func (f *Format) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		return f.UnmarshalText([]byte(name))
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(ErrUnknownFormat, "%s", b)
	}
	return f.UnmarshalText([]byte(strconv.Itoa(n)))
}

// FilterMode controls how texels are sampled.
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
	FilterTrilinear
)

// ErrUnknownFilterMode is returned by ParseFilterMode.
var ErrUnknownFilterMode = errors.New("graphics: unknown filter mode")

func (m FilterMode) String() string {
	switch m {
	case FilterPoint:
		return "point"
	case FilterBilinear:
		return "bilinear"
	case FilterTrilinear:
		return "trilinear"
	default:
		return "filter(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseFilterMode parses "point", "bilinear" or "trilinear".
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point", "nearest":
		return FilterPoint, nil
	case "bilinear", "":
		return FilterBilinear, nil
	case "trilinear":
		return FilterTrilinear, nil
	default:
		return FilterBilinear, errors.Wrapf(ErrUnknownFilterMode, "%q", s)
	}
}
