package texrecord

import "github.com/ssargent/texturedata/pkg/graphics"

// Host is the graphics capability a Record calls into. *graphics.Device
// implements it.
type Host interface {
	// NewTexture allocates a readable texture.
	NewTexture(width, height int, format graphics.Format, mipCount int, linear bool) *graphics.Texture
	// NewBlankTexture allocates a texture with host default settings.
	NewBlankTexture(width, height int) *graphics.Texture
	// CopyTexture copies src into dst without requiring src to be readable.
	CopyTexture(src, dst *graphics.Texture) error
	// EncodePNG encodes the base level of a readable texture.
	EncodePNG(t *graphics.Texture) ([]byte, error)
	// LoadImage decodes PNG data into t, resizing it to the image.
	LoadImage(t *graphics.Texture, data []byte) error
	// NewSprite wraps a texture region.
	NewSprite(t *graphics.Texture, rect graphics.Rect, pivot graphics.Vec2) *graphics.Sprite
}

var _ Host = (*graphics.Device)(nil)

// Ownership says how the record came to hold its cached texture.
type Ownership int

const (
	// OwnershipNone means no texture is cached.
	OwnershipNone Ownership = iota
	// OwnershipDecoded means the texture was allocated from the payload.
	OwnershipDecoded
	// OwnershipBlank means decoding failed and a blank texture stands in.
	OwnershipBlank
	// OwnershipAdopted means a readable texture was assigned and the record
	// now holds the caller's object.
	OwnershipAdopted
	// OwnershipCopied means a non-readable texture was assigned and the
	// record holds a readable device copy of it.
	OwnershipCopied
)

func (o Ownership) String() string {
	switch o {
	case OwnershipNone:
		return "none"
	case OwnershipDecoded:
		return "decoded"
	case OwnershipBlank:
		return "blank"
	case OwnershipAdopted:
		return "adopted"
	case OwnershipCopied:
		return "copied"
	default:
		return "unknown"
	}
}
