package graphics

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/draw"
)

// Texture errors
var (
	ErrNilTexture     = errors.New("graphics: texture is nil")
	ErrNotReadable    = errors.New("graphics: texture pixels are not readable")
	ErrReleased       = errors.New("graphics: texture has been released")
	ErrInvalidLevel   = errors.New("graphics: mip level out of range")
	ErrSizeMismatch   = errors.New("graphics: texture sizes differ")
	ErrFormatMismatch = errors.New("graphics: texture formats differ")
	ErrEmptyImage     = errors.New("graphics: image data is empty")
	ErrImageTooLarge  = errors.New("graphics: image exceeds the maximum texture size")
)

// Texture is a 2D texture with an optional mip chain. Each level is kept as
// an NRGBA image regardless of format; pixels are quantized to the format's
// channels when written.
//
// A texture that is not readable still holds its levels (they stand in for
// device memory) but refuses CPU access through Pixels, SetPixels and PNG
// encoding. Device.CopyTexture can read it.
type Texture struct {
	width    int
	height   int
	format   Format
	linear   bool
	filter   FilterMode
	readable bool
	released bool
	levels   []*image.NRGBA
}

// MaxTextureSize is the largest width or height a texture is allocated with.
// Larger requests are clamped.
const MaxTextureSize = 16384

// clampDimension bounds a requested width or height to [1, limit].
func clampDimension(n, limit int) int {
	return min(max(1, n), limit)
}

// MipChainLength returns the number of levels in a full mip chain for the
// given dimensions, down to 1x1.
func MipChainLength(width, height int) int {
	n := 1
	for width > 1 || height > 1 {
		width = max(1, width/2)
		height = max(1, height/2)
		n++
	}
	return n
}

// levelCount resolves a requested mip count: negative means the full chain,
// zero means the base level only.
func levelCount(requested, width, height int) int {
	full := MipChainLength(width, height)
	switch {
	case requested < 0, requested > full:
		return full
	case requested == 0:
		return 1
	default:
		return requested
	}
}

func allocLevels(width, height, count int) []*image.NRGBA {
	levels := make([]*image.NRGBA, count)
	for i := range levels {
		levels[i] = image.NewNRGBA(image.Rect(0, 0, width, height))
		width = max(1, width/2)
		height = max(1, height/2)
	}
	return levels
}

func newTexture(width, height int, format Format, mipCount int, linear bool) *Texture {
	width = clampDimension(width, MaxTextureSize)
	height = clampDimension(height, MaxTextureSize)
	if !format.Valid() {
		format = BlankFormat
	}
	return &Texture{
		width:    width,
		height:   height,
		format:   format,
		linear:   linear,
		filter:   FilterBilinear,
		readable: true,
		levels:   allocLevels(width, height, levelCount(mipCount, width, height)),
	}
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// Size returns the base level dimensions.
func (t *Texture) Size() image.Point { return image.Pt(t.width, t.height) }

// Bounds returns the base level rectangle anchored at the origin.
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

func (t *Texture) Format() Format { return t.format }

// MipCount returns the number of allocated mip levels, at least 1 until released.
func (t *Texture) MipCount() int { return len(t.levels) }

// Linear reports whether the texture was allocated in linear color space.
func (t *Texture) Linear() bool { return t.linear }

func (t *Texture) FilterMode() FilterMode { return t.filter }

func (t *Texture) SetFilterMode(m FilterMode) { t.filter = m }

// IsReadable reports whether CPU-side pixel access is allowed.
func (t *Texture) IsReadable() bool { return t.readable && !t.released }

// Released reports whether Release has been called.
func (t *Texture) Released() bool { return t.released }

func (t *Texture) checkReadable() error {
	if t.released {
		return ErrReleased
	}
	if !t.readable {
		return ErrNotReadable
	}
	return nil
}

// Pixels returns the image backing a mip level. The returned image is the
// texture's own storage; writes to it are visible after Apply.
func (t *Texture) Pixels(level int) (*image.NRGBA, error) {
	if err := t.checkReadable(); err != nil {
		return nil, err
	}
	if level < 0 || level >= len(t.levels) {
		return nil, errors.Wrapf(ErrInvalidLevel, "level %d of %d", level, len(t.levels))
	}
	return t.levels[level], nil
}

// SetPixels draws img into the base level, aligned to the top-left corner,
// and quantizes it to the texture format. Mip levels are not updated until
// Apply is called.
func (t *Texture) SetPixels(img image.Image) error {
	if err := t.checkReadable(); err != nil {
		return err
	}
	base := t.levels[0]
	if src, ok := img.(*image.NRGBA); ok {
		copyNRGBA(base, src)
	} else {
		draw.Draw(base, base.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	quantizeLevel(base, t.format)
	return nil
}

// copyNRGBA copies the overlapping region row by row, avoiding the
// premultiplied round trip of the generic draw path.
func copyNRGBA(dst, src *image.NRGBA) {
	sb := src.Bounds()
	w := min(dst.Bounds().Dx(), sb.Dx())
	h := min(dst.Bounds().Dy(), sb.Dy())
	for y := 0; y < h; y++ {
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		copy(dst.Pix[di:di+w*4], src.Pix[si:si+w*4])
	}
}

// Apply uploads pending changes. When updateMipmaps is set every level below
// the base is regenerated from the one above it. makeNoLongerReadable drops
// CPU access permanently.
func (t *Texture) Apply(updateMipmaps, makeNoLongerReadable bool) {
	if t.released {
		return
	}
	if updateMipmaps {
		t.generateMips()
	}
	if makeNoLongerReadable {
		t.readable = false
	}
}

// Release frees the pixel storage. The texture is unusable afterwards.
func (t *Texture) Release() {
	t.levels = nil
	t.released = true
}

func (t *Texture) generateMips() {
	var scaler draw.Scaler = draw.BiLinear
	if t.filter == FilterPoint {
		scaler = draw.NearestNeighbor
	}
	for i := 1; i < len(t.levels); i++ {
		dst, src := t.levels[i], t.levels[i-1]
		scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		quantizeLevel(dst, t.format)
	}
}

// resize reallocates storage for new base dimensions, keeping the level
// count where the new size allows it.
func (t *Texture) resize(width, height int) {
	width = clampDimension(width, MaxTextureSize)
	height = clampDimension(height, MaxTextureSize)
	if width == t.width && height == t.height {
		return
	}
	count := min(len(t.levels), MipChainLength(width, height))
	t.width = width
	t.height = height
	t.levels = allocLevels(width, height, max(1, count))
}

func (t *Texture) fill(c color.NRGBA) {
	c = t.format.quantize(c)
	for _, level := range t.levels {
		for i := 0; i < len(level.Pix); i += 4 {
			level.Pix[i+0] = c.R
			level.Pix[i+1] = c.G
			level.Pix[i+2] = c.B
			level.Pix[i+3] = c.A
		}
	}
}

func quantizeLevel(img *image.NRGBA, format Format) {
	if format.Channels() == 4 {
		return
	}
	for i := 0; i < len(img.Pix); i += 4 {
		c := format.quantize(color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]})
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}
