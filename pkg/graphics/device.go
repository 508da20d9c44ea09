package graphics

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/cockroachdb/errors"
)

// DefaultBlankColor fills textures allocated by NewBlankTexture.
var DefaultBlankColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Device allocates textures and sprites and owns the PNG codec settings.
// A Device holds no per-texture state and may be shared.
type Device struct {
	compression png.CompressionLevel
	blank       color.NRGBA
	maxSize     int
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithCompression sets the PNG compression level used by EncodePNG.
func WithCompression(level png.CompressionLevel) DeviceOption {
	return func(d *Device) { d.compression = level }
}

// WithBlankColor sets the fill color of blank textures.
func WithBlankColor(c color.NRGBA) DeviceOption {
	return func(d *Device) { d.blank = c }
}

// WithMaxTextureSize lowers the largest texture dimension the device
// allocates or loads. Values outside [1, MaxTextureSize] are ignored.
func WithMaxTextureSize(n int) DeviceOption {
	return func(d *Device) {
		if n >= 1 && n <= MaxTextureSize {
			d.maxSize = n
		}
	}
}

// NewDevice creates a device with default PNG compression and a white blank color.
func NewDevice(opts ...DeviceOption) *Device {
	d := &Device{
		compression: png.DefaultCompression,
		blank:       DefaultBlankColor,
		maxSize:     MaxTextureSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDevice = NewDevice()

// DefaultDevice returns the shared device with default settings.
func DefaultDevice() *Device { return defaultDevice }

// NewTexture allocates a readable texture. Dimensions are clamped to
// [1, max texture size] and unsupported formats fall back to BlankFormat. A negative mipCount
// allocates the full chain; zero allocates the base level only.
func (d *Device) NewTexture(width, height int, format Format, mipCount int, linear bool) *Texture {
	width, height = d.clampSize(width, height)
	return newTexture(width, height, format, mipCount, linear)
}

// NewBlankTexture allocates a texture with default settings (BlankFormat,
// full mip chain, sRGB) filled with the device's blank color.
func (d *Device) NewBlankTexture(width, height int) *Texture {
	width, height = d.clampSize(width, height)
	t := newTexture(width, height, BlankFormat, -1, false)
	t.fill(d.blank)
	return t
}

// NewTextureFromImage allocates a texture sized to img, copies its pixels
// and builds the mip chain.
func (d *Device) NewTextureFromImage(img image.Image, format Format, mipCount int, linear bool) *Texture {
	b := img.Bounds()
	width, height := d.clampSize(b.Dx(), b.Dy())
	t := newTexture(width, height, format, mipCount, linear)
	// freshly allocated textures are readable
	_ = t.SetPixels(img)
	t.Apply(true, false)
	return t
}

// CopyTexture copies every mip level of src into dst on the device side.
// Readability of either texture does not matter. Sizes and formats must
// match; levels dst has beyond src are regenerated.
func (d *Device) CopyTexture(src, dst *Texture) error {
	if src == nil || dst == nil {
		return ErrNilTexture
	}
	if src.released || dst.released {
		return ErrReleased
	}
	if src.width != dst.width || src.height != dst.height {
		return errors.Wrapf(ErrSizeMismatch, "%dx%d into %dx%d", src.width, src.height, dst.width, dst.height)
	}
	if src.format != dst.format {
		return errors.Wrapf(ErrFormatMismatch, "%s into %s", src.format, dst.format)
	}
	n := min(len(src.levels), len(dst.levels))
	for i := 0; i < n; i++ {
		copy(dst.levels[i].Pix, src.levels[i].Pix)
	}
	if len(dst.levels) > n {
		dst.generateMips()
	}
	return nil
}

// EncodePNG encodes the base level of a readable texture.
func (d *Device) EncodePNG(t *Texture) ([]byte, error) {
	if t == nil {
		return nil, ErrNilTexture
	}
	if err := t.checkReadable(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(t.levels[0].Pix) / 4)

	enc := &png.Encoder{CompressionLevel: d.compression}
	if err := enc.Encode(&buf, t.levels[0]); err != nil {
		return nil, errors.Wrap(err, "graphics: encode png")
	}
	return buf.Bytes(), nil
}

// LoadImage decodes PNG data into t. The texture is resized to the image
// dimensions and keeps its format; the level count is kept where the new
// size allows. Call Apply to rebuild the mip chain.
func (d *Device) LoadImage(t *Texture, data []byte) error {
	if t == nil {
		return ErrNilTexture
	}
	if err := t.checkReadable(); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyImage
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "graphics: decode png")
	}
	if limit := d.limit(); cfg.Width > limit || cfg.Height > limit {
		return errors.Wrapf(ErrImageTooLarge, "%dx%d above %d", cfg.Width, cfg.Height, limit)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "graphics: decode png")
	}
	b := img.Bounds()
	t.resize(b.Dx(), b.Dy())
	return t.SetPixels(img)
}

// NewSprite wraps a texture region. rect is in pixels; pivot is in pixels
// relative to the rect origin.
func (d *Device) NewSprite(t *Texture, rect Rect, pivot Vec2) *Sprite {
	return &Sprite{texture: t, rect: rect, pivot: pivot}
}

func (d *Device) limit() int {
	if d.maxSize < 1 {
		return MaxTextureSize
	}
	return d.maxSize
}

func (d *Device) clampSize(width, height int) (int, int) {
	limit := d.limit()
	return clampDimension(width, limit), clampDimension(height, limit)
}
