// Package texrecord holds a texture in a form a scene or prefab serializer
// can store: size, pixel format, mip count, a linear flag and a base64 PNG
// payload. The runtime texture and a sprite over it are rebuilt lazily from
// those fields and cached until a new texture is assigned.
//
// A Record is not safe for concurrent use.
package texrecord

import (
	"encoding/base64"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/texturedata/pkg/graphics"
)

// ErrEmptyPayload is reported when the payload decodes to no bytes.
var ErrEmptyPayload = errors.New("texrecord: payload holds no image data")

// Record is a serializable texture. The zero value is usable but has a zero
// size; New returns the documented defaults.
type Record struct {
	size     Size
	format   graphics.Format
	mipCount int
	linear   bool
	pngData  *string

	cache         cache
	lastDecodeErr error

	host    Host
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Record.
type Option func(*Record)

// WithHost sets the graphics host. Defaults to graphics.DefaultDevice().
func WithHost(h Host) Option {
	return func(r *Record) { r.host = h }
}

// WithLogger sets the logger for decode and assignment failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Record) { r.logger = l }
}

// WithMetrics sets the counters the record reports to.
func WithMetrics(m *Metrics) Option {
	return func(r *Record) { r.metrics = m }
}

// New creates an empty record of size 1x1 in the default format.
func New(opts ...Option) *Record {
	r := &Record{
		size:   Size{X: 1, Y: 1},
		format: graphics.DefaultFormat,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clone copies the persisted fields of src, materializing its payload first.
// The copy shares src's host, logger and metrics unless opts override them.
// A nil src yields a default record.
func Clone(src *Record, opts ...Option) *Record {
	r := New()
	if src != nil {
		payload := src.EncodedPayload()
		r.size = src.size
		r.format = src.format
		r.mipCount = src.mipCount
		r.linear = src.linear
		r.pngData = &payload
		r.host = src.host
		r.logger = src.logger
		r.metrics = src.metrics
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromFields builds a record from raw field values. Nothing is checked
// against the payload; a payload that disagrees with size or format shows up
// as a blank texture on first access.
func FromFields(size Size, format graphics.Format, mipCount int, linear bool, pngData string, opts ...Option) *Record {
	return FromData(Data{
		Size:          size,
		TextureFormat: format,
		MipCount:      mipCount,
		Linear:        linear,
		PNGData:       &pngData,
	}, opts...)
}

// FromData builds a record from persisted fields, trusting them as FromFields does.
func FromData(d Data, opts ...Option) *Record {
	r := New(opts...)
	r.restore(d)
	return r
}

// FromTexture builds a record and assigns tex to it.
func FromTexture(tex *graphics.Texture, opts ...Option) *Record {
	r := New(opts...)
	r.SetTexture(tex)
	return r
}

// FromSprite builds a record and assigns the sprite's texture to it.
func FromSprite(sprite *graphics.Sprite, opts ...Option) *Record {
	r := New(opts...)
	r.SetSprite(sprite)
	return r
}

func (r *Record) Size() Size              { return r.size }
func (r *Record) Format() graphics.Format { return r.format }
func (r *Record) MipCount() int           { return r.mipCount }
func (r *Record) Linear() bool            { return r.linear }

// Ownership reports where the cached texture came from.
func (r *Record) Ownership() Ownership { return r.cache.ownership }

// LastDecodeError returns the error from the most recent payload decode, or
// nil if it succeeded or none has happened since the last assignment.
func (r *Record) LastDecodeError() error { return r.lastDecodeErr }

// EncodedPayload returns the base64 PNG payload. An unset or empty payload
// is replaced by a blank image of the record's size first, so the result is
// always a decodable PNG unless the host fails to encode one.
func (r *Record) EncodedPayload() string {
	if r.pngData != nil && *r.pngData != "" {
		return *r.pngData
	}
	h := r.hostOrDefault()
	blank := h.NewBlankTexture(r.size.X, r.size.Y)
	defer blank.Release()

	data, err := h.EncodePNG(blank)
	if err != nil {
		r.log().Error("texrecord: encode blank payload", slog.String("error", err.Error()), "width", r.size.X, "height", r.size.Y)
		return ""
	}
	payload := base64.StdEncoding.EncodeToString(data)
	r.pngData = &payload
	r.metrics.recordEncode(sourceBlank)
	return payload
}

// Texture returns the runtime texture, decoding the payload on first use.
// It never returns nil: if the payload cannot be decoded the failure is
// logged, kept in LastDecodeError, and a blank texture of the record's size
// is cached instead.
func (r *Record) Texture() *graphics.Texture {
	if r.cache.texture != nil {
		return r.cache.texture
	}
	tex, err := r.decode()
	r.lastDecodeErr = err
	r.metrics.recordDecode(err)
	if err != nil {
		r.log().Error("texrecord: decode payload",
			slog.String("error", err.Error()),
			"width", r.size.X,
			"height", r.size.Y,
			"format", r.format.String(),
		)
		r.cache.store(r.hostOrDefault().NewBlankTexture(r.size.X, r.size.Y), OwnershipBlank)
		return r.cache.texture
	}
	r.cache.store(tex, OwnershipDecoded)
	return tex
}

// decode turns the payload into a texture laid out by the persisted fields.
func (r *Record) decode() (*graphics.Texture, error) {
	data, err := base64.StdEncoding.DecodeString(r.EncodedPayload())
	if err != nil {
		return nil, errors.Wrap(err, "texrecord: decode base64 payload")
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	h := r.hostOrDefault()
	tex := h.NewTexture(r.size.X, r.size.Y, r.format, r.mipCount, r.linear)
	if err := h.LoadImage(tex, data); err != nil {
		tex.Release()
		return nil, errors.Wrap(err, "texrecord: load payload image")
	}
	tex.Apply(true, false)
	return tex, nil
}

// SetTexture assigns a texture and regenerates every persisted field from
// it. A nil texture is ignored.
//
// A readable texture is adopted: the record keeps the caller's object and
// releases it in Release. A non-readable one is copied into a new readable
// texture first. If the copy fails the record is left unchanged.
func (r *Record) SetTexture(tex *graphics.Texture) {
	if tex == nil {
		return
	}
	linear := tex.FilterMode() != graphics.FilterPoint
	owned, ownership, err := r.adoptOrCopy(tex, linear)
	if err != nil {
		r.log().Error("texrecord: assign texture", slog.String("error", err.Error()), "width", tex.Width(), "height", tex.Height())
		r.metrics.recordAssignFailure(stageCopy)
		return
	}
	r.linear = linear
	r.recompute(owned, ownership)
}

func (r *Record) adoptOrCopy(src *graphics.Texture, linear bool) (*graphics.Texture, Ownership, error) {
	if src.IsReadable() {
		return src, OwnershipAdopted, nil
	}
	h := r.hostOrDefault()
	dst := h.NewTexture(src.Width(), src.Height(), src.Format(), src.MipCount(), linear)
	dst.SetFilterMode(src.FilterMode())
	if err := h.CopyTexture(src, dst); err != nil {
		dst.Release()
		return nil, OwnershipNone, errors.Wrap(err, "texrecord: copy non-readable texture")
	}
	r.metrics.recordCopy()
	return dst, OwnershipCopied, nil
}

// recompute installs tex as the cached texture and derives the persisted
// fields from it. It is the only place assignment mutates the record.
func (r *Record) recompute(tex *graphics.Texture, ownership Ownership) {
	r.cache.invalidate()
	r.cache.store(tex, ownership)
	r.lastDecodeErr = nil

	r.size = Size{X: tex.Width(), Y: tex.Height()}
	r.format = tex.Format()
	r.mipCount = tex.MipCount()

	data, err := r.hostOrDefault().EncodePNG(tex)
	if err != nil {
		r.pngData = nil
		r.log().Error("texrecord: encode assigned texture", slog.String("error", err.Error()), "width", r.size.X, "height", r.size.Y)
		r.metrics.recordAssignFailure(stageEncode)
		return
	}
	payload := base64.StdEncoding.EncodeToString(data)
	r.pngData = &payload
	r.metrics.recordEncode(sourceAssign)
}

// Sprite returns a sprite covering the whole texture with its pivot at the
// center, creating and caching it on first use.
func (r *Record) Sprite() *graphics.Sprite {
	if r.cache.sprite != nil {
		return r.cache.sprite
	}
	tex := r.Texture()
	w, h := float32(r.size.X), float32(r.size.Y)
	r.cache.sprite = r.hostOrDefault().NewSprite(tex,
		graphics.Rect{X: 0, Y: 0, Width: w, Height: h},
		graphics.Vec2{X: w * 0.5, Y: h * 0.5},
	)
	return r.cache.sprite
}

// SetSprite assigns the sprite's texture. The sprite itself is not kept; a
// nil sprite is ignored.
func (r *Record) SetSprite(sprite *graphics.Sprite) {
	if sprite == nil {
		return
	}
	r.SetTexture(sprite.Texture())
}

// Release frees the cached texture and sprite. Persisted fields are kept
// and the texture is rebuilt from the payload on next access.
func (r *Record) Release() {
	if r.cache.texture != nil {
		r.cache.texture.Release()
	}
	r.cache.reset()
	r.lastDecodeErr = nil
}

func (r *Record) hostOrDefault() Host {
	if r.host == nil {
		return graphics.DefaultDevice()
	}
	return r.host
}

func (r *Record) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}
