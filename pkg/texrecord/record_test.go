package texrecord

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ssargent/texturedata/pkg/graphics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: 0x40, A: 0xff}
			if (x+y)%2 == 0 {
				c.A = 0x90
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newTexture(w, h int) *graphics.Texture {
	return graphics.DefaultDevice().NewTextureFromImage(checker(w, h), graphics.FormatRGBA32, 0, false)
}

func basePixels(t *testing.T, tex *graphics.Texture) []byte {
	t.Helper()
	img, err := tex.Pixels(0)
	require.NoError(t, err)
	return img.Pix
}

func decodePayload(t *testing.T, payload string) image.Config {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg
}

func TestNew_Defaults(t *testing.T) {
	r := New()

	assert.Equal(t, Size{X: 1, Y: 1}, r.Size())
	assert.Equal(t, graphics.FormatARGB32, r.Format())
	assert.Equal(t, 0, r.MipCount())
	assert.False(t, r.Linear())
	assert.Nil(t, r.Data().PNGData)
	assert.Equal(t, OwnershipNone, r.Ownership())
}

func TestEncodedPayload(t *testing.T) {
	t.Run("default record fills a 1x1 png", func(t *testing.T) {
		r := New()

		payload := r.EncodedPayload()
		require.NotEmpty(t, payload)

		cfg := decodePayload(t, payload)
		assert.Equal(t, 1, cfg.Width)
		assert.Equal(t, 1, cfg.Height)

		require.NotNil(t, r.Data().PNGData)
		assert.Equal(t, payload, *r.Data().PNGData)
	})

	t.Run("empty payload is replaced at record size", func(t *testing.T) {
		r := FromFields(Size{X: 4, Y: 2}, graphics.FormatRGBA32, 0, false, "")

		cfg := decodePayload(t, r.EncodedPayload())
		assert.Equal(t, 4, cfg.Width)
		assert.Equal(t, 2, cfg.Height)
	})

	t.Run("repeated reads return the same string", func(t *testing.T) {
		r := New()
		assert.Equal(t, r.EncodedPayload(), r.EncodedPayload())
	})

	t.Run("existing payload is returned as is", func(t *testing.T) {
		r := FromFields(Size{X: 1, Y: 1}, graphics.FormatRGBA32, 0, false, "abc")
		assert.Equal(t, "abc", r.EncodedPayload())
	})
}

func TestSetTexture_AdoptsReadable(t *testing.T) {
	tex := newTexture(16, 8)
	tex.SetFilterMode(graphics.FilterPoint)

	r := FromTexture(tex)

	assert.Same(t, tex, r.Texture())
	assert.Equal(t, OwnershipAdopted, r.Ownership())
	assert.Equal(t, Size{X: 16, Y: 8}, r.Size())
	assert.Equal(t, graphics.FormatRGBA32, r.Format())
	assert.Equal(t, tex.MipCount(), r.MipCount())
	assert.False(t, r.Linear())

	cfg := decodePayload(t, r.EncodedPayload())
	assert.Equal(t, 16, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestSetTexture_LinearFollowsFilter(t *testing.T) {
	for _, tc := range []struct {
		filter graphics.FilterMode
		linear bool
	}{
		{graphics.FilterPoint, false},
		{graphics.FilterBilinear, true},
		{graphics.FilterTrilinear, true},
	} {
		t.Run(tc.filter.String(), func(t *testing.T) {
			tex := newTexture(2, 2)
			tex.SetFilterMode(tc.filter)
			assert.Equal(t, tc.linear, FromTexture(tex).Linear())
		})
	}
}

func TestSetTexture_CopiesNonReadable(t *testing.T) {
	src := checker(8, 8)
	tex := graphics.DefaultDevice().NewTextureFromImage(src, graphics.FormatRGBA32, -1, false)
	tex.Apply(false, true)

	r := FromTexture(tex)

	got := r.Texture()
	assert.NotSame(t, tex, got)
	assert.True(t, got.IsReadable())
	assert.Equal(t, OwnershipCopied, r.Ownership())
	assert.Equal(t, tex.MipCount(), r.MipCount())
	assert.Equal(t, src.Pix, basePixels(t, got))
}

func TestSetTexture_RoundTripThroughPayload(t *testing.T) {
	tex := newTexture(12, 6)
	want := append([]byte(nil), basePixels(t, tex)...)

	r := FromTexture(tex)
	restored := FromData(r.Data())

	got := restored.Texture()
	require.NoError(t, restored.LastDecodeError())
	assert.Equal(t, OwnershipDecoded, restored.Ownership())
	assert.Equal(t, image.Pt(12, 6), got.Size())
	assert.Equal(t, want, basePixels(t, got))
}

func TestSetTexture_OverwritesPayload(t *testing.T) {
	r := FromFields(Size{X: 3, Y: 3}, graphics.FormatRGB24, 2, true, "stale")
	r.SetTexture(newTexture(5, 4))

	assert.NotEqual(t, "stale", r.EncodedPayload())
	assert.Equal(t, Size{X: 5, Y: 4}, r.Size())
	assert.Equal(t, graphics.FormatRGBA32, r.Format())
	assert.Equal(t, 1, r.MipCount())
}

func TestTexture_Idempotent(t *testing.T) {
	r := FromData(FromTexture(newTexture(4, 4)).Data())

	first := r.Texture()
	assert.Same(t, first, r.Texture())
	assert.Equal(t, r.EncodedPayload(), r.EncodedPayload())
	assert.Same(t, r.Sprite(), r.Sprite())
}

func TestTexture_CorruptPayloadFallsBack(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	r := FromFields(Size{X: 8, Y: 4}, graphics.FormatARGB32, 0, false, "not-valid-base64!!",
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithMetrics(m),
	)

	var tex *graphics.Texture
	require.NotPanics(t, func() { tex = r.Texture() })
	require.NotNil(t, tex)
	assert.Equal(t, image.Pt(8, 4), tex.Size())
	assert.Equal(t, OwnershipBlank, r.Ownership())
	assert.Error(t, r.LastDecodeError())
	assert.Contains(t, logs.String(), "decode payload")

	// the fallback is cached and the bad payload is left alone
	assert.Same(t, tex, r.Texture())
	assert.Equal(t, "not-valid-base64!!", r.EncodedPayload())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodesTotal.WithLabelValues(resultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacksTotal))
}

func TestTexture_NonPNGPayloadFallsBack(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("plain text"))
	r := FromFields(Size{X: 3, Y: 5}, graphics.FormatRGBA32, 0, false, payload)

	tex := r.Texture()
	assert.Equal(t, image.Pt(3, 5), tex.Size())
	assert.Equal(t, OwnershipBlank, r.Ownership())
	assert.Contains(t, r.LastDecodeError().Error(), "load payload image")
}

func TestTexture_DefaultRecordDecodesBlank(t *testing.T) {
	r := New()
	tex := r.Texture()

	assert.Equal(t, image.Pt(1, 1), tex.Size())
	assert.Equal(t, OwnershipDecoded, r.Ownership())
	assert.NoError(t, r.LastDecodeError())
	assert.Equal(t, graphics.FormatARGB32, tex.Format())
}

func TestSprite(t *testing.T) {
	t.Run("covers the texture with a centered pivot", func(t *testing.T) {
		r := FromTexture(newTexture(64, 128))
		s := r.Sprite()

		assert.Equal(t, graphics.Rect{X: 0, Y: 0, Width: 64, Height: 128}, s.Rect())
		assert.Equal(t, graphics.Vec2{X: 32, Y: 64}, s.Pivot())
		assert.Same(t, r.Texture(), s.Texture())
	})

	t.Run("is invalidated by a new texture", func(t *testing.T) {
		r := FromTexture(newTexture(4, 4))
		stale := r.Sprite()

		next := newTexture(6, 2)
		r.SetTexture(next)

		fresh := r.Sprite()
		assert.NotSame(t, stale, fresh)
		assert.Same(t, next, fresh.Texture())
		assert.Equal(t, graphics.Rect{Width: 6, Height: 2}, fresh.Rect())
	})
}

func TestSetSprite(t *testing.T) {
	tex := newTexture(10, 10)
	sprite := graphics.DefaultDevice().NewSprite(tex, graphics.Rect{Width: 5, Height: 5}, graphics.Vec2{})

	r := FromSprite(sprite)

	assert.Same(t, tex, r.Texture())
	assert.Equal(t, Size{X: 10, Y: 10}, r.Size())
	// the sprite is rebuilt from the texture, not retained
	assert.NotSame(t, sprite, r.Sprite())
	assert.Equal(t, graphics.Rect{Width: 10, Height: 10}, r.Sprite().Rect())
}

func TestSetters_IgnoreNil(t *testing.T) {
	r := FromTexture(newTexture(4, 4))
	tex := r.Texture()
	sprite := r.Sprite()
	before := r.Data()

	r.SetTexture(nil)
	r.SetSprite(nil)
	r.SetSprite(graphics.DefaultDevice().NewSprite(nil, graphics.Rect{}, graphics.Vec2{}))

	assert.Equal(t, before, r.Data())
	assert.Same(t, tex, r.Texture())
	assert.Same(t, sprite, r.Sprite())

	assert.Nil(t, FromTexture(nil).Data().PNGData)
	assert.Nil(t, FromSprite(nil).Data().PNGData)
}

func TestClone(t *testing.T) {
	t.Run("materializes the source payload", func(t *testing.T) {
		src := New()
		c := Clone(src)

		require.NotNil(t, src.Data().PNGData)
		assert.Equal(t, src.Data(), c.Data())
	})

	t.Run("copies are independent", func(t *testing.T) {
		src := FromTexture(newTexture(4, 4))
		c := Clone(src)
		src.SetTexture(newTexture(2, 2))

		assert.Equal(t, Size{X: 4, Y: 4}, c.Size())
		assert.NotEqual(t, src.EncodedPayload(), c.EncodedPayload())
	})

	t.Run("nil source", func(t *testing.T) {
		assert.Equal(t, New().Data(), Clone(nil).Data())
	})
}

func TestFromFields_TrustsCaller(t *testing.T) {
	// a 4x4 payload declared as 2x2: decoding follows the payload, the
	// record keeps the declared size
	payload := FromTexture(newTexture(4, 4)).EncodedPayload()
	r := FromFields(Size{X: 2, Y: 2}, graphics.FormatRGBA32, 0, true, payload)

	assert.Equal(t, image.Pt(4, 4), r.Texture().Size())
	assert.Equal(t, Size{X: 2, Y: 2}, r.Size())
	assert.True(t, r.Linear())
	assert.Equal(t, graphics.Rect{Width: 2, Height: 2}, r.Sprite().Rect())
}

func TestRelease(t *testing.T) {
	r := FromData(FromTexture(newTexture(4, 4)).Data())
	tex := r.Texture()
	r.Sprite()

	r.Release()

	assert.True(t, tex.Released())
	assert.Equal(t, OwnershipNone, r.Ownership())

	again := r.Texture()
	assert.NotSame(t, tex, again)
	assert.Equal(t, image.Pt(4, 4), again.Size())
}

func TestRecord_OversizedDeclaredSize(t *testing.T) {
	host := graphics.NewDevice(graphics.WithMaxTextureSize(4))
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	huge := Size{X: math.MaxInt32, Y: math.MaxInt32}

	t.Run("corrupt payload falls back to a clamped blank", func(t *testing.T) {
		r := FromFields(huge, graphics.FormatRGBA32, 0, false, "not-valid-base64!!", WithHost(host), WithLogger(logger))

		tex := r.Texture()
		require.NotNil(t, tex)
		assert.Error(t, r.LastDecodeError())
		assert.Equal(t, OwnershipBlank, r.Ownership())
		assert.Equal(t, image.Pt(4, 4), tex.Size())
		assert.Equal(t, huge, r.Size())
	})

	t.Run("blank payload fill is clamped", func(t *testing.T) {
		r := New(WithHost(host), WithLogger(logger))
		require.NoError(t, yaml.Unmarshal([]byte("size: {x: 2147483647, y: 2147483647}\n"), r))

		cfg := decodePayload(t, r.EncodedPayload())
		assert.Equal(t, 4, cfg.Width)
		assert.Equal(t, 4, cfg.Height)
	})

	t.Run("payload above the limit is rejected before decoding", func(t *testing.T) {
		payload := FromTexture(newTexture(8, 8)).EncodedPayload()
		r := FromFields(Size{X: 8, Y: 8}, graphics.FormatRGBA32, 0, false, payload, WithHost(host), WithLogger(logger))

		tex := r.Texture()
		assert.ErrorIs(t, r.LastDecodeError(), graphics.ErrImageTooLarge)
		assert.Equal(t, OwnershipBlank, r.Ownership())
		assert.Equal(t, image.Pt(4, 4), tex.Size())
	})
}

func TestRecord_DecodeFailureLogsOneLine(t *testing.T) {
	var logs bytes.Buffer
	r := FromFields(Size{X: 2, Y: 2}, graphics.FormatRGBA32, 0, false, "%%%",
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	r.Texture()
	require.Error(t, r.LastDecodeError())
	assert.Equal(t, 1, strings.Count(logs.String(), "\n"), logs.String())
	assert.Contains(t, logs.String(), "texrecord: decode base64 payload")
}

func TestZeroValueRecord(t *testing.T) {
	var r Record

	tex := r.Texture()
	assert.Equal(t, image.Pt(1, 1), tex.Size())
	assert.NotEmpty(t, r.EncodedPayload())
}

type failingHost struct {
	*graphics.Device
	copyErr   error
	encodeErr error
}

func (h failingHost) CopyTexture(src, dst *graphics.Texture) error {
	if h.copyErr != nil {
		return h.copyErr
	}
	return h.Device.CopyTexture(src, dst)
}

func (h failingHost) EncodePNG(t *graphics.Texture) ([]byte, error) {
	if h.encodeErr != nil {
		return nil, h.encodeErr
	}
	return h.Device.EncodePNG(t)
}

func TestSetTexture_HostFailures(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("copy failure leaves record unchanged", func(t *testing.T) {
		m := NewMetrics(nil, "")
		host := failingHost{Device: graphics.NewDevice(), copyErr: errors.New("device lost")}
		r := New(WithHost(host), WithLogger(logger), WithMetrics(m))
		before := r.Data()

		tex := newTexture(4, 4)
		tex.Apply(false, true)
		r.SetTexture(tex)

		assert.Equal(t, before, r.Data())
		assert.Equal(t, OwnershipNone, r.Ownership())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.assignFailuresTotal.WithLabelValues(stageCopy)))
	})

	t.Run("encode failure clears payload", func(t *testing.T) {
		m := NewMetrics(nil, "")
		host := failingHost{Device: graphics.NewDevice(), encodeErr: errors.New("codec unavailable")}
		r := FromFields(Size{X: 1, Y: 1}, graphics.FormatRGBA32, 0, false, "old", WithHost(host), WithLogger(logger), WithMetrics(m))

		tex := newTexture(4, 4)
		r.SetTexture(tex)

		assert.Nil(t, r.Data().PNGData)
		assert.Same(t, tex, r.Texture())
		assert.Equal(t, Size{X: 4, Y: 4}, r.Size())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.assignFailuresTotal.WithLabelValues(stageEncode)))

		// payload synthesis fails the same way and stays unset
		assert.Empty(t, r.EncodedPayload())
		assert.Nil(t, r.Data().PNGData)
	})
}

func TestMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "texrec")

	src := newTexture(4, 4)
	src.Apply(false, true)
	r := FromTexture(src, WithMetrics(m))
	FromData(r.Data(), WithMetrics(m)).Texture()
	New(WithMetrics(m)).EncodedPayload()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.copiesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.encodesTotal.WithLabelValues(sourceAssign)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.encodesTotal.WithLabelValues(sourceBlank)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decodesTotal.WithLabelValues(resultSuccess)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// nil metrics are a no-op
	var none *Metrics
	none.recordDecode(nil)
	none.recordEncode(sourceBlank)
	none.recordCopy()
	none.recordAssignFailure(stageCopy)
}

func TestOwnership_String(t *testing.T) {
	assert.Equal(t, "none", OwnershipNone.String())
	assert.Equal(t, "decoded", OwnershipDecoded.String())
	assert.Equal(t, "blank", OwnershipBlank.String())
	assert.Equal(t, "adopted", OwnershipAdopted.String())
	assert.Equal(t, "copied", OwnershipCopied.String())
	assert.Equal(t, "unknown", Ownership(42).String())
}
