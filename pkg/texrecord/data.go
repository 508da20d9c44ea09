package texrecord

import (
	"encoding/json"

	"github.com/ssargent/texturedata/pkg/graphics"
	"gopkg.in/yaml.v3"
)

// Size is an integer texture extent.
type Size struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Data is the persisted form of a Record: the five fields a host document
// stores. PNGData is standard base64 of a PNG stream, or nil when unset.
type Data struct {
	Size          Size            `yaml:"size" json:"size"`
	TextureFormat graphics.Format `yaml:"textureFormat" json:"textureFormat"`
	MipCount      int             `yaml:"mipCount" json:"mipCount"`
	Linear        bool            `yaml:"linear" json:"linear"`
	PNGData       *string         `yaml:"pngData" json:"pngData"`
}

func defaultData() Data {
	return Data{
		Size:          Size{X: 1, Y: 1},
		TextureFormat: graphics.DefaultFormat,
	}
}

// Data returns a snapshot of the persisted fields as they stand. It does not
// materialize the payload; call EncodedPayload first for that.
func (r *Record) Data() Data {
	d := Data{
		Size:          r.size,
		TextureFormat: r.format,
		MipCount:      r.mipCount,
		Linear:        r.linear,
	}
	if r.pngData != nil {
		payload := *r.pngData
		d.PNGData = &payload
	}
	return d
}

// restore replaces the persisted fields and drops every cached object.
func (r *Record) restore(d Data) {
	r.Release()
	r.size = d.Size
	r.format = d.TextureFormat
	r.mipCount = d.MipCount
	r.linear = d.Linear
	r.pngData = nil
	if d.PNGData != nil {
		payload := *d.PNGData
		r.pngData = &payload
	}
}

// MarshalYAML writes the persisted fields.
func (r Record) MarshalYAML() (interface{}, error) {
	return r.Data(), nil
}

// UnmarshalYAML replaces the persisted fields. Missing fields keep the
// defaults of a new record.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	d := defaultData()
	if err := value.Decode(&d); err != nil {
		return err
	}
	r.restore(d)
	return nil
}

// MarshalJSON writes the persisted fields.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data())
}

// UnmarshalJSON replaces the persisted fields.
func (r *Record) UnmarshalJSON(b []byte) error {
	d := defaultData()
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	r.restore(d)
	return nil
}
