package graphics

// Rect is a float rectangle in texture pixel space.
type Rect struct {
	X      float32 `yaml:"x" json:"x"`
	Y      float32 `yaml:"y" json:"y"`
	Width  float32 `yaml:"width" json:"width"`
	Height float32 `yaml:"height" json:"height"`
}

// Vec2 is a 2D float vector.
type Vec2 struct {
	X float32 `yaml:"x" json:"x"`
	Y float32 `yaml:"y" json:"y"`
}

// Sprite is a rectangular region of a texture with a pivot point.
type Sprite struct {
	texture *Texture
	rect    Rect
	pivot   Vec2
}

// Texture returns the texture the sprite draws from.
func (s *Sprite) Texture() *Texture { return s.texture }

func (s *Sprite) Rect() Rect  { return s.rect }
func (s *Sprite) Pivot() Vec2 { return s.pivot }
