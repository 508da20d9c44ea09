package texrecord

import "github.com/ssargent/texturedata/pkg/graphics"

// cache holds the two derived views of a record. The sprite depends on the
// texture, so replacing the texture always invalidates the sprite.
type cache struct {
	texture   *graphics.Texture
	ownership Ownership
	sprite    *graphics.Sprite
}

func (c *cache) store(tex *graphics.Texture, ownership Ownership) {
	c.texture = tex
	c.ownership = ownership
}

// invalidate drops the sprite built over the current texture.
func (c *cache) invalidate() {
	c.sprite = nil
}

func (c *cache) reset() {
	c.texture = nil
	c.ownership = OwnershipNone
	c.sprite = nil
}
