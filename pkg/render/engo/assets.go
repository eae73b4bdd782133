// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"math"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-rope/pkg/render"
)

// SpriteSize is the edge length in pixels of the generated particle sprites
const SpriteSize = 32

// Role colors shared by sprites and segment rectangles
var (
	ColorFree    = color.NRGBA{R: 90, G: 150, B: 255, A: 255}
	ColorAnchor  = color.NRGBA{R: 255, G: 210, B: 60, A: 255}
	ColorTail    = color.NRGBA{R: 255, G: 80, B: 70, A: 255}
	ColorHeld    = color.NRGBA{R: 90, G: 230, B: 120, A: 255}
	ColorSegment = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	ColorGround  = color.NRGBA{R: 60, G: 110, B: 60, A: 255}
	ColorSky     = color.NRGBA{R: 18, G: 20, B: 28, A: 255}
)

// AssetManager generates the particle sprites. There are no image files;
// every texture is drawn procedurally.
type AssetManager struct {
	images   map[render.Role]*image.NRGBA
	textures map[render.Role]common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		images:   make(map[render.Role]*image.NRGBA),
		textures: make(map[render.Role]common.Drawable),
	}
}

// GenerateImages draws the sprite image for every particle role. It needs
// no graphics context.
func (am *AssetManager) GenerateImages() {
	am.images[render.RoleFree] = DiskImage(SpriteSize, ColorFree, 0)
	am.images[render.RoleTail] = DiskImage(SpriteSize, ColorTail, 0)
	am.images[render.RoleHeld] = DiskImage(SpriteSize, ColorHeld, 0)
	// The anchor is drawn as a ring so it reads as a fixed pivot
	am.images[render.RoleAnchor] = DiskImage(SpriteSize, ColorAnchor, SpriteSize/4)
}

// LoadAssets generates the images and uploads them as textures. It must run
// after the window is open.
func (am *AssetManager) LoadAssets() error {
	am.GenerateImages()
	for role, img := range am.images {
		am.textures[role] = common.NewTextureSingle(common.NewImageObject(img))
	}
	return nil
}

// Image returns the generated image for a role, falling back to the free
// particle image
func (am *AssetManager) Image(role render.Role) *image.NRGBA {
	if img, exists := am.images[role]; exists {
		return img
	}
	return am.images[render.RoleFree]
}

// GetParticleSprite returns the texture for a role, falling back to the
// free particle texture
func (am *AssetManager) GetParticleSprite(role render.Role) common.Drawable {
	if sprite, exists := am.textures[role]; exists {
		return sprite
	}
	return am.textures[render.RoleFree]
}

// DiskImage draws a filled disk of the given color on a transparent square
// of side size. A positive hole leaves a transparent center of that radius.
// Edge pixels are blended for a smooth outline.
func DiskImage(size int, c color.NRGBA, hole int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	outer := center - 0.5
	inner := float64(hole)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			d2 := dx*dx + dy*dy

			coverage := edgeCoverage(d2, outer)
			if hole > 0 {
				coverage *= 1 - edgeCoverage(d2, inner)
			}
			if coverage <= 0 {
				continue
			}
			px := c
			px.A = uint8(float64(c.A) * coverage)
			img.SetNRGBA(x, y, px)
		}
	}

	return img
}

// edgeCoverage is 1 inside radius r, 0 outside r+1 and linear between
func edgeCoverage(d2, r float64) float64 {
	switch {
	case d2 <= r*r:
		return 1
	case d2 >= (r+1)*(r+1):
		return 0
	}
	return r + 1 - math.Sqrt(d2)
}
