package renderer

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

const floatsPerVertex = 6

// Mesh is an indexed triangle list with a color per vertex.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Colors    []mgl32.Vec3
	Indices   []uint32
}

// NewCube returns a cube of the given edge length centered on the origin,
// each corner in its own color.
func NewCube(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Name: "cube",
		Positions: []mgl32.Vec3{
			{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
			{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		},
		Colors: []mgl32.Vec3{
			colorToVec(color.RGBA{255, 0, 0, 255}),
			colorToVec(color.RGBA{0, 255, 0, 255}),
			colorToVec(color.RGBA{0, 0, 255, 255}),
			colorToVec(color.RGBA{255, 255, 0, 255}),
			colorToVec(color.RGBA{255, 0, 255, 255}),
			colorToVec(color.RGBA{0, 255, 255, 255}),
			colorToVec(color.White),
			colorToVec(color.RGBA{51, 153, 255, 255}),
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // back
			4, 5, 6, 4, 6, 7, // front
			0, 1, 5, 0, 5, 4, // bottom
			3, 7, 6, 3, 6, 2, // top
			0, 4, 7, 0, 7, 3, // left
			1, 2, 6, 1, 6, 5, // right
		},
	}
}

// interleave packs position and color into one float slice, position first.
// Vertices without a color get white.
func interleave(m *Mesh) []float32 {
	dst := make([]float32, 0, len(m.Positions)*floatsPerVertex)
	for i, p := range m.Positions {
		c := mgl32.Vec3{1, 1, 1}
		if i < len(m.Colors) {
			c = m.Colors[i]
		}
		dst = append(dst, p[0], p[1], p[2], c[0], c[1], c[2])
	}
	return dst
}

// valid reports whether every index points at a vertex.
func (m *Mesh) valid() bool {
	if m == nil || len(m.Positions) == 0 || len(m.Indices)%3 != 0 {
		return false
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Positions) {
			return false
		}
	}
	return true
}

func colorToVec(c color.Color) mgl32.Vec3 {
	if c == nil {
		return mgl32.Vec3{}
	}
	r, g, b, _ := c.RGBA()
	const inv = 1.0 / 65535.0
	return mgl32.Vec3{
		float32(r) * inv,
		float32(g) * inv,
		float32(b) * inv,
	}
}
