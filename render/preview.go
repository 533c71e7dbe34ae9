package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/jamiedonnelly-px/manifold"
	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera and output of Preview.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// vertical field of view in degrees
	Fovy float64
	// output width and height in pixels
	Width, Height int
	// Supersampling factor, clamped to [1, 4].
	Scale int
	// Object and background colors as hex strings.
	Color, Background string
}

// DefaultView returns an isometric view of the mesh fitted to the bi-unit cube.
func DefaultView() View {
	return View{
		Up:         r3.Vec{Z: 1},
		Eye:        d3.Elem(2.4), // iso view.
		Near:       1,
		Far:        10,
		Fovy:       30,
		Width:      640,
		Height:     480,
		Scale:      2,
		Color:      "#468966",
		Background: "#FFF8E3",
	}
}

// Preview renders m with a Phong shader. The mesh is first fitted in a
// bi-unit cube centered at the origin.
func Preview(m manifold.Mesh, view View) (image.Image, error) {
	if len(m.Faces) == 0 {
		return nil, manifold.ErrEmptyMesh
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := d3.Clamp(view.Scale, 1, 4)
	tris := make([]*fauxgl.Triangle, 0, len(m.Faces))
	for _, t := range m.Triangles() {
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t[0]), vec(t[1]), vec(t[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	var (
		eye    = vec(view.Eye)
		center = vec(view.LookAt)
		up     = vec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	img := context.Image()
	return resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear), nil
}

// SavePreview renders m and writes the result to a PNG file at path.
func SavePreview(path string, m manifold.Mesh, view View) error {
	img, err := Preview(m, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func vec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
