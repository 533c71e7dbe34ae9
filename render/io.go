package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamiedonnelly-px/manifold"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]manifold.Triangle, error) {
	var err error
	var nt int
	result := make([]manifold.Triangle, 0, 1<<12)
	buf := make([]manifold.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		if err != nil {
			break
		}
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// Format is a mesh file format.
type Format int

const (
	FormatUnknown Format = iota
	// FormatSTL is binary STL on write. Reading accepts ASCII as well.
	FormatSTL
	FormatASCIISTL
	FormatOBJ
)

var ErrUnknownFormat = errors.New("unknown mesh file format")

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatASCIISTL:
		return "ascii stl"
	case FormatOBJ:
		return "obj"
	}
	return "unknown"
}

// FormatFromPath guesses the format of a mesh file from its extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL
	case ".obj":
		return FormatOBJ
	}
	return FormatUnknown
}

// ReadMesh reads an indexed mesh. STL triangle soups are welded with
// manifold.FromTriangles. Normals that disagree with the vertex winding
// are tolerated.
func ReadMesh(r io.Reader, format Format) (manifold.Mesh, error) {
	switch format {
	case FormatSTL, FormatASCIISTL:
		tris, err := ReadSTL(r)
		if err != nil && !errors.Is(err, ErrNormalMismatch) {
			return manifold.Mesh{}, err
		}
		return manifold.FromTriangles(tris, 0)
	case FormatOBJ:
		return ReadOBJ(r)
	}
	return manifold.Mesh{}, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}

// WriteMesh writes m to w in the given format.
func WriteMesh(w io.Writer, m manifold.Mesh, format Format) error {
	switch format {
	case FormatSTL:
		return WriteSTL(w, m.Triangles())
	case FormatASCIISTL:
		return WriteASCIISTL(w, "mesh", m.Triangles())
	case FormatOBJ:
		return WriteOBJ(w, m)
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}

// LoadMesh reads the mesh file at path, choosing the format by extension.
func LoadMesh(path string) (manifold.Mesh, error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return manifold.Mesh{}, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
	fp, err := os.Open(path)
	if err != nil {
		return manifold.Mesh{}, err
	}
	defer fp.Close()
	m, err := ReadMesh(fp, format)
	if err != nil {
		return manifold.Mesh{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

// SaveMesh writes m to path, choosing the format by extension. Binary STL
// is streamed with CreateSTL.
func SaveMesh(path string, m manifold.Mesh) error {
	switch FormatFromPath(path) {
	case FormatSTL:
		return CreateSTL(path, NewMeshRenderer(m))
	case FormatOBJ:
		fp, err := os.Create(path)
		if err != nil {
			return err
		}
		if err = WriteOBJ(fp, m); err != nil {
			fp.Close()
			return err
		}
		return fp.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}
