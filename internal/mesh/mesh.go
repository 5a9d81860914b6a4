// Package mesh extracts triangle isosurfaces from dense occupancy volumes
// with marching cubes and writes them as ASCII PLY files.
package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Vertex is a point in volume index space.
type Vertex struct {
	X, Y, Z float32
}

// Triangle indexes three vertices, counter-clockwise.
type Triangle struct {
	A, B, C int
}

// Mesh is an indexed triangle surface.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// ExtractionError reports that no isosurface crosses the volume at the
// requested threshold.
type ExtractionError struct {
	Threshold float32
	Shape     [3]int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("mesh: no isosurface at threshold %g in volume %v", e.Threshold, e.Shape)
}

// WritePLY writes the mesh as an ASCII PLY file.
func (m *Mesh) WritePLY(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat ascii 1.0\n")
	fmt.Fprintf(bw, "element vertex %d\n", len(m.Vertices))
	fmt.Fprintf(bw, "property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(bw, "element face %d\n", len(m.Triangles))
	fmt.Fprintf(bw, "property list uchar int vertex_indices\n")
	fmt.Fprintf(bw, "end_header\n")
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "%g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "3 %d %d %d\n", t.A, t.B, t.C)
	}
	return bw.Flush()
}

// SavePLY writes the mesh to a new file at path.
func (m *Mesh) SavePLY(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mesh: create %s: %w", path, err)
	}
	if err := m.WritePLY(f); err != nil {
		f.Close()
		return fmt.Errorf("mesh: write %s: %w", path, err)
	}
	return f.Close()
}
