package mesh

// Cube corner offsets in (i, j, k) index space, matching the table
// orientation, and the corner pair each of the 12 edges connects.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Extract runs marching cubes over a dense row-major volume of the given
// shape and returns the triangle surface at the threshold level. Shared
// vertices are deduplicated by edge so the mesh is watertight. When the
// field never crosses the threshold there is no surface and the call
// fails with *ExtractionError.
func Extract(volume []float32, shape [3]int, threshold float32) (*Mesh, error) {
	h, w, t := shape[0], shape[1], shape[2]
	if h < 2 || w < 2 || t < 2 || len(volume) != h*w*t {
		return nil, &ExtractionError{Threshold: threshold, Shape: shape}
	}

	at := func(i, j, k int) float32 {
		return volume[(i*w+j)*t+k]
	}

	m := &Mesh{}
	// One vertex per crossed edge. The key packs the edge's lower corner
	// and its axis.
	vertexIndex := make(map[[4]int]int)

	var corner [8][3]int
	var value [8]float32
	for i := 0; i < h-1; i++ {
		for j := 0; j < w-1; j++ {
			for k := 0; k < t-1; k++ {
				cube := 0
				for c := 0; c < 8; c++ {
					o := cornerOffsets[c]
					corner[c] = [3]int{i + o[0], j + o[1], k + o[2]}
					value[c] = at(corner[c][0], corner[c][1], corner[c][2])
					if value[c] > threshold {
						cube |= 1 << c
					}
				}
				if edgeTable[cube] == 0 {
					continue
				}

				var edgeVertex [12]int
				for e := 0; e < 12; e++ {
					if edgeTable[cube]&(1<<e) == 0 {
						continue
					}
					a, b := edgeCorners[e][0], edgeCorners[e][1]
					key := edgeKey(corner[a], corner[b])
					if idx, ok := vertexIndex[key]; ok {
						edgeVertex[e] = idx
						continue
					}
					v := interpolate(corner[a], corner[b], value[a], value[b], threshold)
					vertexIndex[key] = len(m.Vertices)
					edgeVertex[e] = len(m.Vertices)
					m.Vertices = append(m.Vertices, v)
				}

				tri := triTable[cube]
				for e := 0; tri[e] != -1; e += 3 {
					m.Triangles = append(m.Triangles, Triangle{
						A: edgeVertex[tri[e]],
						B: edgeVertex[tri[e+1]],
						C: edgeVertex[tri[e+2]],
					})
				}
			}
		}
	}

	if len(m.Triangles) == 0 {
		return nil, &ExtractionError{Threshold: threshold, Shape: shape}
	}
	return m, nil
}

func edgeKey(a, b [3]int) [4]int {
	lo := a
	axis := 0
	for d := 0; d < 3; d++ {
		if a[d] != b[d] {
			axis = d
			if b[d] < a[d] {
				lo = b
			}
		}
	}
	return [4]int{lo[0], lo[1], lo[2], axis}
}

func interpolate(a, b [3]int, va, vb, threshold float32) Vertex {
	frac := float32(0.5)
	if vb != va {
		frac = (threshold - va) / (vb - va)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return Vertex{
		X: float32(a[0]) + frac*float32(b[0]-a[0]),
		Y: float32(a[1]) + frac*float32(b[1]-a[1]),
		Z: float32(a[2]) + frac*float32(b[2]-a[2]),
	}
}
