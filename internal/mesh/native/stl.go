package native

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"

	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
)

// stlHeaderText fills the fixed 80-byte binary STL header.
const stlHeaderText = "moldforge solid export"

// Export writes the solid to path as a binary STL with every coordinate
// multiplied by scale. Face normals are recomputed per triangle; attribute
// byte counts are zero. The file is exactly 84 + 50*triangles bytes.
func (k *Kernel) Export(s mesh.Solid, path string, scale float64) error {
	ns, err := own("export", s)
	if err != nil {
		return err
	}
	if len(ns.tris) == 0 {
		return mesh.OpErrorf("export", "empty solid")
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return mesh.OpErrorf("export", "invalid scale %g", scale)
	}

	f, err := os.Create(path)
	if err != nil {
		return mesh.OpError("export", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	var header [80]byte
	copy(header[:], stlHeaderText)
	if _, err := w.Write(header[:]); err != nil {
		return mesh.OpError("export", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ns.tris))); err != nil {
		return mesh.OpError("export", err)
	}

	put := func(p geom.Point3, mul float64) error {
		rec := [3]float32{float32(p.X * mul), float32(p.Y * mul), float32(p.Z * mul)}
		return binary.Write(w, binary.LittleEndian, rec)
	}
	for i := range ns.tris {
		t := ns.triangle(i)
		if err := put(t.Normal(), 1); err != nil {
			return mesh.OpError("export", err)
		}
		for _, v := range t {
			if err := put(v, scale); err != nil {
				return mesh.OpError("export", err)
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return mesh.OpError("export", err)
		}
	}
	if err := w.Flush(); err != nil {
		return mesh.OpError("export", err)
	}
	if err := f.Sync(); err != nil {
		return mesh.OpError("export", err)
	}
	return nil
}
