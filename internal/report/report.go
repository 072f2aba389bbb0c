// Package report computes and persists the dimension/statistics sidecar
// for a finished mold solid. The sidecar is written before export so the
// numbers survive an export failure.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/moldforge/internal/config"
	"github.com/banshee-data/moldforge/internal/fsutil"
	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
)

// Vec3 is the JSON shape used for points and extents in the sidecar.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vec3Of(p geom.Point3) Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// BBox is the axis-aligned bounding box in model space (metres).
type BBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Stats is the sidecar record written next to the exported solid.
type Stats struct {
	Tris       int            `json:"tris"`
	Verts      int            `json:"verts"`
	BBoxM      BBox           `json:"bbox_m"`
	DimM       Vec3           `json:"dim_m"`
	DimMM      Vec3           `json:"dim_mm"`
	ThicknessM float64        `json:"thickness_m"`
	Params     *config.Params `json:"params"`
}

// Collect measures the solid and assembles the sidecar record. thickness is
// the solidification depth magnitude in metres.
func Collect(s mesh.Solid, thickness float64, params *config.Params) *Stats {
	bmin, bmax := s.Bounds()
	dim := geom.Point3{X: bmax.X - bmin.X, Y: bmax.Y - bmin.Y, Z: bmax.Z - bmin.Z}

	return &Stats{
		Tris:       s.NumTriangles(),
		Verts:      len(s.Vertices()),
		BBoxM:      BBox{Min: vec3Of(bmin), Max: vec3Of(bmax)},
		DimM:       vec3Of(dim),
		DimMM:      Vec3{X: dim.X * 1000, Y: dim.Y * 1000, Z: dim.Z * 1000},
		ThicknessM: thickness,
		Params:     params,
	}
}

// SidecarPath returns the stats file path for the given output path.
func SidecarPath(outputPath string) string {
	return outputPath + ".stats.json"
}

// Write persists the stats as indented JSON next to outputPath.
func Write(fs fsutil.FileSystem, outputPath string, stats *Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	data = append(data, '\n')

	path := SidecarPath(outputPath)
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file %s: %w", path, err)
	}
	return nil
}
