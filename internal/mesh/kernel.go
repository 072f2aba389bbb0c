package mesh

import (
	"fmt"

	"github.com/banshee-data/moldforge/internal/geom"
)

// Solid is an opaque watertight mesh owned by a Kernel. The pipeline never
// inspects its topology beyond vertex positions and bounding extent.
type Solid interface {
	// Vertices returns the solid's vertex positions in model space.
	Vertices() []geom.Point3
	// NumTriangles returns the current triangle count.
	NumTriangles() int
	// Bounds returns the axis-aligned bounding box.
	Bounds() (min, max geom.Point3)
}

// Kernel is the mesh-processing capability the pipeline delegates to for
// cleanup, boolean edits, remeshing and export. Every operation is fallible
// and callers must tolerate individual failures: a failed boolean on one
// cutter never aborts a run.
type Kernel interface {
	// BuildSolid constructs a solid from a triangle list with vertex
	// deduplication.
	BuildSolid(tris []geom.Triangle) (Solid, error)
	// Weld merges vertices closer than tol and drops collapsed triangles.
	Weld(s Solid, tol float64) error
	// FillHoles caps every open boundary loop.
	FillHoles(s Solid) error
	// OrientNormals rewinds triangles so face normals are consistent and
	// outward.
	OrientNormals(s Solid) error
	// TriangulatePolygon triangulates a closed 3D loop.
	TriangulatePolygon(loop []geom.Point3) ([]geom.Triangle, error)
	// Union merges the cutter into the target in place.
	Union(target, cutter Solid) error
	// Difference subtracts the cutter from the target in place.
	Difference(target, cutter Solid) error
	// Remesh resamples the solid onto a uniform voxel grid of the given
	// resolution. Lossy; used to regularise topology after boolean edits.
	Remesh(s Solid, voxelSize float64) error
	// Export writes the solid to path as a binary STL, scaling every
	// coordinate by scale.
	Export(s Solid, path string, scale float64) error
	// Box returns an axis-aligned rectangular prism solid.
	Box(min, max geom.Point3) (Solid, error)
	// Cylinder returns a Z-axis cylinder solid centred on center.
	Cylinder(center geom.Point3, radius, height float64, segments int) (Solid, error)
}

// KernelOperationError wraps a failed kernel operation with the operation
// name, so best-effort skips stay distinguishable in logs from fatal input
// errors.
type KernelOperationError struct {
	Op  string
	Err error
}

func (e *KernelOperationError) Error() string {
	return fmt.Sprintf("mesh kernel %s: %v", e.Op, e.Err)
}

func (e *KernelOperationError) Unwrap() error { return e.Err }

// OpError is a convenience constructor for KernelOperationError.
func OpError(op string, err error) *KernelOperationError {
	return &KernelOperationError{Op: op, Err: err}
}

// OpErrorf builds a KernelOperationError from a format string.
func OpErrorf(op, format string, args ...interface{}) *KernelOperationError {
	return &KernelOperationError{Op: op, Err: fmt.Errorf(format, args...)}
}
