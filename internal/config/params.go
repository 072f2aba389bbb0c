// Package config holds the flat parameter record that tunes every stage of
// the mold pipeline. All fields are pure numeric/boolean knobs with no side
// effects beyond the stage they parameterise.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/moldforge/internal/units"
)

// Params is the pipeline parameter set. Every field is pointer-typed so a
// partial JSON payload is safe: fields omitted from the input retain their
// defaults via the Get* accessors.
type Params struct {
	// Contour sampling / loft params
	LipSegments *int     `json:"lipSegments,omitempty"`
	ArcSteps    *int     `json:"arcSteps,omitempty"`
	MinLipR     *float64 `json:"minLipRadius,omitempty"`
	MaxLipR     *float64 `json:"maxLipRadius,omitempty"`
	TaperMult   *float64 `json:"taperMult,omitempty"`
	ProfileBias *float64 `json:"profileBias,omitempty"`
	PreLift     *float64 `json:"preLift,omitempty"`
	SmoothPass  *int     `json:"smoothPasses,omitempty"`

	// Solidifier params
	ExtrudeDepth *float64 `json:"extrudeDepth,omitempty"`

	// Anchor rib params
	AnchorRibs *bool    `json:"anchorRibs,omitempty"`
	RibCount   *int     `json:"ribCount,omitempty"`
	RibWidth   *float64 `json:"ribWidth,omitempty"`
	RibLength  *float64 `json:"ribLength,omitempty"`
	RibHeight  *float64 `json:"ribHeight,omitempty"`
	RibDrop    *float64 `json:"ribDrop,omitempty"`

	// Hole params
	HoleRadius      *float64 `json:"holeRadius,omitempty"`
	HoleEmbedOffset *float64 `json:"holeEmbedOffset,omitempty"`
	HoleSegments    *int     `json:"holeSegments,omitempty"`

	// Remesh params
	VoxelSize *float64 `json:"voxelRemesh,omitempty"`

	// Export params
	STLScale *float64 `json:"stlScale,omitempty"`
	STLUnits *string  `json:"stlUnits,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// Empty returns a Params with all fields set to nil, so every accessor
// falls back to its default.
func Empty() *Params {
	return &Params{}
}

// Parse decodes a Params from raw JSON. Fields omitted from the JSON keep
// their default values, so partial parameter objects are safe.
func Parse(data []byte) (*Params, error) {
	p := Empty()
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse params JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	return p, nil
}

// Validate checks that the configured values are usable.
func (p *Params) Validate() error {
	if p.LipSegments != nil && *p.LipSegments < 2 {
		return fmt.Errorf("lipSegments must be at least 2, got %d", *p.LipSegments)
	}
	if p.ArcSteps != nil && *p.ArcSteps < 1 {
		return fmt.Errorf("arcSteps must be at least 1, got %d", *p.ArcSteps)
	}
	if p.MinLipR != nil && *p.MinLipR < 0 {
		return fmt.Errorf("minLipRadius must be non-negative, got %f", *p.MinLipR)
	}
	if p.MaxLipR != nil && p.MinLipR != nil && *p.MaxLipR < *p.MinLipR {
		return fmt.Errorf("maxLipRadius %f must not be below minLipRadius %f", *p.MaxLipR, *p.MinLipR)
	}
	if p.ProfileBias != nil && *p.ProfileBias <= 0 {
		return fmt.Errorf("profileBias must be positive, got %f", *p.ProfileBias)
	}
	if p.SmoothPass != nil && *p.SmoothPass < 0 {
		return fmt.Errorf("smoothPasses must be non-negative, got %d", *p.SmoothPass)
	}
	if p.ExtrudeDepth != nil && *p.ExtrudeDepth == 0 {
		return fmt.Errorf("extrudeDepth must be non-zero")
	}
	if p.RibCount != nil && *p.RibCount < 1 {
		return fmt.Errorf("ribCount must be at least 1, got %d", *p.RibCount)
	}
	if p.HoleRadius != nil && *p.HoleRadius <= 0 {
		return fmt.Errorf("holeRadius must be positive, got %f", *p.HoleRadius)
	}
	if p.HoleSegments != nil && *p.HoleSegments < 3 {
		return fmt.Errorf("holeSegments must be at least 3, got %d", *p.HoleSegments)
	}
	if p.VoxelSize != nil && *p.VoxelSize < 0 {
		return fmt.Errorf("voxelRemesh must be non-negative, got %f", *p.VoxelSize)
	}
	if p.STLScale != nil && *p.STLScale <= 0 {
		return fmt.Errorf("stlScale must be positive, got %f", *p.STLScale)
	}
	if p.STLUnits != nil && *p.STLUnits != "" && !units.IsValid(*p.STLUnits) {
		return fmt.Errorf("stlUnits must be one of %s, got %q", units.GetValidUnitsString(), *p.STLUnits)
	}
	return nil
}

// GetLipSegments returns the lipSegments value or the default.
func (p *Params) GetLipSegments() int {
	if p.LipSegments == nil {
		return 48
	}
	return *p.LipSegments
}

// GetArcSteps returns the arcSteps value or the default.
func (p *Params) GetArcSteps() int {
	if p.ArcSteps == nil {
		return 16
	}
	return *p.ArcSteps
}

// GetMinLipRadius returns the minLipRadius value or the default.
func (p *Params) GetMinLipRadius() float64 {
	if p.MinLipR == nil {
		return 0.002
	}
	return *p.MinLipR
}

// GetMaxLipRadius returns the maxLipRadius value or the default.
func (p *Params) GetMaxLipRadius() float64 {
	if p.MaxLipR == nil {
		return 0.006
	}
	return *p.MaxLipR
}

// GetTaperMult returns the taperMult value or the default.
func (p *Params) GetTaperMult() float64 {
	if p.TaperMult == nil {
		return 10.0
	}
	return *p.TaperMult
}

// GetProfileBias returns the profileBias value or the default.
func (p *Params) GetProfileBias() float64 {
	if p.ProfileBias == nil {
		return 1.6
	}
	return *p.ProfileBias
}

// GetPreLift returns the preLift value or the default.
func (p *Params) GetPreLift() float64 {
	if p.PreLift == nil {
		return 0.0005
	}
	return *p.PreLift
}

// GetSmoothPasses returns the smoothPasses value or the default.
func (p *Params) GetSmoothPasses() int {
	if p.SmoothPass == nil {
		return 2
	}
	return *p.SmoothPass
}

// GetExtrudeDepth returns the extrudeDepth value or the default. Negative
// means the shell grows downward along Z.
func (p *Params) GetExtrudeDepth() float64 {
	if p.ExtrudeDepth == nil {
		return -0.004
	}
	return *p.ExtrudeDepth
}

// GetAnchorRibs returns the anchorRibs value or the default.
func (p *Params) GetAnchorRibs() bool {
	if p.AnchorRibs == nil {
		return false // default: ribs disabled
	}
	return *p.AnchorRibs
}

// GetRibCount returns the ribCount value or the default.
func (p *Params) GetRibCount() int {
	if p.RibCount == nil {
		return 3
	}
	return *p.RibCount
}

// GetRibWidth returns the ribWidth value or the default.
func (p *Params) GetRibWidth() float64 {
	if p.RibWidth == nil {
		return 0.004
	}
	return *p.RibWidth
}

// GetRibLength returns the ribLength value or the default.
func (p *Params) GetRibLength() float64 {
	if p.RibLength == nil {
		return 0.02
	}
	return *p.RibLength
}

// GetRibHeight returns the ribHeight value or the default.
func (p *Params) GetRibHeight() float64 {
	if p.RibHeight == nil {
		return 0.003
	}
	return *p.RibHeight
}

// GetRibDrop returns the ribDrop value or the default.
func (p *Params) GetRibDrop() float64 {
	if p.RibDrop == nil {
		return 0.002
	}
	return *p.RibDrop
}

// GetHoleRadius returns the holeRadius value or the default.
func (p *Params) GetHoleRadius() float64 {
	if p.HoleRadius == nil {
		return 0.0015
	}
	return *p.HoleRadius
}

// GetHoleEmbedOffset returns the holeEmbedOffset value or the default.
func (p *Params) GetHoleEmbedOffset() float64 {
	if p.HoleEmbedOffset == nil {
		return 0.0005
	}
	return *p.HoleEmbedOffset
}

// GetHoleSegments returns the holeSegments value or the default.
func (p *Params) GetHoleSegments() int {
	if p.HoleSegments == nil {
		return 24
	}
	return *p.HoleSegments
}

// GetVoxelSize returns the voxelRemesh value or the default. Zero disables
// the remesh stage entirely.
func (p *Params) GetVoxelSize() float64 {
	if p.VoxelSize == nil {
		return 0 // default: remesh disabled
	}
	return *p.VoxelSize
}

// GetSTLUnits returns the stlUnits value or the default.
func (p *Params) GetSTLUnits() string {
	if p.STLUnits == nil || *p.STLUnits == "" {
		return units.MM
	}
	return *p.STLUnits
}

// GetSTLScale returns the stlScale value, or the scale implied by the
// configured units: 1000 for millimetres, 1 for metres.
func (p *Params) GetSTLScale() float64 {
	if p.STLScale != nil {
		return *p.STLScale
	}
	return units.Scale(p.GetSTLUnits())
}
