// Package units provides shared constants and validation for output units
package units

// Unit constants
const (
	MM = "mm"
	CM = "cm"
	M  = "m"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MM, CM, M}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mm, cm, m"
}

// Scale converts metre-based model coordinates to the target unit.
// Geometry is built in metres; export multiplies by this factor.
func Scale(targetUnits string) float64 {
	switch targetUnits {
	case MM:
		return 1000
	case CM:
		return 100
	case M:
		return 1
	default:
		return 1 // default to metres if unknown unit
	}
}
