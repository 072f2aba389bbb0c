// Package pipeline sequences one mold run: payload parsing, contour
// sampling, lofting, stitching, solidification, feature cutters, stats and
// export. One invocation handles one payload with no state shared between
// runs.
package pipeline

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/banshee-data/moldforge/internal/config"
	"github.com/banshee-data/moldforge/internal/geom"
)

// Payload is a parsed run request. JobID is always populated: a UUID is
// generated when the caller sent none.
type Payload struct {
	Beardline   geom.Polyline
	Neckline    geom.Polyline
	HoleCenters []geom.Point3
	Params      *config.Params
	JobID       string
	Overlay     string
}

// rawPayload accepts both the current field names and their legacy
// aliases. When both a field and its alias are present the current name
// wins.
type rawPayload struct {
	Beardline   []geom.Point3   `json:"beardline"`
	Vertices    []geom.Point3   `json:"vertices"` // legacy alias for beardline
	Neckline    []geom.Point3   `json:"neckline"`
	HoleCenters []geom.Point3   `json:"holeCenters"`
	Holes       []geom.Point3   `json:"holes"` // legacy alias for holeCenters
	Params      json.RawMessage `json:"params"`
	JobID       string          `json:"jobID"`
	JobIDSnake  string          `json:"job_id"` // legacy alias for jobID
	Overlay     string          `json:"overlay"`
}

// ParsePayload decodes and validates a run request. It fails with
// InvalidInputError on malformed JSON, an absent or empty beardline, or
// parameter values that do not validate.
func ParsePayload(data []byte) (*Payload, error) {
	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidInput("malformed payload JSON", err)
	}

	beardline := raw.Beardline
	if len(beardline) == 0 {
		beardline = raw.Vertices
	}
	if len(beardline) == 0 {
		return nil, invalidInput("beardline is missing or empty", nil)
	}

	holes := raw.HoleCenters
	if len(holes) == 0 {
		holes = raw.Holes
	}

	params, err := config.Parse(raw.Params)
	if err != nil {
		return nil, invalidInput("bad params", err)
	}

	jobID := raw.JobID
	if jobID == "" {
		jobID = raw.JobIDSnake
	}
	if jobID == "" {
		jobID = uuid.NewString()
	}

	return &Payload{
		Beardline:   geom.Polyline(beardline),
		Neckline:    geom.Polyline(raw.Neckline),
		HoleCenters: holes,
		Params:      params,
		JobID:       jobID,
		Overlay:     raw.Overlay,
	}, nil
}
