package result

import (
	"math"

	"github.com/madrasahbd/natija/core"
)

// Distribution statuses
const (
	DistributionEmpty = "empty"
	DistributionUnder = "under"
	DistributionOver  = "over"
	DistributionEqual = "equal"
)

// Distribution is how a subject's max mark is split across its mark-types.
type Distribution struct {
	Status     string  `json:"status"`
	SubjectMax float64 `json:"subject_max"`
	Sum        float64 `json:"sum"`
	Difference float64 `json:"difference"`
}

// Valid reports whether the mark configs may be saved.
func (d Distribution) Valid() bool {
	return d.Status == DistributionEqual
}

// CheckDistribution compares the mark-type max marks entered so far to the subject's max mark.
// parts holds one max mark per entered mark-type.
func CheckDistribution(subjectMax float64, parts []float64) Distribution {
	d := Distribution{SubjectMax: subjectMax}
	if len(parts) == 0 {
		d.Status = DistributionEmpty
		d.Difference = core.Round2(math.Abs(subjectMax))
		return d
	}
	for _, p := range parts {
		d.Sum += p
	}
	d.Sum = core.Round2(d.Sum)
	want := core.Round2(subjectMax)
	d.Difference = core.Round2(math.Abs(want - d.Sum))
	switch {
	case d.Sum < want:
		d.Status = DistributionUnder
	case d.Sum > want:
		d.Status = DistributionOver
	default:
		d.Status = DistributionEqual
	}
	return d
}
