package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/UnknownOlympus/datasim/internal/models"
)

// Dataset shape. None of these are configurable.
const (
	RecordCount = 10000 // RecordCount is the number of records produced per run.
	BaseID      = 372   // BaseID is the identifier of the first record.
	GroupSize   = 200   // GroupSize is the number of records sharing a copy number.
	GroupStride = 10000 // GroupStride is the identifier distance between two groups.

	LabelFormat = "文本%d_copy%d"

	MinLatitude   = -90.0
	LatitudeSpan  = 180.0
	MinLongitude  = -180.0
	LongitudeSpan = 360.0
)

// Generator derives records from their position and samples their coordinates
// from a random source it owns exclusively.
type Generator struct {
	rnd *rand.Rand
}

// New creates a Generator drawing from src.
func New(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// NewSource returns a PCG source seeded once with seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// TimeSeed returns a wall-clock seed with second granularity.
// Two runs started within the same second produce the same coordinates.
func TimeSeed(now time.Time) uint64 {
	return uint64(now.Unix()) //nolint:gosec // pre-1970 clocks are not a concern
}

// ID returns the identifier of the record at index i.
func ID(i int) int {
	return BaseID + i%GroupSize + (i/GroupSize)*GroupStride
}

// Label returns the label of the record at index i.
func Label(i int) string {
	return fmt.Sprintf(LabelFormat, i%GroupSize+1, i/GroupSize)
}

// Latitude samples a latitude uniformly from [-90, 90).
func (g *Generator) Latitude() float64 {
	return g.rnd.Float64()*LatitudeSpan + MinLatitude
}

// Longitude samples a longitude uniformly from [-180, 180).
func (g *Generator) Longitude() float64 {
	return g.rnd.Float64()*LongitudeSpan + MinLongitude
}

// Record builds the record at index i. Latitude is drawn before longitude.
func (g *Generator) Record(i int) models.Record {
	lat := g.Latitude()
	lon := g.Longitude()

	return models.Record{
		ID:     ID(i),
		Label:  Label(i),
		Coords: models.Coordinates{Latitude: lat, Longitude: lon},
	}
}

// Each builds records 0..count-1 in order and hands each one to fn.
// It stops at the first error returned by fn.
func (g *Generator) Each(count int, fn func(models.Record) error) error {
	for i := range count {
		if err := fn(g.Record(i)); err != nil {
			return err
		}
	}

	return nil
}
