package planning

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeVelocity_Invariants_AverageWithinBounds property-tests
// min ≤ average ≤ max over random non-empty histories.
func TestComputeVelocity_Invariants_AverageWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 300; trial++ {
		n := rng.Intn(12) + 1
		sprints := make([]domain.Sprint, n)
		for i := range sprints {
			stories := rng.Intn(6)
			points := make([]float64, stories)
			for j := range points {
				points[j] = float64(rng.Intn(13)) + rng.Float64()
			}
			sprints[i] = sprintWithPoints(i, points...)
		}

		v, err := ComputeVelocity(sprints)
		require.NoError(t, err)

		assert.LessOrEqual(t, v.Min, v.Average, "trial %d: min %g > average %g", trial, v.Min, v.Average)
		assert.LessOrEqual(t, v.Average, v.Max, "trial %d: average %g > max %g", trial, v.Average, v.Max)
		assert.GreaterOrEqual(t, v.Min, 0.0, "trial %d", trial)
	}
}

// TestBuildBurnup_Invariants_SeriesOrdered checks the cumulative lines never
// cross: minimum ≤ average ≤ maximum at every sprint.
func TestBuildBurnup_Invariants_SeriesOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(8) + 1
		sprints := make([]domain.Sprint, n)
		for i := range sprints {
			sprints[i] = sprintWithPoints(i, float64(rng.Intn(30)))
		}

		b, err := BuildBurnup(nil, sprints, nil)
		require.NoError(t, err)
		require.Len(t, b.Sprints, n)
		for i, row := range b.Sprints {
			assert.LessOrEqual(t, row.Minimum, row.Average+1e-9, "trial %d sprint %d", trial, i)
			assert.LessOrEqual(t, row.Average, row.Maximum+1e-9, "trial %d sprint %d", trial, i)
		}
	}
}
