package assessment

import (
	"math"
	"time"

	"github.com/placementprep/interview-backend/internal/entity"
)

// Final score weights. Components are kept as floats and rounded only once,
// at the final aggregate.
const (
	weightPreliminary    = 0.2
	weightCoding         = 0.5
	weightCodeQuality    = 0.2
	weightTimeManagement = 0.1
)

// codingScore is the mean of the per-solution scores, 0 when nothing was
// submitted.
func codingScore(solutions []entity.UserSolution) float64 {
	if len(solutions) == 0 {
		return 0
	}

	var sum float64
	for _, solution := range solutions {
		sum += solution.Score
	}
	return sum / float64(len(solutions))
}

// codeQualityScore is the mean quality rating (0-10) scaled to 0-100.
func codeQualityScore(solutions []entity.UserSolution) float64 {
	if len(solutions) == 0 {
		return 0
	}

	var sum float64
	for _, solution := range solutions {
		sum += solution.Analysis.QualityRating
	}
	return sum / float64(len(solutions)) * 10
}

// timeManagementScore rewards finishing the coding phase within the limit:
// 100 inside the limit, then a linear penalty proportional to the overrun.
// Missing timestamps yield a perfect score rather than a penalty.
func timeManagementScore(codingStartedAt, endedAt *time.Time, limitSeconds int64) float64 {
	if codingStartedAt == nil || endedAt == nil || limitSeconds <= 0 {
		return 100
	}

	actual := endedAt.Sub(*codingStartedAt).Seconds()
	limit := float64(limitSeconds)
	if actual <= limit {
		return 100
	}

	penalty := (actual - limit) / limit * 100
	return math.Max(0, 100-penalty)
}

// finalScore aggregates the four weighted components into a 0-100 integer.
func finalScore(b entity.ScoreBreakdown) int {
	total := b.PreliminaryScore*weightPreliminary +
		b.CodingScore*weightCoding +
		b.CodeQualityScore*weightCodeQuality +
		b.TimeManagementScore*weightTimeManagement
	return int(math.Round(total))
}
