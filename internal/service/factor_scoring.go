package service

import (
	"math"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// factorCoverage is the minimum share of a factor's mapped items that must be
// answered before a composite value is reported. A confident average from too
// few points would mislead both staff and the generator prompt.
const factorCoverage = 0.6

// ComputeFactorScores aggregates raw item scores into composite factor values.
// The input maps 1-based item indices to optional scores; absent items are nil
// or missing keys. A factor value is present only when at least 60% of its
// mapped items are answered, and is then the mean of the answered items
// rounded to one decimal place. Absence stays nil, never zero.
func ComputeFactorScores(items map[int]*int) map[models.FactorKey]*float64 {
	scores := make(map[models.FactorKey]*float64, len(models.FactorItems))
	for _, factor := range models.FactorOrder {
		scores[factor] = computeFactor(items, models.FactorItems[factor])
	}
	return scores
}

func computeFactor(items map[int]*int, mapped []int) *float64 {
	present := make([]int, 0, len(mapped))
	for _, idx := range mapped {
		if v, ok := items[idx]; ok && v != nil {
			present = append(present, *v)
		}
	}

	required := int(math.Ceil(factorCoverage * float64(len(mapped))))
	if len(present) < required {
		return nil
	}

	sum := 0
	for _, v := range present {
		sum += v
	}
	mean := float64(sum) / float64(len(present))
	rounded := math.Round(mean*10) / 10
	return &rounded
}
