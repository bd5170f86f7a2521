package core

import (
	"math"
	"sync"

	"github.com/huangsam/heatwatch/schema"
)

// GetArrow returns the trend direction of a statistic moving from old to new.
func GetArrow(old, new float64) schema.Arrow {
	switch {
	case new > old:
		return schema.UpArrow
	case new == old:
		return schema.EqualArrow
	default:
		return schema.DownArrow
	}
}

// Percentage returns the absolute change from old to new as a percentage of old,
// rounded to two decimals. A zero baseline or a non-finite result yields ErrUndefinedComparison.
func Percentage(old, new float64) (float64, error) {
	if old == 0 {
		return 0, ErrUndefinedComparison
	}
	pct := math.Abs(new-old) / old * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, ErrUndefinedComparison
	}
	return math.Round(pct*100) / 100, nil
}

// CompareDescriptions compares the tracked statistics of current against baseline.
// Pairs with an undefined percentage carry the error message and keep their arrow.
func CompareDescriptions(baseline, current schema.Description) schema.StatComparison {
	out := make(schema.StatComparison, len(schema.AllMetrics))
	for _, m := range schema.AllMetrics {
		base, cur := baseline[m], current[m]
		stats := make(map[schema.Statistic]schema.StatDelta, len(schema.CompareStats))
		for _, s := range schema.CompareStats {
			oldV, newV := base.Get(s), cur.Get(s)
			delta := schema.StatDelta{Data: finiteOrZero(newV), Arrow: GetArrow(oldV, newV)}
			if pct, err := Percentage(oldV, newV); err != nil {
				delta.Error = err.Error()
			} else {
				delta.Percent = &pct
			}
			stats[s] = delta
		}
		out[m] = stats
	}
	return out
}

// Baseline holds the statistics frozen at process start. It is safe for concurrent use.
type Baseline struct {
	mu   sync.RWMutex
	desc schema.Description
}

// NewBaseline freezes the statistics of the given readings.
func NewBaseline(readings []schema.Reading) *Baseline {
	return &Baseline{desc: Describe(readings)}
}

// Description returns the frozen statistics.
func (b *Baseline) Description() schema.Description {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.desc
}

// Reset replaces the frozen statistics with those of the given readings.
func (b *Baseline) Reset(readings []schema.Reading) {
	desc := Describe(readings)
	b.mu.Lock()
	b.desc = desc
	b.mu.Unlock()
}

// Compare computes the statistics of current and compares them to the baseline.
func (b *Baseline) Compare(current []schema.Reading) schema.StatComparison {
	return CompareDescriptions(b.Description(), Describe(current))
}

// finiteOrZero replaces NaN and ±Inf so the value stays JSON encodable.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
