// Package engine implements the decision rules: spike detection, reason
// selection, action ranking, and savings computation. Everything here is a
// pure function over domain values.
package engine

import (
	"github.com/ashureev/wattwise/internal/domain"
)

const (
	// A period is a spike when it exceeds the previous one by this ratio.
	spikeRatio = 1.15
	// Low-baseline households under-trigger the ratio rule, so an absolute
	// jump above lowBaselineDelta also counts when the baseline is small.
	lowBaselineKWh   = 300.0
	lowBaselineDelta = 50.0
)

// DetectSpike compares two observation periods and returns the verdict, the
// percentage change when computable, and the basis the comparison used.
// Energy takes priority over cost: the cost basis is only used when an
// energy comparison is impossible.
func DetectSpike(nowKWh, prevKWh, nowMoney, prevMoney *float64) (bool, *float64, domain.Basis) {
	if nowKWh != nil && prevKWh != nil && *prevKWh > 0 {
		pct := pctChange(*nowKWh, *prevKWh)
		spike := *nowKWh > *prevKWh*spikeRatio ||
			(*prevKWh < lowBaselineKWh && *nowKWh-*prevKWh > lowBaselineDelta)
		return spike, &pct, domain.BasisKWh
	}

	if nowMoney != nil && prevMoney != nil && *prevMoney > 0 {
		pct := pctChange(*nowMoney, *prevMoney)
		spike := *nowMoney > *prevMoney*spikeRatio
		return spike, &pct, domain.BasisMoney
	}

	return false, nil, domain.BasisNone
}

// pctChange keeps its own zero-denominator guard even though basis selection
// already requires prev > 0.
func pctChange(now, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (now/prev - 1.0) * 100.0
}
