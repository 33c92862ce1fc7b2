package engine

import (
	"github.com/ashureev/wattwise/internal/domain"
)

// Presentation bands for the per-day percentage change.
const savingsNoiseBandPct = 2.0

// Savings compares a "before" and an "after" energy total and projects the
// saved energy over the after window. The delta is deliberately scaled by
// the after-period length: the result answers "how much would I have saved
// over the period I actually measured".
func Savings(beforeKWh *float64, beforeDays int, afterKWh *float64, afterDays int, tariff *float64) domain.SavingsResult {
	if beforeKWh == nil || afterKWh == nil || beforeDays <= 0 || afterDays <= 0 {
		return domain.SavingsResult{
			Ok:  false,
			Msg: "Нужны кВт*ч за оба периода, чтобы корректно посчитать экономию.",
		}
	}

	beforePerDay := *beforeKWh / float64(beforeDays)
	afterPerDay := *afterKWh / float64(afterDays)
	deltaPerDay := beforePerDay - afterPerDay
	deltaKWh := deltaPerDay * float64(afterDays)

	pct := 0.0
	if beforePerDay != 0 {
		pct = (1.0 - afterPerDay/beforePerDay) * 100.0
	}

	res := domain.SavingsResult{
		Ok:           true,
		BeforePerDay: beforePerDay,
		AfterPerDay:  afterPerDay,
		DeltaKWh:     deltaKWh,
		Pct:          pct,
	}
	if tariff != nil {
		money := deltaKWh * *tariff
		res.DeltaMoney = &money
	}
	return res
}

// SavingsBand classifies the percentage change for presentation.
type SavingsBand int

const (
	BandImproved SavingsBand = iota
	BandUnchanged
	BandWorse
)

// Band maps the per-day percentage change onto a presentation band: real
// improvement, noise, or regression.
func Band(pct float64) SavingsBand {
	switch {
	case pct > savingsNoiseBandPct:
		return BandImproved
	case pct >= -savingsNoiseBandPct:
		return BandUnchanged
	default:
		return BandWorse
	}
}
