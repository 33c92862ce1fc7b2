package engine

import (
	"fmt"

	"github.com/ashureev/wattwise/internal/domain"
)

// Analyze runs the full decision pipeline for one completed questionnaire:
// spike verdict, headline, ranked reasons, and the top-3 action list.
func Analyze(profile *domain.Profile, flags domain.ContextFlags, nowKWh, prevKWh, nowMoney, prevMoney *float64) domain.AnalysisResult {
	spike, pct, basis := DetectSpike(nowKWh, prevKWh, nowMoney, prevMoney)

	headline := "Данных для сравнения мало — дам диагностику по контексту."
	if pct != nil {
		unit := "кВт*ч"
		if basis == domain.BasisMoney {
			unit = "сумме"
		}
		sign := ""
		if *pct >= 0 {
			sign = "+"
		}
		headline = fmt.Sprintf("Вижу изменение примерно %s%.0f%% по %s.", sign, *pct, unit)
	}

	return domain.AnalysisResult{
		Spike:    spike,
		Headline: headline,
		Reasons:  PickReasons(profile, flags, basis),
		Actions:  TopActions(profile, flags),
		Meta: domain.AnalysisMeta{
			Basis: basis,
			Pct:   pct,
			Spike: spike,
		},
	}
}
