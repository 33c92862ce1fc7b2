package engine

import (
	"github.com/ashureev/wattwise/internal/domain"
)

const maxReasons = 3

// Candidate reason wording, most salient first. Ordering encodes priority:
// only the first three surviving candidates are shown.
const (
	reasonHeating   = "Электроотопление/обогрев работали дольше (холоднее)."
	reasonBoiler    = "Нагрев воды (бойлер/тэн) даёт заметную базовую нагрузку."
	reasonOccupancy = "Больше времени дома/людей → чаще свет, готовка, техника."
	reasonAppliance = "Новый прибор или чаще используете энергоёмкие режимы (стирка/сушка/готовка)."
	reasonStandby   = "Часть расхода может уходить в «standby» и мелкие потребители (TV/приставка/зарядки)."
	reasonTariff    = "Если рост только в ₸ — возможно, сыграл тариф/перерасчёт, без изменения кВт*ч."
)

// PickReasons evaluates the ordered candidate rules against the profile and
// context flags and returns at most three reasons. The standby reason is
// always a candidate; the tariff caveat is appended only for cost-only
// comparisons.
func PickReasons(profile *domain.Profile, flags domain.ContextFlags, basis domain.Basis) []string {
	var heating, people string
	if profile != nil {
		heating = profile.Heating
		people = profile.People
	}

	var reasons []string

	if heating == domain.HeatingElectric || isTrue(flags.Cold) {
		reasons = append(reasons, reasonHeating)
	}
	if isTrue(flags.Boiler) {
		reasons = append(reasons, reasonBoiler)
	}
	if people == domain.PeopleThreeUp || people == domain.PeopleFivePlus || isTrue(flags.MoreTimeHome) {
		reasons = append(reasons, reasonOccupancy)
	}
	if isTrue(flags.NewAppliance) {
		reasons = append(reasons, reasonAppliance)
	}

	reasons = append(reasons, reasonStandby)

	if basis == domain.BasisMoney {
		reasons = append(reasons, reasonTariff)
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

func isTrue(v *bool) bool {
	return v != nil && *v
}
