package engine

import (
	"sort"
	"strconv"

	"github.com/ashureev/wattwise/internal/domain"
)

type catalogAction struct {
	id     string
	action domain.Action
}

// Action identifiers, used for scoring and for "marked done" records.
const (
	actTimerHeater = "timer_heater"
	actLowerTemp   = "lower_temp"
	actSealWindows = "seal_windows"
	actBoiler5560  = "boiler_5560"
	actStandby     = "standby_strip"
	actNightTest   = "night_test"
	actWash30      = "wash_30_full"
	actKettle      = "kettle_volume"
	actFridge      = "fridge_settings"
)

// The fixed action catalog. Declaration order breaks score ties.
var actionCatalog = []catalogAction{
	{actTimerHeater, domain.Action{
		Title: "Поставить график/таймер на обогрев",
		Why:   "Ограничивает лишние часы работы — это чаще всего главный рычаг зимой.",
		How:   "Сегодня: 2–3 окна времени (утро/вечер). Ночью — минимум/выключить, если можно.",
	}},
	{actLowerTemp, domain.Action{
		Title: "Снизить температуру обогрева на 1–2°C",
		Why:   "Даже небольшой спад температуры уменьшает потребление заметно на длинном интервале.",
		How:   "Сегодня: уменьшите на 1°C, через сутки оцените кВт*ч/день.",
	}},
	{actSealWindows, domain.Action{
		Title: "Уплотнить окна/щели",
		Why:   "Меньше теплопотерь → обогрев включается реже.",
		How:   "За 1 день: уплотнитель/лента на проблемные места, особенно двери/окна.",
	}},
	{actBoiler5560, domain.Action{
		Title: "Бойлер: выставить 55–60°C (не «макс»)",
		Why:   "Меньше циклов нагрева и потерь — часто даёт быстрый эффект.",
		How:   "Сегодня: поставьте 55–60°C, проверьте через сутки.",
	}},
	{actStandby, domain.Action{
		Title: "Отключать standby через удлинитель с кнопкой",
		Why:   "Срезает постоянную «фоновую» нагрузку.",
		How:   "Сегодня: TV/приставка/зарядки на один удлинитель, выключать на ночь.",
	}},
	{actNightTest, domain.Action{
		Title: "Сделать «ночной тест»",
		Why:   "Быстро покажет скрытый базовый расход без активного использования.",
		How:   "Сегодня: снимите показания вечером и утром (6–8 часов) и посмотрите кВт*ч.",
	}},
	{actWash30, domain.Action{
		Title: "Стирка: 30°C и полная загрузка",
		Why:   "Нагрев воды — один из самых дорогих режимов.",
		How:   "В ближайшие 1–2 дня: 2–3 стирки так, сравните ощущения и расход.",
	}},
	{actKettle, domain.Action{
		Title: "Чайник: кипятить нужный объём",
		Why:   "Мелочь, но частые кипячения быстро набегают.",
		How:   "Сегодня: наливайте только нужное количество.",
	}},
	{actFridge, domain.Action{
		Title: "Холодильник: +4…+5°C, морозилка −18°C + зазор от стены",
		Why:   "Неправильные настройки и плохая вентиляция повышают потребление.",
		How:   "За 1 день: проверьте настройки, отодвиньте от стены, уберите наледь.",
	}},
}

var defaultTrio = []string{actStandby, actNightTest, actWash30}

// TopActions ranks the catalog for the given profile and context and returns
// the top three actions. Ranking is by descending score with catalog order
// breaking ties; if nothing scored, a fixed default trio is returned.
func TopActions(profile *domain.Profile, flags domain.ContextFlags) []domain.Action {
	scores := scoreActions(profile, flags)

	type scored struct {
		id  string
		pts int
	}
	ranked := make([]scored, 0, len(actionCatalog))
	for _, entry := range actionCatalog {
		if pts, ok := scores[entry.id]; ok && pts > 0 {
			ranked = append(ranked, scored{entry.id, pts})
		}
	}

	var chosen []string
	if len(ranked) == 0 {
		chosen = defaultTrio
	} else {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].pts > ranked[j].pts })
		for _, r := range ranked {
			chosen = append(chosen, r.id)
			if len(chosen) == 3 {
				break
			}
		}
	}

	out := make([]domain.Action, 0, len(chosen))
	for _, id := range chosen {
		for _, entry := range actionCatalog {
			if entry.id == id {
				out = append(out, entry.action)
				break
			}
		}
	}
	return out
}

func scoreActions(profile *domain.Profile, flags domain.ContextFlags) map[string]int {
	scores := make(map[string]int)
	add := func(id string, pts int) { scores[id] += pts }

	electric := profile != nil && profile.Heating == domain.HeatingElectric
	if electric || isTrue(flags.Cold) {
		add(actTimerHeater, 6)
		add(actLowerTemp, 4)
		add(actSealWindows, 4)
	}
	if isTrue(flags.Boiler) {
		add(actBoiler5560, 6)
	}

	// Baseline and minor actions always get small fixed points.
	add(actStandby, 3)
	add(actNightTest, 3)
	add(actWash30, 2)
	add(actFridge, 2)
	add(actKettle, 1)

	return scores
}

// ActionRef builds the persisted reference for a "marked done" action: its
// 1-based rank in the shown top-3 plus the title.
func ActionRef(rank int, title string) string {
	return "top3_" + strconv.Itoa(rank) + ":" + title
}
