package texts

// Choice is one button in a closed choice-set. Data is the machine token the
// transport echoes back on a button press.
type Choice struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

func backMenuRow() []Choice {
	return []Choice{
		{Label: "⬅️ Назад", Data: "nav:back"},
		{Label: "🏁 В меню", Data: "nav:menu"},
	}
}

// MenuChoices is the idle-state main menu.
func MenuChoices() []Choice {
	return []Choice{
		{Label: "🔎 Анализ", Data: "menu:analyze"},
		{Label: "📊 Savings (до/после)", Data: "menu:savings"},
		{Label: "🎮 Демо", Data: "menu:demo"},
		{Label: "🔒 Privacy", Data: "menu:privacy"},
		{Label: "⭐ Feedback", Data: "menu:feedback"},
	}
}

// BackMenuChoices offers only navigation.
func BackMenuChoices() []Choice {
	return backMenuRow()
}

// CityChoices is the onboarding city list plus a free-text escape hatch.
func CityChoices() []Choice {
	return []Choice{
		{Label: "Алматы", Data: "onb:city:almaty"},
		{Label: "Астана", Data: "onb:city:astana"},
		{Label: "Шымкент", Data: "onb:city:shymkent"},
		{Label: "Караганда", Data: "onb:city:karaganda"},
		{Label: "Другое (ввести текстом)", Data: "onb:city:other"},
		{Label: "🏁 В меню", Data: "nav:menu"},
	}
}

// HomeChoices is the home-type question.
func HomeChoices() []Choice {
	return append([]Choice{
		{Label: "Квартира", Data: "onb:home:flat"},
		{Label: "Дом", Data: "onb:home:house"},
		{Label: "Не знаю/смешано", Data: "onb:home:unknown"},
	}, backMenuRow()...)
}

// HeatingChoices is the heating-type question.
func HeatingChoices() []Choice {
	return append([]Choice{
		{Label: "Центральное", Data: "onb:heat:central"},
		{Label: "Газ", Data: "onb:heat:gas"},
		{Label: "Электрическое", Data: "onb:heat:electric"},
		{Label: "Не знаю", Data: "onb:heat:unknown"},
	}, backMenuRow()...)
}

// PeopleChoices is the household-size question.
func PeopleChoices() []Choice {
	return append([]Choice{
		{Label: "1", Data: "onb:people:1"},
		{Label: "2", Data: "onb:people:2"},
		{Label: "3–4", Data: "onb:people:3-4"},
		{Label: "5+", Data: "onb:people:5+"},
	}, backMenuRow()...)
}

// YesNoChoices builds a yes/no pair under the given data prefix.
func YesNoChoices(prefix string) []Choice {
	return append([]Choice{
		{Label: "Да", Data: prefix + ":yes"},
		{Label: "Нет", Data: prefix + ":no"},
	}, backMenuRow()...)
}

// PeriodChoices offers the canned 30-day windows and a custom range.
func PeriodChoices() []Choice {
	return append([]Choice{
		{Label: "Последние 30 дней", Data: "period:last30"},
		{Label: "Предыдущие 30 дней", Data: "period:prev30"},
		{Label: "Выбрать даты", Data: "period:custom"},
	}, backMenuRow()...)
}

// ValueModeChoices asks which quantities the user will report.
func ValueModeChoices() []Choice {
	return append([]Choice{
		{Label: "Ввести кВт*ч", Data: "valmode:kwh"},
		{Label: "Ввести сумму (₸)", Data: "valmode:money"},
		{Label: "Ввести оба", Data: "valmode:both"},
	}, backMenuRow()...)
}

// PrivacyChoices offers the data reset.
func PrivacyChoices() []Choice {
	return []Choice{
		{Label: "🧹 Сбросить данные", Data: "privacy:reset"},
		{Label: "🏁 В меню", Data: "nav:menu"},
	}
}

// ResultChoices follow a shown analysis: acknowledge actions or jump on.
func ResultChoices() []Choice {
	return []Choice{
		{Label: "✅ Я сделал(а) действие 1", Data: "actdone:1"},
		{Label: "✅ Я сделал(а) действие 2", Data: "actdone:2"},
		{Label: "✅ Я сделал(а) действие 3", Data: "actdone:3"},
		{Label: "📊 Посчитать экономию", Data: "nav:savings"},
		{Label: "🔁 Новый анализ", Data: "nav:analyze"},
		{Label: "🏁 В меню", Data: "nav:menu"},
	}
}

// FeedbackStarChoices is the 1–5 rating row.
func FeedbackStarChoices() []Choice {
	return []Choice{
		{Label: "1", Data: "fb:1"},
		{Label: "2", Data: "fb:2"},
		{Label: "3", Data: "fb:3"},
		{Label: "4", Data: "fb:4"},
		{Label: "5", Data: "fb:5"},
		{Label: "🏁 В меню", Data: "nav:menu"},
	}
}
