// Package texts is the user-facing copy catalog. The controller treats every
// entry as an opaque string keyed by intent; wording lives only here.
package texts

// General.
const (
	Start = "Привет! Я помогу разобраться, почему вырос расход электроэнергии, и подскажу, что сделать за 1–2 дня."
	Menu  = "Главное меню. Что делаем?"
	Help  = "Команды:\n/analyze — разобрать рост расхода\n/savings — посчитать экономию до/после\n/demo — показать пример\n/feedback — оставить отзыв\n/privacy — данные и сброс"
	Privacy = "Я храню минимальный профиль (город, тип жилья, отопление, людей) и введённые периоды. " +
		"В журнал событий пишется только обезличенный хеш. Данные можно сбросить кнопкой ниже."
	PrivacyResetDone = "Готово: данные сброшены."
	Thanks           = "Спасибо! Это помогает делать подсказки точнее."
)

// Onboarding.
const (
	OnboardingFirst = "Сначала короткий онбординг (до 1 минуты)."
	AskCity         = "Из какого вы города?"
	AskCityText     = "Введите город текстом (2–40 символов)."
	CityInvalid     = "Похоже на некорректный ввод. Напишите город (2–40 символов)."
	AskHome         = "Тип жилья?"
	AskHeating      = "Какое отопление?"
	AskPeople       = "Сколько человек живёт в доме?"
	AskKnowsTariff  = "Знаете свой тариф за кВт*ч?"
	AskReminders    = "Присылать напоминание снять показания через пару дней?"
	OnboardingDone  = "Готово ✅"
)

// Periods and values.
const (
	AskPeriodCurrent = "За какой период смотрим расход (текущий)?"
	AskPeriodPrev    = "Период (предыдущий)?"
	AskHasPrev       = "Есть данные за предыдущий период для сравнения?"
	AskPeriodCustom  = "Напишите период в формате: с 01.01.2026 по 31.01.2026"
	BadPeriodFormat  = "Не понял формат. Пример: с 01.01.2026 по 31.01.2026"
	AskValueMode     = "Что удобнее ввести за этот период?"
	AskEnterValues   = "Введите значение(я) одним сообщением. Примеры: 250 или 12000 или 900 45000"
	BadNumbers       = "Нужны числа. Примеры: 250 или 12000 или 900 45000"
	NeedBothValues   = "Для режима «оба» введите два числа: кВт*ч и сумму (₸)."
	WarnNonPositive  = "Значение должно быть больше 0."
	WarnKWhHigh      = "Это очень много для бытового периода. Проверьте, что вводите именно кВт*ч."
	WarnMoneyHigh    = "Сумма выглядит слишком большой. Проверьте ввод (₸)."
)

// Context questions.
const (
	CtxCold         = "В этот период было холоднее обычного / дольше работал обогрев?"
	CtxBoiler       = "Пользуетесь бойлером/электронагревом воды?"
	CtxNewAppliance = "Появился новый прибор или чаще энергоёмкие режимы?"
)

// Results.
const (
	AnalysisDisclaimer = "\nЭто оценка по вашим ответам, не замер. Точную картину даст сравнение кВт*ч/день за равные периоды."
	ReasonsHeader      = "Вероятные причины:"
	ActionsHeader      = "Top-3 действия на 1–2 дня:"
)

// Savings.
const (
	AskSavingsPeriod  = "Период (второе измерение)?"
	AskTariff         = "Введите тариф ₸ за кВт*ч (например: 25). Или напишите 0, чтобы пропустить."
	BadTariff         = "Введите число, например 25. Или 0, чтобы пропустить."
	SavingsNeedBase   = "Для savings нужен базовый период с кВт*ч. Сначала сделайте /analyze и введите кВт*ч."
	SavingsNeedSecond = "Для savings нужен период и кВт*ч."
)

// MarkedDoneFmt confirms an acknowledged action by title.
const MarkedDoneFmt = "Отмечено ✅: %s"

// Savings verdict rendering. Deltas below the noise band read as unchanged.
const (
	SavingsImprovedFmt      = "✅ Экономия есть: примерно −%.0f%%"
	SavingsImprovedDeltaFmt = "≈ −%.0f кВт*ч за период"
	SavingsUnchanged        = "➖ Почти без изменений (±2%)."
	SavingsUnchangedHint    = "Обычно это значит: эффект ещё не проявился или главная причина другая."
	SavingsWorseFmt         = "⚠️ Стало хуже: примерно +%.0f%%"
	SavingsWorseCauses      = "Частые причины: похолодало/обогрев дольше, добавился прибор, перерасчёт."
	SavingsMoneyFmt         = "≈ %.0f ₸ за период (по вашему тарифу)"
	SavingsSelfCheckFmt     = "\nДля самопроверки: было %.1f кВт*ч/день → стало %.1f кВт*ч/день."
)

// Feedback.
const (
	FeedbackAsk        = "Оцените бота от 1 до 5."
	FeedbackRatedFmt   = "Оценка: %d/5. " + FeedbackCommentAsk
	FeedbackCommentAsk = "Напишите 1–2 предложения (или '-' чтобы без комментария)."
)

// MenuDemoHint is shown when the demo is picked from the menu.
const MenuDemoHint = "Запустите /demo (демо отправляется сообщениями)."

// Demo walkthrough, sent as one message.
const Demo = "🎮 Демо: зимний скачок с электроотоплением.\n" +
	"Текущий период: 30 дней, ввод: 980 кВт*ч и 52000 ₸\n" +
	"Предыдущий период: 30 дней, ввод: 720 кВт*ч и 38000 ₸\n" +
	"Контекст: холоднее = да, бойлер = да\n" +
	"Результат: рост ~+36% по кВт*ч, причины: отопление/бойлер, Top-3: таймер, бойлер 55–60°C, уплотнение окон."
