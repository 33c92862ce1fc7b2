package domain

// State is the current node of the conversation state machine.
type State int

// Dialogue states. StateIdle doubles as the re-entrant terminal state.
const (
	StateIdle State = iota

	// Onboarding.
	StateAskCity
	StateAskCityFreeText
	StateAskHome
	StateAskHeating
	StateAskPeople
	StateAskKnowsTariff
	StateAskReminders

	// Analysis, current period.
	StateAskPeriodCur
	StateAskPeriodCustomCur
	StateAskValueModeCur
	StateAskValuesCur

	// Analysis, previous period.
	StateAskHasPrev
	StateAskPeriodPrev
	StateAskPeriodCustomPrev
	StateAskValueModePrev
	StateAskValuesPrev

	// Context questions.
	StateCtxCold
	StateCtxBoiler
	StateCtxNewAppliance

	StateShowResults

	// Savings.
	StateSavingsPeriod
	StateSavingsPeriodCustom
	StateSavingsValueMode
	StateSavingsValues
	StateSavingsTariff

	StateFeedbackComment
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateAskCity:             "ask_city",
	StateAskCityFreeText:     "ask_city_free_text",
	StateAskHome:             "ask_home",
	StateAskHeating:          "ask_heating",
	StateAskPeople:           "ask_people",
	StateAskKnowsTariff:      "ask_knows_tariff",
	StateAskReminders:        "ask_reminders",
	StateAskPeriodCur:        "ask_period_cur",
	StateAskPeriodCustomCur:  "ask_period_custom_cur",
	StateAskValueModeCur:     "ask_value_mode_cur",
	StateAskValuesCur:        "ask_values_cur",
	StateAskHasPrev:          "ask_has_prev",
	StateAskPeriodPrev:       "ask_period_prev",
	StateAskPeriodCustomPrev: "ask_period_custom_prev",
	StateAskValueModePrev:    "ask_value_mode_prev",
	StateAskValuesPrev:       "ask_values_prev",
	StateCtxCold:             "ctx_cold",
	StateCtxBoiler:           "ctx_boiler",
	StateCtxNewAppliance:     "ctx_new_appliance",
	StateShowResults:         "show_results",
	StateSavingsPeriod:       "savings_period",
	StateSavingsPeriodCustom: "savings_period_custom",
	StateSavingsValueMode:    "savings_value_mode",
	StateSavingsValues:       "savings_values",
	StateSavingsTariff:       "savings_tariff",
	StateFeedbackComment:     "feedback_comment",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Flow is the top-level journey a session is working through.
type Flow string

const (
	FlowNone     Flow = ""
	FlowAnalyze  Flow = "analyze"
	FlowSavings  Flow = "savings"
	FlowFeedback Flow = "feedback"
)

// ValueMode declares which quantities the user will type for a period.
type ValueMode string

const (
	ModeKWh   ValueMode = "kwh"
	ModeMoney ValueMode = "money"
	ModeBoth  ValueMode = "both"
)

// ContextFlags are the yes/no answers to the contextual questions.
// Nil means the question was not answered.
type ContextFlags struct {
	Cold         *bool
	Boiler       *bool
	NewAppliance *bool
	MoreTimeHome *bool
}

// Draft accumulates in-progress answers for the active journey. Fields are
// only meaningful while Session.Flow matches the journey that wrote them.
type Draft struct {
	ValueMode ValueMode
	Current   *Observation
	Previous  *Observation
	Second    *Observation
	Flags     ContextFlags
	LastTop3  []Action
	Tariff    *float64
	Stars     int
}

// Session is the per-user conversation record. One in-flight step per user;
// the session manager serializes access.
type Session struct {
	UserID    string
	SessionID string
	State     State
	Flow      Flow
	// Pending records the journey originally requested by a user who was
	// redirected to onboarding, so it can resume once onboarding completes.
	Pending Flow
	Draft   Draft
}

// StartFlow switches the session to a new journey and drops any stale draft.
func (s *Session) StartFlow(flow Flow) {
	s.Flow = flow
	s.Draft = Draft{}
}

// ResetDraft clears accumulated answers without leaving the current flow.
func (s *Session) ResetDraft() {
	s.Draft = Draft{}
}

// Clone returns a deep copy. The controller mutates a clone and commits it
// only after every collaborator call in the step has succeeded.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Draft.Current = cloneObservation(s.Draft.Current)
	cp.Draft.Previous = cloneObservation(s.Draft.Previous)
	cp.Draft.Second = cloneObservation(s.Draft.Second)
	cp.Draft.Flags = ContextFlags{
		Cold:         cloneBool(s.Draft.Flags.Cold),
		Boiler:       cloneBool(s.Draft.Flags.Boiler),
		NewAppliance: cloneBool(s.Draft.Flags.NewAppliance),
		MoreTimeHome: cloneBool(s.Draft.Flags.MoreTimeHome),
	}
	if s.Draft.LastTop3 != nil {
		cp.Draft.LastTop3 = make([]Action, len(s.Draft.LastTop3))
		copy(cp.Draft.LastTop3, s.Draft.LastTop3)
	}
	cp.Draft.Tariff = cloneFloat(s.Draft.Tariff)
	return &cp
}

func cloneObservation(o *Observation) *Observation {
	if o == nil {
		return nil
	}
	cp := *o
	cp.KWh = cloneFloat(o.KWh)
	cp.Money = cloneFloat(o.Money)
	return &cp
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
