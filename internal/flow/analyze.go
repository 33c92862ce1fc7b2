package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/engine"
	"github.com/ashureev/wattwise/internal/parse"
	"github.com/ashureev/wattwise/internal/texts"
)

// handlePeriodChoice serves the period keyboard shared by the current,
// previous, and savings period steps.
func handlePeriodChoice(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	choice, ok := buttonSuffix(ev, "period:")
	if !ok {
		return Prompt{}, false, nil
	}

	var period domain.Period
	switch choice {
	case "last30":
		period = parse.Last30Days(c.now())
	case "prev30":
		period = parse.Prev30Days(c.now())
	case "custom":
		switch sess.State {
		case domain.StateAskPeriodCur:
			sess.State = domain.StateAskPeriodCustomCur
		case domain.StateAskPeriodPrev:
			sess.State = domain.StateAskPeriodCustomPrev
		case domain.StateSavingsPeriod:
			sess.State = domain.StateSavingsPeriodCustom
		}
		return Prompt{Text: texts.AskPeriodCustom, Choices: texts.BackMenuChoices()}, true, nil
	default:
		return Prompt{}, false, nil
	}

	return storePeriod(sess, period), true, nil
}

// handlePeriodCustomText parses a typed date range for whichever custom
// period step is active.
func handlePeriodCustomText(_ context.Context, _ *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	if ev.Kind != EventText {
		return Prompt{}, false, nil
	}

	period, ok := parse.CustomPeriod(ev.Text)
	if !ok {
		return Prompt{Text: texts.BadPeriodFormat}, true, nil
	}
	return storePeriod(sess, period), true, nil
}

// storePeriod writes the chosen period into the slot the current state is
// collecting and advances to the matching value-mode question.
func storePeriod(sess *domain.Session, period domain.Period) Prompt {
	obs := &domain.Observation{Period: period}
	switch sess.State {
	case domain.StateAskPeriodCur, domain.StateAskPeriodCustomCur:
		sess.Draft.Current = obs
		sess.State = domain.StateAskValueModeCur
	case domain.StateAskPeriodPrev, domain.StateAskPeriodCustomPrev:
		sess.Draft.Previous = obs
		sess.State = domain.StateAskValueModePrev
	case domain.StateSavingsPeriod, domain.StateSavingsPeriodCustom:
		sess.Draft.Second = obs
		sess.State = domain.StateSavingsValueMode
	}
	return Prompt{Text: texts.AskValueMode, Choices: texts.ValueModeChoices()}
}

// handleValueModeChoice records which quantities the user will type.
func handleValueModeChoice(_ context.Context, _ *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	mode, ok := buttonSuffix(ev, "valmode:")
	if !ok {
		return Prompt{}, false, nil
	}
	switch domain.ValueMode(mode) {
	case domain.ModeKWh, domain.ModeMoney, domain.ModeBoth:
	default:
		return Prompt{}, false, nil
	}

	sess.Draft.ValueMode = domain.ValueMode(mode)
	switch sess.State {
	case domain.StateAskValueModeCur:
		sess.State = domain.StateAskValuesCur
	case domain.StateAskValueModePrev:
		sess.State = domain.StateAskValuesPrev
	case domain.StateSavingsValueMode:
		sess.State = domain.StateSavingsValues
	}
	return Prompt{Text: texts.AskEnterValues, Choices: texts.BackMenuChoices()}, true, nil
}

// handleValuesText parses the typed value(s) for the active period, applies
// the advisory range checks, and advances the journey.
func handleValuesText(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	if ev.Kind != EventText {
		return Prompt{}, false, nil
	}

	first, second, ok := parse.OneOrTwoNumbers(ev.Text)
	if !ok {
		return Prompt{Text: texts.BadNumbers}, true, nil
	}

	mode := sess.Draft.ValueMode
	if mode == "" {
		mode = domain.ModeBoth
	}
	kwh, money, ok := parse.Values(mode, first, second)
	if !ok {
		return Prompt{Text: texts.NeedBothValues}, true, nil
	}

	var notices []string
	if kwh != nil {
		notices = appendRangeNotice(notices, parse.CheckKWh(*kwh), texts.WarnKWhHigh)
	}
	if money != nil {
		notices = appendRangeNotice(notices, parse.CheckMoney(*money), texts.WarnMoneyHigh)
	}

	obs := activeObservation(sess)
	if obs == nil {
		// Draft lost its period slot; fall back to the menu.
		return gotoMenu(sess), true, nil
	}
	obs.KWh = kwh
	obs.Money = money

	switch sess.State {
	case domain.StateAskValuesCur:
		sess.State = domain.StateAskHasPrev
		return Prompt{
			Notices: notices,
			Text:    texts.AskHasPrev,
			Choices: texts.YesNoChoices("prev"),
		}, true, nil

	case domain.StateAskValuesPrev:
		sess.State = domain.StateCtxCold
		return Prompt{
			Notices: notices,
			Text:    texts.CtxCold,
			Choices: texts.YesNoChoices("ctx:cold"),
		}, true, nil

	case domain.StateSavingsValues:
		profile, err := c.repo.GetProfile(ctx, sess.UserID)
		if err != nil {
			return Prompt{}, false, fmt.Errorf("load profile: %w", err)
		}
		if profile != nil && profile.KnowsTariff && kwh != nil {
			sess.State = domain.StateSavingsTariff
			return Prompt{
				Notices: notices,
				Text:    texts.AskTariff,
				Choices: texts.BackMenuChoices(),
			}, true, nil
		}
		prompt, err := c.computeSavings(ctx, sess)
		if err != nil {
			return Prompt{}, false, err
		}
		prompt.Notices = append(notices, prompt.Notices...)
		return prompt, true, nil
	}

	return Prompt{}, false, nil
}

func appendRangeNotice(notices []string, verdict parse.RangeVerdict, highText string) []string {
	switch verdict {
	case parse.RangeNonPositive:
		return append(notices, texts.WarnNonPositive)
	case parse.RangeSuspect:
		return append(notices, highText)
	}
	return notices
}

// activeObservation returns the draft slot the current state is filling.
func activeObservation(sess *domain.Session) *domain.Observation {
	switch sess.State {
	case domain.StateAskValuesCur:
		return sess.Draft.Current
	case domain.StateAskValuesPrev:
		return sess.Draft.Previous
	case domain.StateSavingsValues:
		return sess.Draft.Second
	}
	return nil
}

// handleHasPrev branches on whether comparison data exists. "No" leaves the
// previous observation fully absent, not zeroed.
func handleHasPrev(_ context.Context, _ *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	hasPrev, ok := yesNo(ev, "prev")
	if !ok {
		return Prompt{}, false, nil
	}

	if !hasPrev {
		sess.Draft.Previous = nil
		sess.State = domain.StateCtxCold
		return Prompt{Text: texts.CtxCold, Choices: texts.YesNoChoices("ctx:cold")}, true, nil
	}

	sess.State = domain.StateAskPeriodPrev
	return Prompt{Text: texts.AskPeriodPrev, Choices: texts.PeriodChoices()}, true, nil
}

// handleContextAnswer walks the three yes/no context questions and runs the
// analysis after the last answer.
func handleContextAnswer(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	switch sess.State {
	case domain.StateCtxCold:
		v, ok := yesNo(ev, "ctx:cold")
		if !ok {
			return Prompt{}, false, nil
		}
		sess.Draft.Flags.Cold = &v
		sess.State = domain.StateCtxBoiler
		return Prompt{Text: texts.CtxBoiler, Choices: texts.YesNoChoices("ctx:boiler")}, true, nil

	case domain.StateCtxBoiler:
		v, ok := yesNo(ev, "ctx:boiler")
		if !ok {
			return Prompt{}, false, nil
		}
		sess.Draft.Flags.Boiler = &v
		sess.State = domain.StateCtxNewAppliance
		return Prompt{Text: texts.CtxNewAppliance, Choices: texts.YesNoChoices("ctx:new")}, true, nil

	case domain.StateCtxNewAppliance:
		v, ok := yesNo(ev, "ctx:new")
		if !ok {
			return Prompt{}, false, nil
		}
		sess.Draft.Flags.NewAppliance = &v
		prompt, err := c.runAnalysis(ctx, sess)
		if err != nil {
			return Prompt{}, false, err
		}
		return prompt, true, nil
	}

	return Prompt{}, false, nil
}

// runAnalysis persists the contributing bills, invokes the decision engine,
// and presents the result.
func (c *Controller) runAnalysis(ctx context.Context, sess *domain.Session) (Prompt, error) {
	profile, err := c.repo.GetProfile(ctx, sess.UserID)
	if err != nil {
		return Prompt{}, fmt.Errorf("load profile: %w", err)
	}

	cur := sess.Draft.Current
	prev := sess.Draft.Previous

	if cur != nil {
		if err := c.repo.SaveBillRecord(ctx, sess.UserID, domain.BillCurrent, cur, nil); err != nil {
			return Prompt{}, fmt.Errorf("save current bill: %w", err)
		}
	}
	if prev.HasValue() {
		if err := c.repo.SaveBillRecord(ctx, sess.UserID, domain.BillPrev, prev, nil); err != nil {
			return Prompt{}, fmt.Errorf("save prev bill: %w", err)
		}
	}

	var curKWh, curMoney, prevKWh, prevMoney *float64
	if cur != nil {
		curKWh, curMoney = cur.KWh, cur.Money
	}
	if prev != nil {
		prevKWh, prevMoney = prev.KWh, prev.Money
	}

	res := engine.Analyze(profile, sess.Draft.Flags, curKWh, prevKWh, curMoney, prevMoney)

	sess.Draft.LastTop3 = res.Actions
	sess.State = domain.StateShowResults

	payload := map[string]any{
		"basis": string(res.Meta.Basis),
		"spike": res.Meta.Spike,
	}
	if res.Meta.Pct != nil {
		payload["pct"] = *res.Meta.Pct
	}
	if err := c.audit(ctx, sess, "analysis_generated", withPayload(payload)); err != nil {
		return Prompt{}, err
	}

	return Prompt{Text: renderAnalysis(res), Choices: texts.ResultChoices()}, nil
}

func renderAnalysis(res domain.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(res.Headline)
	b.WriteString("\n\n")
	b.WriteString(texts.ReasonsHeader)
	for i, r := range res.Reasons {
		b.WriteString(fmt.Sprintf("\n%d) %s", i+1, r))
	}
	b.WriteString("\n\n")
	b.WriteString(texts.ActionsHeader)
	for i, a := range res.Actions {
		b.WriteString(fmt.Sprintf("\n%d) %s\n— %s\n— %s", i+1, a.Title, a.Why, a.How))
	}
	b.WriteString(texts.AnalysisDisclaimer)
	return b.String()
}

// handleShowResults processes the post-analysis followup buttons; the action
// acknowledgements reference the stored top-3 by index.
func handleShowResults(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	idxStr, ok := buttonSuffix(ev, "actdone:")
	if !ok {
		return Prompt{}, false, nil
	}

	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 1 || idx > len(sess.Draft.LastTop3) {
		return Prompt{}, false, nil
	}

	title := sess.Draft.LastTop3[idx-1].Title
	if err := c.repo.RecordActionAcknowledged(ctx, sess.UserID, engine.ActionRef(idx, title)); err != nil {
		return Prompt{}, false, fmt.Errorf("record action done: %w", err)
	}

	sess.State = domain.StateIdle
	if err := c.audit(ctx, sess, "action_marked_done", withPayload(map[string]any{
		"idx":   idx,
		"title": title,
	})); err != nil {
		return Prompt{}, false, err
	}

	return Prompt{
		Notices: []string{fmt.Sprintf(texts.MarkedDoneFmt, title)},
		Text:    texts.Menu,
		Choices: texts.MenuChoices(),
	}, true, nil
}
