package flow

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/engine"
	"github.com/ashureev/wattwise/internal/texts"
)

// handleSavingsTariffText reads the tariff for the money estimate. Zero or a
// negative value skips the money line, garbage re-prompts.
func handleSavingsTariffText(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	if ev.Kind != EventText {
		return Prompt{}, false, nil
	}

	raw := strings.ReplaceAll(strings.TrimSpace(ev.Text), ",", ".")
	tariff, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Prompt{Text: texts.BadTariff}, true, nil
	}
	if tariff > 0 {
		sess.Draft.Tariff = &tariff
	} else {
		sess.Draft.Tariff = nil
	}

	prompt, err := c.computeSavings(ctx, sess)
	if err != nil {
		return Prompt{}, false, err
	}
	return prompt, true, nil
}

// computeSavings compares the stored baseline against the just-collected
// second measurement and ends the journey back at the menu.
func (c *Controller) computeSavings(ctx context.Context, sess *domain.Session) (Prompt, error) {
	base, err := c.repo.GetLatestBillRecord(ctx, sess.UserID, domain.BillCurrent)
	if err != nil {
		return Prompt{}, fmt.Errorf("load baseline bill: %w", err)
	}
	if base == nil || base.KWh == nil {
		sess.State = domain.StateIdle
		sess.Flow = domain.FlowNone
		return Prompt{Text: texts.SavingsNeedBase, Choices: texts.MenuChoices()}, nil
	}

	second := sess.Draft.Second
	if second == nil || second.KWh == nil {
		sess.State = domain.StateIdle
		sess.Flow = domain.FlowNone
		return Prompt{Text: texts.SavingsNeedSecond, Choices: texts.MenuChoices()}, nil
	}

	if err := c.repo.SaveBillRecord(ctx, sess.UserID, domain.BillSecond, second, sess.Draft.Tariff); err != nil {
		return Prompt{}, fmt.Errorf("save second bill: %w", err)
	}

	out := engine.Savings(base.KWh, base.Period.Days, second.KWh, second.Period.Days, sess.Draft.Tariff)

	sess.State = domain.StateIdle
	sess.Flow = domain.FlowNone

	if !out.Ok {
		return Prompt{Text: out.Msg, Choices: texts.MenuChoices()}, nil
	}

	if err := c.audit(ctx, sess, "savings_calculated", withPayload(map[string]any{
		"pct":         out.Pct,
		"delta_kwh":   out.DeltaKWh,
		"tariff_used": sess.Draft.Tariff != nil,
	})); err != nil {
		return Prompt{}, err
	}

	return Prompt{Text: renderSavings(out), Choices: texts.MenuChoices()}, nil
}

func renderSavings(out domain.SavingsResult) string {
	var lines []string
	switch engine.Band(out.Pct) {
	case engine.BandImproved:
		lines = append(lines,
			fmt.Sprintf(texts.SavingsImprovedFmt, out.Pct),
			fmt.Sprintf(texts.SavingsImprovedDeltaFmt, math.Abs(out.DeltaKWh)),
		)
	case engine.BandUnchanged:
		lines = append(lines, texts.SavingsUnchanged, texts.SavingsUnchangedHint)
	case engine.BandWorse:
		lines = append(lines,
			fmt.Sprintf(texts.SavingsWorseFmt, math.Abs(out.Pct)),
			texts.SavingsWorseCauses,
		)
	}
	if out.DeltaMoney != nil {
		lines = append(lines, fmt.Sprintf(texts.SavingsMoneyFmt, *out.DeltaMoney))
	}
	lines = append(lines, fmt.Sprintf(texts.SavingsSelfCheckFmt, out.BeforePerDay, out.AfterPerDay))
	return strings.Join(lines, "\n")
}
