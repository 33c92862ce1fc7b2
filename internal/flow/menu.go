package flow

import (
	"context"
	"fmt"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/texts"
)

// handleCommand dispatches the slash commands available from every state.
func (c *Controller) handleCommand(ctx context.Context, sess *domain.Session, ev Event) (Prompt, bool, error) {
	switch ev.Command {
	case "/start":
		if err := c.repo.UpsertUser(ctx, sess.UserID, ev.ChatRef); err != nil {
			return Prompt{}, false, fmt.Errorf("start: %w", err)
		}
		sess.StartFlow(domain.FlowNone)
		sess.Pending = domain.FlowNone
		sess.State = domain.StateAskCity
		if err := c.audit(ctx, sess, "bot_start", withCommand("/start")); err != nil {
			return Prompt{}, false, err
		}
		return Prompt{
			Notices: []string{texts.Start},
			Text:    texts.AskCity,
			Choices: texts.CityChoices(),
		}, true, nil

	case "/analyze":
		if err := c.repo.UpsertUser(ctx, sess.UserID, ev.ChatRef); err != nil {
			return Prompt{}, false, fmt.Errorf("analyze: %w", err)
		}
		prompt, redirected, err := c.startAnalyze(ctx, sess, ev)
		if err != nil {
			return Prompt{}, false, err
		}
		opts := []auditOpt{withCommand("/analyze")}
		if redirected {
			opts = append(opts, withPayload(map[string]any{"redirect": "onboarding"}))
		}
		if err := c.audit(ctx, sess, "command_used", opts...); err != nil {
			return Prompt{}, false, err
		}
		return prompt, true, nil

	case "/savings":
		if err := c.repo.UpsertUser(ctx, sess.UserID, ev.ChatRef); err != nil {
			return Prompt{}, false, fmt.Errorf("savings: %w", err)
		}
		prompt, redirected, err := c.startSavings(ctx, sess, ev)
		if err != nil {
			return Prompt{}, false, err
		}
		opts := []auditOpt{withCommand("/savings")}
		if redirected {
			opts = append(opts, withPayload(map[string]any{"redirect": "onboarding"}))
		}
		if err := c.audit(ctx, sess, "command_used", opts...); err != nil {
			return Prompt{}, false, err
		}
		return prompt, true, nil

	case "/demo":
		sess.StartFlow(domain.FlowNone)
		sess.State = domain.StateIdle
		if err := c.audit(ctx, sess, "command_used", withCommand("/demo"), withDemo()); err != nil {
			return Prompt{}, false, err
		}
		return Prompt{
			Notices: []string{texts.Demo},
			Text:    texts.Menu,
			Choices: texts.MenuChoices(),
		}, true, nil

	case "/feedback":
		prompt := startFeedback(sess)
		if err := c.audit(ctx, sess, "command_used", withCommand("/feedback")); err != nil {
			return Prompt{}, false, err
		}
		return prompt, true, nil

	case "/help":
		if err := c.audit(ctx, sess, "command_used", withCommand("/help")); err != nil {
			return Prompt{}, false, err
		}
		return Prompt{Text: texts.Help}, true, nil

	case "/privacy":
		if err := c.audit(ctx, sess, "command_used", withCommand("/privacy")); err != nil {
			return Prompt{}, false, err
		}
		return Prompt{Text: texts.Privacy, Choices: texts.PrivacyChoices()}, true, nil
	}

	// Unknown commands are ignored rather than crashing the session.
	return Prompt{}, false, nil
}

// handleIdleMenu handles the main-menu buttons.
func handleIdleMenu(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	if ev.Kind != EventButton {
		return Prompt{}, false, nil
	}

	switch ev.Data {
	case "menu:analyze":
		prompt, _, err := c.startAnalyze(ctx, sess, ev)
		return prompt, err == nil, err
	case "menu:savings":
		prompt, _, err := c.startSavings(ctx, sess, ev)
		return prompt, err == nil, err
	case "menu:demo":
		return Prompt{Text: texts.MenuDemoHint, Choices: texts.MenuChoices()}, true, nil
	case "menu:privacy":
		return Prompt{Text: texts.Privacy, Choices: texts.PrivacyChoices()}, true, nil
	case "menu:feedback":
		return startFeedback(sess), true, nil
	}
	return Prompt{}, false, nil
}

// startAnalyze enters the analysis journey, redirecting through onboarding
// first when the profile is incomplete. The requested journey is recorded in
// Pending so it resumes once onboarding finishes.
func (c *Controller) startAnalyze(ctx context.Context, sess *domain.Session, _ Event) (Prompt, bool, error) {
	profile, err := c.repo.GetProfile(ctx, sess.UserID)
	if err != nil {
		return Prompt{}, false, fmt.Errorf("load profile: %w", err)
	}

	if !profile.Onboarded() {
		sess.StartFlow(domain.FlowNone)
		sess.Pending = domain.FlowAnalyze
		sess.State = domain.StateAskCity
		return Prompt{
			Notices: []string{texts.OnboardingFirst},
			Text:    texts.AskCity,
			Choices: texts.CityChoices(),
		}, true, nil
	}

	sess.StartFlow(domain.FlowAnalyze)
	sess.Pending = domain.FlowNone
	sess.State = domain.StateAskPeriodCur
	return Prompt{Text: texts.AskPeriodCurrent, Choices: texts.PeriodChoices()}, false, nil
}

// startSavings enters the savings journey with the same onboarding redirect.
func (c *Controller) startSavings(ctx context.Context, sess *domain.Session, _ Event) (Prompt, bool, error) {
	profile, err := c.repo.GetProfile(ctx, sess.UserID)
	if err != nil {
		return Prompt{}, false, fmt.Errorf("load profile: %w", err)
	}

	if !profile.Onboarded() {
		sess.StartFlow(domain.FlowNone)
		sess.Pending = domain.FlowSavings
		sess.State = domain.StateAskCity
		return Prompt{
			Notices: []string{texts.OnboardingFirst},
			Text:    texts.AskCity,
			Choices: texts.CityChoices(),
		}, true, nil
	}

	sess.StartFlow(domain.FlowSavings)
	sess.Pending = domain.FlowNone
	sess.State = domain.StateSavingsPeriod
	return Prompt{Text: texts.AskSavingsPeriod, Choices: texts.PeriodChoices()}, false, nil
}

func startFeedback(sess *domain.Session) Prompt {
	sess.StartFlow(domain.FlowFeedback)
	sess.State = domain.StateFeedbackComment
	return Prompt{Text: texts.FeedbackAsk, Choices: texts.FeedbackStarChoices()}
}

// privacyReset wipes persisted user data and logically resets the session.
func (c *Controller) privacyReset(ctx context.Context, sess *domain.Session) (Prompt, error) {
	if err := c.repo.ResetUserData(ctx, sess.UserID); err != nil {
		return Prompt{}, fmt.Errorf("reset user data: %w", err)
	}

	sess.StartFlow(domain.FlowNone)
	sess.Pending = domain.FlowNone
	sess.State = domain.StateIdle

	if err := c.audit(ctx, sess, "privacy_reset"); err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Notices: []string{texts.PrivacyResetDone},
		Text:    texts.Menu,
		Choices: texts.MenuChoices(),
	}, nil
}
