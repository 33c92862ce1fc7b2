package flow

import (
	"context"
	"strings"
	"time"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/session"
	"github.com/ashureev/wattwise/internal/store"
	"github.com/ashureev/wattwise/internal/texts"
)

// handlerFunc processes one event for one state. It reports handled=false
// when the event does not match the state's allow-list; unmatched events are
// ignored and the session is left untouched.
type handlerFunc func(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error)

// stateHandlers is the explicit dispatch table: one handler per dialogue
// state. Global commands and navigation are resolved before this table.
var stateHandlers = map[domain.State]handlerFunc{
	domain.StateIdle: handleIdleMenu,

	domain.StateAskCity:         handleAskCity,
	domain.StateAskCityFreeText: handleAskCityFreeText,
	domain.StateAskHome:         handleAskHome,
	domain.StateAskHeating:      handleAskHeating,
	domain.StateAskPeople:       handleAskPeople,
	domain.StateAskKnowsTariff:  handleAskKnowsTariff,
	domain.StateAskReminders:    handleAskReminders,

	domain.StateAskPeriodCur:        handlePeriodChoice,
	domain.StateAskPeriodCustomCur:  handlePeriodCustomText,
	domain.StateAskValueModeCur:     handleValueModeChoice,
	domain.StateAskValuesCur:        handleValuesText,
	domain.StateAskHasPrev:          handleHasPrev,
	domain.StateAskPeriodPrev:       handlePeriodChoice,
	domain.StateAskPeriodCustomPrev: handlePeriodCustomText,
	domain.StateAskValueModePrev:    handleValueModeChoice,
	domain.StateAskValuesPrev:       handleValuesText,

	domain.StateCtxCold:         handleContextAnswer,
	domain.StateCtxBoiler:       handleContextAnswer,
	domain.StateCtxNewAppliance: handleContextAnswer,

	domain.StateShowResults: handleShowResults,

	domain.StateSavingsPeriod:       handlePeriodChoice,
	domain.StateSavingsPeriodCustom: handlePeriodCustomText,
	domain.StateSavingsValueMode:    handleValueModeChoice,
	domain.StateSavingsValues:       handleValuesText,
	domain.StateSavingsTariff:       handleSavingsTariffText,

	domain.StateFeedbackComment: handleFeedback,
}

// Controller drives the dialogue: it validates inbound events against the
// current session state, invokes parsing and the decision engine, and
// requests persistence and audit writes.
type Controller struct {
	repo     store.Repository
	sessions *session.Manager
	now      func() time.Time
}

// New creates a controller over the given repository and session manager.
func New(repo store.Repository, sessions *session.Manager) *Controller {
	return &Controller{
		repo:     repo,
		sessions: sessions,
		now:      time.Now,
	}
}

// Handle processes one inbound event for one user. It returns the outbound
// prompt and whether the event was handled at all. Steps for the same user
// are serialized; a step that returns an error commits no session mutation,
// so the same input can be retried.
func (c *Controller) Handle(ctx context.Context, userID string, ev Event) (Prompt, bool, error) {
	var prompt Prompt
	var handled bool

	err := c.sessions.Step(userID, func(cur *domain.Session) (*domain.Session, error) {
		next := cur.Clone()

		p, h, err := c.step(ctx, next, ev)
		if err != nil {
			return nil, err
		}
		prompt, handled = p, h
		if !handled {
			return nil, nil
		}
		return next, nil
	})
	if err != nil {
		return Prompt{}, false, err
	}
	return prompt, handled, nil
}

func (c *Controller) step(ctx context.Context, sess *domain.Session, ev Event) (Prompt, bool, error) {
	// Slash commands work from every state.
	if ev.Kind == EventCommand {
		return c.handleCommand(ctx, sess, ev)
	}

	// Universal navigation and privacy fallbacks, also state-independent.
	if ev.Kind == EventButton {
		switch ev.Data {
		case "nav:menu", "nav:back":
			// No state stack: "back" always lands on the main menu.
			return gotoMenu(sess), true, nil
		case "nav:analyze":
			p, _, err := c.startAnalyze(ctx, sess, ev)
			return p, err == nil, err
		case "nav:savings":
			p, _, err := c.startSavings(ctx, sess, ev)
			return p, err == nil, err
		case "privacy:reset":
			p, err := c.privacyReset(ctx, sess)
			return p, err == nil, err
		}
	}

	h, ok := stateHandlers[sess.State]
	if !ok {
		return Prompt{}, false, nil
	}
	return h(ctx, c, sess, ev)
}

// gotoMenu resets the dialogue position to idle and shows the main menu.
func gotoMenu(sess *domain.Session) Prompt {
	sess.State = domain.StateIdle
	sess.Flow = domain.FlowNone
	return Prompt{Text: texts.Menu, Choices: texts.MenuChoices()}
}

// audit writes one audit row for the session's current position. Handlers
// call it after their persistence writes so a failed step logs nothing.
func (c *Controller) audit(ctx context.Context, sess *domain.Session, event string, opts ...auditOpt) error {
	ev := store.AuditEvent{
		SessionID: sess.SessionID,
		State:     sess.State.String(),
		Event:     event,
	}
	for _, opt := range opts {
		opt(&ev)
	}
	return c.repo.AppendAuditEvent(ctx, sess.UserID, ev)
}

type auditOpt func(*store.AuditEvent)

func withCommand(cmd string) auditOpt {
	return func(ev *store.AuditEvent) { ev.Command = cmd }
}

func withPayload(payload map[string]any) auditOpt {
	return func(ev *store.AuditEvent) { ev.Payload = payload }
}

func withDemo() auditOpt {
	return func(ev *store.AuditEvent) { ev.IsDemo = true }
}

// buttonSuffix extracts the last token of a prefixed button payload, e.g.
// ("onb:city:almaty", "onb:city:") -> "almaty". ok is false when the event
// is not a button press under the given prefix.
func buttonSuffix(ev Event, prefix string) (string, bool) {
	if ev.Kind != EventButton || !strings.HasPrefix(ev.Data, prefix) {
		return "", false
	}
	suffix := strings.TrimPrefix(ev.Data, prefix)
	if suffix == "" || strings.Contains(suffix, ":") {
		return "", false
	}
	return suffix, true
}

// yesNo interprets a yes/no button pair under the given prefix.
func yesNo(ev Event, prefix string) (bool, bool) {
	suffix, ok := buttonSuffix(ev, prefix+":")
	if !ok {
		return false, false
	}
	switch suffix {
	case "yes":
		return true, true
	case "no":
		return false, true
	default:
		return false, false
	}
}
