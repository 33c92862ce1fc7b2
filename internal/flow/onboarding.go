package flow

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/store"
	"github.com/ashureev/wattwise/internal/texts"
)

// Closed enumerations offered by the onboarding keyboards. Button payloads
// outside these sets are ignored.
var (
	cityChoices = map[string]bool{
		"almaty": true, "astana": true, "shymkent": true, "karaganda": true, "other": true,
	}
	homeChoices = map[string]bool{
		"flat": true, "house": true, "unknown": true,
	}
	heatingChoices = map[string]bool{
		domain.HeatingCentral: true, domain.HeatingGas: true,
		domain.HeatingElectric: true, domain.HeatingUnknown: true,
	}
	peopleChoices = map[string]bool{
		domain.PeopleOne: true, domain.PeopleTwo: true,
		domain.PeopleThreeUp: true, domain.PeopleFivePlus: true,
	}
)

func handleAskCity(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	city, ok := buttonSuffix(ev, "onb:city:")
	if !ok || !cityChoices[city] {
		return Prompt{}, false, nil
	}

	if city == "other" {
		sess.State = domain.StateAskCityFreeText
		return Prompt{Text: texts.AskCityText, Choices: texts.BackMenuChoices()}, true, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{City: &city}); err != nil {
		return Prompt{}, false, fmt.Errorf("set city: %w", err)
	}
	sess.State = domain.StateAskHome
	return Prompt{Text: texts.AskHome, Choices: texts.HomeChoices()}, true, nil
}

func handleAskCityFreeText(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	if ev.Kind != EventText {
		return Prompt{}, false, nil
	}

	city := strings.TrimSpace(ev.Text)
	if n := utf8.RuneCountInString(city); n < 2 || n > 40 {
		return Prompt{Text: texts.CityInvalid}, true, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{City: &city}); err != nil {
		return Prompt{}, false, fmt.Errorf("set city: %w", err)
	}
	sess.State = domain.StateAskHome
	return Prompt{Text: texts.AskHome, Choices: texts.HomeChoices()}, true, nil
}

func handleAskHome(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	home, ok := buttonSuffix(ev, "onb:home:")
	if !ok || !homeChoices[home] {
		return Prompt{}, false, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{HomeType: &home}); err != nil {
		return Prompt{}, false, fmt.Errorf("set home type: %w", err)
	}
	sess.State = domain.StateAskHeating
	return Prompt{Text: texts.AskHeating, Choices: texts.HeatingChoices()}, true, nil
}

func handleAskHeating(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	heating, ok := buttonSuffix(ev, "onb:heat:")
	if !ok || !heatingChoices[heating] {
		return Prompt{}, false, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{Heating: &heating}); err != nil {
		return Prompt{}, false, fmt.Errorf("set heating: %w", err)
	}
	sess.State = domain.StateAskPeople
	return Prompt{Text: texts.AskPeople, Choices: texts.PeopleChoices()}, true, nil
}

func handleAskPeople(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	people, ok := buttonSuffix(ev, "onb:people:")
	if !ok || !peopleChoices[people] {
		return Prompt{}, false, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{People: &people}); err != nil {
		return Prompt{}, false, fmt.Errorf("set people: %w", err)
	}
	sess.State = domain.StateAskKnowsTariff
	return Prompt{Text: texts.AskKnowsTariff, Choices: texts.YesNoChoices("onb:tariff")}, true, nil
}

func handleAskKnowsTariff(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	knows, ok := yesNo(ev, "onb:tariff")
	if !ok {
		return Prompt{}, false, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{KnowsTariff: &knows}); err != nil {
		return Prompt{}, false, fmt.Errorf("set knows_tariff: %w", err)
	}
	sess.State = domain.StateAskReminders
	return Prompt{Text: texts.AskReminders, Choices: texts.YesNoChoices("onb:remind")}, true, nil
}

func handleAskReminders(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	wants, ok := yesNo(ev, "onb:remind")
	if !ok {
		return Prompt{}, false, nil
	}

	if err := c.repo.SetProfileFields(ctx, sess.UserID, store.ProfilePatch{Reminders: &wants}); err != nil {
		return Prompt{}, false, fmt.Errorf("set reminders: %w", err)
	}
	if err := c.audit(ctx, sess, "onboarding_done"); err != nil {
		return Prompt{}, false, err
	}

	// Resume the journey that originally triggered the onboarding redirect.
	switch sess.Pending {
	case domain.FlowAnalyze:
		prompt, _, err := c.startAnalyze(ctx, sess, ev)
		if err != nil {
			return Prompt{}, false, err
		}
		prompt.Notices = append([]string{texts.OnboardingDone}, prompt.Notices...)
		return prompt, true, nil
	case domain.FlowSavings:
		prompt, _, err := c.startSavings(ctx, sess, ev)
		if err != nil {
			return Prompt{}, false, err
		}
		prompt.Notices = append([]string{texts.OnboardingDone}, prompt.Notices...)
		return prompt, true, nil
	}

	sess.State = domain.StateIdle
	return Prompt{
		Notices: []string{texts.OnboardingDone},
		Text:    texts.Menu,
		Choices: texts.MenuChoices(),
	}, true, nil
}
