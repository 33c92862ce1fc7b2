package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/session"
	"github.com/ashureev/wattwise/internal/store"
)

// fakeRepo is an in-memory Repository for controller tests.
type fakeRepo struct {
	profiles map[string]*domain.Profile
	bills    map[string][]domain.BillRecord
	actions  []string
	events   []store.AuditEvent
	resets   int

	failOn string // method name that should fail, "" for none
}

var errInjected = errors.New("injected failure")

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: make(map[string]*domain.Profile),
		bills:    make(map[string][]domain.BillRecord),
	}
}

func (r *fakeRepo) fail(method string) error {
	if r.failOn == method {
		return errInjected
	}
	return nil
}

func (r *fakeRepo) UpsertUser(_ context.Context, userID, chatRef string) error {
	if err := r.fail("UpsertUser"); err != nil {
		return err
	}
	if _, ok := r.profiles[userID]; !ok {
		r.profiles[userID] = &domain.Profile{UserID: userID}
	}
	r.profiles[userID].ChatRef = chatRef
	return nil
}

func (r *fakeRepo) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	if err := r.fail("GetProfile"); err != nil {
		return nil, err
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) SetProfileFields(_ context.Context, userID string, patch store.ProfilePatch) error {
	if err := r.fail("SetProfileFields"); err != nil {
		return err
	}
	p, ok := r.profiles[userID]
	if !ok {
		return errors.New("user not found")
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.HomeType != nil {
		p.HomeType = *patch.HomeType
	}
	if patch.Heating != nil {
		p.Heating = *patch.Heating
	}
	if patch.People != nil {
		p.People = *patch.People
	}
	if patch.KnowsTariff != nil {
		p.KnowsTariff = *patch.KnowsTariff
	}
	if patch.Reminders != nil {
		p.Reminders = *patch.Reminders
	}
	return nil
}

func (r *fakeRepo) SaveBillRecord(_ context.Context, userID string, kind domain.BillKind, obs *domain.Observation, tariff *float64) error {
	if err := r.fail("SaveBillRecord"); err != nil {
		return err
	}
	r.bills[userID] = append(r.bills[userID], domain.BillRecord{
		UserID: userID,
		Kind:   kind,
		Period: obs.Period,
		KWh:    obs.KWh,
		Money:  obs.Money,
		Tariff: tariff,
	})
	return nil
}

func (r *fakeRepo) GetLatestBillRecord(_ context.Context, userID string, kind domain.BillKind) (*domain.BillRecord, error) {
	if err := r.fail("GetLatestBillRecord"); err != nil {
		return nil, err
	}
	bills := r.bills[userID]
	for i := len(bills) - 1; i >= 0; i-- {
		if bills[i].Kind == kind {
			rec := bills[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) RecordActionAcknowledged(_ context.Context, _, actionRef string) error {
	if err := r.fail("RecordActionAcknowledged"); err != nil {
		return err
	}
	r.actions = append(r.actions, actionRef)
	return nil
}

func (r *fakeRepo) ResetUserData(_ context.Context, userID string) error {
	if err := r.fail("ResetUserData"); err != nil {
		return err
	}
	r.resets++
	delete(r.bills, userID)
	if p, ok := r.profiles[userID]; ok {
		*p = domain.Profile{UserID: userID, ChatRef: p.ChatRef}
	}
	return nil
}

func (r *fakeRepo) AppendAuditEvent(_ context.Context, _ string, ev store.AuditEvent) error {
	if err := r.fail("AppendAuditEvent"); err != nil {
		return err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *fakeRepo) Ping(context.Context) error { return nil }
func (r *fakeRepo) Close() error               { return nil }

func (r *fakeRepo) lastEvent(name string) *store.AuditEvent {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Event == name {
			return &r.events[i]
		}
	}
	return nil
}

func (r *fakeRepo) seedOnboarded(userID string, knowsTariff bool) {
	r.profiles[userID] = &domain.Profile{
		UserID:      userID,
		City:        "almaty",
		HomeType:    "flat",
		Heating:     domain.HeatingElectric,
		People:      domain.PeopleThreeUp,
		KnowsTariff: knowsTariff,
	}
}

type testBot struct {
	t    *testing.T
	ctrl *Controller
	repo *fakeRepo
	user string
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	repo := newFakeRepo()
	ctrl := New(repo, session.NewManager())
	ctrl.now = func() time.Time {
		return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	}
	return &testBot{t: t, ctrl: ctrl, repo: repo, user: "u1"}
}

// send delivers an event and requires it to be handled.
func (b *testBot) send(ev Event) Prompt {
	b.t.Helper()
	prompt, handled, err := b.ctrl.Handle(context.Background(), b.user, ev)
	if err != nil {
		b.t.Fatalf("Handle(%+v): %v", ev, err)
	}
	if !handled {
		b.t.Fatalf("Handle(%+v): not handled in state %v", ev, b.state())
	}
	return prompt
}

func (b *testBot) state() domain.State {
	b.t.Helper()
	sess := b.ctrl.sessions.Peek(b.user)
	if sess == nil {
		b.t.Fatal("no session")
	}
	return sess.State
}

func TestStartBeginsOnboarding(t *testing.T) {
	bot := newTestBot(t)

	prompt := bot.send(CommandEvent("/start"))

	if bot.state() != domain.StateAskCity {
		t.Errorf("state = %v, want askCity", bot.state())
	}
	if len(prompt.Choices) == 0 || prompt.Choices[0].Data != "onb:city:almaty" {
		t.Errorf("expected city keyboard, got %v", prompt.Choices)
	}
	if bot.repo.lastEvent("bot_start") == nil {
		t.Error("bot_start not audited")
	}
	if bot.repo.profiles["u1"] == nil {
		t.Error("user not upserted")
	}
}

func TestOnboardingResumesPendingAnalyze(t *testing.T) {
	bot := newTestBot(t)

	prompt := bot.send(CommandEvent("/analyze"))
	if bot.state() != domain.StateAskCity {
		t.Fatalf("state = %v, want onboarding redirect", bot.state())
	}
	if len(prompt.Notices) == 0 {
		t.Error("redirect should explain the onboarding detour")
	}
	ev := bot.repo.lastEvent("command_used")
	if ev == nil || ev.Payload["redirect"] != "onboarding" {
		t.Errorf("redirect not audited: %+v", ev)
	}

	bot.send(ButtonEvent("onb:city:almaty"))
	bot.send(ButtonEvent("onb:home:flat"))
	bot.send(ButtonEvent("onb:heat:electric"))
	bot.send(ButtonEvent("onb:people:3-4"))
	bot.send(ButtonEvent("onb:tariff:yes"))
	done := bot.send(ButtonEvent("onb:remind:no"))

	if bot.state() != domain.StateAskPeriodCur {
		t.Errorf("state = %v, want resumed analyze journey", bot.state())
	}
	if len(done.Notices) == 0 || !strings.Contains(done.Notices[0], "Готово") {
		t.Errorf("resume prompt notices = %v, want onboarding-done first", done.Notices)
	}
	if bot.repo.lastEvent("onboarding_done") == nil {
		t.Error("onboarding_done not audited")
	}
	p := bot.repo.profiles["u1"]
	if !p.Onboarded() || !p.KnowsTariff || p.Reminders {
		t.Errorf("profile = %+v", p)
	}
}

func TestFreeTextCityValidation(t *testing.T) {
	bot := newTestBot(t)

	bot.send(CommandEvent("/start"))
	bot.send(ButtonEvent("onb:city:other"))
	if bot.state() != domain.StateAskCityFreeText {
		t.Fatalf("state = %v", bot.state())
	}

	rejected := bot.send(TextEvent("Я"))
	if bot.state() != domain.StateAskCityFreeText {
		t.Error("too-short city must not advance")
	}
	if rejected.Text == "" {
		t.Error("expected re-prompt text")
	}

	bot.send(TextEvent("Усть-Каменогорск"))
	if bot.state() != domain.StateAskHome {
		t.Errorf("state = %v, want askHome", bot.state())
	}
	if bot.repo.profiles["u1"].City != "Усть-Каменогорск" {
		t.Errorf("city = %q", bot.repo.profiles["u1"].City)
	}
}

func TestAnalyzeJourney(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", true)

	bot.send(CommandEvent("/analyze"))
	if bot.state() != domain.StateAskPeriodCur {
		t.Fatalf("state = %v", bot.state())
	}

	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:both"))
	prompt := bot.send(TextEvent("980 квтч и 52000 тг"))
	if bot.state() != domain.StateAskHasPrev {
		t.Fatalf("state = %v, want askHasPrev", bot.state())
	}
	if len(prompt.Notices) != 0 {
		t.Errorf("unexpected range warnings: %v", prompt.Notices)
	}

	bot.send(ButtonEvent("prev:yes"))
	bot.send(ButtonEvent("period:prev30"))
	bot.send(ButtonEvent("valmode:kwh"))
	bot.send(TextEvent("720"))
	if bot.state() != domain.StateCtxCold {
		t.Fatalf("state = %v, want ctxCold", bot.state())
	}

	bot.send(ButtonEvent("ctx:cold:yes"))
	bot.send(ButtonEvent("ctx:boiler:yes"))
	result := bot.send(ButtonEvent("ctx:new:no"))

	if bot.state() != domain.StateShowResults {
		t.Fatalf("state = %v, want showResults", bot.state())
	}
	if !strings.Contains(result.Text, "+36%") {
		t.Errorf("result headline missing percent change:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "Вероятные причины:") {
		t.Errorf("result missing reasons block:\n%s", result.Text)
	}
	if len(result.Choices) == 0 || result.Choices[0].Data != "actdone:1" {
		t.Errorf("result keyboard = %v", result.Choices)
	}

	// Both observations were persisted before the engine ran.
	bills := bot.repo.bills["u1"]
	if len(bills) != 2 {
		t.Fatalf("got %d bills, want current and prev", len(bills))
	}
	if bills[0].Kind != domain.BillCurrent || bills[1].Kind != domain.BillPrev {
		t.Errorf("bill kinds = %v, %v", bills[0].Kind, bills[1].Kind)
	}

	ev := bot.repo.lastEvent("analysis_generated")
	if ev == nil {
		t.Fatal("analysis_generated not audited")
	}
	if ev.Payload["basis"] != "kwh" || ev.Payload["spike"] != true {
		t.Errorf("audit payload = %v", ev.Payload)
	}

	// Acknowledge the first action.
	ack := bot.send(ButtonEvent("actdone:1"))
	if bot.state() != domain.StateIdle {
		t.Errorf("state = %v, want idle after ack", bot.state())
	}
	if len(bot.repo.actions) != 1 || !strings.HasPrefix(bot.repo.actions[0], "top3_1:") {
		t.Errorf("acknowledged actions = %v", bot.repo.actions)
	}
	if len(ack.Notices) == 0 || !strings.Contains(ack.Notices[0], "Отмечено") {
		t.Errorf("ack notices = %v", ack.Notices)
	}
}

func TestAnalyzeWithoutPreviousPeriod(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/analyze"))
	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:kwh"))
	bot.send(TextEvent("900"))
	bot.send(ButtonEvent("prev:no"))
	bot.send(ButtonEvent("ctx:cold:no"))
	bot.send(ButtonEvent("ctx:boiler:no"))
	result := bot.send(ButtonEvent("ctx:new:no"))

	if !strings.Contains(result.Text, "Данных для сравнения мало") {
		t.Errorf("expected no-comparison headline:\n%s", result.Text)
	}
	if len(bot.repo.bills["u1"]) != 1 {
		t.Errorf("got %d bills, want only current (absent prev stays absent)", len(bot.repo.bills["u1"]))
	}
	ev := bot.repo.lastEvent("analysis_generated")
	if ev == nil || ev.Payload["basis"] != "none" {
		t.Errorf("audit = %+v", ev)
	}
}

func TestValuesValidation(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/analyze"))
	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:both"))

	bot.send(TextEvent("не знаю"))
	if bot.state() != domain.StateAskValuesCur {
		t.Error("garbage input must not advance")
	}

	bot.send(TextEvent("980"))
	if bot.state() != domain.StateAskValuesCur {
		t.Error("single number in both-mode must re-prompt")
	}

	warned := bot.send(TextEvent("25000 и 52000"))
	if bot.state() != domain.StateAskHasPrev {
		t.Error("suspect value is advisory, flow must continue")
	}
	if len(warned.Notices) == 0 {
		t.Error("expected a range warning notice")
	}
}

func TestCustomPeriodEntry(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/analyze"))
	bot.send(ButtonEvent("period:custom"))
	if bot.state() != domain.StateAskPeriodCustomCur {
		t.Fatalf("state = %v", bot.state())
	}

	bot.send(TextEvent("как-нибудь"))
	if bot.state() != domain.StateAskPeriodCustomCur {
		t.Error("bad date range must not advance")
	}

	bot.send(TextEvent("с 01.01.2026 по 31.01.2026"))
	if bot.state() != domain.StateAskValueModeCur {
		t.Errorf("state = %v, want value mode", bot.state())
	}
}

func TestSavingsJourney(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", true)
	kwh := 900.0
	bot.repo.bills["u1"] = []domain.BillRecord{{
		UserID: "u1",
		Kind:   domain.BillCurrent,
		Period: domain.Period{Days: 30},
		KWh:    &kwh,
	}}

	bot.send(CommandEvent("/savings"))
	if bot.state() != domain.StateSavingsPeriod {
		t.Fatalf("state = %v", bot.state())
	}

	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:kwh"))
	bot.send(TextEvent("720"))
	if bot.state() != domain.StateSavingsTariff {
		t.Fatalf("state = %v, want tariff question for tariff-aware user", bot.state())
	}

	result := bot.send(TextEvent("25"))
	if bot.state() != domain.StateIdle {
		t.Errorf("state = %v, want idle", bot.state())
	}
	if !strings.Contains(result.Text, "Экономия есть") {
		t.Errorf("expected improvement verdict:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "4500") {
		t.Errorf("expected money estimate for tariff 25:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "30.0") || !strings.Contains(result.Text, "24.0") {
		t.Errorf("expected per-day self-check:\n%s", result.Text)
	}

	ev := bot.repo.lastEvent("savings_calculated")
	if ev == nil {
		t.Fatal("savings_calculated not audited")
	}
	if ev.Payload["tariff_used"] != true {
		t.Errorf("audit payload = %v", ev.Payload)
	}
}

func TestSavingsNeedsBaseline(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/savings"))
	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:kwh"))
	result := bot.send(TextEvent("720"))

	if bot.state() != domain.StateIdle {
		t.Errorf("state = %v, want idle", bot.state())
	}
	if !strings.Contains(result.Text, "базовый период") {
		t.Errorf("expected baseline-missing message:\n%s", result.Text)
	}
}

func TestCollaboratorFailureKeepsState(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/analyze"))
	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:kwh"))
	bot.send(TextEvent("900"))
	bot.send(ButtonEvent("prev:no"))
	bot.send(ButtonEvent("ctx:cold:no"))
	bot.send(ButtonEvent("ctx:boiler:no"))

	bot.repo.failOn = "SaveBillRecord"
	_, _, err := bot.ctrl.Handle(context.Background(), bot.user, ButtonEvent("ctx:new:no"))
	if !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want injected failure", err)
	}
	if bot.state() != domain.StateCtxNewAppliance {
		t.Errorf("state = %v, failed step must not move the session", bot.state())
	}

	// The same input succeeds once the collaborator recovers.
	bot.repo.failOn = ""
	bot.send(ButtonEvent("ctx:new:no"))
	if bot.state() != domain.StateShowResults {
		t.Errorf("state = %v, want showResults after retry", bot.state())
	}
}

func TestUnexpectedEventsIgnored(t *testing.T) {
	bot := newTestBot(t)

	bot.send(CommandEvent("/start"))

	// Free text while a button answer is expected.
	_, handled, err := bot.ctrl.Handle(context.Background(), bot.user, TextEvent("Алматы"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if handled {
		t.Error("free text in a button state must be ignored")
	}
	if bot.state() != domain.StateAskCity {
		t.Errorf("state = %v, want unchanged", bot.state())
	}

	// Stale button from a different step.
	_, handled, err = bot.ctrl.Handle(context.Background(), bot.user, ButtonEvent("ctx:cold:yes"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if handled {
		t.Error("out-of-state button must be ignored")
	}
}

func TestPrivacyReset(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", true)

	bot.send(CommandEvent("/privacy"))
	prompt := bot.send(ButtonEvent("privacy:reset"))

	if bot.repo.resets != 1 {
		t.Errorf("resets = %d, want 1", bot.repo.resets)
	}
	if bot.state() != domain.StateIdle {
		t.Errorf("state = %v, want idle", bot.state())
	}
	if len(prompt.Notices) == 0 {
		t.Error("expected reset confirmation notice")
	}
	if bot.repo.lastEvent("privacy_reset") == nil {
		t.Error("privacy_reset not audited")
	}
	if bot.repo.profiles["u1"].Onboarded() {
		t.Error("profile not wiped")
	}
}

func TestFeedback(t *testing.T) {
	bot := newTestBot(t)

	bot.send(CommandEvent("/feedback"))
	if bot.state() != domain.StateFeedbackComment {
		t.Fatalf("state = %v", bot.state())
	}

	rated := bot.send(ButtonEvent("fb:5"))
	if !strings.Contains(rated.Text, "5/5") {
		t.Errorf("rated prompt = %q", rated.Text)
	}
	if bot.state() != domain.StateFeedbackComment {
		t.Error("rating must stay on the comment step")
	}

	done := bot.send(TextEvent("Очень полезно, спасибо!"))
	if bot.state() != domain.StateIdle {
		t.Errorf("state = %v, want idle", bot.state())
	}
	if len(done.Notices) == 0 {
		t.Error("expected thanks notice")
	}

	ev := bot.repo.lastEvent("feedback_submitted")
	if ev == nil {
		t.Fatal("feedback_submitted not audited")
	}
	if ev.Payload["star"] != 5 {
		t.Errorf("star = %v, want 5", ev.Payload["star"])
	}
	if ev.Payload["comment"] != "Очень полезно, спасибо!" {
		t.Errorf("comment = %v", ev.Payload["comment"])
	}
}

func TestDemoClearsInterruptedJourney(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/analyze"))
	bot.send(ButtonEvent("period:last30"))
	bot.send(ButtonEvent("valmode:kwh"))
	bot.send(TextEvent("900"))

	prompt := bot.send(CommandEvent("/demo"))
	if len(prompt.Notices) == 0 || !strings.Contains(prompt.Notices[0], "Демо") {
		t.Errorf("demo notices = %v", prompt.Notices)
	}

	sess := bot.ctrl.sessions.Peek(bot.user)
	if sess.State != domain.StateIdle {
		t.Errorf("state = %v, want idle", sess.State)
	}
	if sess.Flow != domain.FlowNone {
		t.Errorf("flow = %q, want none", sess.Flow)
	}
	if sess.Draft.Current != nil || sess.Draft.ValueMode != "" {
		t.Errorf("draft not cleared: %+v", sess.Draft)
	}

	ev := bot.repo.lastEvent("command_used")
	if ev == nil || !ev.IsDemo {
		t.Errorf("demo not audited with demo flag: %+v", ev)
	}
}

func TestMenuNavigationFromMidJourney(t *testing.T) {
	bot := newTestBot(t)
	bot.repo.seedOnboarded("u1", false)

	bot.send(CommandEvent("/analyze"))
	bot.send(ButtonEvent("period:last30"))
	prompt := bot.send(ButtonEvent("nav:menu"))

	if bot.state() != domain.StateIdle {
		t.Errorf("state = %v, want idle", bot.state())
	}
	if len(prompt.Choices) == 0 || prompt.Choices[0].Data != "menu:analyze" {
		t.Errorf("expected the main menu, got %v", prompt.Choices)
	}
}
