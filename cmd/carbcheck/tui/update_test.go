package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"carbcheck/cmd/carbcheck/ui"
	"carbcheck/internal/account"
	"carbcheck/internal/assist"
	"carbcheck/internal/config"
	"carbcheck/internal/deeplink"
	"carbcheck/internal/kv"
	"carbcheck/internal/leads"
	"carbcheck/internal/platform"
	"carbcheck/internal/vin"
)

// newTestModel builds a sized model backed by in-memory stores and a
// recording opener/clipboard.
func newTestModel(t *testing.T, svc assist.Service) (Model, *platform.Noop) {
	t.Helper()
	noop := &platform.Noop{}
	surface := kv.NewMem()
	m := New(Options{
		Config:    &config.Config{},
		Accounts:  account.NewStore(surface),
		Leads:     leads.NewStore(surface),
		Assist:    svc,
		Opener:    noop,
		Clipboard: noop,
		Styles:    ui.DefaultStyles(),
	})
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return sized.(Model), noop
}

func press(m Model, msg tea.KeyMsg) Model {
	nm, _ := m.Update(msg)
	return nm.(Model)
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func enter(m Model) Model {
	return press(m, tea.KeyMsg{Type: tea.KeyEnter})
}

// =============================================================================
// NAVIGATION
// =============================================================================

func TestTab_CyclesVisibleScreens(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	want := []Screen{ScreenLocator, ScreenChat, ScreenAcademy, ScreenTools, ScreenProfile, ScreenShare, ScreenHome}
	for _, expected := range want {
		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
		if m.screen != expected {
			t.Fatalf("expected screen %v, got %v", expected, m.screen)
		}
	}
}

func TestShiftTab_WrapsBackwards(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.screen != ScreenShare {
		t.Errorf("expected wrap to SHARE, got %v", m.screen)
	}
}

func TestTab_AdminHiddenUntilUnlocked(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	for i := 0; i < 16; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyTab})
		if m.screen == ScreenAdmin {
			t.Fatal("admin screen reachable without unlock")
		}
	}
}

func TestKeyMsg_CtrlC_Quit(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("expected quit command")
	}
}

// =============================================================================
// PROFILE
// =============================================================================

func TestProfile_RegisterSignsIn(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenProfile

	m = typeText(m, "trucker@fleet.com")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})

	if m.user == nil || m.user.Email != "trucker@fleet.com" {
		t.Fatalf("expected signed-in user, got %+v", m.user)
	}
	if m.statusErr {
		t.Errorf("unexpected error status: %q", m.status)
	}
}

func TestProfile_LoginUnknownEmail(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenProfile

	m = typeText(m, "nobody@fleet.com")
	m = enter(m)

	if m.user != nil {
		t.Fatal("expected no user after failed login")
	}
	if !m.statusErr || !strings.Contains(m.status, "Ctrl+R") {
		t.Errorf("expected create-account hint, got %q", m.status)
	}
}

func TestProfile_LogoutClearsUser(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenProfile

	m = typeText(m, "trucker@fleet.com")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})

	if m.user != nil {
		t.Fatal("expected signed-out user")
	}
}

func TestProfile_AdminCodeUnlocks(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenProfile

	m = typeText(m, "1225")
	m = enter(m)

	if !m.adminUnlocked {
		t.Fatal("expected admin unlock")
	}
	if m.screen != ScreenAdmin {
		t.Errorf("expected admin screen, got %v", m.screen)
	}
}

// =============================================================================
// VIN CHECK FLOW
// =============================================================================

func TestHome_InvalidVINShowsError(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)

	m = typeText(m, "123")
	m = enter(m)

	if m.vinErr == "" {
		t.Error("expected a validation error")
	}
	if m.workflow.Phase() != vin.PhaseIdle {
		t.Errorf("expected idle phase, got %v", m.workflow.Phase())
	}
	if len(noop.Opened) != 0 {
		t.Errorf("nothing should open on invalid input, opened %v", noop.Opened)
	}
}

func TestHome_ConfirmRecordsThenOpens(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)
	m.screen = ScreenProfile
	m = typeText(m, "trucker@fleet.com")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m.screen = ScreenHome
	m.input.SetValue("")

	m = typeText(m, "1hgcm-82633a00 4352")
	m = enter(m)
	if m.workflow.Phase() != vin.PhaseAwaitingConfirm {
		t.Fatalf("expected confirm phase, got %v", m.workflow.Phase())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})

	if len(noop.Opened) != 1 || !strings.Contains(noop.Opened[0], "vin=1HGCM82633A004352") {
		t.Fatalf("expected lookup URL opened, got %v", noop.Opened)
	}
	if m.user == nil || len(m.user.History) != 1 {
		t.Fatalf("expected one history entry, got %+v", m.user)
	}
	if m.user.History[0].Value != "1HGCM82633A004352" {
		t.Errorf("history recorded %q", m.user.History[0].Value)
	}
	if m.workflow.Phase() != vin.PhaseAwaitingResult {
		t.Errorf("expected result phase, got %v", m.workflow.Phase())
	}
}

func TestHome_CancelReturnsToIdle(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)

	m = typeText(m, "1HGCM82633A004352")
	m = enter(m)
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	if m.workflow.Phase() != vin.PhaseIdle {
		t.Errorf("expected idle after cancel, got %v", m.workflow.Phase())
	}
	if len(noop.Opened) != 0 {
		t.Errorf("cancel must not open anything, got %v", noop.Opened)
	}
}

func TestHome_BlockedRoutesToLocator(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	m = typeText(m, "1HGCM82633A004352")
	m = enter(m)
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	if m.workflow.Phase() != vin.PhaseResolved {
		t.Fatalf("expected resolved phase, got %v", m.workflow.Phase())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

	if m.screen != ScreenLocator {
		t.Errorf("expected locator screen, got %v", m.screen)
	}
	if m.workflow.Phase() != vin.PhaseIdle {
		t.Errorf("expected idle after acknowledge, got %v", m.workflow.Phase())
	}
}

func TestScanFailure_IsRecoverable(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenChat

	nm, _ := m.Update(scanResultMsg{err: errors.New("no vin visible")})
	m = nm.(Model)

	if m.status != "Scan failed. Please enter the VIN manually." {
		t.Errorf("got status %q", m.status)
	}
	if m.screen != ScreenHome {
		t.Errorf("expected home screen for manual entry, got %v", m.screen)
	}
}

func TestScanSuccess_PrefillsInput(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenChat

	nm, _ := m.Update(scanResultMsg{vin: "1HGCM82633A004352"})
	m = nm.(Model)

	if m.screen != ScreenHome {
		t.Errorf("expected home screen, got %v", m.screen)
	}
	if m.input.Value() != "1HGCM82633A004352" {
		t.Errorf("input not prefilled: %q", m.input.Value())
	}
}

func TestScanSuccess_WarnsOnIllegalLetters(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenChat

	nm, _ := m.Update(scanResultMsg{vin: "1HGCO82633A004352"})
	m = nm.(Model)

	if !m.statusErr || !strings.Contains(m.status, "door sticker") {
		t.Errorf("expected scanner warning, got %q", m.status)
	}
}

// =============================================================================
// LOCATOR
// =============================================================================

func TestLocator_SendRequiresContact(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)
	m.screen = ScreenLocator

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if !m.statusErr || !strings.Contains(m.status, "Name and Phone") {
		t.Errorf("expected contact error, got %q", m.status)
	}
	if len(noop.Opened) != 0 {
		t.Errorf("nothing should open, got %v", noop.Opened)
	}
}

func TestLocator_SendDraftsSMS(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)
	m.screen = ScreenLocator
	m.locFields[locName] = "Maria Lopez"
	m.locFields[locPhone] = "5105551234"
	m.locFields[locZip] = "94601"
	m.input.SetValue(m.locFields[m.locFocus])

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if len(noop.Opened) != 1 || !strings.HasPrefix(noop.Opened[0], "sms:"+deeplink.SupportPhone) {
		t.Fatalf("expected sms draft, got %v", noop.Opened)
	}
	if !strings.Contains(m.status, "Alameda County") {
		t.Errorf("expected region in status, got %q", m.status)
	}
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat_WithoutAssistShowsConfigError(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.screen = ScreenChat

	m = typeText(m, "am I compliant?")
	m = enter(m)

	if !m.statusErr || !strings.Contains(m.status, "GEMINI_API_KEY") {
		t.Errorf("expected config hint, got %q", m.status)
	}
}

func TestChat_RoundTripAppendsReply(t *testing.T) {
	t.Parallel()
	svc := &assist.Scripted{ChatReply: "You test once a year in 2024."}
	m, _ := newTestModel(t, svc)
	m.screen = ScreenChat

	m = typeText(m, "how often do I test?")
	nm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = nm.(Model)
	if !m.chatBusy {
		t.Fatal("expected busy state while waiting")
	}
	if cmd == nil {
		t.Fatal("expected an async command")
	}

	nm, _ = m.Update(chatReplyMsg{reply: svc.ChatReply})
	m = nm.(Model)

	if m.chatBusy {
		t.Error("expected busy cleared")
	}
	if len(m.chatHistory) != 2 || m.chatHistory[1].Role != "model" {
		t.Fatalf("unexpected history %+v", m.chatHistory)
	}
	if m.chatHistory[1].Text != svc.ChatReply {
		t.Errorf("reply not recorded: %q", m.chatHistory[1].Text)
	}
}

// =============================================================================
// SHARE AND ADMIN
// =============================================================================

func TestShare_CopyPutsLinkOnClipboard(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)
	m.screen = ScreenShare

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	if len(noop.Copied) != 1 || noop.Copied[0] != deeplink.ShareURL {
		t.Errorf("expected share URL copied, got %v", noop.Copied)
	}
}

func TestShare_SocialLinksOpen(t *testing.T) {
	t.Parallel()
	m, noop := newTestModel(t, nil)
	m.screen = ScreenShare

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})

	if len(noop.Opened) != 1 || !strings.Contains(noop.Opened[0], "facebook.com/sharer") {
		t.Errorf("expected facebook share URL, got %v", noop.Opened)
	}
}

func TestAdmin_ScoutResultStoresLead(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.adminUnlocked = true
	m.screen = ScreenAdmin

	nm, _ := m.Update(scoutResultMsg{lead: leads.Lead{Company: "Valley Haulers", Industry: "Agriculture", Location: "Fresno, CA"}})
	m = nm.(Model)

	all := m.leadStore.All()
	if len(all) != 1 || all[0].Company != "Valley Haulers" {
		t.Fatalf("expected stored lead, got %+v", all)
	}
	if !strings.Contains(m.status, "Valley Haulers") {
		t.Errorf("expected capture status, got %q", m.status)
	}
}

// =============================================================================
// VIEW
// =============================================================================

func TestView_RendersEveryScreen(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.adminUnlocked = true

	for s := ScreenHome; s <= ScreenAdmin; s++ {
		m.screen = s
		out := m.View()
		if out == "" {
			t.Errorf("empty view for screen %v", s)
		}
		if !strings.Contains(out, "MOBILE CARB CHECK") {
			t.Errorf("header missing on screen %v", s)
		}
	}
}

func TestView_BlockedPromptMentionsTester(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	m = typeText(m, "1HGCM82633A004352")
	m = enter(m)
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})

	out := m.View()
	if !strings.Contains(out, "find a mobile tester") {
		t.Error("blocked view should offer the tester locator")
	}
}
