package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"carbcheck/internal/account"
	"carbcheck/internal/deeplink"
	"carbcheck/internal/education"
	"carbcheck/internal/locator"
	"carbcheck/internal/toolkit"
	"carbcheck/internal/vin"
)

// Update routes messages to the active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 8
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if m.chatBusy || m.scoutBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case chatReplyMsg:
		m.chatBusy = false
		if msg.err != nil {
			m.setError("Assistant unavailable. Try again or call " + formatPhone(deeplink.SupportPhone) + ".")
			return m, nil
		}
		m.chatHistory = append(m.chatHistory, assistModelMessage(msg.reply))
		m.syncChatViewport()
		return m, nil

	case scanResultMsg:
		m.chatBusy = false
		if msg.err != nil {
			// Extraction is best effort; the user types it instead.
			m.setError("Scan failed. Please enter the VIN manually.")
			m.screen = ScreenHome
			return m, nil
		}
		m.screen = ScreenHome
		m.input.SetValue(msg.vin)
		if vin.HasIllegalLetters(msg.vin) {
			m.setError("Scanned VIN contains I, O, or Q. Check it against the door sticker before submitting.")
		} else {
			m.setStatus("VIN read from photo. Press Enter to check it.")
		}
		return m, nil

	case scoutResultMsg:
		m.scoutBusy = false
		if msg.err != nil {
			m.setError("Scout analysis failed.")
			return m, nil
		}
		if _, err := m.leadStore.Add(msg.lead); err != nil {
			m.setError("Could not save lead: " + err.Error())
			return m, nil
		}
		m.adminTab = AdminLeads
		m.setStatus("Lead captured: " + msg.lead.Company)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.statusErr = false

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		m.switchScreen(m.nextScreen(1))
		return m, nil
	case tea.KeyShiftTab:
		m.switchScreen(m.nextScreen(-1))
		return m, nil
	}

	switch m.screen {
	case ScreenHome:
		return m.updateHome(msg)
	case ScreenLocator:
		return m.updateLocator(msg)
	case ScreenChat:
		return m.updateChat(msg)
	case ScreenAcademy:
		return m.updateAcademy(msg)
	case ScreenTools:
		return m.updateTools(msg)
	case ScreenProfile:
		return m.updateProfile(msg)
	case ScreenShare:
		return m.updateShare(msg)
	case ScreenAdmin:
		return m.updateAdmin(msg)
	}
	return m, nil
}

// nextScreen cycles visible screens. Admin only appears once unlocked;
// it is reached by typing the admin code on the profile screen.
func (m *Model) nextScreen(dir int) Screen {
	last := ScreenShare
	if m.adminUnlocked {
		last = ScreenAdmin
	}
	next := int(m.screen) + dir
	if next < 0 {
		next = int(last)
	}
	if next > int(last) {
		next = 0
	}
	return Screen(next)
}

func (m *Model) switchScreen(s Screen) {
	m.screen = s
	m.input.SetValue("")
	switch s {
	case ScreenLocator:
		m.input.SetValue(m.locFields[m.locFocus])
	case ScreenTools:
		m.syncToolsInput()
	case ScreenAcademy:
		m.academyExpanded = false
		m.syncAcademyViewport()
	case ScreenChat:
		m.syncChatViewport()
	}
}

// ---------------------------------------------------------------------------
// Home / VIN checker

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.workflow.Phase() {
	case vin.PhaseAwaitingConfirm:
		switch msg.String() {
		case "y", "enter":
			if err := m.workflow.Confirm(); err != nil {
				if m.workflow.Phase() == vin.PhaseAwaitingResult {
					// Recorded but the browser did not open.
					if u := m.accounts.RestoreSession(); u != nil {
						m.user = u
					}
					m.setError("Could not open the lookup site. Visit " + vin.LookupURL(m.workflow.Candidate()) + " yourself.")
				} else {
					m.setError(err.Error())
				}
				return m, nil
			}
			if u := m.accounts.RestoreSession(); u != nil {
				m.user = u
			}
			m.setStatus("Check recorded. The state lookup opened in your browser.")
		case "n", "esc":
			m.workflow.Cancel()
		}
		return m, nil

	case vin.PhaseAwaitingResult:
		switch msg.String() {
		case "c":
			_ = m.workflow.Report(vin.OutcomeCompliant)
		case "b":
			_ = m.workflow.Report(vin.OutcomeBlocked)
		case "esc":
			m.workflow.Cancel()
		}
		return m, nil

	case vin.PhaseResolved:
		if m.workflow.Outcome() == vin.OutcomeBlocked {
			switch msg.String() {
			case "t", "enter":
				m.workflow.Acknowledge()
				m.switchScreen(ScreenLocator)
				return m, nil
			}
		}
		m.workflow.Acknowledge()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		raw := m.input.Value()
		if strings.HasPrefix(raw, "/scan ") {
			return m.startScan(strings.TrimSpace(strings.TrimPrefix(raw, "/scan ")))
		}
		if raw == "" {
			return m, nil
		}
		m.vinErr = ""
		if err := m.workflow.Submit(raw); err != nil {
			m.vinErr = err.Error()
			return m, nil
		}
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Locator

func (m Model) updateLocator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.locFields[m.locFocus] = m.input.Value()
		if m.locFocus > 0 {
			m.locFocus--
		}
		m.input.SetValue(m.locFields[m.locFocus])
		return m, nil
	case tea.KeyDown, tea.KeyEnter:
		m.locFields[m.locFocus] = m.input.Value()
		if m.locFocus < locFieldCount-1 {
			m.locFocus++
		}
		m.input.SetValue(m.locFields[m.locFocus])
		return m, nil
	case tea.KeyCtrlA:
		m.locAppLink = !m.locAppLink
		return m, nil
	case tea.KeyCtrlS:
		return m.sendLocator(false)
	case tea.KeyCtrlE:
		return m.sendLocator(true)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) locatorRequest() locator.Request {
	f := m.locFields
	f[m.locFocus] = m.input.Value()
	return locator.Request{
		Name:        f[locName],
		Phone:       f[locPhone],
		Zip:         f[locZip],
		VehicleType: f[locVehicle],
		Date:        f[locDate],
		Time:        f[locTime],
		Notes:       f[locNotes],
		WantAppLink: m.locAppLink,
	}
}

func (m Model) sendLocator(email bool) (tea.Model, tea.Cmd) {
	req := m.locatorRequest()
	var uri string
	var err error
	if email {
		uri, err = req.EmailLink()
	} else {
		uri, err = req.SMSLink()
	}
	if err != nil {
		m.setError("Please enter Name and Phone.")
		return m, nil
	}
	if err := m.opener.Open(uri); err != nil {
		m.setError("Could not open your messaging app. Call " + formatPhone(deeplink.SupportPhone) + " instead.")
		return m, nil
	}
	m.setStatus("Request drafted for the " + req.Region() + " team.")
	return m, nil
}

// ---------------------------------------------------------------------------
// Chat

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.chatBusy {
			return m, nil
		}
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			return m, nil
		}
		if m.assist == nil {
			m.setError("Assistant not configured. Set GEMINI_API_KEY or run carbcheck config.")
			return m, nil
		}
		if strings.HasPrefix(prompt, "/scan ") {
			return m.startScan(strings.TrimSpace(strings.TrimPrefix(prompt, "/scan ")))
		}
		m.input.SetValue("")
		m.chatHistory = append(m.chatHistory, assistUserMessage(prompt))
		m.chatBusy = true
		m.syncChatViewport()
		return m, tea.Batch(m.spinner.Tick, chatCmd(m.assist, m.chatHistory[:len(m.chatHistory)-1], prompt))
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Academy

func (m Model) updateAcademy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	topics := education.Topics()
	switch msg.String() {
	case "up", "k":
		if !m.academyExpanded && m.academyIdx > 0 {
			m.academyIdx--
		} else if m.academyExpanded {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case "down", "j":
		if !m.academyExpanded && m.academyIdx < len(topics)-1 {
			m.academyIdx++
		} else if m.academyExpanded {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case "enter":
		m.academyExpanded = !m.academyExpanded
		m.syncAcademyViewport()
	case "esc":
		m.academyExpanded = false
	case "v":
		_ = m.opener.Open(education.VideosURL)
		m.setStatus("Opened the official CARB training videos.")
	case "p":
		_ = m.opener.Open(education.PortalURL)
		m.setStatus("Opened the CTC-VIS portal.")
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Tools

func (m Model) updateTools(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyLeft:
		if m.toolsTab > ToolsOpacity {
			m.toolsTab--
			m.syncToolsInput()
		}
		return m, nil
	case tea.KeyRight:
		if m.toolsTab < ToolsReceipt {
			m.toolsTab++
			m.syncToolsInput()
		}
		return m, nil
	}

	switch m.toolsTab {
	case ToolsOpacity:
		switch msg.String() {
		case "d":
			m.hasDPF = !m.hasDPF
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.engineYear = m.input.Value()
		return m, cmd

	case ToolsOBD:
		switch msg.String() {
		case "up", "k":
			if m.obdFocus > 0 {
				m.obdFocus--
			}
		case "down", "j":
			if m.obdFocus < len(m.monitors)-1 {
				m.obdFocus++
			}
		case " ", "enter":
			m.monitors[m.obdFocus].Ready = !m.monitors[m.obdFocus].Ready
		case "a":
			toolkit.SetAll(m.monitors, true)
		case "r":
			m.monitors = toolkit.NewChecklist()
		}
		return m, nil

	case ToolsReceipt:
		switch msg.Type {
		case tea.KeyUp:
			m.rcptFields[m.rcptFocus] = m.input.Value()
			if m.rcptFocus > 0 {
				m.rcptFocus--
			}
			m.input.SetValue(m.rcptFields[m.rcptFocus])
			return m, nil
		case tea.KeyDown, tea.KeyEnter:
			m.rcptFields[m.rcptFocus] = m.input.Value()
			if m.rcptFocus < rcptFieldCount-1 {
				m.rcptFocus++
			}
			m.input.SetValue(m.rcptFields[m.rcptFocus])
			return m, nil
		case tea.KeyCtrlS:
			return m.sendReceipt()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) syncToolsInput() {
	m.input.SetValue("")
	switch m.toolsTab {
	case ToolsOpacity:
		m.input.SetValue(m.engineYear)
	case ToolsReceipt:
		m.input.SetValue(m.rcptFields[m.rcptFocus])
	}
}

func (m Model) sendReceipt() (tea.Model, tea.Cmd) {
	f := m.rcptFields
	f[m.rcptFocus] = m.input.Value()
	r := toolkit.Receipt{
		CustomerPhone: f[rcptPhone],
		Amount:        f[rcptAmount],
		VINLast6:      strings.ToUpper(f[rcptVIN]),
		Date:          nowFunc(),
	}
	uri, err := r.SMSLink()
	if err != nil {
		m.setError("Customer phone and amount are required.")
		return m, nil
	}
	if err := m.opener.Open(uri); err != nil {
		m.setError("Could not open your SMS app.")
		return m, nil
	}
	m.setStatus("Receipt text drafted for " + r.CustomerPhone + ".")
	return m, nil
}

// ---------------------------------------------------------------------------
// Profile

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.user == nil {
		switch msg.Type {
		case tea.KeyEnter:
			email := strings.TrimSpace(m.input.Value())
			if email == m.cfg.GetAdminCode() {
				m.adminUnlocked = true
				m.input.SetValue("")
				m.switchScreen(ScreenAdmin)
				return m, nil
			}
			if email == "" {
				return m, nil
			}
			user, err := m.accounts.Login(email)
			if err != nil {
				m.setError("No account for " + email + ". Press Ctrl+R to create one.")
				return m, nil
			}
			m.user = user
			m.input.SetValue("")
			m.setStatus("Welcome back, " + user.Email + ".")
			return m, nil
		case tea.KeyCtrlR:
			email := strings.TrimSpace(m.input.Value())
			if email == "" {
				return m, nil
			}
			user, err := m.accounts.Register(email)
			if err != nil {
				if err == account.ErrAlreadyExists {
					m.setError("That account exists. Press Enter to sign in.")
				} else {
					m.setError(err.Error())
				}
				return m, nil
			}
			m.user = user
			m.input.SetValue("")
			m.setStatus("Account created. Checks are now saved to your history.")
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "l":
		if err := m.accounts.Logout(); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.user = nil
		m.setStatus("Signed out. Your history stays on this device.")
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Share

func (m Model) updateShare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	open := func(uri, note string) {
		if err := m.opener.Open(uri); err != nil {
			m.setError("Could not open: " + uri)
			return
		}
		m.setStatus(note)
	}
	switch msg.String() {
	case "x":
		open(deeplink.TweetURL(), "Opened the X share window.")
	case "f":
		open(deeplink.FacebookURL(), "Opened the Facebook share window.")
	case "r":
		open(deeplink.RedditURL(), "Opened the Reddit share window.")
	case "s":
		open(deeplink.SMS("", deeplink.ShareBody()), "SMS share drafted.")
	case "e":
		open(deeplink.Mailto("", "Mobile Carb Check App", deeplink.ShareBody()), "Email share drafted.")
	case "c":
		if err := m.clipboard.Copy(deeplink.ShareURL); err != nil {
			m.setError("Clipboard unavailable. The link is " + deeplink.ShareURL)
			return m, nil
		}
		m.setStatus("Link copied to clipboard.")
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Admin

func (m Model) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyLeft:
		if m.adminTab > AdminLeads {
			m.adminTab--
		}
		return m, nil
	case tea.KeyRight:
		if m.adminTab < AdminFinancials {
			m.adminTab++
		}
		return m, nil
	}

	switch m.adminTab {
	case AdminLeads:
		if msg.Type == tea.KeyEnter {
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			if m.assist == nil {
				m.setError("Assistant not configured; scouting needs an API key.")
				return m, nil
			}
			m.input.SetValue("")
			m.scoutBusy = true
			return m, tea.Batch(m.spinner.Tick, scoutCmd(m.assist, path))
		}

	case AdminLinks:
		switch msg.Type {
		case tea.KeyEnter:
			m.clientName = strings.TrimSpace(m.input.Value())
			if m.clientName == "" {
				return m, nil
			}
			m.clientLink = deeplink.ClientWelcomeURL(m.clientName)
			return m, nil
		case tea.KeyCtrlY:
			if m.clientLink == "" {
				return m, nil
			}
			if err := m.clipboard.Copy(m.clientLink); err != nil {
				m.setError("Clipboard unavailable.")
				return m, nil
			}
			m.setStatus("Link copied. Send this to your client.")
			return m, nil
		}

	case AdminFinancials:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Helpers

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func formatPhone(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
}

func yearOrZero(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}
