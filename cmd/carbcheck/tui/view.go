package tui

import (
	"fmt"
	"strings"
	"time"

	"carbcheck/cmd/carbcheck/ui"
	"carbcheck/internal/deeplink"
	"carbcheck/internal/education"
	"carbcheck/internal/leads"
	"carbcheck/internal/region"
	"carbcheck/internal/toolkit"
	"carbcheck/internal/vin"
)

// View renders the full frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("MOBILE CARB CHECK  •  NEED IMMEDIATE TESTING? CALL 617-359-6953  •  SERVING CA STATEWIDE"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.screen {
	case ScreenHome:
		b.WriteString(m.viewHome())
	case ScreenLocator:
		b.WriteString(m.viewLocator())
	case ScreenChat:
		b.WriteString(m.viewChat())
	case ScreenAcademy:
		b.WriteString(m.viewAcademy())
	case ScreenTools:
		b.WriteString(m.viewTools())
	case ScreenProfile:
		b.WriteString(m.viewProfile())
	case ScreenShare:
		b.WriteString(m.viewShare())
	case ScreenAdmin:
		b.WriteString(m.viewAdmin())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.status))
		} else {
			b.WriteString(m.styles.Success.Render(m.status))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("tab: next screen  •  ctrl+c: quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	last := ScreenShare
	if m.adminUnlocked {
		last = ScreenAdmin
	}
	var tabs []string
	for s := ScreenHome; s <= last; s++ {
		if s == m.screen {
			tabs = append(tabs, m.styles.TabOn.Render(s.String()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(s.String()))
		}
	}
	return strings.Join(tabs, m.styles.Muted.Render("|"))
}

// ---------------------------------------------------------------------------
// Home

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Is Your Truck Compliant?"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Check your CARB Clean Truck Check status by VIN."))
	b.WriteString("\n\n")

	switch m.workflow.Phase() {
	case vin.PhaseAwaitingConfirm:
		card := m.styles.Bold.Render("Check this VIN?") + "\n\n" +
			m.styles.Title.Render(m.workflow.Candidate()) + "\n" +
			m.styles.Muted.Render("Your check is saved to history, then the official state\nlookup opens in your browser.") + "\n\n" +
			m.styles.Prompt.Render("y") + " confirm    " + m.styles.Prompt.Render("n") + " cancel"
		b.WriteString(m.styles.Card.Render(card))

	case vin.PhaseAwaitingResult:
		card := m.styles.Bold.Render("What did the state site say?") + "\n\n" +
			m.styles.Success.Render("c") + " compliant    " + m.styles.Error.Render("b") + " blocked / not compliant"
		b.WriteString(m.styles.Card.Render(card))

	case vin.PhaseResolved:
		if m.workflow.Outcome() == vin.OutcomeBlocked {
			card := m.styles.Error.Render("Blocked vehicles can't renew DMV registration.") + "\n" +
				m.styles.Body.Render("We come to your yard and get you passed.") + "\n\n" +
				m.styles.Prompt.Render("t") + " find a mobile tester"
			b.WriteString(m.styles.Card.Render(card))
		} else {
			b.WriteString(m.styles.Success.Render("You're all set. Drive on."))
		}

	default:
		b.WriteString(m.styles.Prompt.Render("Enter your 17-character VIN"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		if m.vinErr != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Error.Render(m.vinErr))
		}
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Have a photo of the door sticker? /scan <path-to-image>"))
		if m.user != nil && len(m.user.History) > 0 {
			b.WriteString("\n\n")
			b.WriteString(m.historyTable(3).View(m.styles))
		}
	}
	return b.String()
}

func (m Model) historyTable(limit int) *ui.SimpleTable {
	t := ui.NewSimpleTable("Recent Checks", []string{"When", "Type", "Value"})
	for i, item := range m.user.History {
		if limit > 0 && i >= limit {
			break
		}
		when := time.UnixMilli(item.Timestamp).Format("1/2/2006 15:04")
		t.AddRow(when, string(item.Type), item.Value)
	}
	return t
}

// ---------------------------------------------------------------------------
// Locator

func (m Model) viewLocator() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Request a Mobile Tester"))
	b.WriteString("\n")

	zip := m.locFields[locZip]
	if m.locFocus == locZip {
		zip = m.input.Value()
	}
	b.WriteString(m.styles.Subtitle.Render("Service area: " + region.Lookup(zip)))
	b.WriteString("\n\n")

	for i := 0; i < locFieldCount; i++ {
		label := fmt.Sprintf("%-8s", locLabels[i])
		if i == m.locFocus {
			b.WriteString(m.styles.Prompt.Render("› " + label))
			b.WriteString(m.input.View())
		} else {
			b.WriteString(m.styles.Muted.Render("  " + label))
			b.WriteString(m.styles.Body.Render(m.locFields[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	check := "[ ]"
	if m.locAppLink {
		check = "[x]"
	}
	b.WriteString(m.styles.Body.Render(check + " Text me a link to the Mobile CARB App (ctrl+a)"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("↑/↓ move  •  ctrl+s text us  •  ctrl+e email us"))
	return b.String()
}

// ---------------------------------------------------------------------------
// Chat

func (m *Model) syncChatViewport() {
	var b strings.Builder
	for _, msg := range m.chatHistory {
		if msg.Role == "user" {
			b.WriteString(m.styles.Prompt.Render("You: "))
			b.WriteString(m.styles.UserInput.Render(msg.Text))
		} else {
			rendered := msg.Text
			if m.renderer != nil {
				if out, err := m.renderer.Render(msg.Text); err == nil {
					rendered = strings.TrimSpace(out)
				}
			}
			b.WriteString(m.styles.Assistant.Render(rendered))
		}
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Compliance Assistant"))
	b.WriteString("\n")
	if len(m.chatHistory) == 0 {
		b.WriteString(m.styles.Muted.Render("Ask about deadlines, fees, blocked status, or anything\nClean Truck Check. /scan <image> reads a VIN from a photo."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")
	if m.chatBusy {
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Muted.Render(" thinking..."))
	} else {
		b.WriteString(m.input.View())
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Academy

func (m *Model) syncAcademyViewport() {
	if !m.academyExpanded {
		return
	}
	topics := education.Topics()
	topic := topics[m.academyIdx]
	content := topic.Markdown
	if m.renderer != nil {
		if out, err := m.renderer.Render(topic.Markdown); err == nil {
			content = out
		}
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m Model) viewAcademy() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("CARB Academy"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("What the state forgets to tell you."))
	b.WriteString("\n\n")

	if m.academyExpanded {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("esc: back to topics"))
		return b.String()
	}

	for i, topic := range education.Topics() {
		if i == m.academyIdx {
			b.WriteString(m.styles.Prompt.Render("› " + topic.Title))
		} else {
			b.WriteString(m.styles.Body.Render("  " + topic.Title))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter: read  •  v: CARB videos  •  p: official portal"))
	return b.String()
}

// ---------------------------------------------------------------------------
// Tools

func (m Model) viewTools() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Field Technician"))
	b.WriteString(" ")
	b.WriteString(m.styles.Badge.Render("PRO MODE"))
	b.WriteString("\n")

	names := []string{"OPACITY", "OBD PREP", "INVOICE"}
	var tabs []string
	for i, n := range names {
		if ToolsTab(i) == m.toolsTab {
			tabs = append(tabs, m.styles.TabOn.Render(n))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(n))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch m.toolsTab {
	case ToolsOpacity:
		year := yearOrZero(m.engineYear)
		limit := toolkit.OpacityLimit(year, m.hasDPF)
		card := m.styles.Muted.Render("MAXIMUM OPACITY LIMIT") + "\n\n" +
			m.styles.Title.Render(fmt.Sprintf("%d%%", limit)) + "\n" +
			m.styles.Muted.Render("Any reading above this is a FAIL.")
		b.WriteString(m.styles.Card.Render(card))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Prompt.Render("Engine year: "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		dpf := "no"
		if m.hasDPF {
			dpf = "yes"
		}
		b.WriteString(m.styles.Body.Render("Has DPF filter: " + dpf + " (d to toggle)"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("All 2007+ engines are 5%. Any DPF retrofit is 5%."))

	case ToolsOBD:
		b.WriteString(m.styles.Bold.Render("Monitor Checklist"))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Monitors must be Ready before the official run."))
		b.WriteString("\n\n")
		for i, mon := range m.monitors {
			cursor := "  "
			if i == m.obdFocus {
				cursor = "› "
			}
			state := m.styles.Error.Render("NOT READY")
			if mon.Ready {
				state = m.styles.Success.Render("READY")
			}
			b.WriteString(m.styles.Body.Render(cursor+fmt.Sprintf("%-24s", mon.Name)) + state)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if toolkit.AllReady(m.monitors) {
			b.WriteString(m.styles.Success.Render("All monitors ready. Start the official run."))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Footer.Render("space: toggle  •  a: mark all ready  •  r: reset"))

	case ToolsReceipt:
		b.WriteString(m.styles.Bold.Render("Quick Receipt Generator"))
		b.WriteString("\n\n")
		for i := 0; i < rcptFieldCount; i++ {
			label := fmt.Sprintf("%-16s", rcptLabels[i])
			if i == m.rcptFocus {
				b.WriteString(m.styles.Prompt.Render("› " + label))
				b.WriteString(m.input.View())
			} else {
				b.WriteString(m.styles.Muted.Render("  " + label))
				b.WriteString(m.styles.Body.Render(m.rcptFields[i]))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Footer.Render("↑/↓ move  •  ctrl+s send receipt text"))
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Profile

func (m Model) viewProfile() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Your Account"))
	b.WriteString("\n")

	if m.user == nil {
		b.WriteString(m.styles.Subtitle.Render("Sign in to keep your check history on this device."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Prompt.Render("Email: "))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render("enter: sign in  •  ctrl+r: create account"))
		return b.String()
	}

	b.WriteString(m.styles.Body.Render("Signed in as "))
	b.WriteString(m.styles.Bold.Render(m.user.Email))
	b.WriteString("\n\n")
	if len(m.user.History) == 0 {
		b.WriteString(m.styles.Muted.Render("No checks yet. Run one from the CHECK screen."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.historyTable(0).View(m.styles))
	}
	b.WriteString(m.styles.Footer.Render("l: sign out"))
	return b.String()
}

// ---------------------------------------------------------------------------
// Share

func (m Model) viewShare() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Share the App"))
	b.WriteString("\n")
	b.WriteString(m.styles.Body.Render(deeplink.ShareText))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Bold.Render(deeplink.ShareURL))
	b.WriteString("\n\n")
	rows := []string{
		m.styles.Prompt.Render("x") + " post on X",
		m.styles.Prompt.Render("f") + " share on Facebook",
		m.styles.Prompt.Render("r") + " submit to Reddit",
		m.styles.Prompt.Render("s") + " text the link",
		m.styles.Prompt.Render("e") + " email the link",
		m.styles.Prompt.Render("c") + " copy to clipboard",
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}

// ---------------------------------------------------------------------------
// Admin

func (m Model) viewAdmin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("NorCal Scout Admin"))
	b.WriteString(" ")
	b.WriteString(m.styles.Badge.Render("INTERNAL"))
	b.WriteString("\n")

	names := []string{"LEADS", "LINKS", "FINANCIALS"}
	var tabs []string
	for i, n := range names {
		if AdminTab(i) == m.adminTab {
			tabs = append(tabs, m.styles.TabOn.Render(n))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(n))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch m.adminTab {
	case AdminLeads:
		if m.scoutBusy {
			b.WriteString(m.spinner.View())
			b.WriteString(m.styles.Muted.Render(" analyzing photo..."))
			b.WriteString("\n\n")
		} else {
			b.WriteString(m.styles.Prompt.Render("Photo of a truck or yard: "))
			b.WriteString(m.input.View())
			b.WriteString("\n\n")
		}
		all := m.leadStore.All()
		if len(all) == 0 {
			b.WriteString(m.styles.Muted.Render("No leads captured yet."))
		} else {
			b.WriteString(renderLeads(m.styles, all))
		}

	case AdminLinks:
		b.WriteString(m.styles.Body.Render("Create a personalized welcome link for a fleet manager."))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Prompt.Render("Client name: "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.clientLink != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Success.Render("Ready to share:"))
			b.WriteString("\n")
			b.WriteString(m.styles.Body.Render(m.clientLink))
			b.WriteString("\n")
			b.WriteString(m.styles.Footer.Render("ctrl+y: copy to clipboard"))
		}

	case AdminFinancials:
		t := ui.NewSimpleTable("Revenue Projections (2026-2030)", []string{"Year", "Trucks", "Tests/Yr", "Revenue"})
		for _, p := range leads.Projections() {
			t.AddRow(
				fmt.Sprintf("%d", p.Year),
				fmt.Sprintf("%d", p.Trucks),
				fmt.Sprintf("%dx", p.TestsPerYear),
				fmt.Sprintf("$%s", commaInt(p.Revenue)),
			)
		}
		b.WriteString(t.View(m.styles))
	}
	return b.String()
}

func renderLeads(s ui.Styles, all []leads.Lead) string {
	var b strings.Builder
	for _, l := range all {
		b.WriteString(s.Bold.Render(l.Company))
		b.WriteString("\n")
		meta := l.Industry + " • " + l.Location
		if l.DOT != "" {
			meta += " • DOT: " + l.DOT
		}
		b.WriteString(s.Muted.Render(meta))
		b.WriteString("\n")
		if l.Phone != "" {
			b.WriteString(s.Success.Render(l.Phone))
			b.WriteString("\n")
		}
		if l.EmailDraft != "" {
			draft := l.EmailDraft
			if idx := strings.IndexByte(draft, '\n'); idx > 0 {
				draft = draft[:idx] + " ..."
			}
			b.WriteString(s.Muted.Render("Draft: " + draft))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// commaInt formats n with thousands separators.
func commaInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
