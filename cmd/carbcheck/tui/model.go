// Package tui implements the interactive Mobile Carb Check terminal app:
// VIN compliance checks, tester requests, the compliance assistant, the
// CARB academy, the technician toolkit, and the internal admin screens.
package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"carbcheck/cmd/carbcheck/ui"
	"carbcheck/internal/account"
	"carbcheck/internal/assist"
	"carbcheck/internal/config"
	"carbcheck/internal/leads"
	"carbcheck/internal/platform"
	"carbcheck/internal/toolkit"
	"carbcheck/internal/vin"
)

// Screen identifies the active top-level view.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenLocator
	ScreenChat
	ScreenAcademy
	ScreenTools
	ScreenProfile
	ScreenShare
	ScreenAdmin
)

var screenNames = []string{"CHECK", "TESTER", "ASSIST", "ACADEMY", "TOOLS", "PROFILE", "SHARE", "ADMIN"}

func (s Screen) String() string {
	if int(s) < len(screenNames) {
		return screenNames[s]
	}
	return "?"
}

// ToolsTab is the active technician toolkit sub-view.
type ToolsTab int

const (
	ToolsOpacity ToolsTab = iota
	ToolsOBD
	ToolsReceipt
)

// AdminTab is the active admin sub-view.
type AdminTab int

const (
	AdminLeads AdminTab = iota
	AdminLinks
	AdminFinancials
)

// locator form field indexes, in display order.
const (
	locName = iota
	locPhone
	locZip
	locVehicle
	locDate
	locTime
	locNotes
	locFieldCount
)

var locLabels = [locFieldCount]string{"Name", "Phone", "Zip", "Vehicle", "Date", "Time", "Notes"}

// receipt form field indexes.
const (
	rcptPhone = iota
	rcptAmount
	rcptVIN
	rcptFieldCount
)

var rcptLabels = [rcptFieldCount]string{"Customer Phone", "Amount ($)", "VIN (Last 6)"}

// Options carries the collaborators the model needs. Assist may be nil
// when no API key is configured; those screens degrade gracefully.
type Options struct {
	Config    *config.Config
	Accounts  *account.Store
	Leads     *leads.Store
	Assist    assist.Service
	Opener    platform.Opener
	Clipboard platform.Clipboard
	Styles    ui.Styles
}

// Model is the root Bubble Tea model.
type Model struct {
	styles   ui.Styles
	renderer *glamour.TermRenderer

	screen Screen
	width  int
	height int
	ready  bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Transient status line, cleared on the next keypress.
	status    string
	statusErr bool

	// Collaborators
	cfg       *config.Config
	accounts  *account.Store
	leadStore *leads.Store
	assist    assist.Service
	opener    platform.Opener
	clipboard platform.Clipboard

	// Session
	user *account.User

	// Home / VIN checker
	workflow *vin.Workflow
	vinErr   string

	// Locator form
	locFields  [locFieldCount]string
	locFocus   int
	locAppLink bool

	// Chat
	chatHistory []assist.Message
	chatBusy    bool

	// Academy
	academyIdx      int
	academyExpanded bool

	// Tools
	toolsTab   ToolsTab
	engineYear string
	hasDPF     bool
	monitors   []toolkit.Monitor
	obdFocus   int
	rcptFields [rcptFieldCount]string
	rcptFocus  int

	// Admin
	adminUnlocked bool
	adminTab      AdminTab
	clientName    string
	clientLink    string
	scoutBusy     bool
}

// New builds the root model. The session is restored immediately so the
// first frame already shows the signed-in user.
func New(opts Options) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Spinner

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)

	m := Model{
		styles:     opts.Styles,
		renderer:   renderer,
		input:      in,
		spinner:    sp,
		cfg:        opts.Config,
		accounts:   opts.Accounts,
		leadStore:  opts.Leads,
		assist:     opts.Assist,
		opener:     opts.Opener,
		clipboard:  opts.Clipboard,
		user:       opts.Accounts.RestoreSession(),
		engineYear: strconv.Itoa(time.Now().Year()),
		hasDPF:     true,
		monitors:   toolkit.NewChecklist(),
		locAppLink: true,
	}
	m.locFields[locVehicle] = "Heavy Duty (OBD + Smoke)"
	m.workflow = vin.NewWorkflow(m.recordCheck, opts.Opener.Open)
	return m
}

// recordCheck appends a confirmed check to the signed-in user's history.
// The store's session is the source of truth for who is signed in, since
// this hook outlives any one copy of the model. Anonymous sessions are a
// deliberate no-op, matching AppendHistory.
func (m *Model) recordCheck(normalized string) error {
	email := ""
	if u := m.accounts.RestoreSession(); u != nil {
		email = u.Email
	}
	_, err := m.accounts.AppendHistory(email, normalized, account.LookupVIN)
	return err
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}
