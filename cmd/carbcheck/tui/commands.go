package tui

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"carbcheck/internal/assist"
	"carbcheck/internal/leads"
)

// test seam for receipt timestamps
var nowFunc = time.Now

const assistTimeout = 60 * time.Second

// Messages produced by background work.
type (
	chatReplyMsg struct {
		reply string
		err   error
	}

	scanResultMsg struct {
		vin string
		err error
	}

	scoutResultMsg struct {
		lead leads.Lead
		err  error
	}
)

func assistUserMessage(text string) assist.Message {
	return assist.Message{Role: "user", Text: text}
}

func assistModelMessage(text string) assist.Message {
	return assist.Message{Role: "model", Text: text}
}

// chatCmd asks the assistant in the background.
func chatCmd(svc assist.Service, history []assist.Message, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), assistTimeout)
		defer cancel()
		reply, err := svc.Chat(ctx, history, prompt)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// startScan reads an image from disk and hands it to the extractor.
func (m Model) startScan(path string) (tea.Model, tea.Cmd) {
	if m.assist == nil {
		m.setError("Assistant not configured; scanning needs an API key.")
		return m, nil
	}
	m.input.SetValue("")
	m.chatBusy = true
	return m, tea.Batch(m.spinner.Tick, scanCmd(m.assist, path))
}

func scanCmd(svc assist.Service, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return scanResultMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), assistTimeout)
		defer cancel()
		v, err := svc.ExtractVIN(ctx, data, imageMIME(path))
		return scanResultMsg{vin: v, err: err}
	}
}

func scoutCmd(svc assist.Service, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return scoutResultMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), assistTimeout)
		defer cancel()
		lead, err := svc.ScoutLead(ctx, data, imageMIME(path))
		return scoutResultMsg{lead: lead, err: err}
	}
}

func imageMIME(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "image/jpeg"
}
