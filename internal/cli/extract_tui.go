package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidgrab/vidgrab/internal/extractor"
)

var (
	extractInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	extractDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	extractErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// extractState holds extraction state shared with the TUI
type extractState struct {
	mu     sync.RWMutex
	done   bool
	err    error
	result *extractor.VideoMetadata
}

func (s *extractState) setDone(result *extractor.VideoMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
}

func (s *extractState) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.done = true
}

func (s *extractState) get() (bool, error, *extractor.VideoMetadata) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.err, s.result
}

type extractTickMsg time.Time

type extractModel struct {
	spinner spinner.Model
	url     string
	state   *extractState
}

func newExtractModel(url string, state *extractState) extractModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return extractModel{
		spinner: s,
		url:     url,
		state:   state,
	}
}

func extractTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return extractTickMsg(t)
	})
}

func (m extractModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, extractTickCmd())
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case extractTickMsg:
		done, _, _ := m.state.get()
		if done {
			return m, tea.Quit
		}
		return m, extractTickCmd()
	}

	return m, nil
}

func (m extractModel) View() string {
	done, err, result := m.state.get()

	if err != nil {
		return fmt.Sprintf("\n  %s extraction failed: %v\n\n",
			extractErrStyle.Render("✗"),
			err,
		)
	}

	if done && result != nil {
		return fmt.Sprintf("\n  %s %s\n  Platform: %s  |  Qualities: %d\n\n",
			extractDoneStyle.Render("✓"),
			result.Title,
			extractInfoStyle.Render(string(result.Platform)),
			len(result.AvailableQualities),
		)
	}

	return fmt.Sprintf("\n  %s extracting: %s\n\n",
		m.spinner.View(),
		extractInfoStyle.Render(m.url),
	)
}

// runExtractWithSpinner runs extraction with a spinner TUI
func runExtractWithSpinner(svc *extractor.Service, url string) (*extractor.VideoMetadata, error) {
	state := &extractState{}

	go func() {
		result, err := svc.Extract(context.Background(), url)
		if err != nil {
			state.setError(err)
		} else {
			state.setDone(result)
		}
	}()

	model := newExtractModel(url, state)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return nil, err
	}

	done, extractErr, result := state.get()
	if extractErr != nil {
		return nil, extractErr
	}
	if !done {
		return nil, fmt.Errorf("extraction cancelled")
	}

	return result, nil
}
