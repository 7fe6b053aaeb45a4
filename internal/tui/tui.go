// Package tui is the terminal presentation layer. It is a pure consumer of
// app.GameService: every rule lives in the core, the TUI only renders state
// and relays player input.
package tui

import (
	"context"
	"time"

	"starquest/internal/app"
	"starquest/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive session and blocks until the player quits.
func Run(ctx context.Context, service *app.GameService, worldID string) error {
	model := newModel(ctx, service, worldID)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(Model); ok {
		m.shutdown()
	}
	return err
}

type screen int

const (
	screenLogin screen = iota
	screenBoard
	screenAttempt
	screenCreate
)

type tab int

const (
	tabQuests tab = iota
	tabLeaderboard
	tabShop
)

type leaderboardMsg domain.Leaderboard

type noticeExpiredMsg struct{ seq int }

type notice struct {
	text  string
	isErr bool
	seq   int
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	service *app.GameService
	worldID string

	screen  screen
	tab     tab
	cursor  int
	user    domain.User
	tasks   []domain.Task
	rewards []domain.Reward
	board   domain.Leaderboard
	notice  notice

	login   loginModel
	attempt attemptModel
	form    createModel

	updates <-chan domain.Leaderboard
	cancel  func()
}

func newModel(ctx context.Context, service *app.GameService, worldID string) Model {
	return Model{
		ctx:     ctx,
		service: service,
		worldID: worldID,
		screen:  screenLogin,
		login:   newLoginModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.login.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case leaderboardMsg:
		m.board = domain.Leaderboard(msg)
		m.refreshSnapshots()
		return m, waitForUpdate(m.updates)
	case noticeExpiredMsg:
		if msg.seq == m.notice.seq {
			m.notice.text = ""
		}
		return m, nil
	}

	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenBoard:
		return m.updateBoard(msg)
	case screenAttempt:
		return m.updateAttempt(msg)
	case screenCreate:
		return m.updateCreate(msg)
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.login.View()
	case screenBoard:
		return m.viewBoard()
	case screenAttempt:
		return m.attempt.View(m.user)
	case screenCreate:
		return m.form.View()
	default:
		return ""
	}
}

// enterWorld runs after a successful login: subscribe to leaderboard pushes
// and take the first snapshots.
func (m *Model) enterWorld() tea.Cmd {
	updates, cancel, err := m.service.Subscribe(m.ctx, m.worldID)
	if err != nil {
		m.setError(err)
		return nil
	}
	m.updates = updates
	m.cancel = cancel
	m.refreshSnapshots()
	return waitForUpdate(updates)
}

func (m *Model) refreshSnapshots() {
	if tasks, err := m.service.Tasks(m.ctx, m.worldID); err == nil {
		m.tasks = tasks
	}
	if rewards, err := m.service.Rewards(m.ctx, m.worldID); err == nil {
		m.rewards = rewards
	}
	if m.user.ID != "" {
		if user, err := m.service.User(m.ctx, m.worldID, m.user.ID); err == nil {
			m.user = user
		}
	}
}

func (m *Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.user.ID != "" {
		m.service.Logout(m.ctx, m.worldID, m.user.ID)
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = notice{text: text, seq: m.notice.seq + 1}
	return expireNotice(m.notice.seq)
}

func (m *Model) setError(err error) tea.Cmd {
	m.notice = notice{text: err.Error(), isErr: true, seq: m.notice.seq + 1}
	return expireNotice(m.notice.seq)
}

func expireNotice(seq int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func waitForUpdate(ch <-chan domain.Leaderboard) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		lb, ok := <-ch
		if !ok {
			return nil
		}
		return leaderboardMsg(lb)
	}
}
