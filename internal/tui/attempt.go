package tui

import (
	"fmt"

	"starquest/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// attemptModel collects one answer for one task: an option picker for
// multiple choice, a free text field for short answers.
type attemptModel struct {
	task   domain.Task
	choice int
	answer textinput.Model
}

func newAttemptModel(task domain.Task) attemptModel {
	ti := textinput.New()
	ti.Placeholder = "你的答案"
	ti.CharLimit = 64
	ti.Width = 32
	if task.QuestionType == domain.ShortAnswer {
		ti.Focus()
	}
	return attemptModel{task: task, answer: ti}
}

func (a attemptModel) value() string {
	if a.task.QuestionType == domain.MultipleChoice {
		if a.choice < len(a.task.Options) {
			return a.task.Options[a.choice]
		}
		return ""
	}
	return a.answer.Value()
}

func (a attemptModel) View(user domain.User) string {
	s := titleStyle.Render(a.task.Title) + "\n\n"
	s += a.task.Description + "\n\n"
	if a.task.QuestionType == domain.MultipleChoice {
		for i, option := range a.task.Options {
			s += cursorLine(i == a.choice, option)
		}
	} else {
		s += a.answer.View() + "\n"
	}
	s += fmt.Sprintf("\n答對可得 %d 積分 · 目前 %d/%d 人\n\n", a.task.RewardPerPerson, a.task.CurrentParticipants, a.task.MaxParticipants)
	s += helpStyle.Render("enter 送出 · esc 返回")
	return s
}

func (m Model) updateAttempt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.attempt.task.QuestionType == domain.ShortAnswer {
		var cmd tea.Cmd
		m.attempt.answer, cmd = m.attempt.answer.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.Type {
			case tea.KeyCtrlC:
				return m, tea.Quit
			case tea.KeyEsc:
				m.screen = screenBoard
				return m, nil
			case tea.KeyEnter:
				return m.submit()
			}
		}
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.screen = screenBoard
		return m, nil
	case "up", "k":
		if m.attempt.choice > 0 {
			m.attempt.choice--
		}
	case "down", "j":
		if m.attempt.choice < len(m.attempt.task.Options)-1 {
			m.attempt.choice++
		}
	case "enter":
		return m.submit()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	verdict, err := m.service.SubmitAnswer(m.ctx, m.worldID, m.user.ID, m.attempt.task.ID, m.attempt.value())
	if err != nil {
		return m, m.setError(err)
	}
	m.user = verdict.User
	m.screen = screenBoard
	m.refreshSnapshots()
	if verdict.Correct {
		return m, m.setNotice(fmt.Sprintf("回答正確！你獲得了 %d 積分！", verdict.PointsEarned))
	}
	return m, m.setError(fmt.Errorf("回答錯誤！請在冷卻結束後重試"))
}
