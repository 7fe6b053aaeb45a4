package tui

import (
	"fmt"
	"strconv"
	"strings"

	"starquest/internal/domain"
	"starquest/internal/economy"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldOptions
	fieldAnswer
	fieldReward
	fieldCapacity
	fieldCount
)

// createModel is the quest authoring form. Leaving the options field empty
// makes a short-answer quest; anything else becomes multiple choice with
// comma-separated options.
type createModel struct {
	inputs  []textinput.Model
	focused int
}

func newCreateModel() createModel {
	labels := []struct {
		placeholder string
		limit       int
	}{
		{"任務標題", 48},
		{"題目描述", 120},
		{"選項（以逗號分隔，留空為簡答題）", 120},
		{"正確答案", 64},
		{"每人獎勵積分", 6},
		{"參與人數上限", 6},
	}
	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l.placeholder
		ti.CharLimit = l.limit
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldTitle].Focus()
	return createModel{inputs: inputs}
}

func (c createModel) params() (economy.TaskParams, error) {
	reward, err := strconv.Atoi(strings.TrimSpace(c.inputs[fieldReward].Value()))
	if err != nil {
		return economy.TaskParams{}, fmt.Errorf("%w: reward per person must be a number", domain.ErrInvalidTaskParams)
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(c.inputs[fieldCapacity].Value()))
	if err != nil {
		return economy.TaskParams{}, fmt.Errorf("%w: max participants must be a number", domain.ErrInvalidTaskParams)
	}

	p := economy.TaskParams{
		Title:           c.inputs[fieldTitle].Value(),
		Description:     c.inputs[fieldDescription].Value(),
		QuestionType:    domain.ShortAnswer,
		Answer:          c.inputs[fieldAnswer].Value(),
		RewardPerPerson: reward,
		MaxParticipants: capacity,
	}
	if raw := strings.TrimSpace(c.inputs[fieldOptions].Value()); raw != "" {
		p.QuestionType = domain.MultipleChoice
		for _, option := range strings.Split(raw, ",") {
			if option = strings.TrimSpace(option); option != "" {
				p.Options = append(p.Options, option)
			}
		}
	}
	return p, nil
}

// costPreview shows the live total the creator will pay, so the displayed
// number always matches the debit.
func (c createModel) costPreview() string {
	reward, err1 := strconv.Atoi(strings.TrimSpace(c.inputs[fieldReward].Value()))
	capacity, err2 := strconv.Atoi(strings.TrimSpace(c.inputs[fieldCapacity].Value()))
	if err1 != nil || err2 != nil || reward <= 0 || capacity <= 0 {
		return ""
	}
	return fmt.Sprintf("總成本：%d 積分（含 20%% 系統手續費）", economy.TaskCost(reward, capacity))
}

func (c createModel) View() string {
	s := titleStyle.Render("發布新任務") + "\n\n"
	for i, input := range c.inputs {
		prefix := "  "
		if i == c.focused {
			prefix = selectedStyle.Render("> ")
		}
		s += prefix + input.View() + "\n"
	}
	if preview := c.costPreview(); preview != "" {
		s += "\n" + preview + "\n"
	}
	s += "\n" + helpStyle.Render("enter 下一欄／送出 · ↑/↓ 切換欄位 · esc 取消")
	return s
}

func (m Model) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(msg)

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, cmd
	}
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.screen = screenBoard
		return m, nil
	case tea.KeyUp:
		m.form.setFocus((m.form.focused + fieldCount - 1) % fieldCount)
		return m, nil
	case tea.KeyDown:
		m.form.setFocus((m.form.focused + 1) % fieldCount)
		return m, nil
	case tea.KeyEnter:
		if m.form.focused < fieldCount-1 {
			m.form.setFocus(m.form.focused + 1)
			return m, nil
		}
		params, err := m.form.params()
		if err != nil {
			return m, m.setError(err)
		}
		task, creator, err := m.service.CreateTask(m.ctx, m.worldID, m.user.ID, params)
		if err != nil {
			return m, m.setError(err)
		}
		m.user = creator
		m.screen = screenBoard
		m.refreshSnapshots()
		return m, m.setNotice(fmt.Sprintf("任務發布成功！花費 %d 積分", task.TotalCost))
	}
	return m, cmd
}

func (c *createModel) setFocus(i int) {
	c.inputs[c.focused].Blur()
	c.focused = i
	c.inputs[c.focused].Focus()
}

func textinputBlink() tea.Cmd {
	return textinput.Blink
}
