package tui

import (
	"fmt"
	"time"

	"starquest/internal/domain"
	"starquest/internal/economy"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "right":
		m.tab = (m.tab + 1) % 3
		m.cursor = 0
		return m, nil
	case "shift+tab", "left":
		m.tab = (m.tab + 2) % 3
		m.cursor = 0
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
		return m, nil
	case "n":
		if m.tab == tabQuests {
			m.form = newCreateModel()
			m.screen = screenCreate
			return m, textinputBlink()
		}
		return m, nil
	case "enter":
		switch m.tab {
		case tabQuests:
			if m.cursor < len(m.tasks) {
				m.attempt = newAttemptModel(m.tasks[m.cursor])
				m.screen = screenAttempt
				return m, textinputBlink()
			}
		case tabShop:
			if m.cursor < len(m.rewards) {
				return m.purchase(m.rewards[m.cursor])
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) purchase(reward domain.Reward) (tea.Model, tea.Cmd) {
	bought, buyer, err := m.service.PurchaseReward(m.ctx, m.worldID, m.user.ID, reward.ID)
	if err != nil {
		return m, m.setError(err)
	}
	m.user = buyer
	m.refreshSnapshots()
	return m, m.setNotice(fmt.Sprintf("成功兌換 %s！", bought.Name))
}

func (m Model) listLen() int {
	switch m.tab {
	case tabQuests:
		return len(m.tasks)
	case tabLeaderboard:
		return len(m.board.Entries)
	case tabShop:
		return len(m.rewards)
	}
	return 0
}

func (m Model) viewBoard() string {
	s := m.viewHeader()
	switch m.tab {
	case tabQuests:
		s += m.viewQuests()
	case tabLeaderboard:
		s += m.viewLeaderboard()
	case tabShop:
		s += m.viewShop()
	}
	s += "\n" + m.viewNotice()
	s += helpStyle.Render("←/→ 切換分頁 · ↑/↓ 選擇 · enter 執行 · n 發布任務 · q 離開")
	return s
}

func (m Model) viewHeader() string {
	cooldown := ""
	if remaining := economy.CooldownRemaining(m.user, time.Now()); remaining > 0 {
		cooldown = fmt.Sprintf(" · 冷卻中 %ds", remaining)
	}
	head := fmt.Sprintf("%s · %d 積分%s", m.user.DisplayName, m.user.Points, cooldown)

	tabs := ""
	names := []string{"任務", "排行榜", "商店"}
	for i, name := range names {
		if tab(i) == m.tab {
			tabs += activeTabStyle.Render(name)
		} else {
			tabs += tabStyle.Render(name)
		}
	}
	return titleStyle.Render("StarQuest 星域任務") + "  " + head + "\n" + tabs + "\n\n"
}

func (m Model) viewQuests() string {
	if len(m.tasks) == 0 {
		return "目前沒有任務。\n"
	}
	s := ""
	for i, task := range m.tasks {
		line := fmt.Sprintf("%s  %d 積分  %d/%d 人", task.Title, task.RewardPerPerson, task.CurrentParticipants, task.MaxParticipants)
		if task.Type == domain.TaskUGC {
			line += "  [玩家出題]"
		}
		if task.Full() {
			line += "  [已額滿]"
		}
		s += cursorLine(i == m.cursor, line)
	}
	return s
}

func (m Model) viewLeaderboard() string {
	if len(m.board.Entries) == 0 {
		return "還沒有冒險者上榜。\n"
	}
	s := ""
	for i, entry := range m.board.Entries {
		line := fmt.Sprintf("#%d %s  %d 積分", i+1, entry.DisplayName, entry.Points)
		s += cursorLine(i == m.cursor, line)
	}
	return s
}

func (m Model) viewShop() string {
	if len(m.rewards) == 0 {
		return "商店目前沒有商品。\n"
	}
	s := ""
	for i, reward := range m.rewards {
		line := fmt.Sprintf("%s  %d 積分  庫存 %d", reward.Name, reward.PointsCost, reward.Stock)
		if reward.Stock == 0 {
			line += "  [售完]"
		}
		s += cursorLine(i == m.cursor, line)
	}
	return s
}

func (m Model) viewNotice() string {
	if m.notice.text == "" {
		return "\n"
	}
	if m.notice.isErr {
		return errorStyle.Render(m.notice.text) + "\n"
	}
	return successStyle.Render(m.notice.text) + "\n"
}

func cursorLine(selected bool, line string) string {
	if selected {
		return selectedStyle.Render("> "+line) + "\n"
	}
	return "  " + line + "\n"
}
