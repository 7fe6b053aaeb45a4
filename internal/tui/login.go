package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	name textinput.Model
}

func newLoginModel() loginModel {
	ti := textinput.New()
	ti.Placeholder = "冒險者名稱"
	ti.CharLimit = 24
	ti.Width = 24
	ti.Focus()
	return loginModel{name: ti}
}

func (l loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (l loginModel) View() string {
	s := titleStyle.Render("StarQuest 星域任務") + "\n\n"
	s += "輸入名稱登入（新名稱自動註冊，起始 1000 積分）\n\n"
	s += l.name.View() + "\n\n"
	s += helpStyle.Render("enter 登入 · ctrl+c 離開")
	return s
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.login.name, cmd = m.login.name.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			user, err := m.service.Login(m.ctx, m.worldID, m.login.name.Value())
			if err != nil {
				return m, m.setError(err)
			}
			m.user = user
			m.screen = screenBoard
			m.tab = tabQuests
			m.cursor = 0
			enterCmd := m.enterWorld()
			noticeCmd := m.setNotice("歡迎回來，" + user.DisplayName + "！")
			return m, tea.Batch(enterCmd, noticeCmd)
		}
	}
	return m, cmd
}
