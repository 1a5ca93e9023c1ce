package picker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	appStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Source is the session list the picker shows.
type Source interface {
	GetAll() []*claude.CachedSessionEntry
}

// Options configures the picker.
type Options struct {
	ClaudeBin string
	HomeDir   string
	WorkDir   string // used when a session's project directory is gone
}

type keyMap struct {
	resume key.Binding
	reload key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		resume: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "resume")),
		reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	}
}

// indexChangedMsg is sent when the session index cache reloaded a project.
type indexChangedMsg struct{}

// resumeFinishedMsg is sent when the resumed session process exits.
type resumeFinishedMsg struct{ err error }

// Model is the picker's Bubble Tea model.
type Model struct {
	list    list.Model
	keys    keyMap
	source  Source
	opts    Options
	changes <-chan struct{}
	now     func() time.Time

	resumed *claude.CachedSessionEntry
	err     error
}

// NewModel creates a picker over source. changes may be nil; otherwise each
// receive reloads the list.
func NewModel(source Source, opts Options, changes <-chan struct{}) Model {
	keys := newKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("205")).
		BorderForeground(lipgloss.Color("205"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		BorderForeground(lipgloss.Color("205"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Claude sessions"
	l.Styles.Title = titleStyle
	l.Filter = fuzzyFilter
	l.SetFilteringEnabled(true)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.resume}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.resume, keys.reload}
	}

	m := Model{
		list:    l,
		keys:    keys,
		source:  source,
		opts:    opts,
		changes: changes,
		now:     time.Now,
	}
	m.reload()
	return m
}

func (m *Model) reload() tea.Cmd {
	items := buildItems(m.source.GetAll(), m.opts.HomeDir, m.now())
	return m.list.SetItems(items)
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return indexChangedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case indexChangedMsg:
		return m, tea.Batch(m.reload(), m.waitForChange())

	case resumeFinishedMsg:
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		// Let the list own keys while the filter input is active
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.resume):
			item, ok := m.list.SelectedItem().(sessionItem)
			if !ok {
				return m, nil
			}
			m.resumed = item.entry
			cmd := ResumeCommand(m.opts.ClaudeBin, item.entry, m.opts.WorkDir)
			log.Debug().Str("sessionId", item.entry.SessionID).Str("dir", cmd.Dir).Msg("resuming session")
			return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
				return resumeFinishedMsg{err: err}
			})
		case key.Matches(msg, m.keys.reload):
			return m, m.reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return appStyle.Render(errorStyle.Render(fmt.Sprintf("resume failed: %v", m.err)))
	}
	return appStyle.Render(m.list.View())
}

// Resumed returns the session chosen by the user, if any.
func (m Model) Resumed() *claude.CachedSessionEntry {
	return m.resumed
}

// Err returns the error of the resumed process, if any.
func (m Model) Err() error {
	return m.err
}

// Run shows the picker until the user quits or a resumed session exits.
// The cache is watched for index changes while the picker is open.
func Run(ctx context.Context, cache *claude.SessionIndexCache, opts Options) error {
	changes := make(chan struct{}, 1)
	if err := cache.Watch(ctx, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}); err != nil {
		// The list still works, it just won't refresh
		log.Warn().Err(err).Msg("failed to watch session indexes")
	}
	defer cache.Close()

	if opts.WorkDir == "" {
		opts.WorkDir, _ = os.Getwd()
	}

	final, err := tea.NewProgram(
		NewModel(cache, opts, changes),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return err
	}

	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
