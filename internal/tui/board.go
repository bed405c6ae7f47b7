package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stackit.dev/vbranch/internal/dragdrop"
	"stackit.dev/vbranch/internal/engine"
	"stackit.dev/vbranch/internal/notify"
	"stackit.dev/vbranch/internal/ownership"
)

// BoardEngine is what the board needs from the engine: reads, plus locks
// held on claims while a drop is in flight
type BoardEngine interface {
	engine.BranchReader
	Lock(claim ownership.Claim)
	Unlock(claim ownership.Claim)
}

type boardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Drop   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Pick, k.Next, k.Drop, k.Cancel, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Pick, k.Next, k.Prev, k.Drop},
		{k.Cancel, k.Quit},
	}
}

var defaultBoardKeys = boardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Pick: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space/p", "pick up"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab/→", "next target"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("←", "previous target"),
	),
	Drop: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "drop"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "put down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

type rowKind int

const (
	rowBranch rowKind = iota
	rowCommit
	rowFile
	rowHunk
)

// boardRow is one line of the board
type boardRow struct {
	kind     rowKind
	branch   int
	commitID string
	head     bool
	file     ownership.File
	hunk     ownership.Hunk
}

type boardStyles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	carried  lipgloss.Style
	target   lipgloss.Style
	dim      lipgloss.Style
	locked   lipgloss.Style
	rejected lipgloss.Style
}

func defaultBoardStyles() boardStyles {
	return boardStyles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		carried:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		target:   lipgloss.NewStyle().Reverse(true).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		locked:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		rejected: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// toastsMsg carries a fresh snapshot of the notification queue
type toastsMsg []notify.Notification

// dropDoneMsg is sent once a drop handler has returned
type dropDoneMsg struct{}

// BoardModel is the bubbletea model of the virtual branch board. Items are
// picked up from one branch and dropped on another.
type BoardModel struct {
	ctx     context.Context
	engine  BoardEngine
	factory *dragdrop.Factory
	toastCh <-chan []notify.Notification
	stop    func()

	branches []engine.VirtualBranch
	rows     []boardRow
	cursor   int

	carrying dragdrop.Payload
	target   int
	status   string
	inFlight int

	toasts  []notify.Notification
	spinner spinner.Model
	keys    boardKeyMap
	help    help.Model
	styles  boardStyles
}

// NewBoardModel creates the board over eng. Drops are resolved by factory
// and their outcome is read back from queue.
func NewBoardModel(ctx context.Context, eng BoardEngine, factory *dragdrop.Factory, queue *notify.Queue) BoardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := BoardModel{
		ctx:     ctx,
		engine:  eng,
		factory: factory,
		spinner: s,
		keys:    defaultBoardKeys,
		help:    help.New(),
		styles:  defaultBoardStyles(),
	}
	if queue != nil {
		m.toastCh, m.stop = queue.Subscribe()
	}
	m.reload()
	return m
}

// reload rebuilds the rows from the engine
func (m *BoardModel) reload() {
	m.branches = m.engine.AllBranches()
	m.rows = nil
	for bi, b := range m.branches {
		m.rows = append(m.rows, boardRow{kind: rowBranch, branch: bi})
		for i := len(b.Commits) - 1; i >= 0; i-- {
			m.rows = append(m.rows, boardRow{
				kind:     rowCommit,
				branch:   bi,
				commitID: b.Commits[i],
				head:     i == len(b.Commits)-1,
			})
		}
		claims, err := ownership.Parse(b.Ownership)
		if err != nil {
			continue
		}
		for _, c := range claims.Claims {
			file := ownership.File{Path: c.FilePath, Locked: m.engine.IsLocked(c.FilePath, "")}
			for _, id := range c.HunkIDs {
				file.Hunks = append(file.Hunks, ownership.Hunk{ID: id, Locked: m.engine.IsLocked(c.FilePath, id)})
			}
			m.rows = append(m.rows, boardRow{kind: rowFile, branch: bi, file: file})
			for _, h := range file.Hunks {
				m.rows = append(m.rows, boardRow{kind: rowHunk, branch: bi, file: file, hunk: h})
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForToasts(m.toastCh))
}

func waitForToasts(ch <-chan []notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		items, ok := <-ch
		if !ok {
			return nil
		}
		return toastsMsg(items)
	}
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case toastsMsg:
		m.toasts = msg
		return m, waitForToasts(m.toastCh)

	case dropDoneMsg:
		m.inFlight--
		m.reload()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Pick):
		m.status = ""
		if len(m.rows) == 0 {
			break
		}
		row := m.rows[m.cursor]
		p := m.payloadFor(row)
		if p == nil {
			break
		}
		m.carrying = p
		m.target = (row.branch + 1) % len(m.branches)

	case key.Matches(msg, m.keys.Next):
		if m.carrying != nil && len(m.branches) > 0 {
			m.target = (m.target + 1) % len(m.branches)
		}

	case key.Matches(msg, m.keys.Prev):
		if m.carrying != nil && len(m.branches) > 0 {
			m.target = (m.target - 1 + len(m.branches)) % len(m.branches)
		}

	case key.Matches(msg, m.keys.Cancel):
		m.carrying = nil
		m.status = ""

	case key.Matches(msg, m.keys.Drop):
		if m.carrying == nil {
			break
		}
		return m.drop()
	}
	return m, nil
}

// payloadFor builds what picking up row carries, or nil for branch rows
func (m BoardModel) payloadFor(row boardRow) dragdrop.Payload {
	branchID := m.branches[row.branch].ID
	switch row.kind {
	case rowCommit:
		return dragdrop.Commit{BranchID: branchID, CommitID: row.commitID, IsHeadCommit: row.head}
	case rowFile:
		return dragdrop.FileSet{BranchID: branchID, Files: []ownership.File{row.file}}
	case rowHunk:
		return dragdrop.Hunk{
			BranchID: branchID,
			Hunk: dragdrop.DraggedHunk{
				ID:       row.hunk.ID,
				FilePath: row.file.Path,
				Locked:   row.hunk.Locked,
			},
		}
	default:
		return nil
	}
}

// drop hands the carried payload to the target's resolver. The handler
// runs as a command so the board keeps rendering toasts meanwhile. One drop
// runs at a time, and its resolver is built from the target as it is when
// the command runs.
func (m BoardModel) drop() (tea.Model, tea.Cmd) {
	if m.inFlight > 0 {
		m.status = "Wait for the current move to finish"
		return m, nil
	}

	target := m.branches[m.target]
	resolver := m.factory.Build(target)
	eng, factory, ctx := m.engine, m.factory, m.ctx
	current := func() *dragdrop.Resolver {
		if b, err := eng.GetBranch(target.ID); err == nil {
			return factory.Build(b)
		}
		return resolver
	}

	switch p := m.carrying.(type) {
	case dragdrop.Commit:
		if !resolver.AcceptMoveCommit(p) {
			m.status = fmt.Sprintf("Cannot drop this commit on %s", target.Name)
			return m, nil
		}
		m.carrying = nil
		m.inFlight++
		return m, func() tea.Msg {
			current().OnMoveCommit(ctx, p)
			return dropDoneMsg{}
		}

	case dragdrop.OwnershipPayload:
		if !resolver.AcceptBranchDrop(p) {
			m.status = fmt.Sprintf("Cannot drop this %s on %s", p.Kind(), target.Name)
			return m, nil
		}
		claims := lockClaims(p)
		for _, c := range claims {
			eng.Lock(c)
		}
		m.carrying = nil
		m.inFlight++
		return m, func() tea.Msg {
			defer func() {
				for _, c := range claims {
					eng.Unlock(c)
				}
			}()
			current().OnBranchDrop(ctx, p)
			return dropDoneMsg{}
		}
	}
	return m, nil
}

// lockClaims returns the claims to hold while p is being moved
func lockClaims(p dragdrop.OwnershipPayload) []ownership.Claim {
	switch p := p.(type) {
	case dragdrop.Hunk:
		return []ownership.Claim{{FilePath: p.Hunk.FilePath, HunkIDs: []string{p.Hunk.ID}}}
	case dragdrop.FileSet:
		claims := make([]ownership.Claim, 0, len(p.Files))
		for _, f := range p.Files {
			c := ownership.Claim{FilePath: f.Path}
			for _, h := range f.Hunks {
				c.HunkIDs = append(c.HunkIDs, h.ID)
			}
			claims = append(claims, c)
		}
		return claims
	}
	return nil
}

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Virtual branches"))
	b.WriteString("\n\n")

	if len(m.branches) == 0 {
		b.WriteString(m.styles.dim.Render("No virtual branches. Create one with `vb branch create <name>`."))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		prefix := "  "
		if i == m.cursor {
			prefix = m.styles.cursor.Render("▸ ")
		}
		b.WriteString(prefix + m.renderRow(row) + "\n")
	}

	b.WriteString("\n")
	if m.carrying != nil {
		b.WriteString(m.styles.carried.Render(fmt.Sprintf("Carrying %s → %s", describePayload(m.carrying), m.branches[m.target].Name)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.styles.rejected.Render(m.status))
		b.WriteString("\n")
	}
	if toasts := RenderToasts(m.toasts, m.spinner.View()); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m BoardModel) renderRow(row boardRow) string {
	branch := m.branches[row.branch]
	switch row.kind {
	case rowBranch:
		name := lipgloss.NewStyle().Bold(true).Foreground(BranchColor(row.branch)).Render(branch.Name)
		if m.carrying != nil && row.branch == m.target {
			name = m.styles.target.Render(" " + branch.Name + " ")
		}
		return name
	case rowCommit:
		label := "  ○ " + shortID(row.commitID)
		if row.head {
			return label + m.styles.dim.Render(" (head)")
		}
		return label
	case rowFile:
		label := "  " + row.file.Path
		if row.file.Locked {
			label += m.styles.locked.Render(" 🔒")
		}
		return label
	case rowHunk:
		label := m.styles.dim.Render("    @@ " + row.hunk.ID)
		if row.hunk.Locked {
			label += m.styles.locked.Render(" 🔒")
		}
		return label
	}
	return ""
}

func describePayload(p dragdrop.Payload) string {
	switch p := p.(type) {
	case dragdrop.Commit:
		return "commit " + shortID(p.CommitID)
	case dragdrop.Hunk:
		return fmt.Sprintf("hunk %s:%s", p.Hunk.FilePath, p.Hunk.ID)
	case dragdrop.FileSet:
		paths := make([]string, 0, len(p.Files))
		for _, f := range p.Files {
			paths = append(paths, f.Path)
		}
		return "file " + strings.Join(paths, ", ")
	}
	return p.Kind().String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RunBoard runs the interactive board until the user quits
func RunBoard(ctx context.Context, eng BoardEngine, factory *dragdrop.Factory, queue *notify.Queue) error {
	m := NewBoardModel(ctx, eng, factory, queue)
	if m.stop != nil {
		defer m.stop()
	}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board failed: %w", err)
	}
	return nil
}
