// Package tui provides the terminal front end for canlog.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/canlog/canlog-client/internal/controller"
	"github.com/canlog/canlog-client/internal/events"
	"github.com/canlog/canlog-client/internal/localfs"
	"github.com/canlog/canlog-client/internal/state"
)

// resultMsg carries a finished controller operation back to the model.
type resultMsg struct {
	action string
	result controller.Result
}

// eventMsg wraps one event-bus event.
type eventMsg struct {
	event events.Event
}

// waitForEvent reads the next bus event. A nil channel yields no command.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

// Model is the bubbletea model with the Upload, Save and Delete tabs.
type Model struct {
	ctrl   *controller.Controller
	ctx    context.Context
	events <-chan events.Event
	title  string

	keys    KeyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	// Upload tab selection, in pick order.
	editing bool
	folders []string
	files   []string

	saveRows   []state.Row
	deleteRows []state.Row
	cursors    map[state.Tab]int

	busy     int
	status   string
	statusOK bool
	progress string

	alerts  []alertMsg
	confirm *confirmMsg

	width  int
	height int
}

// NewModel creates the model. eventCh may be nil.
func NewModel(ctx context.Context, ctrl *controller.Controller, eventCh <-chan events.Event, title string) *Model {
	ti := textinput.New()
	ti.Placeholder = "path to a folder or file"
	ti.Prompt = "path> "
	ti.ShowSuggestions = true
	ti.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	return &Model{
		ctrl:    ctrl,
		ctx:     ctx,
		events:  eventCh,
		title:   title,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
		spinner: s,
		cursors: make(map[state.Tab]int),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if msg.Width > 20 {
			m.input.Width = msg.Width - 12
		}
		return m, nil

	case alertMsg:
		m.alerts = append(m.alerts, msg)
		return m, nil

	case confirmMsg:
		if m.confirm != nil {
			msg.reply <- false
			return m, nil
		}
		m.confirm = &msg
		return m, nil

	case resultMsg:
		m.busy--
		m.showResult(msg)
		return m, nil

	case eventMsg:
		m.handleEvent(msg.event)
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.releasePending()
		return m, tea.Quit
	}

	// Modal prompts swallow every key until answered.
	if len(m.alerts) > 0 {
		switch msg.String() {
		case "enter", "esc", " ":
			close(m.alerts[0].done)
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}
	if m.confirm != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.answer(true)
		case key.Matches(msg, m.keys.Cancel):
			m.answer(false)
		}
		return m, nil
	}

	if m.editing {
		return m.handleEditKey(msg)
	}

	tab := m.ctrl.Tabs().Active()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.releasePending()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Upload):
		return m, m.switchTab(state.TabUpload)
	case key.Matches(msg, m.keys.Save):
		return m, m.switchTab(state.TabSave)
	case key.Matches(msg, m.keys.Delete):
		return m, m.switchTab(state.TabDelete)
	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab(nextTab(tab))

	case key.Matches(msg, m.keys.Up):
		if m.cursors[tab] > 0 {
			m.cursors[tab]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursors[tab] < len(m.rows(tab))-1 {
			m.cursors[tab]++
		}

	case key.Matches(msg, m.keys.Act):
		return m, m.act(tab)

	case key.Matches(msg, m.keys.Bulk):
		return m, m.bulk(tab)

	case key.Matches(msg, m.keys.Edit):
		if tab == state.TabUpload {
			m.editing = true
			m.input.Reset()
			m.input.SetSuggestions(pathSuggestions(""))
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Clear):
		if tab == state.TabUpload {
			m.folders, m.files = nil, nil
		}

	case key.Matches(msg, m.keys.Refresh):
		if tab.NeedsFileList() {
			return m, m.run("list", m.ctrl.LoadFileLists)
		}
	}
	return m, nil
}

// handleEditKey drives the path input: enter adds the path and keeps
// editing, esc leaves edit mode.
func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.addPath(m.input.Value())
		m.input.Reset()
		m.input.SetSuggestions(pathSuggestions(""))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.input.SetSuggestions(pathSuggestions(m.input.Value()))
	return m, cmd
}

func (m *Model) addPath(raw string) {
	path := expandHome(strings.TrimSpace(raw))
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		m.setStatus(fmt.Sprintf("Cannot add %s: %v", path, err), false)
		return
	}
	if info.IsDir() {
		m.folders = appendUnique(m.folders, filepath.Clean(path))
	} else {
		m.files = appendUnique(m.files, filepath.Clean(path))
	}
	m.setStatus("", true)
}

func (m *Model) answer(ok bool) {
	m.confirm.reply <- ok
	m.confirm = nil
}

// releasePending unblocks controller goroutines waiting on the UI.
func (m *Model) releasePending() {
	for _, a := range m.alerts {
		close(a.done)
	}
	m.alerts = nil
	if m.confirm != nil {
		m.answer(false)
	}
}

func (m *Model) switchTab(tab state.Tab) tea.Cmd {
	m.editing = false
	m.input.Blur()
	return m.run("switch", func(ctx context.Context) controller.Result {
		return m.ctrl.SwitchTab(ctx, string(tab))
	})
}

func (m *Model) act(tab state.Tab) tea.Cmd {
	if tab == state.TabUpload {
		return m.upload()
	}
	rows := m.rows(tab)
	i := m.cursors[tab]
	if i >= len(rows) || rows[i].Placeholder {
		return nil
	}
	action := rows[i].Action
	switch action.Kind {
	case state.ActionDownload:
		return m.run("download", func(ctx context.Context) controller.Result {
			return m.ctrl.DownloadOne(ctx, action.FileID, action.Filename)
		})
	case state.ActionDelete:
		return m.run("delete", func(ctx context.Context) controller.Result {
			return m.ctrl.DeleteOne(ctx, action.FileID)
		})
	}
	return nil
}

func (m *Model) bulk(tab state.Tab) tea.Cmd {
	switch tab {
	case state.TabUpload:
		return m.upload()
	case state.TabSave:
		return m.run("save_all", m.ctrl.SaveToLocal)
	case state.TabDelete:
		return m.run("delete_all", m.ctrl.DeleteFromDatabase)
	}
	return nil
}

func (m *Model) upload() tea.Cmd {
	sel := controller.Selection{
		Folders: append([]string(nil), m.folders...),
		Files:   append([]string(nil), m.files...),
	}
	m.progress = ""
	return m.run("upload", func(ctx context.Context) controller.Result {
		return m.ctrl.UploadFiles(ctx, sel)
	})
}

// run executes op as a tea.Cmd, off the update loop.
func (m *Model) run(action string, op func(ctx context.Context) controller.Result) tea.Cmd {
	m.busy++
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{action: action, result: op(ctx)}
	}
}

func (m *Model) showResult(msg resultMsg) {
	r := msg.result
	switch {
	case msg.action == "switch":
		if !r.OK() {
			m.setStatus(r.Message, false)
		}
	case r.Status == controller.StatusCancelled:
		m.setStatus("Cancelled", true)
	case msg.action == "list" && !r.OK():
		m.setStatus("Could not load files: "+r.Message, false)
	default:
		m.setStatus(r.Message, r.OK())
	}
}

func (m *Model) handleEvent(ev events.Event) {
	switch e := ev.(type) {
	case *events.FilesChangedEvent:
		tables := m.ctrl.Tables().Snapshot()
		m.saveRows = tables.Save
		m.deleteRows = tables.Delete
		for _, tab := range []state.Tab{state.TabSave, state.TabDelete} {
			if n := len(m.rows(tab)); m.cursors[tab] >= n {
				m.cursors[tab] = max(n-1, 0)
			}
		}
	case *events.ProgressEvent:
		m.progress = progressLine(e)
	case *events.LogEvent:
		if e.Level >= events.WarnLevel {
			m.setStatus(e.Message, false)
		}
	}
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}

func (m *Model) rows(tab state.Tab) []state.Row {
	switch tab {
	case state.TabSave:
		return m.saveRows
	case state.TabDelete:
		return m.deleteRows
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	tab := m.ctrl.Tabs().Active()
	if tab == state.TabUpload {
		b.WriteString(m.renderUpload())
	} else {
		b.WriteString(m.renderRows(tab))
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))

	base := b.String()
	switch {
	case len(m.alerts) > 0:
		return m.overlay(base, m.alerts[0].text+"\n\n"+dimStyle.Render("[enter] OK"))
	case m.confirm != nil:
		return m.overlay(base, m.confirm.prompt+"\n\n"+dimStyle.Render("[y] yes   [n] no"))
	}
	return base
}

func (m *Model) renderTabs() string {
	active := m.ctrl.Tabs().Active()
	parts := make([]string, 0, len(state.Tabs))
	for i, tab := range state.Tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if tab == active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderUpload() string {
	var b strings.Builder
	b.WriteString("Folders:\n")
	writeList(&b, m.folders)
	b.WriteString("Files:\n")
	writeList(&b, m.files)
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter add · → complete · esc done"))
	} else {
		b.WriteString(dimStyle.Render("i add path · enter upload · x clear"))
	}
	b.WriteString("\n")
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString(placeholderStyle.Render("  (none)"))
		b.WriteString("\n")
		return
	}
	for _, item := range items {
		b.WriteString("  " + item + "\n")
	}
}

func (m *Model) renderRows(tab state.Tab) string {
	rows := m.rows(tab)
	if len(rows) == 0 {
		return m.spinner.View() + " Loading files...\n"
	}

	verb := "download"
	if tab == state.TabDelete {
		verb = "delete"
	}

	var b strings.Builder
	for i, row := range rows {
		if row.Placeholder {
			b.WriteString(placeholderStyle.Render(row.Label))
			b.WriteString("\n")
			continue
		}
		line := fmt.Sprintf("%-48s %-20s [%s]", truncate(row.Label, 48), row.UploadedAt, verb)
		if i == m.cursors[tab] {
			b.WriteString(selectedRowStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if tab == state.TabSave {
		b.WriteString(dimStyle.Render("\nenter download · a save all to local"))
	} else {
		b.WriteString(dimStyle.Render("\nenter delete · a delete all"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderStatus() string {
	var lines []string
	if m.busy > 0 {
		lines = append(lines, m.spinner.View()+" Working...")
	}
	if m.progress != "" {
		lines = append(lines, dimStyle.Render(m.progress))
	}
	if m.status != "" {
		if m.statusOK {
			lines = append(lines, successStyle.Render(m.status))
		} else {
			lines = append(lines, errorStyle.Render(m.status))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *Model) overlay(base, content string) string {
	box := dialogStyle.Render(content)
	if m.width == 0 || m.height == 0 {
		return base + "\n" + box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func nextTab(t state.Tab) state.Tab {
	for i, tab := range state.Tabs {
		if tab == t {
			return state.Tabs[(i+1)%len(state.Tabs)]
		}
	}
	return state.TabUpload
}

func progressLine(e *events.ProgressEvent) string {
	if e.BytesTotal < 0 {
		return fmt.Sprintf("%s  %s", e.Name, humanize.IBytes(uint64(e.BytesCurrent)))
	}
	return fmt.Sprintf("%s  %s / %s (%.0f%%)", e.Name,
		humanize.IBytes(uint64(e.BytesCurrent)), humanize.IBytes(uint64(e.BytesTotal)), e.Fraction()*100)
}

// pathSuggestions completes the last path element of value from the
// filesystem. Dot-entries are offered only once the user types a dot.
func pathSuggestions(value string) []string {
	expanded := expandHome(value)
	dir, prefix := filepath.Split(expanded)
	listDir := dir
	if listDir == "" {
		listDir = "."
	}

	entries, err := localfs.ListDirectory(listDir, localfs.ListOptions{
		IncludeHidden: strings.HasPrefix(prefix, "."),
		DirsFirst:     true,
	})
	if err != nil {
		return nil
	}

	if !strings.HasSuffix(value, prefix) {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		s := value[:len(value)-len(prefix)] + e.Name
		if e.IsDir {
			s += string(filepath.Separator)
		}
		out = append(out, s)
	}
	return out
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
