package tui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Taishi66/kube-tree/internal/config"
	"github.com/Taishi66/kube-tree/internal/domain"
	"github.com/Taishi66/kube-tree/internal/tree"
)

// ClientFactory creates a new KubeGateway (used for reconnection from error screen).
type ClientFactory func() (domain.KubeGateway, error)

// --- Views ---

type View int

const (
	ViewTree View = iota
	ViewYAML
	ViewError // startup error screen
)

func (v View) String() string {
	switch v {
	case ViewTree:
		return "TREE"
	case ViewYAML:
		return "YAML"
	default:
		return ""
	}
}

// --- Messages ---

type childrenLoadedMsg struct {
	path  string
	gen   int
	req   int
	nodes []tree.Node
}

type childrenErrMsg struct {
	path string
	gen  int
	req  int
	err  error
}

type invalidateMsg struct{}

type pagerDoneMsg struct{ err error }

// --- Model ---

type Model struct {
	client        domain.KubeGateway
	clientFactory ClientFactory
	resolver      *tree.Resolver
	logger        *log.Logger

	// Views
	view     View
	prevView View

	// Data
	root      *treeItem
	gen       int
	yamlState yamlViewState

	// UI state
	cursor     int
	width      int
	height     int
	loading    bool
	toast      toast
	startupErr error // non-nil if launched with NewModelWithError

	// Filter
	filter    textinput.Model
	filtering bool

	// Connection state
	disconnected bool

	// Config
	cfg *config.AppConfig
}

func NewModel(client domain.KubeGateway, factory ClientFactory, cfg *config.AppConfig, logger *log.Logger) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	m := Model{
		client:        client,
		clientFactory: factory,
		logger:        logger,
		view:          ViewTree,
		root:          newRootItem(),
		loading:       true,
		filter:        newFilterInput(),
		cfg:           cfg,
	}
	m.resolver = m.newResolver(client)
	return m
}

func NewModelWithError(err error, factory ClientFactory, cfg *config.AppConfig, logger *log.Logger) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Model{
		view:          ViewError,
		startupErr:    err,
		clientFactory: factory,
		logger:        logger,
		root:          newRootItem(),
		filter:        newFilterInput(),
		cfg:           cfg,
	}
}

func newFilterInput() textinput.Model {
	fi := textinput.New()
	fi.Placeholder = "filtre namespaces..."
	fi.CharLimit = 64
	fi.Width = 30
	return fi
}

func (m Model) newResolver(client domain.KubeGateway) *tree.Resolver {
	return tree.NewResolver(client, tree.DefaultKinds(client),
		tree.WithLogger(m.logger),
		tree.WithTimeout(m.cfg.RequestTimeout),
		tree.WithConcurrency(m.cfg.Concurrency),
	)
}

func (m Model) Init() tea.Cmd {
	if m.view == ViewError {
		return nil
	}
	return m.reloadRoot(false)
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case childrenLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		it := m.root.find(msg.path)
		if !it.awaits(msg.req) {
			return m, nil
		}
		it.setChildren(msg.nodes)
		if it == m.root {
			m.loading = false
			m.cursor = 0
			if m.disconnected {
				m.disconnected = false
				m.toast = newToast("Reconnecté", toastSuccess)
			}
		}
		m.clampCursor()
		return m, nil

	case childrenErrMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		it := m.root.find(msg.path)
		if !it.awaits(msg.req) {
			return m, nil
		}
		it.fail()
		m.logError(msg.path, msg.err)
		m.clampCursor()
		return m.handleAPIError(msg.err)

	case invalidateMsg:
		return m.invalidate()

	case pagerDoneMsg:
		if msg.err != nil {
			m.toast = newToast(fmt.Sprintf("Pager: %s", msg.err), toastError)
			return m, scheduleToastClear()
		}
		return m, nil

	case toastExpiredMsg:
		if !m.toast.sticky {
			m.toast = toast{}
		}
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Startup error screen: only q/r
	if m.view == ViewError {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.clientFactory == nil {
				return m, nil
			}
			newClient, err := m.clientFactory()
			if err != nil {
				m.startupErr = err
				return m, nil
			}
			m.client = newClient
			m.resolver = m.newResolver(newClient)
			m.startupErr = nil
			m.view = ViewTree
			return m.invalidate()
		}
		return m, nil
	}

	// Filter mode
	if m.filtering {
		return m.handleFilterInput(msg)
	}

	if m.view == ViewYAML {
		return m.handleYAMLKey(msg)
	}

	rows := m.visibleRows()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Escape):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.cursor = 0
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Top):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, keys.Bottom):
		m.cursor = max(len(rows)-1, 0)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.cursor = max(m.cursor-m.contentHeight(), 0)
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.cursor = max(min(m.cursor+m.contentHeight(), len(rows)-1), 0)
		return m, nil

	case key.Matches(msg, keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Refresh):
		return m, func() tea.Msg { return invalidateMsg{} }
	}

	if m.cursor >= len(rows) {
		return m, nil
	}
	it := rows[m.cursor]

	switch {
	case key.Matches(msg, keys.Enter):
		if !it.node.Expandable() {
			return m.openYAML(it)
		}
		if it.expanded {
			it.collapse()
			return m, nil
		}
		return m, m.expand(it)

	case key.Matches(msg, keys.Expand):
		if !it.node.Expandable() {
			return m.openYAML(it)
		}
		if it.expanded {
			return m, nil
		}
		return m, m.expand(it)

	case key.Matches(msg, keys.Collapse):
		if it.expanded {
			it.collapse()
			return m, nil
		}
		// Jump to parent.
		for i := m.cursor - 1; i >= 0; i-- {
			if rows[i].depth < it.depth {
				m.cursor = i
				break
			}
		}
		return m, nil

	case key.Matches(msg, keys.Open):
		obj, ok := it.node.(tree.ObjectNode)
		if !ok {
			return m, nil
		}
		return m, m.openPager(obj.Open())

	case key.Matches(msg, keys.Copy):
		return m.copyName(it)
	}

	return m, nil
}

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		if msg.String() == "esc" {
			m.filter.SetValue("")
		}
		m.cursor = 0
		return m, nil
	default:
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}
}

func (m Model) handleYAMLKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := m.contentHeight()
	switch {
	case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Escape), key.Matches(msg, keys.Collapse):
		m.view = m.prevView
		m.yamlState = yamlViewState{}
	case key.Matches(msg, keys.Down):
		m.yamlState.scrollDown(1, h)
	case key.Matches(msg, keys.Up):
		m.yamlState.scrollUp(1)
	case key.Matches(msg, keys.PageDown):
		m.yamlState.scrollDown(h, h)
	case key.Matches(msg, keys.PageUp):
		m.yamlState.scrollUp(h)
	case key.Matches(msg, keys.Top):
		m.yamlState.offset = 0
	case key.Matches(msg, keys.Bottom):
		m.yamlState.jumpToBottom(h)
	case key.Matches(msg, keys.Open):
		return m, m.openPager(tree.OpenAction{Title: m.yamlState.resourceName, Body: m.yamlState.content})
	}
	return m, nil
}

func (m Model) openYAML(it *treeItem) (tea.Model, tea.Cmd) {
	obj, ok := it.node.(tree.ObjectNode)
	if !ok {
		return m, nil
	}
	m.yamlState = yamlViewState{
		resourceName: obj.Name,
		resourceType: obj.Kind,
		namespace:    obj.Namespace,
	}
	m.yamlState.setContent(obj.Open().Body)
	m.prevView = m.view
	m.view = ViewYAML
	return m, nil
}

func (m Model) copyName(it *treeItem) (tea.Model, tea.Cmd) {
	name := it.node.Label()
	if name == "" {
		return m, nil
	}
	// Copy to clipboard via OSC52 escape sequence (works in most modern terminals)
	m.toast = newToast(fmt.Sprintf("Copié: %s", name), toastSuccess)
	return m, tea.Batch(
		scheduleToastClear(),
		tea.Printf("\033]52;c;%s\a", encodeBase64(name)),
	)
}

// expand marks it as loading and fetches its children. Every expansion
// goes back to the cluster.
func (m Model) expand(it *treeItem) tea.Cmd {
	it.expanded = true
	it.loading = true
	it.failed = false
	it.children = nil
	it.req++
	return m.loadChildren(it.node, m.gen, it.req)
}

func (m Model) loadChildren(node tree.Node, gen, req int) tea.Cmd {
	r := m.resolver
	path := tree.Path(node)
	return func() tea.Msg {
		nodes, err := r.Children(context.Background(), node)
		if err != nil {
			return childrenErrMsg{path: path, gen: gen, req: req, err: err}
		}
		return childrenLoadedMsg{path: path, gen: gen, req: req, nodes: nodes}
	}
}

// invalidate drops the whole tree and reloads the namespaces. Replies to
// requests issued before the call are ignored.
func (m Model) invalidate() (tea.Model, tea.Cmd) {
	if m.resolver == nil {
		return m, nil
	}
	m.gen++
	m.root = newRootItem()
	m.cursor = 0
	return m, m.reloadRoot(m.disconnected)
}

func (m *Model) reloadRoot(reconnect bool) tea.Cmd {
	m.loading = true
	m.root.expanded = true
	m.root.loading = true
	m.root.req++

	client := m.client
	gen, req := m.gen, m.root.req
	load := m.loadChildren(tree.Root{}, gen, req)
	return func() tea.Msg {
		if reconnect && client != nil {
			if err := client.Reconnect(); err != nil {
				return childrenErrMsg{gen: gen, req: req, err: err}
			}
		}
		return load()
	}
}

func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	m.loading = false

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		m.toast = newToast(err.Error(), toastError)
		return m, scheduleToastClear()
	}

	switch apiErr.Type {
	case domain.ErrTokenExpired:
		m.disconnected = true
		m.toast = newStickyToast(apiErr.Message)
		return m, nil

	case domain.ErrUnreachable:
		m.disconnected = true
		m.toast = newStickyToast("Connexion perdue. 'r' pour reconnecter")
		return m, nil

	case domain.ErrForbidden:
		m.toast = newToast("Accès refusé: "+apiErr.Message, toastError)
		return m, scheduleToastClear()

	case domain.ErrRateLimited:
		m.toast = newToast("Trop de requêtes. Réessayez dans quelques secondes.", toastError)
		return m, scheduleToastClear()

	default:
		m.toast = newToast(apiErr.Message, toastError)
		return m, scheduleToastClear()
	}
}

func (m Model) logError(path string, err error) {
	if m.logger == nil {
		return
	}
	if path == "" {
		path = "/"
	}
	m.logger.Error("listing children", "path", path, "err", err)
}

// --- Rows ---

func (m Model) filterText() string {
	return strings.ToLower(m.filter.Value())
}

// visibleRows flattens the expanded part of the tree. The filter only
// applies to namespaces.
func (m Model) visibleRows() []*treeItem {
	if m.root == nil {
		return nil
	}
	q := m.filterText()
	var rows []*treeItem
	for _, ns := range m.root.children {
		if q != "" && !strings.Contains(strings.ToLower(ns.node.Label()), q) {
			continue
		}
		rows = ns.appendVisible(rows)
	}
	return rows
}

func (m *Model) clampCursor() {
	n := len(m.visibleRows())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) contentHeight() int {
	// context bar + header + status bar + toast line
	h := m.height - 5
	if m.disconnected {
		h--
	}
	if m.filtering {
		h--
	}
	return max(h, 1)
}

// --- View ---

func (m Model) View() string {
	if m.width == 0 {
		return "Chargement..."
	}

	// Startup error screen
	if m.view == ViewError {
		return m.renderErrorScreen()
	}

	var b strings.Builder

	// Context bar
	b.WriteString(m.renderContextBar())
	b.WriteString("\n")

	// Disconnected banner
	if m.disconnected {
		banner := bannerWarnStyle.Width(m.width).Render("Connexion perdue. Appuyez sur 'r' pour reconnecter")
		b.WriteString(banner)
		b.WriteString("\n")
	}

	switch {
	case m.view == ViewYAML:
		b.WriteString(renderYAMLView(&m.yamlState, m.width, m.contentHeight()))
	case m.loading:
		b.WriteString("\n  Chargement...\n")
	default:
		b.WriteString(renderTreeView(m.visibleRows(), m.cursor, m.width, m.contentHeight(), m.cfg))
	}

	// Filter bar
	if m.filtering {
		b.WriteString(fmt.Sprintf("  /%s", m.filter.View()))
		b.WriteString("\n")
	}

	// Fill remaining space
	lines := strings.Count(b.String(), "\n")
	for i := lines; i < m.height-2; i++ {
		b.WriteString("\n")
	}

	// Toast
	if m.toast.isActive() {
		b.WriteString(m.toast.render())
		b.WriteString("\n")
	}

	// Status bar
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderContextBar() string {
	title := titleStyle.Render("KUBE TREE")
	if m.client == nil {
		return title
	}
	ctx := contextStyle.Render(m.client.GetContext())
	return fmt.Sprintf(" %s  ctx:%s  %s", title, ctx, m.client.GetServerURL())
}

func (m Model) renderStatusBar() string {
	var helpText, itemInfo string
	switch m.view {
	case ViewYAML:
		helpText = yamlHelpKeys()
		itemInfo = fmt.Sprintf("%d lignes", len(m.yamlState.lines))
	default:
		helpText = treeHelpKeys()
		itemInfo = fmt.Sprintf("%d namespaces", len(m.root.children))
		if f := m.filter.Value(); f != "" {
			itemInfo += fmt.Sprintf(" (filtre: %s)", f)
		}
	}

	left := fmt.Sprintf(" %s | %s", m.view.String(), itemInfo)
	return statusBarStyle.Width(m.width).Render(left + "  " + helpText)
}

func (m Model) renderErrorScreen() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(errorScreenStyle.Render("KUBE TREE - Erreur de connexion"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s\n", m.startupErr.Error()))
	b.WriteString("\n")
	b.WriteString("  [r] Réessayer  [q] Quitter\n")

	lines := strings.Count(b.String(), "\n")
	for i := lines; i < m.height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return string(runes[:1])
	}
	return string(runes[:maxLen-1]) + "…"
}

func encodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
