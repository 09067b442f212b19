// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/parley-ai/parley/internal/dnd"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/store"
	"github.com/parley-ai/parley/internal/ui/styles"
)

// =============================================================================
// ROW MODEL
// =============================================================================

type rowKind int

const (
	rowTopZone rowKind = iota
	rowConversation
	rowAfterConversation
	rowSectionHeader
	rowSectionBody
	rowUnsectionedArea
)

// row is one navigable line of the sidebar. Zone rows only appear while a
// move is in progress; they are drop targets, not entities.
type row struct {
	kind   rowKind
	conv   model.Conversation
	sec    model.Section
	member bool // conversation listed under a section header
}

func (r row) target() dnd.Target {
	switch r.kind {
	case rowTopZone:
		return dnd.Target{Kind: dnd.TargetTopZone}
	case rowConversation:
		return dnd.Target{Kind: dnd.TargetConversation, ID: r.conv.ID}
	case rowAfterConversation:
		return dnd.Target{Kind: dnd.TargetAfterConversation, ID: r.conv.ID}
	case rowSectionHeader:
		return dnd.Target{Kind: dnd.TargetSection, ID: r.sec.ID}
	case rowSectionBody:
		return dnd.Target{Kind: dnd.TargetSectionBody, ID: r.sec.ID}
	default:
		return dnd.Target{Kind: dnd.TargetUnsectionedArea}
	}
}

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar lists the current context's sections and conversations and maps
// keyboard gestures onto the stores and the reordering engine.
type Sidebar struct {
	convs  *store.Conversations
	secs   *store.Sections
	engine *dnd.Engine
	theme  *styles.Theme

	ctx    model.Context
	cursor int
	moving bool

	renaming    bool
	renameRow   row
	renameInput textinput.Model

	width  int
	height int
	status string
}

// NewSidebar creates a sidebar over the given stores and engine.
func NewSidebar(convs *store.Conversations, secs *store.Sections, engine *dnd.Engine, theme *styles.Theme) *Sidebar {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 120
	return &Sidebar{
		convs:       convs,
		secs:        secs,
		engine:      engine,
		theme:       theme,
		ctx:         model.ContextChat,
		renameInput: ti,
	}
}

// SetContext switches the sidebar to another context and resets transient
// gesture state.
func (s *Sidebar) SetContext(ctx model.Context) {
	if s.moving {
		s.engine.Cancel()
		s.moving = false
	}
	s.renaming = false
	s.ctx = ctx
	s.cursor = 0
	s.status = ""
}

// Context returns the context the sidebar is showing.
func (s *Sidebar) Context() model.Context { return s.ctx }

// SetSize records the sidebar's render area.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Moving reports whether a move gesture is in progress.
func (s *Sidebar) Moving() bool { return s.moving }

// Renaming reports whether the inline rename input is active.
func (s *Sidebar) Renaming() bool { return s.renaming }

// Status returns the transient status line, empty when there is nothing
// to report.
func (s *Sidebar) Status() string { return s.status }

// rows flattens the context's collections into navigable lines. Zone rows
// are included only while moving, so the cursor can reach drop targets
// that have no entity of their own.
func (s *Sidebar) rows() []row {
	var out []row
	if s.moving {
		out = append(out, row{kind: rowTopZone})
	}

	unsectioned := s.convs.InSection(s.ctx, "")
	for _, c := range unsectioned {
		out = append(out, row{kind: rowConversation, conv: c})
	}
	if s.moving && len(unsectioned) > 0 {
		last := unsectioned[len(unsectioned)-1]
		out = append(out, row{kind: rowAfterConversation, conv: last})
	}

	for _, sec := range s.secs.List(s.ctx) {
		out = append(out, row{kind: rowSectionHeader, sec: sec})
		if sec.Collapsed {
			continue
		}
		for _, c := range s.convs.InSection(s.ctx, sec.ID) {
			out = append(out, row{kind: rowConversation, conv: c, member: true})
		}
		if s.moving {
			out = append(out, row{kind: rowSectionBody, sec: sec})
		}
	}

	if s.moving {
		out = append(out, row{kind: rowUnsectionedArea})
	}
	return out
}

func (s *Sidebar) clampCursor(rows []row) {
	if s.cursor >= len(rows) {
		s.cursor = len(rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a key press while the sidebar has focus.
func (s *Sidebar) Update(msg tea.KeyMsg) tea.Cmd {
	if s.renaming {
		return s.updateRename(msg)
	}
	if s.moving {
		s.updateMove(msg)
		return nil
	}

	rows := s.rows()
	s.clampCursor(rows)
	s.status = ""

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}

	case "down", "j":
		if s.cursor < len(rows)-1 {
			s.cursor++
		}

	case "enter":
		if len(rows) == 0 {
			break
		}
		switch r := rows[s.cursor]; r.kind {
		case rowConversation:
			s.convs.Select(s.ctx, r.conv.ID)
		case rowSectionHeader:
			s.toggleCollapse(r.sec)
		}

	case " ":
		if len(rows) > 0 && rows[s.cursor].kind == rowSectionHeader {
			s.toggleCollapse(rows[s.cursor].sec)
		}

	case "n":
		id := s.convs.Create(s.ctx)
		s.cursorTo(rowConversation, id)

	case "N":
		id := s.secs.Create(s.ctx)
		s.cursorTo(rowSectionHeader, id)

	case "d":
		s.deleteUnderCursor(rows, false)

	case "D":
		s.deleteUnderCursor(rows, true)

	case "r":
		return s.startRename(rows)

	case "m":
		s.startMove(rows)
	}
	return nil
}

func (s *Sidebar) toggleCollapse(sec model.Section) {
	collapsed := !sec.Collapsed
	s.secs.Update(s.ctx, sec.ID, store.SectionPatch{Collapsed: &collapsed})
}

// cursorTo positions the cursor on the row holding the given entity.
func (s *Sidebar) cursorTo(kind rowKind, id string) {
	for i, r := range s.rows() {
		if r.kind != kind {
			continue
		}
		if (kind == rowConversation && r.conv.ID == id) ||
			(kind == rowSectionHeader && r.sec.ID == id) {
			s.cursor = i
			return
		}
	}
}

// deleteUnderCursor removes the entity at the cursor. For sections,
// cascade decides whether member conversations are deleted with the
// section or released to the unsectioned list.
func (s *Sidebar) deleteUnderCursor(rows []row, cascade bool) {
	if len(rows) == 0 {
		return
	}
	switch r := rows[s.cursor]; r.kind {
	case rowConversation:
		s.convs.Delete(s.ctx, r.conv.ID)
		s.status = "deleted " + r.conv.Title
	case rowSectionHeader:
		if cascade {
			s.convs.DeleteBySection(s.ctx, r.sec.ID)
		} else {
			s.convs.ClearSection(s.ctx, r.sec.ID)
		}
		s.secs.Delete(s.ctx, r.sec.ID)
		s.status = "deleted section " + r.sec.Title
	}
	s.clampCursor(s.rows())
}

// =============================================================================
// RENAME MODE
// =============================================================================

func (s *Sidebar) startRename(rows []row) tea.Cmd {
	if len(rows) == 0 {
		return nil
	}
	r := rows[s.cursor]
	if r.kind != rowConversation && r.kind != rowSectionHeader {
		return nil
	}
	s.renaming = true
	s.renameRow = r
	if r.kind == rowConversation {
		s.renameInput.SetValue(r.conv.Title)
	} else {
		s.renameInput.SetValue(r.sec.Title)
	}
	s.renameInput.CursorEnd()
	return s.renameInput.Focus()
}

func (s *Sidebar) updateRename(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(s.renameInput.Value())
		if title != "" {
			if s.renameRow.kind == rowConversation {
				s.convs.Rename(s.ctx, s.renameRow.conv.ID, title)
			} else {
				s.secs.Update(s.ctx, s.renameRow.sec.ID, store.SectionPatch{Title: &title})
			}
		}
		s.renaming = false
		return nil

	case "esc":
		s.renaming = false
		return nil
	}

	var cmd tea.Cmd
	s.renameInput, cmd = s.renameInput.Update(msg)
	return cmd
}

// =============================================================================
// MOVE MODE
// =============================================================================

// startMove begins a reorder gesture for the entity under the cursor.
func (s *Sidebar) startMove(rows []row) {
	if len(rows) == 0 {
		return
	}
	r := rows[s.cursor]

	var p dnd.Payload
	switch r.kind {
	case rowConversation:
		p = dnd.Payload{
			Kind:          dnd.KindConversation,
			ID:            r.conv.ID,
			OriginSection: r.conv.SectionID,
		}
	case rowSectionHeader:
		p = dnd.Payload{Kind: dnd.KindSection, ID: r.sec.ID}
	default:
		return
	}

	if _, err := s.engine.Start(s.ctx, p); err != nil {
		s.status = err.Error()
		return
	}
	s.moving = true
	s.status = "move: j/k pick target, enter drop, esc cancel"

	// Re-flatten with zone rows and keep the cursor on the dragged entity.
	if r.kind == rowConversation {
		s.cursorTo(rowConversation, r.conv.ID)
	} else {
		s.cursorTo(rowSectionHeader, r.sec.ID)
	}
	s.hover()
}

func (s *Sidebar) updateMove(msg tea.KeyMsg) {
	rows := s.rows()
	s.clampCursor(rows)

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		s.hover()

	case "down", "j":
		if s.cursor < len(rows)-1 {
			s.cursor++
		}
		s.hover()

	case "enter":
		mutation := s.engine.Drop(rows[s.cursor].target())
		s.moving = false
		if noop, ok := mutation.(dnd.NoOp); ok && noop.Reason != "" {
			s.status = "move declined: " + noop.Reason
		} else {
			s.status = ""
		}
		s.clampCursor(s.rows())

	case "esc":
		s.engine.Cancel()
		s.moving = false
		s.status = ""
		s.clampCursor(s.rows())
	}
}

func (s *Sidebar) hover() {
	rows := s.rows()
	s.clampCursor(rows)
	if len(rows) > 0 {
		s.engine.HoverTarget(rows[s.cursor].target())
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the sidebar at its configured size.
func (s *Sidebar) View(focused bool) string {
	rows := s.rows()
	s.clampCursor(rows)

	innerWidth := s.width - 1 // border column
	if innerWidth < 8 {
		innerWidth = 8
	}

	selected := s.convs.SelectedID(s.ctx)
	var lines []string
	for i, r := range rows {
		lines = append(lines, s.renderRow(r, i == s.cursor, selected, innerWidth))
	}

	if s.renaming {
		lines = append(lines, s.theme.SidebarHint.Render("rename: "+s.renameInput.View()))
	} else if s.status != "" {
		lines = append(lines, s.theme.SidebarHint.Render(truncate(s.status, innerWidth)))
	}

	for len(lines) < s.height {
		lines = append(lines, "")
	}
	if len(lines) > s.height && s.height > 0 {
		lines = lines[:s.height]
	}

	body := strings.Join(lines, "\n")
	if focused {
		return s.theme.SidebarFocused.Width(innerWidth).Render(body)
	}
	return s.theme.Sidebar.Width(innerWidth).Render(body)
}

func (s *Sidebar) renderRow(r row, atCursor bool, selectedID string, width int) string {
	var label string
	style := s.theme.ConvRow

	switch r.kind {
	case rowTopZone:
		label = "┄ top"
		style = s.theme.SidebarHint
	case rowUnsectionedArea:
		label = "┄ unsectioned"
		style = s.theme.SidebarHint
	case rowAfterConversation:
		label = "┄ below " + r.conv.Title
		style = s.theme.SidebarHint
	case rowSectionBody:
		label = "  ┄ into " + r.sec.Title
		style = s.theme.SidebarHint
	case rowSectionHeader:
		marker := "▾ "
		if r.sec.Collapsed {
			marker = "▸ "
		}
		label = marker + r.sec.Title
		style = s.theme.SectionHeader
	case rowConversation:
		label = r.conv.Title
		if r.member {
			label = "  " + label
		}
		if r.conv.ID == selectedID {
			style = s.theme.ConvRowSelected
		}
	}

	label = truncate(label, width-2)

	if atCursor {
		if s.moving {
			if r.kind == rowConversation || r.kind == rowSectionHeader {
				return s.theme.DropTarget.Render("→ " + label)
			}
			return s.theme.DropTarget.Render("→" + label)
		}
		return s.theme.ConvRowCursor.Render("› " + label)
	}
	if s.moving && s.isDragged(r) {
		return s.theme.ConvRowDragging.Render("  " + label)
	}
	return style.Render("  " + label)
}

func (s *Sidebar) isDragged(r row) bool {
	sess := s.engine.Session()
	if sess == nil {
		return false
	}
	switch r.kind {
	case rowConversation:
		return sess.Payload.Kind == dnd.KindConversation && sess.Payload.ID == r.conv.ID
	case rowSectionHeader:
		return sess.Payload.Kind == dnd.KindSection && sess.Payload.ID == r.sec.ID
	}
	return false
}

// truncate shortens a label to the given display width, rune-safe.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
