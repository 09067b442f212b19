// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/dnd"
	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
	"github.com/parley-ai/parley/internal/store"
	"github.com/parley-ai/parley/internal/ui/styles"
)

func newTestSidebar(t *testing.T) (*Sidebar, *store.Conversations, *store.Sections) {
	t.Helper()
	kv := storage.NewMemKV()
	log := zap.NewNop()
	convs := store.NewConversations(kv, log)
	secs := store.NewSections(kv, log)
	engine := dnd.NewEngine(convs, secs, log)
	sb := NewSidebar(convs, secs, engine, styles.NewTheme("dark"))
	sb.SetSize(32, 20)
	return sb, convs, secs
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestRowsListUnsectionedAboveSections(t *testing.T) {
	sb, convs, secs := newTestSidebar(t)

	secID := secs.Create(model.ContextChat)
	seeded := convs.List(model.ContextChat)
	require.NotEmpty(t, seeded)
	convs.SetSection(model.ContextChat, seeded[0].ID, secID)

	rows := sb.rows()
	require.Len(t, rows, len(seeded)+1) // remaining unsectioned + header + member

	last := rows[len(rows)-1]
	assert.Equal(t, rowConversation, last.kind)
	assert.True(t, last.member)
	assert.Equal(t, seeded[0].ID, last.conv.ID)
	assert.Equal(t, rowSectionHeader, rows[len(rows)-2].kind)
}

func TestCollapsedSectionHidesMembers(t *testing.T) {
	sb, convs, secs := newTestSidebar(t)

	secID := secs.Create(model.ContextChat)
	seeded := convs.List(model.ContextChat)
	convs.SetSection(model.ContextChat, seeded[0].ID, secID)

	collapsed := true
	secs.Update(model.ContextChat, secID, store.SectionPatch{Collapsed: &collapsed})

	rows := sb.rows()
	for _, r := range rows {
		if r.kind == rowConversation && r.member {
			t.Fatal("collapsed section must not list members")
		}
	}
	assert.Equal(t, rowSectionHeader, rows[len(rows)-1].kind)
}

func TestEnterSelectsConversation(t *testing.T) {
	sb, convs, _ := newTestSidebar(t)

	sb.Update(key("down"))
	sb.Update(key("enter"))

	second := convs.List(model.ContextChat)[1]
	assert.Equal(t, second.ID, convs.SelectedID(model.ContextChat))
}

func TestMoveConversationIntoSection(t *testing.T) {
	sb, convs, secs := newTestSidebar(t)

	secID := secs.Create(model.ContextChat)
	seeded := convs.List(model.ContextChat)
	dragged := seeded[0]

	sb.Update(key("m"))
	require.True(t, sb.Moving())

	// Walk the cursor to the section body zone at the end of the
	// (empty, expanded) section.
	for i := 0; i < len(seeded)+2; i++ {
		sb.Update(key("down"))
	}
	rows := sb.rows()
	require.Equal(t, rowSectionBody, rows[sb.cursor].kind)

	sb.Update(key("enter"))
	assert.False(t, sb.Moving())

	got, ok := convs.Get(model.ContextChat, dragged.ID)
	require.True(t, ok)
	assert.Equal(t, secID, got.SectionID)
}

func TestMoveCancelLeavesStoreUntouched(t *testing.T) {
	sb, convs, _ := newTestSidebar(t)
	before := convs.List(model.ContextChat)

	sb.Update(key("m"))
	require.True(t, sb.Moving())
	sb.Update(key("down"))
	sb.Update(key("esc"))

	assert.False(t, sb.Moving())
	assert.Equal(t, before, convs.List(model.ContextChat))
}

func TestMoveOnSectionHeaderStartsSectionMove(t *testing.T) {
	sb, convs, secs := newTestSidebar(t)
	_ = secs.Create(model.ContextChat)

	for i := 0; i < len(convs.List(model.ContextChat)); i++ {
		sb.Update(key("down"))
	}
	rows := sb.rows()
	require.Equal(t, rowSectionHeader, rows[sb.cursor].kind)

	sb.Update(key("m"))
	assert.True(t, sb.Moving())
	sb.Update(key("esc"))
}

func TestCreateConversationMovesCursorToIt(t *testing.T) {
	sb, convs, _ := newTestSidebar(t)

	sb.Update(key("n"))
	rows := sb.rows()
	require.Equal(t, rowConversation, rows[sb.cursor].kind)
	assert.Equal(t, convs.SelectedID(model.ContextChat), rows[sb.cursor].conv.ID)
}

func TestDeleteSectionReleasesMembers(t *testing.T) {
	sb, convs, secs := newTestSidebar(t)

	secID := secs.Create(model.ContextChat)
	seeded := convs.List(model.ContextChat)
	convs.SetSection(model.ContextChat, seeded[0].ID, secID)

	// Move cursor onto the section header.
	for sb.rows()[sb.cursor].kind != rowSectionHeader {
		sb.Update(key("down"))
	}
	sb.Update(key("d"))

	assert.False(t, secs.Exists(model.ContextChat, secID))
	got, ok := convs.Get(model.ContextChat, seeded[0].ID)
	require.True(t, ok, "declined cascade keeps the conversation")
	assert.Empty(t, got.SectionID)
}

func TestDeleteSectionCascade(t *testing.T) {
	sb, convs, secs := newTestSidebar(t)

	secID := secs.Create(model.ContextChat)
	seeded := convs.List(model.ContextChat)
	convs.SetSection(model.ContextChat, seeded[0].ID, secID)

	for sb.rows()[sb.cursor].kind != rowSectionHeader {
		sb.Update(key("down"))
	}
	sb.Update(key("D"))

	assert.False(t, secs.Exists(model.ContextChat, secID))
	_, ok := convs.Get(model.ContextChat, seeded[0].ID)
	assert.False(t, ok, "accepted cascade deletes members")
}

func TestRenameConversation(t *testing.T) {
	sb, convs, _ := newTestSidebar(t)
	first := convs.List(model.ContextChat)[0]

	sb.Update(key("r"))
	require.True(t, sb.Renaming())

	sb.renameInput.SetValue("Renamed")
	sb.Update(key("enter"))
	assert.False(t, sb.Renaming())

	got, _ := convs.Get(model.ContextChat, first.ID)
	assert.Equal(t, "Renamed", got.Title)
}

func TestSetContextCancelsMove(t *testing.T) {
	sb, _, _ := newTestSidebar(t)

	sb.Update(key("m"))
	require.True(t, sb.Moving())

	sb.SetContext(model.ContextImage)
	assert.False(t, sb.Moving())
	assert.Equal(t, model.ContextImage, sb.Context())
}

func TestTabOrderCycles(t *testing.T) {
	assert.Equal(t, model.ContextImage, NextContext(model.ContextChat))
	assert.Equal(t, model.ContextChat, NextContext(model.ContextImage))
	assert.Equal(t, model.ContextImage, PrevContext(model.ContextChat))
	assert.Equal(t, model.ContextChat, NextContext(model.ContextAudio), "unknown context snaps to first tab")
}
