// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
	"github.com/parley-ai/parley/internal/util"
)

// Title derivation limits: first user prompts become the conversation
// title, clipped to these rune counts.
const (
	titleMaxRunes      = 50
	imageTitleMaxRunes = 40
	imageTitlePrefix   = "Image: "
	imageTitleFallback = "Image generation"
)

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Conversations owns the per-context conversation collections and the
// per-context selection pointer. Every mutation re-persists the whole
// collection; the event-driven callers never interleave two mutations, and
// the internal mutex keeps background completions (provider responses
// arriving on other goroutines) from corrupting state.
type Conversations struct {
	kv  storage.KV
	log *zap.Logger

	mu        sync.Mutex
	byContext map[model.Context][]model.Conversation
	selected  map[model.Context]string
}

// NewConversations loads (and, when needed, migrates) the persisted
// collection. It never fails; unusable persisted data is replaced by the
// default dataset.
func NewConversations(kv storage.KV, log *zap.Logger) *Conversations {
	return &Conversations{
		kv:        kv,
		log:       log,
		byContext: loadConversations(kv, log),
		selected:  make(map[model.Context]string),
	}
}

// persistLocked re-serializes the full collection. Callers hold s.mu.
func (s *Conversations) persistLocked() {
	persistConversations(s.kv, s.log, s.byContext)
}

// Reload re-reads the persisted collection, discarding in-memory state.
// Used when the backing snapshot changed outside this process.
func (s *Conversations) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byContext = loadConversations(s.kv, s.log)
}

// =============================================================================
// READS
// =============================================================================

// List returns the ordered conversations of a context. The result is a
// copy; mutating it does not affect the store.
func (s *Conversations) List(ctx model.Context) []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Conversation, len(s.byContext[ctx]))
	for i := range s.byContext[ctx] {
		out[i] = s.byContext[ctx][i].Clone()
	}
	return out
}

// Get returns a copy of one conversation.
func (s *Conversations) Get(ctx model.Context, id string) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(ctx, id); i >= 0 {
		return s.byContext[ctx][i].Clone(), true
	}
	return model.Conversation{}, false
}

// InSection returns the conversations assigned to the given section, in
// list order. An empty sectionID selects the unsectioned conversations; a
// conversation whose SectionID references no known section is the caller's
// concern — this store treats the reference as opaque.
func (s *Conversations) InSection(ctx model.Context, sectionID string) []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Conversation
	for i := range s.byContext[ctx] {
		if s.byContext[ctx][i].SectionID == sectionID {
			out = append(out, s.byContext[ctx][i].Clone())
		}
	}
	return out
}

// =============================================================================
// SELECTION
// =============================================================================

// SelectedID returns the selected conversation id for a context. On the
// first query after a context switch (or after the selected conversation
// disappeared) it defaults to the first conversation in the context.
func (s *Conversations) SelectedID(ctx model.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked(ctx)
}

func (s *Conversations) selectedLocked(ctx model.Context) string {
	if id := s.selected[ctx]; id != "" && s.indexLocked(ctx, id) >= 0 {
		return id
	}
	if len(s.byContext[ctx]) == 0 {
		return ""
	}
	first := s.byContext[ctx][0].ID
	s.selected[ctx] = first
	return first
}

// Select changes the selection pointer. It mutates no entity. Selecting an
// unknown id is a logged no-op.
func (s *Conversations) Select(ctx model.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(ctx, id) < 0 {
		s.log.Warn("select: conversation not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	s.selected[ctx] = id
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create prepends a fresh default conversation, selects it, and returns
// its id.
func (s *Conversations) Create(ctx model.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation()
	s.byContext[ctx] = append([]model.Conversation{conv}, s.byContext[ctx]...)
	s.selected[ctx] = conv.ID
	s.persistLocked()
	return conv.ID
}

// Delete removes a conversation. The context is never left empty: deleting
// the last conversation immediately seeds a fresh default one. When the
// deleted conversation was selected, selection moves to the first
// remaining conversation.
func (s *Conversations) Delete(ctx model.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("delete: conversation not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}

	s.byContext[ctx] = append(s.byContext[ctx][:i], s.byContext[ctx][i+1:]...)

	if len(s.byContext[ctx]) == 0 {
		replacement := model.NewConversation()
		s.byContext[ctx] = []model.Conversation{replacement}
		s.selected[ctx] = replacement.ID
	} else if s.selected[ctx] == id {
		s.selected[ctx] = s.byContext[ctx][0].ID
	}

	s.persistLocked()
}

// Rename updates a conversation title in place. Renaming to the current
// title does not rewrite the snapshot.
func (s *Conversations) Rename(ctx model.Context, id, newTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("rename: conversation not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	if s.byContext[ctx][i].Title == newTitle {
		return
	}
	s.byContext[ctx][i].Title = newTitle
	s.persistLocked()
}

// AppendMessage appends a message to a conversation's log.
//
// A system message never appends: it replaces the existing system message
// in place, or is inserted at position 0 so the system message stays first.
// The first real user message also becomes the conversation title.
func (s *Conversations) AppendMessage(ctx model.Context, id string, role model.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("append: conversation not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	conv := &s.byContext[ctx][i]

	if role == model.RoleSystem {
		if si := conv.SystemMessageIndex(); si >= 0 {
			conv.Messages[si].Content = content
		} else if strings.TrimSpace(content) != "" {
			conv.Messages = append([]model.Message{model.NewSystemMessage(content)}, conv.Messages...)
		}
		s.persistLocked()
		return
	}

	msg := model.NewMessage(role, content)
	if role == model.RoleUser && conv.AwaitingTitle() {
		conv.Title = deriveTitle(msg)
	}
	conv.Messages = append(conv.Messages, msg)
	s.persistLocked()
}

// SetSection reassigns section membership. Position among the existing
// members of the target is not changed here; a subsequent reorder refines
// it. An empty sectionID demotes the conversation to unsectioned.
func (s *Conversations) SetSection(ctx model.Context, id, sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("set section: conversation not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	s.byContext[ctx][i].SectionID = sectionID
	s.persistLocked()
}

// MoveAfter removes the dragged conversation from its position, adopts the
// target's section assignment, and reinserts it immediately after the
// target. Dropping a conversation onto itself, or naming an unknown id, is
// a no-op.
func (s *Conversations) MoveAfter(ctx model.Context, draggedID, targetID string) {
	if draggedID == targetID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	di := s.indexLocked(ctx, draggedID)
	if di < 0 {
		s.log.Warn("move: dragged conversation not found",
			zap.String("context", ctx.String()), zap.String("id", draggedID))
		return
	}
	ti := s.indexLocked(ctx, targetID)
	if ti < 0 {
		s.log.Warn("move: target conversation not found",
			zap.String("context", ctx.String()), zap.String("id", targetID))
		return
	}

	dragged := s.byContext[ctx][di]
	dragged.SectionID = s.byContext[ctx][ti].SectionID

	list := append([]model.Conversation{}, s.byContext[ctx][:di]...)
	list = append(list, s.byContext[ctx][di+1:]...)

	// Target index in the filtered list
	ti = -1
	for j := range list {
		if list[j].ID == targetID {
			ti = j
			break
		}
	}
	list = append(list[:ti+1], append([]model.Conversation{dragged}, list[ti+1:]...)...)
	s.byContext[ctx] = list
	s.persistLocked()
}

// =============================================================================
// SECTION MEMBERSHIP PRIMITIVES
// =============================================================================

// ClearSection demotes every member of a section to unsectioned. Used when
// a section is deleted and the user keeps its conversations.
func (s *Conversations) ClearSection(ctx model.Context, sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.byContext[ctx] {
		if s.byContext[ctx][i].SectionID == sectionID {
			s.byContext[ctx][i].SectionID = ""
			changed = true
		}
	}
	if changed {
		s.persistLocked()
	}
}

// DeleteBySection removes every member of a section. Used when a section
// is deleted and the user cascades the deletion. The non-empty invariant
// and the selection pointer are restored as in Delete. Returns the ids of
// the removed conversations.
func (s *Conversations) DeleteBySection(ctx model.Context, sectionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	var kept []model.Conversation
	selectedRemoved := false
	for _, c := range s.byContext[ctx] {
		if c.SectionID == sectionID {
			removed = append(removed, c.ID)
			if s.selected[ctx] == c.ID {
				selectedRemoved = true
			}
			continue
		}
		kept = append(kept, c)
	}
	if len(removed) == 0 {
		return nil
	}

	if len(kept) == 0 {
		replacement := model.NewConversation()
		kept = []model.Conversation{replacement}
		s.selected[ctx] = replacement.ID
	} else if selectedRemoved {
		s.selected[ctx] = kept[0].ID
	}

	s.byContext[ctx] = kept
	s.persistLocked()
	return removed
}

// =============================================================================
// HELPERS
// =============================================================================

// indexLocked returns the position of id in the context's list, or -1.
func (s *Conversations) indexLocked(ctx model.Context, id string) int {
	for i := range s.byContext[ctx] {
		if s.byContext[ctx][i].ID == id {
			return i
		}
	}
	return -1
}

// deriveTitle turns the first user prompt into a conversation title.
func deriveTitle(msg model.Message) string {
	if msg.IsImageRequest() {
		req, err := model.DecodeImageRequest(msg.Content)
		if err != nil {
			return imageTitleFallback
		}
		return imageTitlePrefix + util.TruncateRunesNoEllipsis(req.Prompt, imageTitleMaxRunes)
	}
	return util.TruncateRunesNoEllipsis(msg.Content, titleMaxRunes)
}
