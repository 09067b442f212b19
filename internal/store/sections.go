// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/parley-ai/parley/internal/model"
	"github.com/parley-ai/parley/internal/storage"
)

// =============================================================================
// SECTION STORE
// =============================================================================

// Sections owns the per-context section collections. Deleting a section
// does not touch conversation membership: the caller decides between
// cascading the deletion and demoting members, and invokes the matching
// Conversations primitive (DeleteBySection or ClearSection). The two
// collections are not mutated transactionally, which is why conversation
// consumers must tolerate dangling section references.
type Sections struct {
	kv  storage.KV
	log *zap.Logger

	mu        sync.Mutex
	byContext map[model.Context][]model.Section
}

// NewSections loads the persisted section collection. Unusable persisted
// data resets to empty per-context lists.
func NewSections(kv storage.KV, log *zap.Logger) *Sections {
	return &Sections{
		kv:        kv,
		log:       log,
		byContext: loadSections(kv, log),
	}
}

func (s *Sections) persistLocked() {
	persistSections(s.kv, s.log, s.byContext)
}

// Reload re-reads the persisted collection, discarding in-memory state.
func (s *Sections) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byContext = loadSections(s.kv, s.log)
}

// =============================================================================
// READS
// =============================================================================

// List returns the ordered sections of a context. The result is a copy.
func (s *Sections) List(ctx model.Context) []model.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Section, len(s.byContext[ctx]))
	copy(out, s.byContext[ctx])
	return out
}

// Get returns one section by id.
func (s *Sections) Get(ctx model.Context, id string) (model.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(ctx, id); i >= 0 {
		return s.byContext[ctx][i], true
	}
	return model.Section{}, false
}

// Exists reports whether id names a known section in the context.
func (s *Sections) Exists(ctx model.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(ctx, id) >= 0
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create appends a fresh section with the default title and returns its id.
func (s *Sections) Create(ctx model.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := model.NewSection()
	s.byContext[ctx] = append(s.byContext[ctx], sec)
	s.persistLocked()
	return sec.ID
}

// SectionPatch is a partial section update; nil fields are left unchanged.
type SectionPatch struct {
	Title     *string
	Collapsed *bool
}

// Update merges the patch into a section. Unknown ids are a logged no-op.
func (s *Sections) Update(ctx model.Context, id string, patch SectionPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("update: section not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	if patch.Title != nil {
		s.byContext[ctx][i].Title = *patch.Title
	}
	if patch.Collapsed != nil {
		s.byContext[ctx][i].Collapsed = *patch.Collapsed
	}
	s.persistLocked()
}

// Delete removes a section from the list. Member conversations are not
// touched; see the type comment.
func (s *Sections) Delete(ctx model.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("delete: section not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	s.byContext[ctx] = append(s.byContext[ctx][:i], s.byContext[ctx][i+1:]...)
	s.persistLocked()
}

// MoveToTop moves a section to index 0 of the context's section list.
func (s *Sections) MoveToTop(ctx model.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ctx, id)
	if i < 0 {
		s.log.Warn("move to top: section not found",
			zap.String("context", ctx.String()), zap.String("id", id))
		return
	}
	if i == 0 {
		return
	}
	sec := s.byContext[ctx][i]
	list := append(s.byContext[ctx][:i], s.byContext[ctx][i+1:]...)
	s.byContext[ctx] = append([]model.Section{sec}, list...)
	s.persistLocked()
}

// MoveTo removes the dragged section from its position and inserts it at
// the target section's index, corrected by -1 when the dragged section sat
// before the target (the standard stable-reorder adjustment after
// removal). Self-drops and unknown ids are no-ops.
func (s *Sections) MoveTo(ctx model.Context, draggedID, targetID string) {
	if draggedID == targetID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	di := s.indexLocked(ctx, draggedID)
	if di < 0 {
		s.log.Warn("move: dragged section not found",
			zap.String("context", ctx.String()), zap.String("id", draggedID))
		return
	}
	ti := s.indexLocked(ctx, targetID)
	if ti < 0 {
		s.log.Warn("move: target section not found",
			zap.String("context", ctx.String()), zap.String("id", targetID))
		return
	}

	insertAt := ti
	if di < ti {
		insertAt = ti - 1
	}

	dragged := s.byContext[ctx][di]
	list := append([]model.Section{}, s.byContext[ctx][:di]...)
	list = append(list, s.byContext[ctx][di+1:]...)
	list = append(list[:insertAt], append([]model.Section{dragged}, list[insertAt:]...)...)
	s.byContext[ctx] = list
	s.persistLocked()
}

// indexLocked returns the position of id in the context's list, or -1.
func (s *Sections) indexLocked(ctx model.Context, id string) int {
	for i := range s.byContext[ctx] {
		if s.byContext[ctx][i].ID == id {
			return i
		}
	}
	return -1
}
