package memory

import (
	"context"

	"student-app/internal/domain"
)

// StaticModuleSource is a module source backed by an in-memory map (useful for tests/demos).
type StaticModuleSource struct {
	modules map[domain.ID]domain.ModuleDocument
}

func NewStaticModuleSource(modules map[domain.ID]domain.ModuleDocument) *StaticModuleSource {
	return &StaticModuleSource{modules: modules}
}

// FetchModule returns a copy of the stored document, or nil when the id is unknown.
func (s *StaticModuleSource) FetchModule(_ context.Context, moduleID domain.ID) (*domain.ModuleDocument, error) {
	doc, ok := s.modules[moduleID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}
