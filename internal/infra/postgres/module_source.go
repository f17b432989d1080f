package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"student-app/internal/domain"
)

// ModuleSource loads module documents stored as JSONB in a content database.
type ModuleSource struct {
	pool *pgxpool.Pool
}

func NewModuleSource(pool *pgxpool.Pool) *ModuleSource {
	return &ModuleSource{pool: pool}
}

// FetchModule returns nil without error when the module is not published.
func (s *ModuleSource) FetchModule(ctx context.Context, moduleID domain.ID) (*domain.ModuleDocument, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM module_documents WHERE id=$1`, int64(moduleID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load module: %w", err)
	}
	var doc domain.ModuleDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal module: %w", err)
	}
	return &doc, nil
}
