package access

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

const (
	// lruCategory es la categoría de user options de las listas recientes.
	lruCategory = "access_dialog_recent"

	// lruCap limita la lista resultante después del merge.
	lruCap = 20
)

// SaveLastRecentlyUsed mezcla los IDs recién usados con la lista previa
// de cada provider: los nuevos van primero, se de-duplica conservando
// la primera aparición y se corta en 20 DESPUÉS del merge.
func (s *Service) SaveLastRecentlyUsed(ctx context.Context, userID int64, recent map[string][]string) error {
	for providerID, ids := range recent {
		if ids == nil {
			continue
		}

		prev, err := s.GetLastRecentlyUsed(ctx, userID, providerID)
		if err != nil {
			return err
		}

		merged := make([]string, 0, len(ids)+len(prev))
		seen := make(map[string]struct{}, len(ids)+len(prev))
		for _, id := range append(append([]string{}, ids...), prev...) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
			if len(merged) == lruCap {
				break
			}
		}

		b, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		if err := s.options.SetOption(ctx, userID, lruCategory, providerID, b); err != nil {
			return err
		}
	}
	return nil
}

// GetLastRecentlyUsed retorna la lista reciente del provider, más nuevo
// primero. Sin historial retorna vacío, nunca error.
func (s *Service) GetLastRecentlyUsed(ctx context.Context, userID int64, providerID string) ([]string, error) {
	b, err := s.options.GetOption(ctx, userID, lruCategory, providerID)
	if errors.Is(err, core.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		// valor ilegible: se descarta como lista vacía
		s.log.Warn("recent list unreadable", logger.Provider(providerID), logger.Err(err))
		return []string{}, nil
	}
	return ids, nil
}
