// Package providers contiene los providers built-in del motor de
// códigos: group, user y other. Cada uno implementa el subconjunto de
// capabilities que le aplica; los módulos externos registran los suyos
// vía access.Registry.
package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dropDatabas3/accessd/internal/access"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// GroupProvider otorga códigos "G<groupID>" según las membresías de
// grupo del usuario.
type GroupProvider struct {
	dir   core.DirectoryRepository
	codes core.AccessRepository
}

func NewGroupProvider(dir core.DirectoryRepository, codes core.AccessRepository) *GroupProvider {
	return &GroupProvider{dir: dir, codes: codes}
}

func (p *GroupProvider) UpdateCodes(ctx context.Context, userID int64) error {
	groups, err := p.dir.GetUserGroups(ctx, userID)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if err := p.codes.AddCode(ctx, userID, "group", fmt.Sprintf("G%d", g)); err != nil {
			return err
		}
	}
	return nil
}

func (p *GroupProvider) GetNames(ctx context.Context, codes []string) (map[string]access.CodeName, error) {
	ids := make([]int64, 0, len(codes))
	byID := make(map[int64]string, len(codes))
	for _, code := range codes {
		raw, ok := strings.CutPrefix(code, "G")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		byID[id] = code
	}
	if len(ids) == 0 {
		return nil, nil
	}

	names, err := p.dir.GetGroupNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]access.CodeName, len(names))
	for id, name := range names {
		out[byID[id]] = access.CodeName{Name: name, Provider: "group"}
	}
	return out, nil
}

var (
	_ access.CodeUpdater  = (*GroupProvider)(nil)
	_ access.NameResolver = (*GroupProvider)(nil)
)
