package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dropDatabas3/accessd/internal/access"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// CodeAuthorized lo llevan todos los usuarios autenticados.
const CodeAuthorized = "AU"

// UserProvider otorga los códigos de identidad: "U<userID>" y AU.
type UserProvider struct {
	dir   core.DirectoryRepository
	codes core.AccessRepository
}

func NewUserProvider(dir core.DirectoryRepository, codes core.AccessRepository) *UserProvider {
	return &UserProvider{dir: dir, codes: codes}
}

func (p *UserProvider) UpdateCodes(ctx context.Context, userID int64) error {
	if err := p.codes.AddCode(ctx, userID, "user", fmt.Sprintf("U%d", userID)); err != nil {
		return err
	}
	return p.codes.AddCode(ctx, userID, "user", CodeAuthorized)
}

func (p *UserProvider) GetNames(ctx context.Context, codes []string) (map[string]access.CodeName, error) {
	ids := make([]int64, 0, len(codes))
	byID := make(map[int64]string, len(codes))
	for _, code := range codes {
		raw, ok := strings.CutPrefix(code, "U")
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

	names, err := p.dir.GetUserNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]access.CodeName, len(names))
	for id, name := range names {
		out[byID[id]] = access.CodeName{Name: name, Provider: "user"}
	}
	return out, nil
}

// AjaxRequest resuelve {"code": "U5"} al nombre del usuario, para el
// autocompletado del diálogo de selección.
func (p *UserProvider) AjaxRequest(ctx context.Context, params map[string]any) (any, error) {
	code, _ := params["code"].(string)
	if code == "" {
		return nil, nil
	}
	names, err := p.GetNames(ctx, []string{code})
	if err != nil {
		return nil, err
	}
	cn, ok := names[code]
	if !ok {
		return nil, nil
	}
	return map[string]string{"code": code, "name": cn.Name}, nil
}

var (
	_ access.CodeUpdater  = (*UserProvider)(nil)
	_ access.NameResolver = (*UserProvider)(nil)
	_ access.AjaxHandler  = (*UserProvider)(nil)
)
