package providers

import (
	"context"
	"fmt"
	"html"
	"sort"

	"github.com/dropDatabas3/accessd/internal/access"
)

// OtherProvider resuelve los códigos especiales que no pertenecen a
// ningún provider dinámico. No implementa CodeUpdater: estos códigos
// los insertan otros módulos a mano (AddCode) y este provider solo les
// pone nombre y formulario.
type OtherProvider struct {
	names map[string]string
}

// defaultOtherCodes son los códigos especiales conocidos.
var defaultOtherCodes = map[string]string{
	CodeAuthorized: "All authorized users",
	"CR":           "Content creator",
}

func NewOtherProvider() *OtherProvider {
	return &OtherProvider{names: defaultOtherCodes}
}

func (p *OtherProvider) GetNames(ctx context.Context, codes []string) (map[string]access.CodeName, error) {
	out := make(map[string]access.CodeName)
	for _, code := range codes {
		if name, ok := p.names[code]; ok {
			out[code] = access.CodeName{Name: name, Provider: "other"}
		}
	}
	return out, nil
}

// GetFormHTML lista los códigos especiales como checkboxes estáticos.
func (p *OtherProvider) GetFormHTML(ctx context.Context, params map[string]any) (*access.FormHTML, error) {
	codes := make([]string, 0, len(p.names))
	for code := range p.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	h := ""
	for _, code := range codes {
		h += fmt.Sprintf(
			`<label><input type="checkbox" name="other[]" value="%s">%s</label>`,
			html.EscapeString(code), html.EscapeString(p.names[code]))
	}
	return &access.FormHTML{HTML: h}, nil
}

var (
	_ access.NameResolver = (*OtherProvider)(nil)
	_ access.FormRenderer = (*OtherProvider)(nil)
)
