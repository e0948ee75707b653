// Package access implementa el motor de códigos de acceso: el registro
// de providers, el cache de checks pendientes y la recalculación
// denormalizada de códigos por usuario.
//
// Un "código de acceso" es un token opaco (ej: "G5", "U12", "AU") que
// un provider le otorga a un usuario. Los checks de permisos del resto
// de la aplicación leen el set ya resuelto, nunca recalculan en línea.
package access

import "context"

// Provider es el descriptor de un provider registrado.
type Provider struct {
	// ID identifica al provider ("group", "user", ...).
	ID string

	// Name es el nombre plural para UI ("Grupos de usuarios").
	Name string

	// ProviderName es el nombre singular usado al mostrar un código.
	ProviderName string

	// Sort define el orden de iteración (ascendente).
	Sort int

	// Prefixes son los prefijos de código que maneja ("G", "U").
	Prefixes []string

	// Impl implementa algún subconjunto de las capabilities de abajo.
	Impl any
}

// Las capabilities son opcionales: un provider implementa las que le
// aplican y el motor chequea conformidad de interfaz, nunca falla por
// ausencia.

// CodeUpdater recalcula e inserta los códigos del usuario.
// Se invoca con la tabla ya vaciada para ese (provider, usuario).
type CodeUpdater interface {
	UpdateCodes(ctx context.Context, userID int64) error
}

// NameResolver resuelve nombres visibles para códigos propios.
// Códigos ajenos se omiten del resultado.
type NameResolver interface {
	GetNames(ctx context.Context, codes []string) (map[string]CodeName, error)
}

// FormRenderer genera el bloque HTML del provider para el diálogo de
// selección. Retorna nil si el provider no aplica con esos parámetros.
type FormRenderer interface {
	GetFormHTML(ctx context.Context, params map[string]any) (*FormHTML, error)
}

// AjaxHandler atiende requests AJAX del diálogo de selección.
type AjaxHandler interface {
	AjaxRequest(ctx context.Context, params map[string]any) (any, error)
}

// CodeName es el nombre resuelto de un código.
type CodeName struct {
	Name     string
	Provider string
}

// FormHTML es el bloque de formulario de un provider.
type FormHTML struct {
	HTML     string
	Selected bool
}

// ProviderInfo describe un provider para la UI.
type ProviderInfo struct {
	Name     string
	Prefixes []string
}
