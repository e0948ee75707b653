package providers

import (
	"github.com/dropDatabas3/accessd/internal/access"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// Builtin retorna el builder de los tres providers base. Registrarlo
// en el Registry durante el arranque:
//
//	reg := access.NewRegistry()
//	reg.Register(providers.Builtin(dir, codes))
func Builtin(dir core.DirectoryRepository, codes core.AccessRepository) access.Builder {
	return func() []access.Provider {
		return []access.Provider{
			{
				ID:           "group",
				Name:         "User groups",
				ProviderName: "Group",
				Sort:         100,
				Prefixes:     []string{"G"},
				Impl:         NewGroupProvider(dir, codes),
			},
			{
				ID:           "user",
				Name:         "Users",
				ProviderName: "User",
				Sort:         200,
				Prefixes:     []string{"U"},
				Impl:         NewUserProvider(dir, codes),
			},
			{
				ID:           "other",
				Name:         "Other",
				ProviderName: "",
				Sort:         1000,
				Impl:         NewOtherProvider(),
			},
		}
	}
}
