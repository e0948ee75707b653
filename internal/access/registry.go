package access

import (
	"sort"
	"sync"
)

// Builder aporta uno o más descriptores de provider. Se registran
// durante la inicialización y se ejecutan recién en el primer uso.
type Builder func() []Provider

// Registry contiene los providers ordenados. Se construye explícito en
// el arranque y se pasa por referencia; no hay estado estático oculto.
// El contenido se arma una sola vez (primer List/Get) y no se refresca.
type Registry struct {
	mu       sync.Mutex
	builders []Builder
	built    bool
	list     []Provider
	index    map[string]int
}

// NewRegistry crea un registro vacío.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register agrega un builder. Solo tiene efecto antes del primer uso:
// los providers son inmutables por el resto de la vida del proceso.
func (r *Registry) Register(b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.built {
		return
	}
	r.builders = append(r.builders, b)
}

// build ejecuta los builders, aplasta los resultados, pisa por ID y
// ordena por Sort ascendente (estable: empates quedan en orden de
// registro). Llamar con r.mu tomado.
func (r *Registry) build() {
	if r.built {
		return
	}

	for _, b := range r.builders {
		for _, p := range b() {
			if p.ID == "" {
				continue
			}
			if i, ok := r.index[p.ID]; ok {
				r.list[i] = p
				continue
			}
			r.index[p.ID] = len(r.list)
			r.list = append(r.list, p)
		}
	}

	sort.SliceStable(r.list, func(i, j int) bool {
		return r.list[i].Sort < r.list[j].Sort
	})
	for i, p := range r.list {
		r.index[p.ID] = i
	}

	r.built = true
	r.builders = nil
}

// List retorna los providers en orden de Sort.
func (r *Registry) List() []Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.build()

	out := make([]Provider, len(r.list))
	copy(out, r.list)
	return out
}

// Get busca un provider por ID.
func (r *Registry) Get(id string) (Provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.build()

	i, ok := r.index[id]
	if !ok {
		return Provider{}, false
	}
	return r.list[i], true
}
