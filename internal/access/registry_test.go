package access

import "testing"

func prov(id string, sort int) Provider {
	return Provider{ID: id, Name: id, ProviderName: id, Sort: sort}
}

func TestRegistry_SortOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(func() []Provider {
		return []Provider{prov("c", 300), prov("a", 100)}
	})
	r.Register(func() []Provider {
		return []Provider{prov("b", 200)}
	})

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, quería 3", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].ID != want {
			t.Fatalf("list[%d].ID = %q, quería %q", i, list[i].ID, want)
		}
	}
}

func TestRegistry_StableOnSortTies(t *testing.T) {
	r := NewRegistry()
	r.Register(func() []Provider {
		return []Provider{prov("first", 100), prov("second", 100)}
	})

	list := r.List()
	if list[0].ID != "first" || list[1].ID != "second" {
		t.Fatalf("empate de Sort no conservó orden de registro: %v", list)
	}
}

func TestRegistry_OverwriteByID(t *testing.T) {
	r := NewRegistry()
	r.Register(func() []Provider {
		return []Provider{{ID: "x", Name: "vieja", Sort: 100}}
	})
	r.Register(func() []Provider {
		return []Provider{{ID: "x", Name: "nueva", Sort: 100}}
	})

	p, ok := r.Get("x")
	if !ok {
		t.Fatal("Get(x) no encontró el provider")
	}
	if p.Name != "nueva" {
		t.Fatalf("Name = %q, el último registro debe pisar al primero", p.Name)
	}
	if len(r.List()) != 1 {
		t.Fatalf("IDs repetidos deben colapsar en una sola entrada")
	}
}

func TestRegistry_BuildsOnce(t *testing.T) {
	calls := 0
	r := NewRegistry()
	r.Register(func() []Provider {
		calls++
		return []Provider{prov("a", 100)}
	})

	r.List()
	r.List()
	r.Get("a")

	if calls != 1 {
		t.Fatalf("builder corrió %d veces, debe correr una sola", calls)
	}
}

func TestRegistry_RegisterAfterBuildIgnored(t *testing.T) {
	r := NewRegistry()
	r.Register(func() []Provider { return []Provider{prov("a", 100)} })
	r.List()

	r.Register(func() []Provider { return []Provider{prov("b", 50)} })

	if _, ok := r.Get("b"); ok {
		t.Fatal("Register después del primer uso no debe tener efecto")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("nope"); ok {
		t.Fatal("Get de un ID inexistente debe retornar ok=false")
	}
}

func TestRegistry_EmptyIDSkipped(t *testing.T) {
	r := NewRegistry()
	r.Register(func() []Provider {
		return []Provider{{ID: "", Sort: 1}, prov("a", 100)}
	})
	if len(r.List()) != 1 {
		t.Fatal("descriptores sin ID deben descartarse")
	}
}
