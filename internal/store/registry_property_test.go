package store

import (
	"strings"
	"testing"

	"github.com/efreitasn/marketsim/internal/domain"
	"pgregory.net/rapid"
)

func TestProperty_RegistryCanonicalInstances(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry(domain.NewOperator)

		names := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 30).Draw(t, "names")
		seen := make(map[string]*domain.Operator)

		for _, name := range names {
			o, err := r.GetOrCreate(name)
			if err != nil {
				t.Fatalf("GetOrCreate(%q): %v", name, err)
			}
			if prev, ok := seen[name]; ok && prev != o {
				t.Fatalf("two distinct instances for name %q", name)
			}
			seen[name] = o
		}

		if r.Len() != len(seen) {
			t.Fatalf("Len = %d, want %d", r.Len(), len(seen))
		}

		// Names are sorted and complete.
		sorted := r.Names()
		if len(sorted) != len(seen) {
			t.Fatalf("Names has %d entries, want %d", len(sorted), len(seen))
		}
		for i := 1; i < len(sorted); i++ {
			if strings.Compare(sorted[i-1], sorted[i]) >= 0 {
				t.Fatalf("Names not strictly sorted: %q before %q", sorted[i-1], sorted[i])
			}
		}
	})
}
