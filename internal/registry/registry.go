// Package registry holds the evaluation cases compiled into a binary. Suites
// register cases from init functions; commands then select from the registry
// by dataset, label or name. Registration order is execution order.
package registry

import (
	"strings"
	"sync"

	"github.com/camronh/Twevals/internal/eval"
)

var (
	mu       sync.Mutex
	cases    []eval.Case
	defaults eval.Defaults
)

// Register appends cases in declaration order.
func Register(cs ...eval.Case) {
	mu.Lock()
	defer mu.Unlock()
	cases = append(cases, cs...)
}

// SetDefaults installs suite-level defaults applied to every registered case
// at selection time.
func SetDefaults(d eval.Defaults) {
	mu.Lock()
	defer mu.Unlock()
	defaults = d
}

// All returns every registered case with suite defaults applied.
func All() []eval.Case {
	mu.Lock()
	defer mu.Unlock()
	out := make([]eval.Case, len(cases))
	for i, c := range cases {
		out[i] = eval.ApplyDefaults(c, defaults)
	}
	return out
}

// Reset clears all registered cases and defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cases = nil
	defaults = eval.Defaults{}
}

// Filter narrows registered cases. Empty criteria match everything. Labels
// must all be present on a case; Name matches as a substring.
type Filter struct {
	Dataset string
	Labels  []string
	Name    string
}

// Select returns the registered cases matching the filter, in registration
// order.
func Select(f Filter) []eval.Case {
	all := All()
	selected := make([]eval.Case, 0, len(all))
	for _, c := range all {
		if f.Dataset != "" && c.Dataset != f.Dataset {
			continue
		}
		if f.Name != "" && !strings.Contains(c.Name, f.Name) {
			continue
		}
		if !hasAllLabels(c.Labels, f.Labels) {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}

func hasAllLabels(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
