package cache

import (
	"fmt"
	"strings"
)

const (
	separator = "|"
	// bareField is the field used for entries cached without parameters.
	bareField = "_"
)

// Param is one key=value pair in a cache slug.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter list. Order is significant: the slug is
// built in the order given and never sorted.
type Params []Param

// P builds Params from alternating keys and values. A trailing key without
// a value is ignored.
func P(kv ...any) Params {
	out := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Param{Key: fmt.Sprint(kv[i]), Value: kv[i+1]})
	}
	return out
}

// Slug joins the pairs as k=v separated by "|".
func (p Params) Slug() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, kv := range p {
		parts[i] = kv.Key + "=" + fmt.Sprint(kv.Value)
	}
	return strings.Join(parts, separator)
}

func joinNonEmpty(segments ...string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, separator)
}

func fieldFor(p Params) string {
	if slug := p.Slug(); slug != "" {
		return slug
	}
	return bareField
}
