package innertube

import (
	"strings"

	"github.com/samber/lo"
)

// Catalog is an ordered, read-only set of personas. The order of Sequence is
// the fallback priority and is part of the resolution contract.
type Catalog interface {
	Primary() Persona
	Fallbacks() []Persona
	Sequence() []Persona
	Get(id string) (Persona, bool)
}

type staticCatalog struct {
	primary   Persona
	fallbacks []Persona
}

// NewCatalog builds a catalog from an explicit primary and ordered fallbacks.
func NewCatalog(primary Persona, fallbacks ...Persona) Catalog {
	return &staticCatalog{
		primary:   primary,
		fallbacks: append([]Persona(nil), fallbacks...),
	}
}

// DefaultCatalog returns the production persona ordering.
func DefaultCatalog() Catalog {
	return NewCatalog(AndroidVR14332,
		AndroidVR16148,
		AndroidCreator,
		Mobile,
		IPadOS,
		AndroidVRNoAuth,
		TVHTML5,
		TVHTML5SimplyEmbedded,
		IOS,
		Web,
		WebCreator,
		WebRemix,
	)
}

func (c *staticCatalog) Primary() Persona {
	return c.primary
}

func (c *staticCatalog) Fallbacks() []Persona {
	return append([]Persona(nil), c.fallbacks...)
}

func (c *staticCatalog) Sequence() []Persona {
	seq := make([]Persona, 0, len(c.fallbacks)+1)
	seq = append(seq, c.primary)
	return append(seq, c.fallbacks...)
}

func (c *staticCatalog) Get(id string) (Persona, bool) {
	return lo.Find(c.Sequence(), func(p Persona) bool {
		return p.ID == id
	})
}

// WithoutFallbacks drops fallbacks whose ID or Name matches one of names,
// case-insensitively. The primary always stays: its failure is what makes a
// resolution fatal.
func WithoutFallbacks(c Catalog, names ...string) Catalog {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			skip[n] = struct{}{}
		}
	}
	if len(skip) == 0 {
		return c
	}
	kept := lo.Reject(c.Fallbacks(), func(p Persona, _ int) bool {
		_, byID := skip[strings.ToLower(p.ID)]
		_, byName := skip[strings.ToLower(p.Name)]
		return byID || byName
	})
	return NewCatalog(c.Primary(), kept...)
}
