// Package export turns rendered dashboard charts into downloadable files.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Surface is a rendered chart that can be re-encoded as an image.
type Surface interface {
	ID() string
	Fingerprint() string
	EncodePNG(w io.Writer) error
}

// SurfaceResolver locates the surface currently mounted under an identifier.
type SurfaceResolver interface {
	ResolveSurface(id string) (Surface, bool)
}

// ResolverFunc adapts a function to SurfaceResolver.
type ResolverFunc func(id string) (Surface, bool)

// ResolveSurface calls f(id).
func (f ResolverFunc) ResolveSurface(id string) (Surface, bool) {
	if f == nil {
		return nil, false
	}
	return f(id)
}

// SurfaceSet is the set of surfaces mounted on one rendered page.
type SurfaceSet map[string]Surface

// NewSurfaceSet indexes surfaces by identifier. Later duplicates win.
func NewSurfaceSet(surfaces ...Surface) SurfaceSet {
	set := make(SurfaceSet, len(surfaces))
	for _, s := range surfaces {
		if s == nil || s.ID() == "" {
			continue
		}
		set[s.ID()] = s
	}
	return set
}

// ResolveSurface implements SurfaceResolver.
func (s SurfaceSet) ResolveSurface(id string) (Surface, bool) {
	surface, ok := s[id]
	return surface, ok
}

// IDs returns the mounted identifiers in sorted order.
func (s SurfaceSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// fingerprint hashes the JSON form of v. Values JSON rejects, such as NaN,
// fall back to their Go syntax so distinct contents never share a key.
func fingerprint(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		raw = fmt.Appendf(nil, "%#v", v)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:12])
}
