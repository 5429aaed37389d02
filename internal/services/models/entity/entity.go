// Package entity identifies the heroes and bosses that own model catalogs
// and normalizes their info records into one canonical shape.
package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/louisbranch/herowiki/internal/services/models/naming"
)

// Kind is the family an entity belongs to.
type Kind string

const (
	KindHero Kind = "hero"
	KindBoss Kind = "boss"
)

// Kinds lists every entity kind in display order.
func Kinds() []Kind {
	return []Kind{KindHero, KindBoss}
}

// ParseKind accepts singular and plural spellings, for example "boss" and
// "bosses".
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hero", "heroes":
		return KindHero, nil
	case "boss", "bosses":
		return KindBoss, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", raw)
}

// Dir returns the data lake directory name for the kind.
func (k Kind) Dir() string {
	if k == KindBoss {
		return "bosses"
	}
	return "heroes"
}

// Formatter returns the variant label formatter for the kind.
func (k Kind) Formatter() naming.Formatter {
	if k == KindBoss {
		return naming.BossModel
	}
	return naming.HeroCostume
}

// Noun names what a variant is called for the kind.
func (k Kind) Noun() string {
	if k == KindBoss {
		return "model"
	}
	return "costume"
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Ref points at one entity.
type Ref struct {
	Kind Kind
	ID   string
}

// NewRef validates kind and id.
func NewRef(kind, id string) (Ref, error) {
	parsed, err := ParseKind(kind)
	if err != nil {
		return Ref{}, err
	}
	id = strings.TrimSpace(id)
	if !ValidID(id) {
		return Ref{}, fmt.Errorf("invalid entity id %q", id)
	}
	return Ref{Kind: parsed, ID: id}, nil
}

// ValidID reports whether id is safe to use as a data lake file stem.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// String renders the ref as "kind/id".
func (r Ref) String() string {
	return string(r.Kind) + "/" + r.ID
}

// Info is the canonical entity record.
type Info struct {
	Kind      Kind   `json:"kind"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	ModelRoot string `json:"modelRoot,omitempty"`
}

// Ref returns the info's ref.
func (i Info) Ref() Ref {
	return Ref{Kind: i.Kind, ID: i.ID}
}

// Fallback returns the info used when no info record exists for ref.
func Fallback(ref Ref) Info {
	return Info{Kind: ref.Kind, ID: ref.ID, Name: ref.Kind.Formatter()(ref.ID)}
}
