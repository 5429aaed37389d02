package parts

import (
	"encoding/json"
	"strings"
)

// Shape identifies which texture fields a part can bind.
type Shape int

const (
	// ShapeStandard binds diffuse, eye, wing, and arm textures.
	ShapeStandard Shape = iota
	// ShapeHair binds hair and ornament textures.
	ShapeHair
)

// String returns a stable label for the shape.
func (s Shape) String() string {
	if s == ShapeHair {
		return "hair"
	}
	return "standard"
}

// ClassifyTextureShape returns the texture shape used by parts of type t.
// Only hair parts use the hair shape.
func ClassifyTextureShape(t Type) Shape {
	if t == TypeHair {
		return ShapeHair
	}
	return ShapeStandard
}

// StandardTextures are the optional texture paths of a non-hair part.
type StandardTextures struct {
	Diffuse string `json:"diffuse,omitempty"`
	Eye     string `json:"eye,omitempty"`
	Wing    string `json:"wing,omitempty"`
	Arm     string `json:"arm,omitempty"`
}

// HairTextures are the optional texture paths of a hair part.
type HairTextures struct {
	Hair     string `json:"hair,omitempty"`
	Ornament string `json:"ornament,omitempty"`
}

// TextureSet holds exactly one texture shape.
//
// The zero value is an empty standard set.
type TextureSet struct {
	shape    Shape
	standard StandardTextures
	hair     HairTextures
}

// Standard returns a standard-shaped texture set.
func Standard(textures StandardTextures) TextureSet {
	return TextureSet{
		shape: ShapeStandard,
		standard: StandardTextures{
			Diffuse: strings.TrimSpace(textures.Diffuse),
			Eye:     strings.TrimSpace(textures.Eye),
			Wing:    strings.TrimSpace(textures.Wing),
			Arm:     strings.TrimSpace(textures.Arm),
		},
	}
}

// Hair returns a hair-shaped texture set.
func Hair(textures HairTextures) TextureSet {
	return TextureSet{
		shape: ShapeHair,
		hair: HairTextures{
			Hair:     strings.TrimSpace(textures.Hair),
			Ornament: strings.TrimSpace(textures.Ornament),
		},
	}
}

// Shape returns the active shape.
func (s TextureSet) Shape() Shape {
	return s.shape
}

// Standard returns the standard textures when the set is standard-shaped.
func (s TextureSet) Standard() (StandardTextures, bool) {
	if s.shape != ShapeStandard {
		return StandardTextures{}, false
	}
	return s.standard, true
}

// Hair returns the hair textures when the set is hair-shaped.
func (s TextureSet) Hair() (HairTextures, bool) {
	if s.shape != ShapeHair {
		return HairTextures{}, false
	}
	return s.hair, true
}

// IsEmpty reports whether no texture path is bound.
func (s TextureSet) IsEmpty() bool {
	if s.shape == ShapeHair {
		return s.hair == HairTextures{}
	}
	return s.standard == StandardTextures{}
}

// MarshalJSON writes only the fields of the active shape.
func (s TextureSet) MarshalJSON() ([]byte, error) {
	if s.shape == ShapeHair {
		return json.Marshal(s.hair)
	}
	return json.Marshal(s.standard)
}
