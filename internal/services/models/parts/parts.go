// Package parts defines the closed taxonomy of model-part kinds and the
// texture sets each kind binds to.
package parts

import "strings"

// Type identifies the role a model file plays inside a variant.
type Type string

const (
	TypeBody           Type = "body"
	TypeArms           Type = "arms"
	TypeHair           Type = "hair"
	TypeHandle         Type = "handle"
	TypeWeapon         Type = "weapon"
	TypeWeapon01       Type = "weapon01"
	TypeWeapon02       Type = "weapon02"
	TypeWeaponBlue     Type = "weapon_blue"
	TypeWeaponRed      Type = "weapon_red"
	TypeWeaponOpen     Type = "weapon_open"
	TypeWeaponClose    Type = "weapon_close"
	TypeWeaponA        Type = "weapon_a"
	TypeWeaponB        Type = "weapon_b"
	TypeWeaponR        Type = "weapon_r"
	TypeWeaponL        Type = "weapon_l"
	TypeWeaponBottle   Type = "weaponbottle"
	TypeWeaponPen      Type = "weaponpen"
	TypeWeaponScissors Type = "weaponscissors"
	TypeWeaponSkein    Type = "weaponskein"
	TypeShield         Type = "shield"
	TypeSword          Type = "sword"
	TypeLance          Type = "lance"
	TypeGunblade       Type = "gunblade"
	TypeAxe            Type = "axe"
	TypeArrow          Type = "arrow"
	TypeQuiver         Type = "quiver"
)

// allTypes lists every recognized part type in declaration order.
var allTypes = []Type{
	TypeBody,
	TypeArms,
	TypeHair,
	TypeHandle,
	TypeWeapon,
	TypeWeapon01,
	TypeWeapon02,
	TypeWeaponBlue,
	TypeWeaponRed,
	TypeWeaponOpen,
	TypeWeaponClose,
	TypeWeaponA,
	TypeWeaponB,
	TypeWeaponR,
	TypeWeaponL,
	TypeWeaponBottle,
	TypeWeaponPen,
	TypeWeaponScissors,
	TypeWeaponSkein,
	TypeShield,
	TypeSword,
	TypeLance,
	TypeGunblade,
	TypeAxe,
	TypeArrow,
	TypeQuiver,
}

var typeIndex = func() map[Type]struct{} {
	index := make(map[Type]struct{}, len(allTypes))
	for _, t := range allTypes {
		index[t] = struct{}{}
	}
	return index
}()

// Types returns every recognized part type in declaration order.
func Types() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// ParseType returns the part type for a raw tag.
//
// Tags are matched exactly after trimming surrounding whitespace; source data
// is lower-case and a differently cased tag is treated as unknown.
func ParseType(raw string) (Type, bool) {
	candidate := Type(strings.TrimSpace(raw))
	if _, ok := typeIndex[candidate]; !ok {
		return "", false
	}
	return candidate, true
}

// Valid reports whether t belongs to the taxonomy.
func (t Type) Valid() bool {
	_, ok := typeIndex[t]
	return ok
}

// String returns the raw tag.
func (t Type) String() string {
	return string(t)
}

// IsWeapon reports whether t is held or carried equipment rather than part
// of the character mesh.
func (t Type) IsWeapon() bool {
	switch t {
	case TypeBody, TypeArms, TypeHair:
		return false
	}
	return t.Valid()
}
