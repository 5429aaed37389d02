package catalog

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// RawPart is one part descriptor as authored in a model file.
//
// Texture fields from both shapes may appear; Build keeps only the ones that
// belong to the part's shape.
type RawPart struct {
	Name     string `json:"name" jsonschema:"title=Part name,description=Unique within its variant,minLength=1"`
	Path     string `json:"path" jsonschema:"title=Model path,description=Asset locator of the model file,minLength=1"`
	Type     string `json:"type" jsonschema:"title=Part type,enum=body,enum=arms,enum=hair,enum=handle,enum=weapon,enum=weapon01,enum=weapon02,enum=weapon_blue,enum=weapon_red,enum=weapon_open,enum=weapon_close,enum=weapon_a,enum=weapon_b,enum=weapon_r,enum=weapon_l,enum=weaponbottle,enum=weaponpen,enum=weaponscissors,enum=weaponskein,enum=shield,enum=sword,enum=lance,enum=gunblade,enum=axe,enum=arrow,enum=quiver"`
	Diffuse  string `json:"diffuse,omitempty" jsonschema:"description=Diffuse texture for non-hair parts"`
	Eye      string `json:"eye,omitempty" jsonschema:"description=Eye texture for non-hair parts"`
	Wing     string `json:"wing,omitempty" jsonschema:"description=Wing texture for non-hair parts"`
	Arm      string `json:"arm,omitempty" jsonschema:"description=Arm texture for non-hair parts"`
	Hair     string `json:"hair,omitempty" jsonschema:"description=Hair texture for hair parts"`
	Ornament string `json:"ornament,omitempty" jsonschema:"description=Ornament texture for hair parts"`
}

// RawFile is the on-disk shape of one entity's model file: variant key to
// ordered part descriptors. It only exists for schema generation; decoding goes
// through DecodeRaw so key order survives.
type RawFile map[string][]RawPart

// RawVariant is one variant entry in source order.
type RawVariant struct {
	Key   string
	Parts []RawPart
	// NotList marks a variant whose value was not a JSON array.
	NotList bool
}

// RawCatalog is the undecorated model data of one entity, in source order.
type RawCatalog struct {
	Variants []RawVariant
}

// DecodeRaw parses a model file while keeping variant keys in document order.
func DecodeRaw(data []byte) (RawCatalog, error) {
	if !gjson.ValidBytes(data) {
		return RawCatalog{}, fmt.Errorf("model data is not valid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return RawCatalog{}, fmt.Errorf("model data must be an object keyed by variant")
	}

	var out RawCatalog
	root.ForEach(func(key, value gjson.Result) bool {
		variant := RawVariant{Key: key.String()}
		if !value.IsArray() {
			variant.NotList = true
			out.Variants = append(out.Variants, variant)
			return true
		}
		value.ForEach(func(_, part gjson.Result) bool {
			variant.Parts = append(variant.Parts, decodeRawPart(part))
			return true
		})
		out.Variants = append(out.Variants, variant)
		return true
	})
	return out, nil
}

func decodeRawPart(value gjson.Result) RawPart {
	if !value.IsObject() {
		return RawPart{}
	}
	return RawPart{
		Name:     value.Get("name").String(),
		Path:     value.Get("path").String(),
		Type:     value.Get("type").String(),
		Diffuse:  value.Get("diffuse").String(),
		Eye:      value.Get("eye").String(),
		Wing:     value.Get("wing").String(),
		Arm:      value.Get("arm").String(),
		Hair:     value.Get("hair").String(),
		Ornament: value.Get("ornament").String(),
	}
}
