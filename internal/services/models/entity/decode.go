package entity

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Boss records come in two shapes:
//
//	current: {"id": "ignis", "name": "Ignis", "modelRoot": "models/bosses/ignis"}
//	legacy:  {"boss_id": "ignis", "boss_name": "Ignis", "model_path": "models/bosses/ignis"}
//
// Both are mapped onto Info here so nothing past the loader sees the legacy
// field names.
var (
	currentBossFields = infoFields{id: "id", name: "name", modelRoot: "modelRoot"}
	legacyBossFields  = infoFields{id: "boss_id", name: "boss_name", modelRoot: "model_path"}
	heroFields        = infoFields{id: "id", name: "name", modelRoot: "modelRoot"}
)

type infoFields struct {
	id        string
	name      string
	modelRoot string
}

// DecodeInfo parses an info record for ref.
func DecodeInfo(ref Ref, data []byte) (Info, error) {
	if ref.Kind == KindBoss {
		return DecodeBossInfo(ref, data)
	}
	return DecodeHeroInfo(ref, data)
}

// DecodeHeroInfo parses a hero info record.
func DecodeHeroInfo(ref Ref, data []byte) (Info, error) {
	root, err := parseObject(data)
	if err != nil {
		return Info{}, fmt.Errorf("decode hero %s: %w", ref.ID, err)
	}
	return readInfo(ref, root, heroFields), nil
}

// DecodeBossInfo parses a boss info record in either shape.
func DecodeBossInfo(ref Ref, data []byte) (Info, error) {
	root, err := parseObject(data)
	if err != nil {
		return Info{}, fmt.Errorf("decode boss %s: %w", ref.ID, err)
	}
	fields := currentBossFields
	if isLegacyBoss(root) {
		fields = legacyBossFields
	}
	return readInfo(ref, root, fields), nil
}

func isLegacyBoss(root gjson.Result) bool {
	for _, field := range []string{legacyBossFields.id, legacyBossFields.name, legacyBossFields.modelRoot} {
		if root.Get(field).Exists() {
			return true
		}
	}
	return false
}

func parseObject(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("info is not valid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("info must be an object")
	}
	return root, nil
}

// readInfo keeps ref's id as the identity. See RecordID for the id stored in
// the record itself.
func readInfo(ref Ref, root gjson.Result, fields infoFields) Info {
	info := Fallback(ref)
	if name := strings.TrimSpace(root.Get(fields.name).String()); name != "" {
		info.Name = name
	}
	info.ModelRoot = strings.Trim(strings.TrimSpace(root.Get(fields.modelRoot).String()), "/")
	return info
}

// RecordID returns the id stored inside an info record in either shape, or
// an empty string when absent.
func RecordID(data []byte) string {
	root := gjson.ParseBytes(data)
	if id := root.Get(currentBossFields.id); id.Exists() {
		return strings.TrimSpace(id.String())
	}
	return strings.TrimSpace(root.Get(legacyBossFields.id).String())
}
