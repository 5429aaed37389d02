package catalog

import (
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/louisbranch/herowiki/internal/services/models/naming"
	"github.com/louisbranch/herowiki/internal/services/models/parts"
)

// IssueKind classifies a data problem found while building a catalog.
type IssueKind string

const (
	IssueUnknownPartType     IssueKind = "unknown_part_type"
	IssueMissingPartName     IssueKind = "missing_part_name"
	IssueMissingPartPath     IssueKind = "missing_part_path"
	IssueDuplicatePartName   IssueKind = "duplicate_part_name"
	IssueDuplicateVariant    IssueKind = "duplicate_variant"
	IssueInvalidVariant      IssueKind = "invalid_variant"
	IssueForeignTextureField IssueKind = "foreign_texture_field"
)

// Issue describes one excluded or trimmed descriptor. Issues never abort a
// build.
type Issue struct {
	Entity  string
	Variant string
	// Index is the part position in the source variant, or -1 for
	// variant-level issues.
	Index  int
	Part   string
	Kind   IssueKind
	Detail string
}

// String renders the issue for logs and reports.
func (i Issue) String() string {
	var b strings.Builder
	if i.Entity != "" {
		b.WriteString(i.Entity)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "variant %q", i.Variant)
	if i.Index >= 0 {
		fmt.Fprintf(&b, " part #%d", i.Index)
		if i.Part != "" {
			fmt.Fprintf(&b, " (%s)", i.Part)
		}
	}
	fmt.Fprintf(&b, ": %s", i.Kind)
	if i.Detail != "" {
		b.WriteString(": ")
		b.WriteString(i.Detail)
	}
	return b.String()
}

// Excludes reports whether the issue removed a part or variant from the
// catalog.
func (i Issue) Excludes() bool {
	return i.Kind != IssueForeignTextureField
}

// BuildOptions tunes catalog construction.
type BuildOptions struct {
	// Entity labels issues and log lines, for example "hero/aria".
	Entity string
	// AssetRoot is joined with each variant key to form the variant path.
	AssetRoot string
	// Format derives display names from keys. Defaults to naming.Normalize.
	Format naming.Formatter
	// Labels overrides display names by variant key.
	Labels map[string]string
	// Logf receives one line per issue. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// Build constructs a catalog from raw model data.
//
// Variant and part order follow the source. Parts with unknown types or
// missing identity fields are dropped and reported; their siblings and the
// variant itself are kept, even when every part of a variant was dropped.
func Build(raw RawCatalog, opts BuildOptions) (*Catalog, []Issue) {
	format := opts.Format
	if format == nil {
		format = naming.Normalize
	}
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}
	assetRoot := strings.TrimSpace(opts.AssetRoot)

	var issues []Issue
	report := func(issue Issue) {
		issue.Entity = opts.Entity
		issues = append(issues, issue)
		logf("build catalog: %s", issue)
	}

	c := &Catalog{variants: make(map[string]Variant, len(raw.Variants))}
	for _, rawVariant := range raw.Variants {
		key := rawVariant.Key
		if strings.TrimSpace(key) == "" {
			report(Issue{Variant: key, Index: -1, Kind: IssueInvalidVariant, Detail: "blank variant key"})
			continue
		}
		if _, exists := c.variants[key]; exists {
			report(Issue{Variant: key, Index: -1, Kind: IssueDuplicateVariant})
			continue
		}
		if rawVariant.NotList {
			report(Issue{Variant: key, Index: -1, Kind: IssueInvalidVariant, Detail: "parts must be a list"})
			continue
		}

		variant := Variant{
			Name:        key,
			DisplayName: format(key),
			Parts:       make([]ModelWithTextures, 0, len(rawVariant.Parts)),
		}
		if label := strings.TrimSpace(opts.Labels[key]); label != "" {
			variant.DisplayName = label
			variant.Labeled = true
		}
		if assetRoot != "" {
			variant.Path = path.Join(assetRoot, key)
		}

		names := make(map[string]struct{}, len(rawVariant.Parts))
		for index, rawPart := range rawVariant.Parts {
			part, partIssues, ok := buildPart(rawPart)
			for _, issue := range partIssues {
				issue.Variant = key
				issue.Index = index
				issue.Part = strings.TrimSpace(rawPart.Name)
				report(issue)
			}
			if !ok {
				continue
			}
			if _, dup := names[part.Name]; dup {
				report(Issue{Variant: key, Index: index, Part: part.Name, Kind: IssueDuplicatePartName})
				continue
			}
			names[part.Name] = struct{}{}
			variant.Parts = append(variant.Parts, part)
		}

		c.keys = append(c.keys, key)
		c.variants[key] = variant
	}
	return c, issues
}

func buildPart(raw RawPart) (ModelWithTextures, []Issue, bool) {
	name := strings.TrimSpace(raw.Name)
	modelPath := strings.TrimSpace(raw.Path)

	partType, ok := parts.ParseType(raw.Type)
	if !ok {
		return ModelWithTextures{}, []Issue{{Kind: IssueUnknownPartType, Detail: fmt.Sprintf("%q", raw.Type)}}, false
	}
	if name == "" {
		return ModelWithTextures{}, []Issue{{Kind: IssueMissingPartName}}, false
	}
	if modelPath == "" {
		return ModelWithTextures{}, []Issue{{Kind: IssueMissingPartPath}}, false
	}

	var issues []Issue
	var textures parts.TextureSet
	switch parts.ClassifyTextureShape(partType) {
	case parts.ShapeHair:
		textures = parts.Hair(parts.HairTextures{Hair: raw.Hair, Ornament: raw.Ornament})
		if foreign := presentFields(map[string]string{"diffuse": raw.Diffuse, "eye": raw.Eye, "wing": raw.Wing, "arm": raw.Arm}); foreign != "" {
			issues = append(issues, Issue{Kind: IssueForeignTextureField, Detail: "ignored " + foreign})
		}
	default:
		textures = parts.Standard(parts.StandardTextures{Diffuse: raw.Diffuse, Eye: raw.Eye, Wing: raw.Wing, Arm: raw.Arm})
		if foreign := presentFields(map[string]string{"hair": raw.Hair, "ornament": raw.Ornament}); foreign != "" {
			issues = append(issues, Issue{Kind: IssueForeignTextureField, Detail: "ignored " + foreign})
		}
	}

	return ModelWithTextures{
		ModelFile: ModelFile{Name: name, Path: modelPath, Type: partType},
		Textures:  textures,
	}, issues, true
}

// presentFields lists the non-blank field names in a stable order.
func presentFields(fields map[string]string) string {
	order := []string{"diffuse", "eye", "wing", "arm", "hair", "ornament"}
	var present []string
	for _, name := range order {
		if value, ok := fields[name]; ok && strings.TrimSpace(value) != "" {
			present = append(present, name)
		}
	}
	return strings.Join(present, ", ")
}
