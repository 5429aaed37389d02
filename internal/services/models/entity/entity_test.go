package entity

import "testing"

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Kind
		wantErr bool
	}{
		{raw: "hero", want: KindHero},
		{raw: "Heroes", want: KindHero},
		{raw: " boss ", want: KindBoss},
		{raw: "bosses", want: KindBoss},
		{raw: "npc", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseKind(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseKind(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseKind(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestKindHelpers(t *testing.T) {
	t.Parallel()

	if KindHero.Dir() != "heroes" || KindBoss.Dir() != "bosses" {
		t.Fatalf("Dir() = %q/%q", KindHero.Dir(), KindBoss.Dir())
	}
	if got := KindHero.Formatter()("summer_2023"); got != "Summer 2023" {
		t.Fatalf("hero formatter = %q, want %q", got, "Summer 2023")
	}
	if got := KindBoss.Formatter()("boss_ignis_p1"); got != "Ignis Phase 1" {
		t.Fatalf("boss formatter = %q, want %q", got, "Ignis Phase 1")
	}
	if KindHero.Noun() != "costume" || KindBoss.Noun() != "model" {
		t.Fatalf("Noun() = %q/%q", KindHero.Noun(), KindBoss.Noun())
	}
}

func TestNewRef(t *testing.T) {
	t.Parallel()

	ref, err := NewRef("heroes", " aria ")
	if err != nil {
		t.Fatalf("NewRef: %v", err)
	}
	if ref.String() != "hero/aria" {
		t.Fatalf("String() = %q, want %q", ref.String(), "hero/aria")
	}

	for _, id := range []string{"", "../etc", "Aria", "a/b", "_lead"} {
		if _, err := NewRef("hero", id); err == nil {
			t.Fatalf("NewRef(hero, %q) expected error", id)
		}
	}
	if _, err := NewRef("npc", "aria"); err == nil {
		t.Fatal("expected kind error")
	}
}

func TestDecodeHeroInfo(t *testing.T) {
	t.Parallel()

	ref := Ref{Kind: KindHero, ID: "aria"}
	info, err := DecodeHeroInfo(ref, []byte(`{"id":"aria","name":" Aria ","modelRoot":"/models/heroes/aria/"}`))
	if err != nil {
		t.Fatalf("DecodeHeroInfo: %v", err)
	}
	want := Info{Kind: KindHero, ID: "aria", Name: "Aria", ModelRoot: "models/heroes/aria"}
	if info != want {
		t.Fatalf("info = %+v, want %+v", info, want)
	}

	info, err = DecodeHeroInfo(Ref{Kind: KindHero, ID: "sky_knight"}, []byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeHeroInfo: %v", err)
	}
	if info.Name != "Sky Knight" || info.ModelRoot != "" {
		t.Fatalf("fallback info = %+v", info)
	}
}

func TestDecodeBossInfoShapes(t *testing.T) {
	t.Parallel()

	ref := Ref{Kind: KindBoss, ID: "ignis"}
	want := Info{Kind: KindBoss, ID: "ignis", Name: "Ignis", ModelRoot: "models/bosses/ignis"}

	current, err := DecodeBossInfo(ref, []byte(`{"id":"ignis","name":"Ignis","modelRoot":"models/bosses/ignis"}`))
	if err != nil {
		t.Fatalf("current shape: %v", err)
	}
	if current != want {
		t.Fatalf("current = %+v, want %+v", current, want)
	}

	legacy, err := DecodeBossInfo(ref, []byte(`{"boss_id":"ignis","boss_name":"Ignis","model_path":"models/bosses/ignis"}`))
	if err != nil {
		t.Fatalf("legacy shape: %v", err)
	}
	if legacy != want {
		t.Fatalf("legacy = %+v, want %+v", legacy, want)
	}
}

func TestFallbackNamesByKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  Ref
		want string
	}{
		{ref: Ref{Kind: KindHero, ID: "sky_knight"}, want: "Sky Knight"},
		{ref: Ref{Kind: KindBoss, ID: "boss_ignis"}, want: "Ignis"},
		{ref: Ref{Kind: KindBoss, ID: "boss_ignis_p2"}, want: "Ignis Phase 2"},
	}
	for _, tt := range tests {
		if got := Fallback(tt.ref); got.Name != tt.want || got.Ref() != tt.ref {
			t.Fatalf("Fallback(%v) = %+v, want name %q", tt.ref, got, tt.want)
		}
	}

	info, err := DecodeBossInfo(Ref{Kind: KindBoss, ID: "boss_ignis"}, []byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeBossInfo: %v", err)
	}
	if info.Name != "Ignis" {
		t.Fatalf("boss fallback name = %q, want Ignis", info.Name)
	}
}

func TestDecodeInfoRejectsMalformed(t *testing.T) {
	t.Parallel()

	ref := Ref{Kind: KindBoss, ID: "ignis"}
	for _, data := range []string{`{`, `[]`, `"ignis"`} {
		if _, err := DecodeInfo(ref, []byte(data)); err == nil {
			t.Fatalf("DecodeInfo(%s) expected error", data)
		}
	}
}

func TestRecordID(t *testing.T) {
	t.Parallel()

	if got := RecordID([]byte(`{"id":" aria "}`)); got != "aria" {
		t.Fatalf("RecordID = %q, want aria", got)
	}
	if got := RecordID([]byte(`{"boss_id":"ignis"}`)); got != "ignis" {
		t.Fatalf("RecordID = %q, want ignis", got)
	}
	if got := RecordID([]byte(`{}`)); got != "" {
		t.Fatalf("RecordID = %q, want empty", got)
	}
}
