package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/louisbranch/herowiki/internal/services/models/loader"
	"github.com/louisbranch/herowiki/internal/services/shared/htmx"
)

const ariaModels = `{
  "winter_2023": [
    {"name": "body", "path": "aria/winter/body.glb", "type": "body", "diffuse": "aria/winter/body.png"},
    {"name": "hair", "path": "aria/winter/hair.glb", "type": "hair", "hair": "aria/winter/hair.png"},
    {"name": "blade", "path": "aria/winter/blade.glb", "type": "sword"}
  ],
  "default": [
    {"name": "body", "path": "aria/default/body.glb", "type": "body"}
  ]
}`

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	lake := fstest.MapFS{
		"heroes/aria.json":          {Data: []byte(`{"id":"aria","name":"Aria","modelRoot":"models/heroes/aria"}`)},
		"models/heroes/aria.json":   {Data: []byte(ariaModels)},
		"bosses/ignis.json":         {Data: []byte(`{"boss_id":"ignis","boss_name":"Ignis"}`)},
		"models/bosses/ignis.json":  {Data: []byte(`{"boss_ignis_p1":[],"boss_ignis_p2":[]}`)},
		"models/bosses/broken.json": {Data: []byte(`{"phase1": [`)},
	}
	source := loader.NewLakeSource(lake, loader.Labels{}).WithLogf(func(string, ...any) {})
	return NewHandler(source)
}

func serve(t *testing.T, h http.Handler, target string, htmxRequest bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if htmxRequest {
		req.Header.Set(htmx.RequestHeaderKey, "true")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/healthz", false)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rr.Code, rr.Body.String())
	}
}

func TestListEntities(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/api/bosses", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	got := decode[struct {
		Kind     string   `json:"kind"`
		Entities []string `json:"entities"`
	}](t, rr)
	if got.Kind != "boss" || strings.Join(got.Entities, ",") != "broken,ignis" {
		t.Fatalf("response = %+v", got)
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/api/boss/ignis/variants", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	want := `{"entity":{"kind":"boss","id":"ignis","name":"Ignis"},"options":[{"key":"boss_ignis_p1","displayName":"Ignis Phase 1"},{"key":"boss_ignis_p2","displayName":"Ignis Phase 2"}],"issues":0}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Fatalf("body = %s\nwant %s", got, want)
	}
}

func TestRenderResolvesWithFallback(t *testing.T) {
	t.Parallel()

	h := testHandler(t)
	type part struct {
		Name     string            `json:"name"`
		Path     string            `json:"path"`
		Type     string            `json:"type"`
		Textures map[string]string `json:"textures"`
	}
	type response struct {
		Requested string `json:"requested"`
		Variant   string `json:"variant"`
		Fallback  bool   `json:"fallback"`
		Parts     []part `json:"parts"`
	}

	got := decode[response](t, serve(t, h, "/api/hero/aria/render?variant=winter_2023", false))
	if got.Variant != "winter_2023" || got.Fallback || len(got.Parts) != 3 {
		t.Fatalf("winter = %+v", got)
	}
	if got.Parts[0].Textures["diffuse"] != "aria/winter/body.png" || got.Parts[1].Textures["hair"] != "aria/winter/hair.png" {
		t.Fatalf("textures = %+v", got.Parts)
	}
	if _, ok := got.Parts[1].Textures["diffuse"]; ok {
		t.Fatalf("hair part carries standard fields: %+v", got.Parts[1].Textures)
	}

	got = decode[response](t, serve(t, h, "/api/hero/aria/render?variant=summer_2024", false))
	if got.Requested != "summer_2024" || got.Variant != "winter_2023" || !got.Fallback {
		t.Fatalf("fallback = %+v", got)
	}

	rr := serve(t, h, "/api/boss/ignis/render", false)
	if body := strings.TrimSpace(rr.Body.String()); !strings.Contains(body, `"parts":[]`) {
		t.Fatalf("empty variant body = %s", body)
	}
}

func TestErrorsMapToStatusAndCode(t *testing.T) {
	t.Parallel()

	h := testHandler(t)
	tests := []struct {
		target string
		status int
		code   string
	}{
		{target: "/api/npc", status: http.StatusBadRequest, code: "ENTITY_KIND_INVALID"},
		{target: "/api/hero/Aria/variants", status: http.StatusBadRequest, code: "ENTITY_ID_INVALID"},
		{target: "/api/hero/zed/variants", status: http.StatusNotFound, code: "ENTITY_NOT_FOUND"},
		{target: "/api/boss/broken/render", status: http.StatusUnprocessableEntity, code: "CATALOG_DECODE_FAILED"},
		{target: "/hero/zed/picker", status: http.StatusNotFound, code: "ENTITY_NOT_FOUND"},
	}
	for _, tc := range tests {
		rr := serve(t, h, tc.target, false)
		if rr.Code != tc.status {
			t.Fatalf("%s status = %d, want %d", tc.target, rr.Code, tc.status)
		}
		got := decode[struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}](t, rr)
		if got.Code != tc.code || got.Message == "" {
			t.Fatalf("%s error = %+v, want code %s", tc.target, got, tc.code)
		}
	}
}

func TestNotFoundMessageIsUserFacing(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/api/hero/zed/variants", false)
	if !strings.Contains(rr.Body.String(), "No hero named zed.") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestPickerFullPageAndFragment(t *testing.T) {
	t.Parallel()

	h := testHandler(t)
	page := serve(t, h, "/hero/aria/picker?variant=default", false)
	if page.Code != http.StatusOK {
		t.Fatalf("status = %d", page.Code)
	}
	body := page.Body.String()
	if !strings.Contains(body, "<title>Aria costumes</title>") || !strings.Contains(body, `data-state="closed"`) {
		t.Fatalf("page body:\n%s", body)
	}
	if !strings.Contains(body, ">Default</button>") {
		t.Fatalf("page label:\n%s", body)
	}
	if page.Header().Get(htmx.TriggerHeaderKey) != "" {
		t.Fatal("full page must not trigger client events")
	}

	fragment := serve(t, h, "/hero/aria/picker?variant=default", true)
	if strings.Contains(fragment.Body.String(), "<html") {
		t.Fatalf("htmx response wrapped in page:\n%s", fragment.Body.String())
	}
	if got := fragment.Header().Get(htmx.TriggerHeaderKey); got != `{"variantSelected":{"entity":"hero/aria","key":"default"}}` {
		t.Fatalf("trigger = %q", got)
	}
	if got := fragment.Header().Get(htmx.PushURLHeaderKey); got != "/hero/aria/picker?variant=default" {
		t.Fatalf("push url = %q", got)
	}
	if page.Header().Get(htmx.PushURLHeaderKey) != "" {
		t.Fatal("full page must not push history")
	}
}

func TestPickerOpenHighlightsFallback(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/boss/ignis/picker?variant=gone&open=1", true)
	body := rr.Body.String()
	for _, want := range []string{
		`data-state="open"`,
		`<li role="option" aria-selected="true" data-key="boss_ignis_p1">`,
		`<li role="option" aria-selected="false" data-key="boss_ignis_p2">`,
		`>Ignis Phase 1</button>`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if rr.Header().Get(htmx.TriggerHeaderKey) != "" || rr.Header().Get(htmx.PushURLHeaderKey) != "" {
		t.Fatal("opening the picker must not report a selection")
	}
}

func TestRejectsNonGet(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/hero/aria/variants", nil)
	rr := httptest.NewRecorder()
	testHandler(t).ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestTrailingSlashRedirects(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/api/hero/", false)
	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMovedPermanently)
	}
	if loc := rr.Header().Get("Location"); loc != "/api/hero" {
		t.Fatalf("location = %q, want /api/hero", loc)
	}
}

func TestErrorMessageFollowsLangParam(t *testing.T) {
	t.Parallel()

	rr := serve(t, testHandler(t), "/api/boss/nobody/variants?lang=xx", false)
	body := decode[errorResponse](t, rr)
	if body.Message != "No boss named nobody." {
		t.Fatalf("message = %q", body.Message)
	}
}
