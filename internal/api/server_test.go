package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/drafter"
	"github.com/pbaille/clozer/internal/pipeline"
	"github.com/pbaille/clozer/internal/store"
)

type fakeProvider struct{ reply string }

func (f fakeProvider) Complete(context.Context, string) (string, error) { return f.reply, nil }
func (f fakeProvider) Close() error                                    { return nil }

func newTestServer(t *testing.T, d *drafter.Drafter) http.Handler {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(pipeline.New(st, nil, d, nil), nil, "").Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestValidateEndpoint(t *testing.T) {
	h := newTestServer(t, nil)
	body := `{
		"lang": "en",
		"text": "I went to Tokyo. She loves it there.",
		"keys": {
			"pass1": [],
			"pass2": [{"pron": [17, 20], "antecedents": [[10, 15], [0, 1]]}],
			"pass3": [{"s": [17, 20], "v": [21, 26], "o": [27, 29]}]
		},
		"cloze_short": [{"start": 10, "end": 15, "answer": "Tokyo"}, {"start": 12, "end": 16, "answer": "yo. "}],
		"cloze_long": []
	}`
	rec := do(t, h, http.MethodPost, "/validate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var res domain.Result
	decode(t, rec, &res)
	if len(res.Keys.Pass2) != 0 {
		t.Errorf("pass2 = %+v, want cross-sentence entry dropped", res.Keys.Pass2)
	}
	if len(res.Keys.Pass3) != 1 || len(res.ClozeShort) != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.Report.Sentences != 2 || res.Report.Len != 36 {
		t.Errorf("report = %+v", res.Report)
	}
}

func TestValidateEndpointErrors(t *testing.T) {
	h := newTestServer(t, nil)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing keys", `{"lang":"en","text":"Hi."}`, http.StatusBadRequest},
		{"missing text", `{"lang":"en","keys":{}}`, http.StatusBadRequest},
		{"missing lang", `{"text":"Hi.","keys":{}}`, http.StatusBadRequest},
		{"unsupported lang", `{"lang":"fr","text":"Salut.","keys":{}}`, http.StatusUnprocessableEntity},
		{"region tag", `{"lang":"ja-JP","text":"こんにちは。","keys":{}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/validate", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDraftLifecycle(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/drafts/manual",
		`{"lang":"zh","title":"北京","text":"小明昨天去了北京，他很喜欢那里。因此我们明天见面。"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Draft
	decode(t, rec, &created)
	if created.ID == "" || created.Source != domain.SourceManual || created.Report.Sentences != 2 {
		t.Fatalf("created = %+v", created)
	}

	rec = do(t, h, http.MethodGet, "/drafts/"+created.ID[:8], "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"validator_report"`) {
		t.Errorf("draft body lacks validator_report: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/drafts/"+created.ID+"/revalidate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("revalidate = %d: %s", rec.Code, rec.Body.String())
	}
	var revalidated domain.Draft
	decode(t, rec, &revalidated)
	if revalidated.Report != created.Report {
		t.Errorf("revalidating a clean draft changed it: %+v vs %+v", revalidated.Report, created.Report)
	}

	rec = do(t, h, http.MethodGet, "/drafts?limit=5", "")
	var list struct {
		Drafts []domain.Draft `json:"drafts"`
		Limit  int            `json:"limit"`
	}
	decode(t, rec, &list)
	if len(list.Drafts) != 1 || list.Limit != 5 {
		t.Errorf("list = %+v", list)
	}

	if rec := do(t, h, http.MethodGet, "/drafts/ffffffff", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing draft status = %d", rec.Code)
	}
}

func TestEmptyList(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/drafts", "")
	if !strings.Contains(rec.Body.String(), `"drafts":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAIDraftEndpoint(t *testing.T) {
	reply := `{"title":"t","text":"I went to Tokyo.","keys":{"pass1":[],"pass2":[],"pass3":[]},
		"cloze_short":[{"start":10,"end":15,"answer":"Tokyo"}],"cloze_long":[]}`
	h := newTestServer(t, drafter.New(fakeProvider{reply: reply}))

	rec := do(t, h, http.MethodPost, "/drafts/ai", `{"lang":"en","level":1,"topic":"travel"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var d domain.Draft
	decode(t, rec, &d)
	if d.Source != domain.SourceAI || len(d.ClozeShort) != 1 {
		t.Errorf("draft = %+v", d)
	}

	if rec := do(t, h, http.MethodPost, "/drafts/ai", `{"lang":"en","level":9,"topic":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad level status = %d", rec.Code)
	}
}

func TestAIDraftWithoutModel(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/drafts/ai", `{"lang":"en","level":1,"topic":"x"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/generate", `{"lang":"en","text":"However, we left yesterday."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var c domain.Candidates
	decode(t, rec, &c)
	if len(c.Keys.Pass1) != 2 {
		t.Errorf("pass1 = %+v", c.Keys.Pass1)
	}
}
