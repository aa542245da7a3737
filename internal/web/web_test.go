package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/store"
)

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestServer(t *testing.T, kv store.KV) *httptest.Server {
	t.Helper()
	srv := NewServer(DefaultConfig(), kv, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newBrowser(t *testing.T, ts *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (b *browser) page() string {
	b.t.Helper()
	resp, err := b.client.Get(b.base + "/")
	require.NoError(b.t, err)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return string(body)
}

func (b *browser) submit(path string, form url.Values) string {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	// the 303 has been followed back to the list
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	require.Equal(b.t, "/", resp.Request.URL.Path)
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return string(body)
}

func (b *browser) add(text string) string {
	return b.submit("/items", url.Values{"text": {text}})
}

func (b *browser) list() listResponse {
	b.t.Helper()
	resp, err := b.client.Get(b.base + "/api/items")
	require.NoError(b.t, err)
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	var out listResponse
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (b *browser) do(method, path, body string) *http.Response {
	b.t.Helper()
	req, err := http.NewRequest(method, b.base+path, strings.NewReader(body))
	require.NoError(b.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func itemTexts(l listResponse) []string {
	out := make([]string, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Text
	}
	return out
}

func TestServerStartStop(t *testing.T) {
	srv := NewServer(DefaultConfig(), store.NewMemory(), nil)

	addr, err := srv.Start()
	require.NoError(t, err)
	require.NotEqual(t, ":0", addr)
	assert.Equal(t, addr, srv.Addr())

	again, err := srv.Start()
	require.NoError(t, err)
	assert.Equal(t, addr, again)

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx))

	_, err = http.Get("http://" + addr + "/healthz")
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":0", cfg.Addr)
	assert.Equal(t, DefaultCookieName, cfg.CookieName)
}

func TestPageIssuesProfileCookie(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()

	var found *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCookieName {
			found = c
		}
	}
	require.NotNil(t, found)
	assert.Len(t, found.Value, 36)
	assert.True(t, found.HttpOnly)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestInvalidProfileCookieReplaced(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "../../etc"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotEmpty(t, resp.Cookies())
	assert.NotEqual(t, "../../etc", resp.Cookies()[0].Value)
}

func TestAddViaForm(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))

	assert.Contains(t, b.page(), "리스트가 비어있습니다")

	html := b.add("우유")
	assert.Contains(t, html, `<span class="item-text">우유</span>`)
	assert.Contains(t, html, "1개 중 0개 완료")
	assert.NotContains(t, html, `class="empty-state"`)
	assert.Contains(t, html, `<input id="itemInput" name="text" type="text"`)
	assert.NotContains(t, html, `value="우유"`)
}

func TestAddOrderNewestFirst(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))
	for _, s := range []string{"사과", "바나나", "오렌지"} {
		b.add(s)
	}
	l := b.list()
	assert.Equal(t, []string{"오렌지", "바나나", "사과"}, itemTexts(l))
	assert.Equal(t, "3개 중 0개 완료", l.Summary)
}

func TestEmptyAddRejected(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))
	html := b.add("   ")
	assert.Contains(t, html, "리스트가 비어있습니다")
	assert.Empty(t, b.list().Items)
}

func TestToggleViaForm(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))
	b.add("계란")
	id := b.list().Items[0].ID

	html := b.submit("/items/"+id+"/toggle", nil)
	assert.Contains(t, html, `class="list-item checked"`)
	assert.Contains(t, html, "1개 중 1개 완료")

	html = b.submit("/items/"+id+"/toggle", nil)
	assert.NotContains(t, html, `class="list-item checked"`)
	assert.Contains(t, html, "1개 중 0개 완료")
}

func TestRemoveViaForm(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))
	for _, s := range []string{"첫번째", "두번째", "세번째"} {
		b.add(s)
	}
	id := b.list().Items[1].ID

	b.submit("/items/"+id+"/delete", nil)
	assert.Equal(t, []string{"세번째", "첫번째"}, itemTexts(b.list()))

	for _, it := range b.list().Items {
		b.submit("/items/"+it.ID+"/delete", nil)
	}
	assert.Contains(t, b.page(), "리스트가 비어있습니다")
}

func TestUnknownIDFormCommandsAreNoops(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))
	b.add("치즈")
	b.submit("/items/nope/toggle", nil)
	b.submit("/items/nope/delete", nil)

	l := b.list()
	require.Len(t, l.Items, 1)
	assert.False(t, l.Items[0].Completed)
}

func TestMarkupRenderedAsText(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))
	payload := `<script>alert("xss")</script>`
	html := b.add(payload)
	assert.NotContains(t, html, payload)
	assert.Equal(t, payload, b.list().Items[0].Text)
}

func TestProfilesAreIsolated(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())
	alice, bob := newBrowser(t, ts), newBrowser(t, ts)

	alice.add("빵")
	assert.Len(t, alice.list().Items, 1)
	assert.Empty(t, bob.list().Items)
}

func TestListSurvivesServerRestart(t *testing.T) {
	kv := store.NewMemory()
	ts := newTestServer(t, kv)
	b := newBrowser(t, ts)
	b.add("저장 테스트")
	id := b.list().Items[0].ID
	b.submit("/items/"+id+"/toggle", nil)
	ts.Close()

	// same profile cookie, new process over the same storage
	ts2 := newTestServer(t, kv)
	u, _ := url.Parse(ts.URL)
	u2, _ := url.Parse(ts2.URL)
	b.client.Jar.SetCookies(u2, b.client.Jar.Cookies(u))
	b.base = ts2.URL

	l := b.list()
	require.Len(t, l.Items, 1)
	assert.Equal(t, "저장 테스트", l.Items[0].Text)
	assert.True(t, l.Items[0].Completed)
}

func TestAPI(t *testing.T) {
	b := newBrowser(t, newTestServer(t, store.NewMemory()))

	resp := b.do(http.MethodPost, "/api/items", `{"text":"요거트"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "요거트", created.Text)
	assert.NotEmpty(t, created.ID)

	assert.Equal(t, http.StatusUnprocessableEntity, b.do(http.MethodPost, "/api/items", `{"text":" "}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/api/items", `{`).StatusCode)

	assert.Equal(t, http.StatusNoContent, b.do(http.MethodPost, "/api/items/"+created.ID+"/toggle", "").StatusCode)
	assert.Equal(t, "1개 중 1개 완료", b.list().Summary)
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodPost, "/api/items/missing/toggle", "").StatusCode)

	assert.Equal(t, http.StatusNoContent, b.do(http.MethodDelete, "/api/items/"+created.ID, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodDelete, "/api/items/"+created.ID, "").StatusCode)
	assert.Empty(t, b.list().Items)
}

func TestAPIPreflight(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/items", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())
	resp, err := http.Get(ts.URL + "/items")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConcurrentCommandsOnOneProfile(t *testing.T) {
	kv := store.NewMemory()
	app := NewApp(kv, DefaultCookieName, zaptest.NewLogger(t))
	const profile = "4b0e6d3c-1f0a-4c55-9a6f-3a2b1c0d9e8f"

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app.OnAdd(profile, fmt.Sprintf("item %d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, shoplist.Load(kv, shoplist.Key(profile)).Len())
	assert.Zero(t, app.locks.size())
}
