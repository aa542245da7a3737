//go:build e2e

package e2e

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/web"
)

const pageTimeout = 30 * time.Second

// harness is one browser profile looking at one freshly started server.
type harness struct {
	t    *testing.T
	page *rod.Page
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := web.NewServer(web.DefaultConfig(), store.NewMemory(), zaptest.NewLogger(t))
	addr, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("server shutdown error: %v", err)
		}
	})

	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	profile, err := browser.Incognito()
	require.NoError(t, err)
	t.Cleanup(func() { _ = profile.Close() })

	page, err := profile.Page(proto.TargetCreateTarget{URL: "http://localhost:" + port + "/"})
	require.NoError(t, err)
	page = page.Timeout(pageTimeout)
	require.NoError(t, page.WaitLoad())

	return &harness{t: t, page: page}
}

// navigate runs action and waits for the page it triggers to load.
func (h *harness) navigate(action func()) {
	h.t.Helper()
	wait := h.page.MustWaitNavigation()
	action()
	wait()
	h.page.MustWaitLoad()
}

func (h *harness) input() *rod.Element     { return h.page.MustElement("#itemInput") }
func (h *harness) addButton() *rod.Element { return h.page.MustElementR("button", "^추가$") }

func (h *harness) addByClick(text string) {
	h.t.Helper()
	if text != "" {
		h.input().MustInput(text)
	}
	h.navigate(func() { h.addButton().MustClick() })
}

func (h *harness) addByEnter(text string) {
	h.t.Helper()
	el := h.input()
	el.MustInput(text)
	h.navigate(func() { el.MustType(input.Enter) })
}

func (h *harness) clickNth(selector string, n int) {
	h.t.Helper()
	els := h.page.MustElements(selector)
	require.Greater(h.t, len(els), n, "no %s at %d", selector, n)
	h.navigate(func() { els[n].MustClick() })
}

func (h *harness) reload() {
	h.t.Helper()
	h.navigate(func() { h.page.MustReload() })
}

func (h *harness) texts() []string {
	els := h.page.MustElements(".item-text")
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.MustText()
	}
	return out
}

func (h *harness) count(selector string) int {
	return len(h.page.MustElements(selector))
}

func (h *harness) text(selector string) string {
	return h.page.MustElement(selector).MustText()
}

func (h *harness) firstRowChecked() bool {
	class := h.page.MustElement(".list-item").MustAttribute("class")
	if class == nil {
		return false
	}
	for _, c := range strings.Fields(*class) {
		if c == "checked" {
			return true
		}
	}
	return false
}
