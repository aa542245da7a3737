//go:build e2e

// Package e2e drives the served shopping list page in a real Chrome.
//
// These tests are isolated from the standard test suite via build tags.
// They need a Chrome browser (downloaded by Rod when none is found).
//
// Running E2E tests:
//
//	go test -tags=e2e ./e2e/...
//
// Set SHOPLIST_E2E_HEADFUL=1 to watch the browser.
//
// One browser is shared by the whole package. Every test gets its own
// server over an in-memory store and its own incognito context, so each
// starts from an empty list with no profile cookie.
package e2e
