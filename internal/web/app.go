package web

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/store"
)

// App owns the command handlers. Each command loads the profile's list,
// applies itself, and leaves the snapshot persisted before returning.
type App struct {
	kv         store.KV
	cookieName string
	log        *zap.Logger
	locks      *keyedMutex
}

func NewApp(kv store.KV, cookieName string, logger *zap.Logger) *App {
	return &App{
		kv:         kv,
		cookieName: cookieName,
		log:        logger,
		locks:      newKeyedMutex(),
	}
}

// with runs fn against the profile's list while holding that profile's lock.
func (a *App) with(profile string, fn func(l *shoplist.List)) {
	key := shoplist.Key(profile)
	unlock := a.locks.Lock(key)
	defer unlock()
	fn(shoplist.Load(a.kv, key, shoplist.WithLogger(a.log)))
}

// View returns the profile's items and summary.
func (a *App) View(profile string) (items []model.Item, stats shoplist.Stats) {
	a.with(profile, func(l *shoplist.List) {
		items, stats = l.Items(), l.Stats()
	})
	return items, stats
}

func (a *App) OnAdd(profile, text string) (item model.Item, added bool) {
	a.with(profile, func(l *shoplist.List) {
		var err error
		item, added, err = l.Add(text)
		a.logPersist(l, "add", err)
	})
	return item, added
}

func (a *App) OnToggle(profile, id string) (found bool) {
	a.with(profile, func(l *shoplist.List) {
		var err error
		found, err = l.Toggle(id)
		a.logPersist(l, "toggle", err)
	})
	return found
}

func (a *App) OnRemove(profile, id string) (found bool) {
	a.with(profile, func(l *shoplist.List) {
		var err error
		found, err = l.Remove(id)
		a.logPersist(l, "remove", err)
	})
	return found
}

func (a *App) logPersist(l *shoplist.List, op string, err error) {
	if err != nil {
		a.log.Error("persist failed", zap.String("op", op), zap.String("key", l.Key()), zap.Error(err))
	}
}

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
