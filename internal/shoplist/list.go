// Package shoplist is the shopping list itself: an ordered slice of items,
// newest first, mirrored into a KV snapshot after every mutation.
package shoplist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/store"
)

// KeyPrefix prefixes the storage key of every list snapshot.
const KeyPrefix = "shoppingList"

// Key returns the storage key for the list owned by profile.
func Key(profile string) string {
	return KeyPrefix + ":" + profile
}

// Stats is the derived summary shown under the list.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// List is not safe for concurrent use. Callers owning a list serialize
// commands against it.
type List struct {
	kv    store.KV
	key   string
	items []model.Item
	newID func() string
	log   *zap.Logger
}

type Option func(*List)

func WithLogger(l *zap.Logger) Option {
	return func(s *List) { s.log = l }
}

// WithIDFunc replaces the uuid generator.
func WithIDFunc(fn func() string) Option {
	return func(s *List) { s.newID = fn }
}

// Load reads the snapshot stored under key. A missing, unreadable or
// malformed snapshot yields an empty list; records without id or text are
// dropped.
func Load(kv store.KV, key string, opts ...Option) *List {
	l := &List{
		kv:    kv,
		key:   key,
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	l.items = l.read()
	return l
}

func (l *List) read() []model.Item {
	b, ok, err := l.kv.Get(l.key)
	if err != nil {
		l.log.Warn("snapshot unreadable, starting empty", zap.String("key", l.key), zap.Error(err))
		return []model.Item{}
	}
	if !ok {
		return []model.Item{}
	}
	var raw []model.Item
	if err := json.Unmarshal(b, &raw); err != nil {
		l.log.Warn("snapshot malformed, starting empty", zap.String("key", l.key), zap.Error(err))
		return []model.Item{}
	}
	items := make([]model.Item, 0, len(raw))
	for _, it := range raw {
		if !it.Valid() {
			l.log.Debug("dropping invalid record", zap.String("key", l.key), zap.String("id", it.ID))
			continue
		}
		items = append(items, it)
	}
	return items
}

func (l *List) save() error {
	b, err := json.Marshal(l.items)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := l.kv.Set(l.key, b); err != nil {
		return fmt.Errorf("save %s: %w", l.key, err)
	}
	return nil
}

// Add prepends a new unchecked item. Blank text is rejected without
// touching storage. The returned error only reports a failed write; the
// in-memory list has been updated regardless.
func (l *List) Add(text string) (model.Item, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, false, nil
	}
	it := model.Item{ID: l.newID(), Text: text}
	l.items = append([]model.Item{it}, l.items...)
	return it, true, l.save()
}

// Toggle flips the completed flag of the item with id. Unknown ids are a
// no-op.
func (l *List) Toggle(id string) (bool, error) {
	i := l.index(id)
	if i < 0 {
		return false, nil
	}
	l.items[i].Completed = !l.items[i].Completed
	return true, l.save()
}

// Remove deletes the item with id, keeping the order of the rest. Unknown
// ids are a no-op.
func (l *List) Remove(id string) (bool, error) {
	i := l.index(id)
	if i < 0 {
		return false, nil
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true, l.save()
}

// Get returns the item with id.
func (l *List) Get(id string) (model.Item, bool) {
	i := l.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return l.items[i], true
}

// At returns the item at a 0-based display position.
func (l *List) At(pos int) (model.Item, bool) {
	if pos < 0 || pos >= len(l.items) {
		return model.Item{}, false
	}
	return l.items[pos], true
}

func (l *List) index(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Items returns a copy in display order.
func (l *List) Items() []model.Item {
	out := make([]model.Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Len() int { return len(l.items) }

func (l *List) Stats() Stats {
	s := Stats{Total: len(l.items)}
	for _, it := range l.items {
		if it.Completed {
			s.Completed++
		}
	}
	return s
}

func (l *List) Key() string { return l.key }
