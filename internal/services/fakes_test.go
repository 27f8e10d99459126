package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/dailypizza/pizza-orders-api/internal/auth"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

// fakeDocumentStore is an in-memory DocumentStore holding documents as JSON,
// with per-operation error injection.
type fakeDocumentStore struct {
	mu   sync.Mutex
	data map[string]map[string][]byte

	getErr   error
	setErr   error
	mergeErr error
	findErr  error
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{data: make(map[string]map[string][]byte)}
}

func (f *fakeDocumentStore) Get(_ context.Context, collection, id string, out interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.data[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeDocumentStore) Set(_ context.Context, collection, id string, doc interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if f.data[collection] == nil {
		f.data[collection] = make(map[string][]byte)
	}
	f.data[collection][id] = raw
	return nil
}

func (f *fakeDocumentStore) Merge(_ context.Context, collection, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return f.mergeErr
	}

	doc := map[string]interface{}{}
	if raw, ok := f.data[collection][id]; ok {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
	}
	for k, v := range fields {
		// Normalize through JSON so stored values look like real documents.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var norm interface{}
		if err := json.Unmarshal(raw, &norm); err != nil {
			return err
		}
		doc[k] = norm
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if f.data[collection] == nil {
		f.data[collection] = make(map[string][]byte)
	}
	f.data[collection][id] = raw
	return nil
}

func (f *fakeDocumentStore) Find(_ context.Context, collection string, filters []store.Filter, s *store.Sort, out interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return f.findErr
	}

	var matched []map[string]interface{}
	for _, raw := range f.data[collection] {
		doc := map[string]interface{}{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		ok := true
		for _, filter := range filters {
			if !valuesEqual(doc[filter.Field], filter.Value) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, doc)
		}
	}

	if s != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			less := valueLess(matched[i][s.Field], matched[j][s.Field])
			if s.Desc {
				return !less && !valuesEqual(matched[i][s.Field], matched[j][s.Field])
			}
			return less
		})
	}

	raw, err := json.Marshal(matched)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeDocumentStore) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data[collection])
}

func valuesEqual(a, b interface{}) bool {
	ra, _ := json.Marshal(a)
	rb, _ := json.Marshal(b)
	return string(ra) == string(rb)
}

func valueLess(a, b interface{}) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok {
		return fa < fb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// fakeKeyValueStore is an in-memory KeyValueStore with error injection.
type fakeKeyValueStore struct {
	mu   sync.Mutex
	data map[string]string

	getErr error
	setErr error
	delErr error
}

func newFakeKeyValueStore() *fakeKeyValueStore {
	return &fakeKeyValueStore{data: make(map[string]string)}
}

func (f *fakeKeyValueStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.data[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return value, nil
}

func (f *fakeKeyValueStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeKeyValueStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.data, key)
	return nil
}

func (f *fakeKeyValueStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

// fakeIdentityProvider drives identity transitions in tests the way the real
// provider does: synchronous handlers in subscription order.
type fakeIdentityProvider struct {
	current     *auth.Identity
	subscribers []func(*auth.Identity)
}

func (f *fakeIdentityProvider) Current() *auth.Identity {
	if f.current == nil {
		return nil
	}
	id := *f.current
	return &id
}

func (f *fakeIdentityProvider) OnChange(fn func(*auth.Identity)) {
	f.subscribers = append(f.subscribers, fn)
}

func (f *fakeIdentityProvider) signIn(id *auth.Identity) {
	f.current = id
	for _, fn := range f.subscribers {
		fn(id)
	}
}

func (f *fakeIdentityProvider) signOut() {
	f.current = nil
	for _, fn := range f.subscribers {
		fn(nil)
	}
}

var _ store.DocumentStore = (*fakeDocumentStore)(nil)
var _ store.KeyValueStore = (*fakeKeyValueStore)(nil)
var _ IdentityProvider = (*fakeIdentityProvider)(nil)
