// Package memory is an in-process gateway used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
)

// Operations that can be failed on purpose with FailNext.
const (
	OpList   = "list"
	OpGet    = "get"
	OpAdd    = "add"
	OpSet    = "set"
	OpUpdate = "update"
	OpDelete = "delete"
)

type entry struct {
	data map[string]interface{}
	seq  int64
}

// Documents keeps collections in memory. Writes store shallow copies of the
// caller's maps.
type Documents struct {
	mu          sync.RWMutex
	collections map[string]map[string]*entry
	seq         int64
	failures    map[string]error
	writes      []Write
}

// Write records a successful mutation, in order.
type Write struct {
	Op         string
	Collection string
	ID         string
}

func NewDocuments() *Documents {
	return &Documents{
		collections: make(map[string]map[string]*entry),
		failures:    make(map[string]error),
	}
}

// FailNext makes the next op on collection return err.
func (d *Documents) FailNext(op, collection string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op+"/"+collection] = err
}

// Writes returns the mutations applied so far.
func (d *Documents) Writes() []Write {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Write, len(d.writes))
	copy(out, d.writes)
	return out
}

// Count returns the number of documents in collection.
func (d *Documents) Count(collection string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.collections[collection])
}

func (d *Documents) takeFailure(op, collection string) error {
	key := op + "/" + collection
	if err, ok := d.failures[key]; ok {
		delete(d.failures, key)
		return err
	}
	return nil
}

func (d *Documents) List(ctx context.Context, collection string, q gateway.Query) ([]gateway.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(OpList, collection); err != nil {
		return nil, err
	}

	entries := make([]struct {
		id string
		e  *entry
	}, 0, len(d.collections[collection]))
	for id, e := range d.collections[collection] {
		entries = append(entries, struct {
			id string
			e  *entry
		}{id, e})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].e, entries[j].e
		if q.OrderBy != "" {
			c := compareValues(a.data[q.OrderBy], b.data[q.OrderBy])
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return a.seq < b.seq
	})

	out := make([]gateway.Document, 0, len(entries))
	for _, it := range entries {
		out = append(out, gateway.Document{ID: it.id, Data: copyMap(it.e.data)})
	}
	return out, nil
}

func (d *Documents) Get(ctx context.Context, collection, id string) (*gateway.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(OpGet, collection); err != nil {
		return nil, err
	}

	e, ok := d.collections[collection][id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return &gateway.Document{ID: id, Data: copyMap(e.data)}, nil
}

func (d *Documents) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(OpAdd, collection); err != nil {
		return "", err
	}

	id := uuid.NewString()
	d.put(collection, id, copyMap(data))
	d.writes = append(d.writes, Write{Op: OpAdd, Collection: collection, ID: id})
	return id, nil
}

func (d *Documents) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(OpSet, collection); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("set %s: empty document id", collection)
	}

	d.put(collection, id, copyMap(data))
	d.writes = append(d.writes, Write{Op: OpSet, Collection: collection, ID: id})
	return nil
}

func (d *Documents) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(OpUpdate, collection); err != nil {
		return err
	}

	e, ok := d.collections[collection][id]
	if !ok {
		return gateway.ErrNotFound
	}
	for k, v := range patch {
		e.data[k] = v
	}
	d.writes = append(d.writes, Write{Op: OpUpdate, Collection: collection, ID: id})
	return nil
}

func (d *Documents) Delete(ctx context.Context, collection, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(OpDelete, collection); err != nil {
		return err
	}

	delete(d.collections[collection], id)
	d.writes = append(d.writes, Write{Op: OpDelete, Collection: collection, ID: id})
	return nil
}

func (d *Documents) put(collection, id string, data map[string]interface{}) {
	if d.collections[collection] == nil {
		d.collections[collection] = make(map[string]*entry)
	}
	d.seq++
	if existing, ok := d.collections[collection][id]; ok {
		existing.data = data
		return
	}
	d.collections[collection][id] = &entry{data: data, seq: d.seq}
}

func copyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// compareValues orders numbers numerically, times chronologically and strings
// lexically. Missing values sort before present ones.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
