package grammar

import (
	"fmt"
	"slices"
)

// ListContainer is the surface shared by List and DictList: a named
// word collection that elements reference and that pushes updates to
// its grammar's engine when mutated.
type ListContainer interface {
	Name() string

	attach(g *Grammar) error
	detach()
}

// listBase carries the name and grammar backlink shared by both list
// kinds.
type listBase struct {
	name    string
	grammar *Grammar
}

func (b *listBase) Name() string { return b.name }

// Grammar returns the grammar the list is attached to, if any.
func (b *listBase) Grammar() *Grammar { return b.grammar }

func (b *listBase) attach(g *Grammar) error {
	if b.grammar != nil && b.grammar != g {
		return fmt.Errorf("grammar: list %q already in grammar %q", b.name, b.grammar.name)
	}
	b.grammar = g
	return nil
}

func (b *listBase) detach() { b.grammar = nil }

func (b *listBase) changed(l ListContainer) error {
	if b.grammar == nil {
		return nil
	}
	return b.grammar.updateList(l)
}

// List is an ordered collection of spoken entries, matchable through a
// ListRef and updatable while the grammar is loaded.
type List struct {
	listBase
	items []string
}

// NewList returns a list holding items.
func NewList(name string, items ...string) *List {
	return &List{listBase: listBase{name: name}, items: slices.Clone(items)}
}

// Items returns a copy of the list's entries in order.
func (l *List) Items() []string { return slices.Clone(l.items) }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.items) }

// Contains reports whether item is an entry.
func (l *List) Contains(item string) bool { return slices.Contains(l.items, item) }

// Add appends items and pushes the update to the engine.
func (l *List) Add(items ...string) error {
	l.items = append(l.items, items...)
	return l.changed(l)
}

// Remove deletes the first occurrence of item.
func (l *List) Remove(item string) error {
	i := slices.Index(l.items, item)
	if i < 0 {
		return fmt.Errorf("grammar: %q not in list %q", item, l.name)
	}
	l.items = slices.Delete(l.items, i, i+1)
	return l.changed(l)
}

// Set replaces the list's entries.
func (l *List) Set(items []string) error {
	l.items = slices.Clone(items)
	return l.changed(l)
}

// Clear removes every entry.
func (l *List) Clear() error {
	l.items = l.items[:0]
	return l.changed(l)
}

// DictList maps spoken keys to arbitrary values, matchable through a
// DictListRef and updatable while the grammar is loaded.
type DictList struct {
	listBase
	entries map[string]any
}

// NewDictList returns a dictionary list holding a copy of entries.
func NewDictList(name string, entries map[string]any) *DictList {
	d := &DictList{listBase: listBase{name: name}, entries: make(map[string]any, len(entries))}
	for k, v := range entries {
		d.entries[k] = v
	}
	return d
}

// Len returns the number of entries.
func (d *DictList) Len() int { return len(d.entries) }

// Contains reports whether key is present.
func (d *DictList) Contains(key string) bool {
	_, ok := d.entries[key]
	return ok
}

// Get returns the value stored under key.
func (d *DictList) Get(key string) (any, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Keys returns the spoken keys in sorted order.
func (d *DictList) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set stores value under key and pushes the update to the engine.
func (d *DictList) Set(key string, value any) error {
	d.entries[key] = value
	return d.changed(d)
}

// Delete removes key.
func (d *DictList) Delete(key string) error {
	if _, ok := d.entries[key]; !ok {
		return fmt.Errorf("grammar: %q not in list %q", key, d.name)
	}
	delete(d.entries, key)
	return d.changed(d)
}

// Clear removes every entry.
func (d *DictList) Clear() error {
	clear(d.entries)
	return d.changed(d)
}
