package csvkit

import (
	"fmt"
	"io"
	"sync"
)

// FilterMode selects which direction(s) of the stream a chain entry
// applies to.
type FilterMode int

const (
	// FilterBoth applies the filter on both read and write.
	FilterBoth FilterMode = iota
	// FilterRead applies the filter on read only.
	FilterRead
	// FilterWrite applies the filter on write only.
	FilterWrite
)

func (m FilterMode) appliesTo(read bool) bool {
	switch m {
	case FilterRead:
		return read
	case FilterWrite:
		return !read
	default:
		return true
	}
}

// Params is an ordered parameter bag for a filter chain entry.
// Registration order of the keys is preserved.
type Params []Param

// Param is one key/value pair of a parameter bag.
type Param struct {
	Key   string
	Value string
}

// Get returns the value for key, and whether the key is present.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the value for key, appending the pair if absent.
func (p Params) Set(key, value string) Params {
	for i, kv := range p {
		if kv.Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Key: key, Value: value})
}

// Clone returns an independent copy of the parameter bag.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return append(Params(nil), p...)
}

// WriteFlushCloser is the write side of a resolved filter stack. Flush
// forces buffered bytes toward the raw resource without closing it.
type WriteFlushCloser interface {
	io.WriteCloser
	Flush() error
}

// Filter constructs the read and write transforms for one registered
// filter name. Either constructor may be nil when the filter supports a
// single direction; resolving it in the unsupported direction fails with
// ErrUnsupportedFilter.
type Filter struct {
	// NewReader wraps r so that bytes read from the result have the
	// filter's transform applied.
	NewReader func(r io.Reader, params Params) (io.ReadCloser, error)

	// NewWriter wraps w so that bytes written to the result have the
	// filter's transform applied before reaching w.
	NewWriter func(w io.Writer, params Params) (WriteFlushCloser, error)
}

var (
	filterFactories = make(map[string]Filter)
	filterMutex     sync.RWMutex
)

// RegisterFilter registers a named filter. Built-in filters call this from
// init functions in their subpackages; a blank import enables them.
func RegisterFilter(name string, f Filter) {
	filterMutex.Lock()
	defer filterMutex.Unlock()
	filterFactories[name] = f
}

// FilterRegistered reports whether a filter name is registered.
func FilterRegistered(name string) bool {
	filterMutex.RLock()
	defer filterMutex.RUnlock()
	_, ok := filterFactories[name]
	return ok
}

func lookupFilter(name string) (Filter, bool) {
	filterMutex.RLock()
	defer filterMutex.RUnlock()
	f, ok := filterFactories[name]
	return f, ok
}

// filterEntry is one registered transform in a chain.
type filterEntry struct {
	name   string
	params Params
	mode   FilterMode
}

// FilterChain is an ordered list of named byte-stream transforms applied
// around the raw resource when it is opened.
//
// Order matters: the first entry is the outermost transform and the last
// entry sits closest to the raw resource. See ResolveReader.
type FilterChain struct {
	entries []filterEntry
}

// NewFilterChain returns an empty chain.
func NewFilterChain() *FilterChain {
	return &FilterChain{}
}

// Append adds a filter at the end of the chain (closest to the raw
// resource). Unregistered names fail immediately with ErrUnsupportedFilter
// rather than at resolution time.
func (c *FilterChain) Append(name string, params Params, mode FilterMode) error {
	if !FilterRegistered(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
	}
	c.entries = append(c.entries, filterEntry{name: name, params: params.Clone(), mode: mode})
	return nil
}

// Prepend adds a filter at the front of the chain (outermost transform).
// Unregistered names fail immediately with ErrUnsupportedFilter.
func (c *FilterChain) Prepend(name string, params Params, mode FilterMode) error {
	if !FilterRegistered(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
	}
	c.entries = append([]filterEntry{{name: name, params: params.Clone(), mode: mode}}, c.entries...)
	return nil
}

// Remove removes the first entry with the given name and reports whether
// one was removed.
func (c *FilterChain) Remove(name string) bool {
	for i, e := range c.entries {
		if e.name == name {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether the chain contains an entry with the given name.
func (c *FilterChain) Has(name string) bool {
	for _, e := range c.entries {
		if e.name == name {
			return true
		}
	}
	return false
}

// Len returns the number of entries in the chain.
func (c *FilterChain) Len() int { return len(c.entries) }

// Names returns the entry names in chain order.
func (c *FilterChain) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Clone returns an independent copy of the chain.
func (c *FilterChain) Clone() *FilterChain {
	clone := &FilterChain{entries: make([]filterEntry, len(c.entries))}
	for i, e := range c.entries {
		clone.entries[i] = filterEntry{name: e.name, params: e.params.Clone(), mode: e.mode}
	}
	return clone
}

// matching returns the entries that apply to the requested direction,
// after verifying that every one of them resolves to a registered filter
// supporting that direction. Resolution aborts before any wrapping when a
// name is unknown, so partial filter stacks never exist.
func (c *FilterChain) matching(read bool) ([]filterEntry, []Filter, error) {
	var entries []filterEntry
	var filters []Filter
	for _, e := range c.entries {
		if !e.mode.appliesTo(read) {
			continue
		}
		f, ok := lookupFilter(e.name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, e.name)
		}
		if (read && f.NewReader == nil) || (!read && f.NewWriter == nil) {
			return nil, nil, fmt.Errorf("%w: %s does not support this direction", ErrUnsupportedFilter, e.name)
		}
		entries = append(entries, e)
		filters = append(filters, f)
	}
	return entries, filters, nil
}

// ResolveReader builds the read-side filter stack around raw.
//
// Entries are nested so that the last-appended filter is closest to the
// raw resource and the first-appended filter is the outermost transform:
// on read, bytes leaving raw pass through the last-appended filter first
// and the first-appended filter last. Closing the result closes the
// filter wrappers but never raw itself.
func (c *FilterChain) ResolveReader(raw io.Reader) (io.ReadCloser, error) {
	entries, filters, err := c.matching(true)
	if err != nil {
		return nil, err
	}

	stack := &readStack{}
	r := io.Reader(raw)
	for i := len(entries) - 1; i >= 0; i-- {
		wrapped, err := filters[i].NewReader(r, entries[i].params)
		if err != nil {
			stack.Close()
			return nil, fmt.Errorf("filter %s: %w", entries[i].name, err)
		}
		stack.layers = append(stack.layers, wrapped)
		r = wrapped
	}
	stack.top = r
	return stack, nil
}

// ResolveWriter builds the write-side filter stack around raw, with the
// same nesting as ResolveReader: the caller's bytes enter the
// first-appended filter first and reach raw through the last-appended
// one. Closing the result closes the filter wrappers but never raw.
func (c *FilterChain) ResolveWriter(raw io.Writer) (WriteFlushCloser, error) {
	entries, filters, err := c.matching(false)
	if err != nil {
		return nil, err
	}

	stack := &writeStack{}
	w := raw
	for i := len(entries) - 1; i >= 0; i-- {
		wrapped, err := filters[i].NewWriter(w, entries[i].params)
		if err != nil {
			stack.Close()
			return nil, fmt.Errorf("filter %s: %w", entries[i].name, err)
		}
		stack.layers = append(stack.layers, wrapped)
		w = wrapped
	}
	stack.top = w
	return stack, nil
}

// readStack is a resolved read-side filter stack. layers holds the
// wrappers innermost-first so Close unwinds outermost-first.
type readStack struct {
	top    io.Reader
	layers []io.ReadCloser
}

func (s *readStack) Read(p []byte) (int, error) {
	return s.top.Read(p)
}

func (s *readStack) Close() error {
	var firstErr error
	for i := len(s.layers) - 1; i >= 0; i-- {
		if err := s.layers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// writeStack is a resolved write-side filter stack.
type writeStack struct {
	top    io.Writer
	layers []WriteFlushCloser
}

func (s *writeStack) Write(p []byte) (int, error) {
	return s.top.Write(p)
}

// Flush flushes every layer outermost-first so buffered bytes cascade
// toward the raw resource.
func (s *writeStack) Flush() error {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if err := s.layers[i].Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every layer outermost-first. The raw writer is left open.
func (s *writeStack) Close() error {
	var firstErr error
	for i := len(s.layers) - 1; i >= 0; i-- {
		if err := s.layers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NopWriteFlushCloser adapts a plain io.Writer into a WriteFlushCloser
// with no-op Flush and Close. Filter implementations can use it for
// transforms that buffer nothing.
func NopWriteFlushCloser(w io.Writer) WriteFlushCloser {
	return nopWFC{w}
}

type nopWFC struct{ io.Writer }

func (nopWFC) Flush() error { return nil }
func (nopWFC) Close() error { return nil }

// Verify interface compliance at compile time
var (
	_ io.ReadCloser    = (*readStack)(nil)
	_ WriteFlushCloser = (*writeStack)(nil)
)
