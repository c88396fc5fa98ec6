package listview

import "sync"

// Closer is anything a Registry can discard.
type Closer interface {
	Close()
}

// Registry keeps each session's view states. Only one section per session
// is live; entering another section closes the rest.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*sessionViews
}

type sessionViews struct {
	section string
	entries map[string]Closer
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*sessionViews)}
}

// Enter marks section as the session's current one, closing the views of
// any other section.
func (r *Registry) Enter(sessionID, section string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enter(sessionID, section)
}

func (r *Registry) enter(sessionID, section string) *sessionViews {
	sv, ok := r.sessions[sessionID]
	if !ok {
		sv = &sessionViews{section: section, entries: make(map[string]Closer)}
		r.sessions[sessionID] = sv
		return sv
	}
	if sv.section != section {
		for key, entry := range sv.entries {
			entry.Close()
			delete(sv.entries, key)
		}
		sv.section = section
	}
	return sv
}

// Drop discards every view of a session.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sv, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	for _, entry := range sv.entries {
		entry.Close()
	}
	delete(r.sessions, sessionID)
}

// Len returns the number of live views for a session.
func (r *Registry) Len(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sv, ok := r.sessions[sessionID]; ok {
		return len(sv.entries)
	}
	return 0
}

// Lookup returns the view stored under key in section, creating it on
// first use. Keys are scoped per tab so filters never leak between tabs.
func Lookup[S Closer](r *Registry, sessionID, section, key string, create func() S) S {
	r.mu.Lock()
	defer r.mu.Unlock()

	sv := r.enter(sessionID, section)
	if entry, ok := sv.entries[key]; ok {
		if typed, ok := entry.(S); ok {
			return typed
		}
		entry.Close()
	}
	created := create()
	sv.entries[key] = created
	return created
}
