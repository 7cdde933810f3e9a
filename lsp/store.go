package lsp

import (
	"sync"

	"go.lsp.dev/protocol"

	"github.com/nrs-lang/nrs/analysis"
)

// Snapshot is the immutable analysis of one version of an open document.
// Readers take a snapshot pointer once and compute against it; it is never
// mutated after publication.
type Snapshot struct {
	URI     protocol.DocumentURI
	Version int32
	File    *analysis.AnalyzedFile
}

// Typed reports whether the snapshot carries a type checked forest.
func (s *Snapshot) Typed() bool {
	return s != nil && s.File != nil && s.File.Forest != nil
}

// Ticket identifies one requested analysis of a document. Tickets are
// issued by DocumentStore.Begin and redeemed by DocumentStore.Put.
type Ticket struct {
	URI     protocol.DocumentURI
	Version int32
	gen     uint64
}

type request struct {
	version int32
	gen     uint64
}

// DocumentStore maps open documents to their latest snapshot.
//
// pending records the newest request per document. Each request carries a
// store-wide generation, so an analysis that finishes after a newer one
// started, or after the document was closed and reopened at the same
// version, is dropped instead of published.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Snapshot
	pending   map[protocol.DocumentURI]request
	gen       uint64
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[protocol.DocumentURI]*Snapshot),
		pending:   make(map[protocol.DocumentURI]request),
	}
}

// Begin registers an analysis of version. It returns false if a newer
// version was already requested.
func (s *DocumentStore) Begin(uri protocol.DocumentURI, version int32) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if latest, ok := s.pending[uri]; ok && version < latest.version {
		return Ticket{}, false
	}

	s.gen++
	s.pending[uri] = request{version: version, gen: s.gen}

	return Ticket{URI: uri, Version: version, gen: s.gen}, true
}

// Put publishes the analysis for ticket if it is still the newest request
// for its document. It returns the stored snapshot.
func (s *DocumentStore) Put(ticket Ticket, file *analysis.AnalyzedFile) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, ok := s.pending[ticket.URI]
	if !ok || latest.gen != ticket.gen {
		return nil, false
	}

	snap := &Snapshot{URI: ticket.URI, Version: ticket.Version, File: file}
	s.documents[ticket.URI] = snap

	return snap, true
}

// Current reports whether snap is still the stored snapshot of its document.
func (s *DocumentStore) Current(snap *Snapshot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[snap.URI] == snap
}

// Get returns the current snapshot of uri.
func (s *DocumentStore) Get(uri protocol.DocumentURI) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.documents[uri]

	return snap, ok
}

// Delete evicts uri and cancels any analysis still in flight for it.
func (s *DocumentStore) Delete(uri protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
	delete(s.pending, uri)
}

// Len returns the number of stored snapshots.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.documents)
}
