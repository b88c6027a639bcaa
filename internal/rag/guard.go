package rag

import (
	"sync"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

type activity int

const (
	ingesting activity = iota + 1
	deleting
)

// documentGuards hands out one RWMutex per document. Readers (search, ask) hold the read side;
// deletion takes the write side so it waits for them and blocks new ones.
// Ingestion and deletion of the same document exclude each other through the activity map.
type documentGuards struct {
	mu     sync.Mutex
	guards map[string]*sync.RWMutex
	active map[string]activity
}

func newDocumentGuards() *documentGuards {
	return &documentGuards{
		guards: make(map[string]*sync.RWMutex),
		active: make(map[string]activity),
	}
}

func (g *documentGuards) get(documentId string) *sync.RWMutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.guards[documentId]
	if !ok {
		l = &sync.RWMutex{}
		g.guards[documentId] = l
	}
	return l
}

func (g *documentGuards) forget(documentId string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.guards, documentId)
}

// begin claims documentId for one ingestion or one deletion. The returned func releases the claim.
func (g *documentGuards) begin(documentId string, a activity) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.active[documentId] {
	case ingesting:
		return nil, commonModels.ErrDocumentIngesting
	case deleting:
		return nil, commonModels.ErrDocumentDeleting
	}
	g.active[documentId] = a
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.active, documentId)
	}, nil
}
