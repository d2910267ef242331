package rag

import "sync"

// Holder publishes the current query engine to request handlers. Updating
// model settings installs a freshly built Engine; in-flight requests keep
// the instance they already read, so nothing mutates under them.
type Holder struct {
	mu     sync.RWMutex
	engine *Engine
}

func NewHolder(engine *Engine) *Holder {
	return &Holder{engine: engine}
}

func (h *Holder) Get() *Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

func (h *Holder) Set(engine *Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine = engine
}
