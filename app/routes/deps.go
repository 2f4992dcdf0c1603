package routes

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	chatsvc "chat_widget/internal/services/chat"
)

type Deps struct {
	Store         chatsvc.MessageStore
	Responder     chatsvc.Responder
	Logger        zerolog.Logger
	TypingDelay   time.Duration
	FrameInterval time.Duration
}

var (
	depsMu   sync.RWMutex
	depsOnce bool
	deps     Deps
)

func SetDeps(next Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()
	if next.FrameInterval <= 0 {
		next.FrameInterval = 100 * time.Millisecond
	}
	deps = next
	depsOnce = true
}

func getDeps() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	if !depsOnce {
		panic("routes deps not initialized")
	}
	return deps
}
