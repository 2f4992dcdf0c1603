package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat_widget/internal/models"
)

const (
	DefaultTypingDelay = 1500 * time.Millisecond

	AlertText = "Failed to send message. Please try again."
)

var (
	ErrEmptyMessage = errors.New("message text is empty")
	ErrBusy         = errors.New("a message is already being sent")
)

type MessageStore interface {
	FetchAll(ctx context.Context) ([]models.Message, error)
	Append(ctx context.Context, message models.Message) error
}

type Responder interface {
	Respond(text string) string
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseAwaitingBot
)

func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "sending"
	case PhaseAwaitingBot:
		return "awaiting_bot"
	default:
		return "idle"
	}
}

// Entry is a message as held by the conversation. Key is stable for the
// lifetime of the entry and AddedAt records local insertion time.
type Entry struct {
	Key     string
	Message models.Message
	AddedAt time.Time
}

type Snapshot struct {
	Messages    []Entry
	Phase       Phase
	IsLoading   bool
	IsTyping    bool
	IsDarkMode  bool
	Draft       string
	TypingSince time.Time
}

type Options struct {
	TypingDelay time.Duration
	Logger      zerolog.Logger
	Now         func() time.Time
	Sleep       func(time.Duration)
	NewKey      func() string
}

// Conversation owns every mutation of a single widget session.
type Conversation struct {
	store     MessageStore
	responder Responder
	delay     time.Duration
	logger    zerolog.Logger
	now       func() time.Time
	sleep     func(time.Duration)
	newKey    func() string

	mu          sync.Mutex
	state       Snapshot
	themeChosen bool
	onChange func(Snapshot)
	onAlert  func(string)
}

func NewConversation(store MessageStore, responder Responder, opts Options) *Conversation {
	c := &Conversation{
		store:     store,
		responder: responder,
		delay:     opts.TypingDelay,
		logger:    opts.Logger.With().Str("component", "conversation").Logger(),
		now:       opts.Now,
		sleep:     opts.Sleep,
		newKey:    opts.NewKey,
		state:     Snapshot{Messages: []Entry{}},
	}
	if c.delay <= 0 {
		c.delay = DefaultTypingDelay
	}
	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	if c.newKey == nil {
		c.newKey = uuid.NewString
	}
	return c
}

// OnChange registers fn to receive a snapshot after every mutation.
// fn runs outside the conversation lock.
func (c *Conversation) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Conversation) OnAlert(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAlert = fn
}

func (c *Conversation) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load prepends the remote history. Entries already present, such as a
// message submitted before the fetch returned, are skipped. Failures are
// logged and leave the conversation as it was.
func (c *Conversation) Load(ctx context.Context) {
	history, err := c.store.FetchAll(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("fetch history failed")
		return
	}

	c.mutate(func(state *Snapshot) {
		addedAt := c.now()
		present := make(map[string]struct{}, len(state.Messages))
		for _, entry := range state.Messages {
			present[entry.Key] = struct{}{}
		}
		loaded := make([]Entry, 0, len(history)+len(state.Messages))
		for _, message := range history {
			key := message.ID
			if key == "" {
				key = c.newKey()
			}
			if _, ok := present[key]; ok {
				continue
			}
			present[key] = struct{}{}
			loaded = append(loaded, Entry{Key: key, Message: message, AddedAt: addedAt})
		}
		state.Messages = append(loaded, state.Messages...)
	})
	c.logger.Debug().Int("count", len(history)).Msg("history loaded")
}

func (c *Conversation) SetDraft(text string) {
	c.mutate(func(state *Snapshot) {
		state.Draft = text
	})
}

// ToggleTheme flips dark mode and returns the new value.
func (c *Conversation) ToggleTheme() bool {
	var dark bool
	c.mutate(func(state *Snapshot) {
		state.IsDarkMode = !state.IsDarkMode
		dark = state.IsDarkMode
		c.themeChosen = true
	})
	return dark
}

// ApplyPreferredTheme seeds dark mode from the client's color-scheme
// preference. Only the first report counts, and never after a toggle.
func (c *Conversation) ApplyPreferredTheme(dark bool) bool {
	var current bool
	c.mutate(func(state *Snapshot) {
		if !c.themeChosen {
			state.IsDarkMode = dark
			c.themeChosen = true
		}
		current = state.IsDarkMode
	})
	return current
}

// Submit runs one full round trip: persist the user message, wait out the
// typing delay, persist the bot reply. It blocks until the round trip ends.
// Empty text and a submit while another is in flight are no-ops.
//
// A failed persist leaves the optimistic user message in place; the store
// and the conversation may diverge.
func (c *Conversation) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state.Phase != PhaseIdle || c.state.IsLoading {
		c.mu.Unlock()
		return ErrBusy
	}
	userMessage := models.Message{
		ID:        c.newKey(),
		Text:      text,
		IsBot:     false,
		Timestamp: c.now(),
	}
	c.state.Messages = appendEntry(c.state.Messages, Entry{Key: userMessage.ID, Message: userMessage, AddedAt: userMessage.Timestamp})
	c.state.Draft = ""
	c.state.IsLoading = true
	c.state.Phase = PhaseSending
	snapshot, notify := c.snapshotLocked(), c.onChange
	c.mu.Unlock()
	emit(notify, snapshot)

	if err := c.store.Append(ctx, userMessage); err != nil {
		return c.fail("persist user message", err)
	}

	c.mutate(func(state *Snapshot) {
		state.Phase = PhaseAwaitingBot
		state.IsTyping = true
		state.TypingSince = c.now()
	})

	// The delay is not tied to ctx, so a torn-down session still
	// completes its pending reply.
	c.sleep(c.delay)
	reply := c.responder.Respond(text)

	c.mutate(func(state *Snapshot) {
		state.IsTyping = false
		state.TypingSince = time.Time{}
	})

	botMessage := models.Message{
		ID:        c.newKey(),
		Text:      reply,
		IsBot:     true,
		Timestamp: c.now(),
	}
	if err := c.store.Append(context.WithoutCancel(ctx), botMessage); err != nil {
		return c.fail("persist bot message", err)
	}

	c.mutate(func(state *Snapshot) {
		state.Messages = appendEntry(state.Messages, Entry{Key: botMessage.ID, Message: botMessage, AddedAt: c.now()})
		state.IsLoading = false
		state.Phase = PhaseIdle
	})
	c.logger.Debug().Str("reply", reply).Msg("bot replied")
	return nil
}

func (c *Conversation) fail(op string, err error) error {
	c.logger.Error().Err(err).Str("op", op).Msg("send failed")

	c.mu.Lock()
	c.state.IsLoading = false
	c.state.IsTyping = false
	c.state.TypingSince = time.Time{}
	c.state.Phase = PhaseIdle
	snapshot, notify, alert := c.snapshotLocked(), c.onChange, c.onAlert
	c.mu.Unlock()

	emit(notify, snapshot)
	if alert != nil {
		alert(AlertText)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Conversation) mutate(fn func(*Snapshot)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot, notify := c.snapshotLocked(), c.onChange
	c.mu.Unlock()
	emit(notify, snapshot)
}

func (c *Conversation) snapshotLocked() Snapshot {
	next := c.state
	next.Messages = make([]Entry, len(c.state.Messages))
	copy(next.Messages, c.state.Messages)
	return next
}

func appendEntry(entries []Entry, entry Entry) []Entry {
	next := make([]Entry, 0, len(entries)+1)
	next = append(next, entries...)
	return append(next, entry)
}

func emit(fn func(Snapshot), snapshot Snapshot) {
	if fn != nil {
		fn(snapshot)
	}
}
