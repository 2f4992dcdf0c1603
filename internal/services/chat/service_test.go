package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chat_widget/internal/ai"
	"chat_widget/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	history   []models.Message
	fetchErr  error
	appendErr func(models.Message) error
	appended  []models.Message
}

func (f *fakeStore) FetchAll(ctx context.Context) ([]models.Message, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.history, nil
}

func (f *fakeStore) Append(ctx context.Context, message models.Message) error {
	if f.appendErr != nil {
		if err := f.appendErr(message); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, message)
	return nil
}

func (f *fakeStore) Appended() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.appended)
}

type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
	alerts    []string
}

func (r *recorder) change(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) alert(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, text)
}

func (r *recorder) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.snapshots)
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.alerts)
}

type harness struct {
	conv  *Conversation
	store *fakeStore
	rec   *recorder
	slept []time.Duration
}

func newHarness(t *testing.T, store *fakeStore, sleep func(time.Duration)) *harness {
	t.Helper()
	h := &harness{store: store, rec: &recorder{}}
	counter := 0
	if sleep == nil {
		sleep = func(d time.Duration) { h.slept = append(h.slept, d) }
	}
	h.conv = NewConversation(store, ai.NewResponder(rand.NewPCG(1, 1)), Options{
		TypingDelay: DefaultTypingDelay,
		Logger:      zerolog.Nop(),
		Sleep:       sleep,
		NewKey: func() string {
			counter++
			return fmt.Sprintf("key-%d", counter)
		},
	})
	h.conv.OnChange(h.rec.change)
	h.conv.OnAlert(h.rec.alert)
	return h
}

func TestSubmitGreetingRoundTrip(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)

	if err := h.conv.Submit(context.Background(), "Hi"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(h.slept) != 1 || h.slept[0] != 1500*time.Millisecond {
		t.Fatalf("slept = %v, want one 1500ms delay", h.slept)
	}

	final := h.conv.Snapshot()
	if len(final.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(final.Messages))
	}
	user, bot := final.Messages[0].Message, final.Messages[1].Message
	if user.Text != "Hi" || user.IsBot {
		t.Fatalf("user message = %+v", user)
	}
	if !bot.IsBot || !slices.Contains(ai.Greetings, bot.Text) {
		t.Fatalf("bot message = %+v, want greeting", bot)
	}
	if final.IsLoading || final.IsTyping || final.Phase != PhaseIdle {
		t.Fatalf("final flags = loading %v typing %v phase %v", final.IsLoading, final.IsTyping, final.Phase)
	}

	appended := store.Appended()
	if len(appended) != 2 || appended[0].IsBot || !appended[1].IsBot {
		t.Fatalf("appended = %+v, want user then bot", appended)
	}
	if len(h.rec.Alerts()) != 0 {
		t.Fatalf("alerts = %v, want none", h.rec.Alerts())
	}
}

func TestSubmitTypingOnlyDuringDelay(t *testing.T) {
	store := &fakeStore{}
	var duringDelay Snapshot
	var h *harness
	h = newHarness(t, store, func(time.Duration) {
		duringDelay = h.conv.Snapshot()
	})

	if err := h.conv.Submit(context.Background(), "Hi"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if !duringDelay.IsTyping || duringDelay.Phase != PhaseAwaitingBot {
		t.Fatalf("during delay typing=%v phase=%v, want typing in awaiting_bot", duringDelay.IsTyping, duringDelay.Phase)
	}
	if len(duringDelay.Messages) != 1 {
		t.Fatalf("during delay len(Messages) = %d, want 1", len(duringDelay.Messages))
	}

	snapshots := h.rec.Snapshots()
	first := snapshots[0]
	if first.IsTyping {
		t.Fatalf("typing set before the user message was persisted")
	}
	if !first.IsLoading || first.Phase != PhaseSending || len(first.Messages) != 1 {
		t.Fatalf("first snapshot = %+v, want optimistic user message while sending", first)
	}
	last := snapshots[len(snapshots)-1]
	if last.IsTyping {
		t.Fatalf("typing still set after reply")
	}
	for _, snap := range snapshots {
		if snap.IsTyping && len(snap.Messages) != 1 {
			t.Fatalf("typing while bot message visible: %+v", snap)
		}
	}
}

func TestSubmitClearsDraftImmediately(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)
	h.conv.SetDraft("Hello bot")

	if err := h.conv.Submit(context.Background(), "Hello bot"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snapshots := h.rec.Snapshots()
	var firstSending Snapshot
	for _, snap := range snapshots {
		if snap.Phase == PhaseSending {
			firstSending = snap
			break
		}
	}
	if firstSending.Draft != "" {
		t.Fatalf("draft = %q while sending, want cleared", firstSending.Draft)
	}
}

func TestSubmitEmptyIsNoop(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)
	h.conv.SetDraft("   ")
	before := h.conv.Snapshot()
	changes := len(h.rec.Snapshots())

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := h.conv.Submit(context.Background(), text); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("Submit(%q) error = %v, want ErrEmptyMessage", text, err)
		}
	}

	after := h.conv.Snapshot()
	if len(after.Messages) != 0 || after.Draft != before.Draft || after.IsLoading {
		t.Fatalf("state mutated by empty submit: %+v", after)
	}
	if len(h.rec.Snapshots()) != changes {
		t.Fatalf("empty submit emitted change notifications")
	}
	if len(store.Appended()) != 0 {
		t.Fatalf("empty submit reached the store")
	}
}

func TestSubmitWhileLoadingIsNoop(t *testing.T) {
	store := &fakeStore{}
	release := make(chan struct{})
	entered := make(chan struct{})
	h := newHarness(t, store, func(time.Duration) {
		close(entered)
		<-release
	})

	done := make(chan error, 1)
	go func() {
		done <- h.conv.Submit(context.Background(), "first")
	}()
	<-entered

	if !h.conv.Snapshot().IsLoading {
		t.Fatalf("IsLoading = false during round trip")
	}
	if err := h.conv.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("Submit() error = %v, want ErrBusy", err)
	}
	if got := len(h.conv.Snapshot().Messages); got != 1 {
		t.Fatalf("len(Messages) = %d, want 1", got)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if got := len(store.Appended()); got != 2 {
		t.Fatalf("len(appended) = %d, want 2", got)
	}
}

func TestSubmitUserPersistFailureKeepsMessage(t *testing.T) {
	store := &fakeStore{appendErr: func(models.Message) error { return errors.New("store down") }}
	h := newHarness(t, store, nil)

	err := h.conv.Submit(context.Background(), "Hi")
	if err == nil {
		t.Fatalf("Submit() expected error")
	}

	final := h.conv.Snapshot()
	if final.IsLoading || final.IsTyping || final.Phase != PhaseIdle {
		t.Fatalf("flags after failure = %+v", final)
	}
	if len(final.Messages) != 1 || final.Messages[0].Message.Text != "Hi" {
		t.Fatalf("Messages = %+v, want the unpersisted user message to remain", final.Messages)
	}
	if alerts := h.rec.Alerts(); len(alerts) != 1 || alerts[0] != AlertText {
		t.Fatalf("alerts = %v, want one %q", alerts, AlertText)
	}
	if len(h.slept) != 0 {
		t.Fatalf("typing delay ran after failed persist")
	}

	store.appendErr = nil
	if err := h.conv.Submit(context.Background(), "again"); err != nil {
		t.Fatalf("Submit() after failure error = %v", err)
	}
}

func TestSubmitBotPersistFailure(t *testing.T) {
	store := &fakeStore{appendErr: func(m models.Message) error {
		if m.IsBot {
			return errors.New("store down")
		}
		return nil
	}}
	h := newHarness(t, store, nil)

	if err := h.conv.Submit(context.Background(), "how are you"); err == nil {
		t.Fatalf("Submit() expected error")
	}

	final := h.conv.Snapshot()
	if len(final.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want only the user message", len(final.Messages))
	}
	if final.IsLoading || final.IsTyping {
		t.Fatalf("flags after bot failure = %+v", final)
	}
	if len(h.rec.Alerts()) != 1 {
		t.Fatalf("alerts = %v, want one", h.rec.Alerts())
	}
}

func TestSubmitCancelledContextStillPersistsReply(t *testing.T) {
	store := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(t, store, func(time.Duration) { cancel() })

	var botCtxErr error
	store.appendErr = func(m models.Message) error {
		if m.IsBot {
			botCtxErr = ctx.Err()
		}
		return nil
	}

	if err := h.conv.Submit(ctx, "hello"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !errors.Is(botCtxErr, context.Canceled) {
		t.Fatalf("parent ctx err = %v, want cancelled during bot persist", botCtxErr)
	}
	if got := len(h.conv.Snapshot().Messages); got != 2 {
		t.Fatalf("len(Messages) = %d, want 2", got)
	}
}

func TestLoadPrependsHistory(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := &fakeStore{history: []models.Message{
		{ID: "m-1", Text: "old", Timestamp: stamp},
		{Text: "older reply", IsBot: true, Timestamp: stamp},
	}}
	h := newHarness(t, store, nil)

	h.conv.Load(context.Background())

	snap := h.conv.Snapshot()
	if len(snap.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(snap.Messages))
	}
	if snap.Messages[0].Key != "m-1" {
		t.Fatalf("Messages[0].Key = %q, want store id", snap.Messages[0].Key)
	}
	if snap.Messages[1].Key == "" {
		t.Fatalf("Messages[1].Key empty, want generated key")
	}
}

func TestLoadFailureLeavesEmpty(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("unreachable")}
	h := newHarness(t, store, nil)

	h.conv.Load(context.Background())

	if got := len(h.conv.Snapshot().Messages); got != 0 {
		t.Fatalf("len(Messages) = %d, want 0", got)
	}
	if len(h.rec.Alerts()) != 0 {
		t.Fatalf("fetch failure surfaced an alert")
	}
}

func TestToggleThemeTwiceRestores(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)
	if err := h.conv.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	before := h.conv.Snapshot()

	if !h.conv.ToggleTheme() {
		t.Fatalf("ToggleTheme() = false, want dark after first toggle")
	}
	if h.conv.ToggleTheme() {
		t.Fatalf("ToggleTheme() = true, want light after second toggle")
	}

	after := h.conv.Snapshot()
	if after.IsDarkMode != before.IsDarkMode {
		t.Fatalf("IsDarkMode = %v, want %v", after.IsDarkMode, before.IsDarkMode)
	}
	if len(after.Messages) != len(before.Messages) {
		t.Fatalf("toggle changed messages")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)
	if err := h.conv.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snap := h.conv.Snapshot()
	snap.Messages[0].Message.Text = "mutated"

	if h.conv.Snapshot().Messages[0].Message.Text != "hi" {
		t.Fatalf("snapshot aliases conversation state")
	}
}

func TestSubmitStoresTextAsTyped(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)

	if err := h.conv.Submit(context.Background(), "  hello there \n"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	appended := store.Appended()
	if len(appended) != 2 {
		t.Fatalf("len(appended) = %d, want 2", len(appended))
	}
	if appended[0].Text != "  hello there \n" {
		t.Fatalf("appended[0].Text = %q, want untrimmed input", appended[0].Text)
	}
	if got := h.conv.Snapshot().Messages[0].Message.Text; got != "  hello there \n" {
		t.Fatalf("Messages[0].Text = %q, want untrimmed input", got)
	}
}

func TestLoadSkipsEntriesAlreadyPresent(t *testing.T) {
	store := &fakeStore{}
	h := newHarness(t, store, nil)
	if err := h.conv.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	store.history = append([]models.Message{{ID: "m-0", Text: "earlier"}}, store.Appended()...)

	h.conv.Load(context.Background())

	snap := h.conv.Snapshot()
	if len(snap.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(snap.Messages))
	}
	seen := map[string]bool{}
	for _, entry := range snap.Messages {
		if seen[entry.Key] {
			t.Fatalf("duplicate key %q in %+v", entry.Key, snap.Messages)
		}
		seen[entry.Key] = true
	}
	if snap.Messages[0].Key != "m-0" {
		t.Fatalf("Messages[0].Key = %q, want m-0", snap.Messages[0].Key)
	}
}

func TestApplyPreferredTheme(t *testing.T) {
	h := newHarness(t, &fakeStore{}, nil)

	if !h.conv.ApplyPreferredTheme(true) {
		t.Fatalf("ApplyPreferredTheme(true) = false, want dark")
	}
	if !h.conv.Snapshot().IsDarkMode {
		t.Fatalf("IsDarkMode = false after dark preference")
	}
	if !h.conv.ApplyPreferredTheme(false) {
		t.Fatalf("second preference report changed the theme")
	}
}

func TestApplyPreferredThemeAfterToggleIsIgnored(t *testing.T) {
	h := newHarness(t, &fakeStore{}, nil)

	h.conv.ToggleTheme()
	if !h.conv.ApplyPreferredTheme(false) {
		t.Fatalf("preference overrode an explicit toggle")
	}
	if !h.conv.Snapshot().IsDarkMode {
		t.Fatalf("IsDarkMode = false, want toggled dark")
	}
}
