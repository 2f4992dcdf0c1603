package ai

import (
	"math/rand/v2"
	"strings"
	"sync"
)

type Category int

const (
	CategoryFallback Category = iota
	CategoryGreeting
	CategorySmallTalk
)

func (c Category) String() string {
	switch c {
	case CategoryGreeting:
		return "greeting"
	case CategorySmallTalk:
		return "small_talk"
	default:
		return "fallback"
	}
}

var Greetings = []string{
	"Hi there! How can I help you today?",
	"Hello! What can I do for you?",
	"Hey! How are you doing?",
}

var SmallTalk = []string{
	"I am just a bot, but thanks for asking!",
	"Doing great! What about you?",
	"I don't have feelings, but I'm here to help!",
}

var Fallbacks = []string{
	"I am not sure how to respond to that.",
	"Can you please clarify?",
	"That sounds interesting! Tell me more.",
}

// Classify matches on plain substrings, so "hi" also matches words like "this".
func Classify(text string) Category {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "hello") || strings.Contains(lowered, "hi"):
		return CategoryGreeting
	case strings.Contains(lowered, "how are you"):
		return CategorySmallTalk
	default:
		return CategoryFallback
	}
}

func Responses(category Category) []string {
	switch category {
	case CategoryGreeting:
		return Greetings
	case CategorySmallTalk:
		return SmallTalk
	default:
		return Fallbacks
	}
}

type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder picks replies from src. A nil src uses the global generator.
func NewResponder(src rand.Source) *Responder {
	if src == nil {
		return &Responder{}
	}
	return &Responder{rng: rand.New(src)}
}

func (r *Responder) Respond(text string) string {
	options := Responses(Classify(text))
	return options[r.intN(len(options))]
}

func (r *Responder) intN(n int) int {
	if r.rng == nil {
		return rand.IntN(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
