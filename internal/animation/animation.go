// Package animation turns keyframe pairs into inline styles. The browser
// interpolates between consecutive renders through a CSS transition, so a
// server-driven ticker only has to flip between two keyframes.
package animation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Keyframe struct {
	Opacity    float64
	TranslateY float64
	Scale      float64
}

// Style renders k with a transition of d. Zero d renders no transition.
func (k Keyframe) Style(d time.Duration, easing string) string {
	var b strings.Builder
	b.WriteString("opacity:")
	b.WriteString(formatFloat(k.Opacity))
	b.WriteString(";transform:translateY(")
	b.WriteString(formatFloat(k.TranslateY))
	b.WriteString("px) scale(")
	b.WriteString(formatFloat(k.Scale))
	b.WriteString(")")
	if d > 0 {
		if easing == "" {
			easing = "ease-out"
		}
		fmt.Fprintf(&b, ";transition:opacity %dms %s,transform %dms %s", d.Milliseconds(), easing, d.Milliseconds(), easing)
	}
	return b.String()
}

// Entrance holds From for the first frame after insertion and To afterwards.
type Entrance struct {
	From     Keyframe
	To       Keyframe
	Duration time.Duration
	Easing   string
}

func (e Entrance) At(age, frame time.Duration) Keyframe {
	if age < frame {
		return e.From
	}
	return e.To
}

func (e Entrance) Style(age, frame time.Duration) string {
	return e.At(age, frame).Style(e.Duration, e.Easing)
}

// Loop alternates between A and B every Period, shifted by Offset.
type Loop struct {
	A      Keyframe
	B      Keyframe
	Period time.Duration
	Offset time.Duration
	Easing string
}

func (l Loop) At(elapsed time.Duration) Keyframe {
	if l.Period <= 0 {
		return l.A
	}
	shifted := elapsed + l.Offset
	if shifted < 0 {
		shifted = -shifted
	}
	if (shifted/l.Period)%2 == 0 {
		return l.A
	}
	return l.B
}

func (l Loop) Style(elapsed time.Duration) string {
	return l.At(elapsed).Style(l.Period, l.Easing)
}

func (l Loop) WithOffset(offset time.Duration) Loop {
	l.Offset = offset
	return l
}

var (
	Rest = Keyframe{Opacity: 1, TranslateY: 0, Scale: 1}

	MessageEnter = Entrance{
		From:     Keyframe{Opacity: 0, TranslateY: 20, Scale: 0.95},
		To:       Rest,
		Duration: 300 * time.Millisecond,
	}

	TypingEnter = Entrance{
		From:     Keyframe{Opacity: 0, TranslateY: 10, Scale: 0.9},
		To:       Rest,
		Duration: 200 * time.Millisecond,
	}

	OnlinePulse = Loop{
		A:      Rest,
		B:      Keyframe{Opacity: 0.5, TranslateY: 0, Scale: 1.2},
		Period: time.Second,
		Easing: "ease-in-out",
	}

	TypingDot = Loop{
		A:      Rest,
		B:      Keyframe{Opacity: 0.6, TranslateY: -6, Scale: 1},
		Period: 400 * time.Millisecond,
		Easing: "ease-in-out",
	}
)

// TypingDots returns one loop per dot, neighbours in opposite phase.
func TypingDots(count int) []Loop {
	dots := make([]Loop, 0, count)
	for index := range count {
		dots = append(dots, TypingDot.WithOffset(time.Duration(index)*TypingDot.Period))
	}
	return dots
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
