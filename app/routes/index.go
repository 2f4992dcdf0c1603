package routes

import (
	"context"
	"errors"
	"time"

	"github.com/vango-go/vango"
	. "github.com/vango-go/vango/el"
	"github.com/vango-go/vango/setup"

	"chat_widget/internal/animation"
	chatsvc "chat_widget/internal/services/chat"
)

func IndexPage(ctx vango.Ctx) *vango.VNode {
	return Div(ChatWidget(vango.NoProps{}))
}

func ChatWidget(props vango.NoProps) vango.Component {
	return vango.Setup(props, func(s vango.SetupCtx[vango.NoProps]) vango.RenderFn {
		dependencies := getDeps()
		sessionCtx := s.Ctx()
		logger := dependencies.Logger.With().Str("component", "widget").Logger()
		frameInterval := dependencies.FrameInterval
		mountedAt := time.Now()

		conversation := chatsvc.NewConversation(dependencies.Store, dependencies.Responder, chatsvc.Options{
			TypingDelay: dependencies.TypingDelay,
			Logger:      dependencies.Logger,
		})

		state := setup.Signal(&s, conversation.Snapshot())
		alertText := setup.Signal(&s, "")
		frame := setup.Signal(&s, 0)

		conversation.OnChange(func(next chatsvc.Snapshot) {
			sessionCtx.Dispatch(func() {
				state.Set(next)
			})
		})
		conversation.OnAlert(func(text string) {
			sessionCtx.Dispatch(func() {
				alertText.Set(text)
			})
		})

		loadHistoryAction := setup.Action(&s,
			func(workCtx context.Context, _ struct{}) (struct{}, error) {
				conversation.Load(workCtx)
				return struct{}{}, nil
			},
			vango.DropWhileRunning(),
		)

		sendAction := setup.Action(&s,
			func(workCtx context.Context, text string) (struct{}, error) {
				return struct{}{}, conversation.Submit(workCtx, text)
			},
			vango.DropWhileRunning(),
			vango.ActionOnError(func(err error) {
				if errors.Is(err, chatsvc.ErrBusy) || errors.Is(err, chatsvc.ErrEmptyMessage) {
					return
				}
				logger.Warn().Err(err).Msg("send aborted")
			}),
		)

		s.OnMount(func() vango.Cleanup {
			loadHistoryAction.Run(struct{}{})

			ticker := time.NewTicker(frameInterval)
			done := make(chan struct{})
			go func() {
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						sessionCtx.Dispatch(func() {
							frame.Set(frame.Peek() + 1)
						})
					}
				}
			}()
			return func() {
				ticker.Stop()
				close(done)
			}
		})

		onSend := func() {
			current := state.Get()
			if !canSend(current, alertText.Get()) {
				return
			}
			sendAction.Run(current.Draft)
		}

		onToggleTheme := func() {
			conversation.ToggleTheme()
		}

		onDismissAlert := func() {
			alertText.Set("")
		}

		onPreferredScheme := func(value string) {
			if scheme, ok := parseScheme(value); ok {
				conversation.ApplyPreferredTheme(scheme)
			}
		}

		return func() *vango.VNode {
			snapshot := state.Get()
			frame.Get()
			now := time.Now()
			elapsed := now.Sub(mountedAt)
			alert := alertText.Get()
			palette := paletteFor(snapshot.IsDarkMode)
			sendEnabled := canSend(snapshot, alert)

			var typingNode *vango.VNode
			if snapshot.IsTyping {
				typingNode = renderTyping(now.Sub(snapshot.TypingSince), elapsed, frameInterval, palette)
			}

			var alertNode *vango.VNode
			if alert != "" {
				alertNode = Div(
					Class("fixed inset-0 z-50 flex items-center justify-center "+palette.AlertOverlay),
					Attr("role", "alertdialog"),
					Attr("aria-modal", "true"),
					Div(Class("rounded-xl p-6 w-80 space-y-4 "+palette.AlertCard),
						Div(Class("text-sm"), Text(alert)),
						Button(
							Class("w-full rounded-md px-3 py-2 text-sm font-semibold "+palette.AlertButton),
							OnClick(onDismissAlert),
							Text("OK"),
						),
					),
				)
			}

			return Div(
				Class("h-screen flex items-center justify-center p-4 "+themeName(snapshot.IsDarkMode)+" "+palette.AppRoot),
				Attr("data-theme", themeName(snapshot.IsDarkMode)),
				Div(Class("w-full max-w-md h-[36rem] flex flex-col rounded-2xl overflow-hidden "+palette.Card),
					Div(Class("px-4 py-3 flex items-center justify-between "+palette.Header),
						Div(Class("flex items-center gap-3"),
							renderBotIcon(palette),
							Div(
								Div(Class("font-semibold "+palette.HeaderTitle), Text("Chat Assistant")),
								Div(Class("flex items-center gap-1.5 text-xs "+palette.HeaderMeta),
									Div(
										Class("h-2 w-2 rounded-full "+palette.OnlineDot),
										Attr("style", animation.OnlinePulse.Style(elapsed)),
									),
									Text("Online"),
								),
							),
						),
						Button(
							Class("rounded-md px-3 py-1.5 text-sm border transition-colors "+palette.ThemeToggle),
							OnClick(onToggleTheme),
							Text(themeToggleLabel(snapshot.IsDarkMode)),
						),
					),
					Div(
						Class("flex-1 overflow-y-auto p-4 space-y-4 "+palette.MessageList),
						Attr("id", "message-list"),
						RangeKeyed(snapshot.Messages,
							func(entry chatsvc.Entry) any { return entry.Key },
							func(entry chatsvc.Entry) *vango.VNode {
								return renderMessage(entry, now.Sub(entry.AddedAt), frameInterval, palette)
							},
						),
						typingNode,
						Div(Attr("id", "message-list-end")),
					),
					Div(Class("p-3 "+palette.Composer),
						Div(Class("flex items-end gap-2"),
							Textarea(
								Class("flex-1 max-h-32 rounded-2xl px-4 py-2 text-sm resize-none disabled:opacity-60 "+palette.Input),
								Attr("rows", "1"),
								Placeholder("Type a message..."),
								Value(snapshot.Draft),
								Disabled(snapshot.IsLoading),
								OnInput(func(value string) {
									conversation.SetDraft(value)
								}),
							),
							Button(
								Class(sendButtonClass(sendEnabled, palette)),
								OnClick(onSend),
								Disabled(!sendEnabled),
								Text("Send"),
							),
						),
					),
				),
				renderEffects(len(snapshot.Messages), snapshot.IsTyping, snapshot.IsDarkMode, frameInterval, onPreferredScheme),
				alertNode,
			)
		}
	})
}

func renderMessage(entry chatsvc.Entry, age, frame time.Duration, palette themePalette) *vango.VNode {
	message := entry.Message
	bubble := Div(Class(bubbleClass(message.IsBot, palette)),
		Div(Class("text-sm whitespace-pre-wrap break-words"), Text(message.Text)),
		Div(Class("mt-1 text-[10px] "+palette.TimeText), Text(formatClock(message.Timestamp.Local()))),
	)

	style := animation.MessageEnter.Style(age, frame)
	if message.IsBot {
		return Div(Class(rowClass(true)), Attr("style", style),
			renderBotIcon(palette),
			bubble,
		)
	}
	return Div(Class(rowClass(false)), Attr("style", style),
		bubble,
		Div(
			Class("h-8 w-8 shrink-0 rounded-full flex items-center justify-center text-xs font-semibold "+palette.UserAvatar),
			Attr("aria-label", "You"),
			Text("You"),
		),
	)
}

func renderTyping(age, elapsed, frame time.Duration, palette themePalette) *vango.VNode {
	dots := animation.TypingDots(3)
	return Div(Class(rowClass(true)),
		Attr("id", "typing-indicator"),
		Attr("style", animation.TypingEnter.Style(age, frame)),
		renderBotIcon(palette),
		Div(Class(bubbleClass(true, palette)),
			Div(Class("flex items-center gap-1 py-1"),
				renderDot(dots[0], elapsed, palette),
				renderDot(dots[1], elapsed, palette),
				renderDot(dots[2], elapsed, palette),
			),
		),
	)
}

func renderDot(loop animation.Loop, elapsed time.Duration, palette themePalette) *vango.VNode {
	return Div(
		Class("h-2 w-2 rounded-full "+palette.TypingDot),
		Attr("style", loop.Style(elapsed)),
	)
}

func renderBotIcon(palette themePalette) *vango.VNode {
	return Div(
		Class("h-8 w-8 shrink-0 rounded-full flex items-center justify-center text-sm "+palette.BotIcon),
		Attr("aria-label", "Assistant"),
		Text("🤖"),
	)
}

// renderEffects mounts the island that scrolls to the latest entry and
// mirrors the theme onto the document element. On mount the island writes
// the OS color scheme into the hidden preference field.
func renderEffects(count int, typing, dark bool, settle time.Duration, onScheme func(string)) *vango.VNode {
	return Div(
		Class("hidden"),
		Textarea(
			Attr("id", schemeFieldID),
			Attr("aria-hidden", "true"),
			Attr("tabindex", "-1"),
			OnInput(onScheme),
		),
		Div(
			Data("module", "/js/islands/widget-effects.js"),
			JSIsland("widget-effects", map[string]any{
				"count":       count,
				"typing":      typing,
				"theme":       themeName(dark),
				"target":      "message-list",
				"settleMs":    settle.Milliseconds(),
				"schemeField": schemeFieldID,
			}),
			IslandPlaceholder(Div()),
		),
	)
}
