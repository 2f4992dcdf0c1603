package routes

import (
	"strings"
	"time"

	chatsvc "chat_widget/internal/services/chat"
)

type themePalette struct {
	AppRoot      string
	Card         string
	Header       string
	HeaderTitle  string
	HeaderMeta   string
	OnlineDot    string
	ThemeToggle  string
	MessageList  string
	BotBubble    string
	UserBubble   string
	BotIcon      string
	UserAvatar   string
	TimeText     string
	TypingDot    string
	Composer     string
	Input        string
	SendButton   string
	AlertOverlay string
	AlertCard    string
	AlertButton  string
}

func paletteFor(dark bool) themePalette {
	if dark {
		return themePalette{
			AppRoot:      "bg-[#0b1320] text-white",
			Card:         "bg-[#0f1a2b] border border-white/10 shadow-2xl",
			Header:       "border-b border-white/10 bg-[#15243a]",
			HeaderTitle:  "text-white",
			HeaderMeta:   "text-white/60",
			OnlineDot:    "bg-emerald-400",
			ThemeToggle:  "border-white/30 text-white hover:bg-white/10",
			MessageList:  "bg-[#0f1a2b]",
			BotBubble:    "bg-[#142235] border-white/10 text-white",
			UserBubble:   "bg-[#2457d6] border-[#3565dc] text-white",
			BotIcon:      "bg-[#29416a] text-white",
			UserAvatar:   "bg-[#2e63e0] text-white",
			TimeText:     "text-white/50",
			TypingDot:    "bg-white/70",
			Composer:     "border-t border-white/10 bg-[#15243a]",
			Input:        "bg-[#0f1a2b] border border-white/20 text-white placeholder:text-white/50",
			SendButton:   "bg-[#2457d6] text-white hover:bg-[#2e63e0]",
			AlertOverlay: "bg-black/60",
			AlertCard:    "bg-[#15243a] border border-red-400/40 text-white",
			AlertButton:  "bg-red-500 text-white hover:bg-red-400",
		}
	}

	return themePalette{
		AppRoot:      "bg-slate-100 text-slate-900",
		Card:         "bg-white border border-slate-200 shadow-xl",
		Header:       "border-b border-slate-200 bg-blue-600",
		HeaderTitle:  "text-white",
		HeaderMeta:   "text-blue-100",
		OnlineDot:    "bg-emerald-300",
		ThemeToggle:  "border-white/40 text-white hover:bg-white/10",
		MessageList:  "bg-slate-50",
		BotBubble:    "bg-white border-slate-200 text-slate-900",
		UserBubble:   "bg-blue-600 border-blue-700 text-white",
		BotIcon:      "bg-blue-100 text-blue-700",
		UserAvatar:   "bg-slate-700 text-white",
		TimeText:     "text-slate-400",
		TypingDot:    "bg-slate-400",
		Composer:     "border-t border-slate-200 bg-white",
		Input:        "bg-white border border-slate-300 text-slate-900 placeholder:text-slate-400",
		SendButton:   "bg-blue-600 text-white hover:bg-blue-700",
		AlertOverlay: "bg-black/40",
		AlertCard:    "bg-white border border-red-300 text-slate-900",
		AlertButton:  "bg-red-600 text-white hover:bg-red-700",
	}
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

const schemeFieldID = "color-scheme-preference"

// parseScheme reads the value the effects island reports for
// prefers-color-scheme.
func parseScheme(value string) (dark bool, ok bool) {
	switch strings.TrimSpace(value) {
	case "dark":
		return true, true
	case "light":
		return false, true
	default:
		return false, false
	}
}

func themeToggleLabel(dark bool) string {
	if dark {
		return "Light"
	}
	return "Dark"
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// canSend reports whether the composer accepts a submission right now.
func canSend(snapshot chatsvc.Snapshot, alertText string) bool {
	if snapshot.IsLoading || alertText != "" {
		return false
	}
	return strings.TrimSpace(snapshot.Draft) != ""
}

func sendButtonClass(enabled bool, palette themePalette) string {
	base := "rounded-full px-4 py-2 text-sm font-semibold transform transition-transform duration-200 "
	if enabled {
		return base + "scale-100 hover:scale-110 active:scale-95 " + palette.SendButton
	}
	return base + "scale-90 opacity-50 cursor-not-allowed " + palette.SendButton
}

func bubbleClass(isBot bool, palette themePalette) string {
	base := "rounded-2xl px-4 py-2 max-w-[75%] border shadow-sm"
	if isBot {
		return base + " rounded-bl-sm " + palette.BotBubble
	}
	return base + " rounded-br-sm " + palette.UserBubble
}

func rowClass(isBot bool) string {
	if isBot {
		return "flex items-end gap-2 justify-start"
	}
	return "flex items-end gap-2 justify-end"
}
