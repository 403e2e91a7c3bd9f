// Package chat answers the dashboard assistant with canned, keyword matched replies in English, Hindi and Kannada.
package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

var ErrEmptyMessage = errors.New("message is empty")

// Language of a reply.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Kannada Language = "kn"
)

// Languages lists the supported languages.
var Languages = []Language{English, Hindi, Kannada}

// Texts are the localized strings of the assistant.
type Texts struct {
	Welcome           string `json:"welcome"`
	Capabilities      string `json:"capabilities"`
	Voice             string `json:"voice"`
	Placeholder       string `json:"placeholder"`
	Listening         string `json:"listening"`
	VoiceNotSupported string `json:"voiceNotSupported"`
	PeakHour          string `json:"peakHour"`
	Weather           string `json:"weather"`
	CSV               string `json:"csv"`
	Manual            string `json:"manual"`
}

// Intent is the topic a message was matched to.
type Intent string

const (
	IntentPeak    Intent = "peak"
	IntentWeather Intent = "weather"
	IntentCSV     Intent = "csv"
	IntentManual  Intent = "manual"
	IntentDefault Intent = "default"
)

// Keywords per intent, checked in this order.
var intents = []struct {
	intent   Intent
	keywords []string
}{
	{IntentPeak, []string{"peak", "पिक", "पीक", "ಪೀಕ್"}},
	{IntentWeather, []string{"weather", "मौसम", "हवा", "ಹವಾ"}},
	{IntentCSV, []string{"csv", "upload"}},
	{IntentManual, []string{"manual", "स्लाइडर", "ಸ್ಲೈಡರ್"}},
}

// Context describes where the chat was opened. It does not change the reply.
type Context struct {
	Page   string         `json:"page,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Reply is the answer to a message.
type Reply struct {
	Language Language `json:"language"`
	Intent   Intent   `json:"intent"`
	Content  string   `json:"content"`
}

// ParseLanguage returns the matching language, falling back to English.
func ParseLanguage(s string) Language {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if lo.Contains(Languages, l) {
		return l
	}
	return English
}

// TextsFor returns the localized strings of a language.
func TextsFor(lang Language) Texts {
	return texts[ParseLanguage(string(lang))]
}

// Greeting returns the trilingual welcome message.
func Greeting() string {
	return greeting
}

// Match returns the intent of a message.
func Match(message string) Intent {
	lower := strings.ToLower(message)
	for _, in := range intents {
		if lo.SomeBy(in.keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			return in.intent
		}
	}
	return IntentDefault
}

// Respond answers a message in the given language.
func Respond(lang Language, message string, ctx *Context) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}

	lang = ParseLanguage(string(lang))
	t := texts[lang]
	intent := Match(message)

	if ctx != nil {
		log.Debug("chat message", "lang", lang, "intent", intent, "page", ctx.Page, "params", ctx.Params)
	}

	var content string
	switch intent {
	case IntentPeak:
		content = t.PeakHour
	case IntentWeather:
		content = t.Weather
	case IntentCSV:
		content = t.CSV
	case IntentManual:
		content = t.Manual
	default:
		content = t.Welcome + "\n\n" + t.Capabilities
	}

	return Reply{Language: lang, Intent: intent, Content: content}, nil
}

// VoiceUnsupported returns the reply used when the client cannot record speech.
func VoiceUnsupported(lang Language) string {
	return TextsFor(lang).VoiceNotSupported
}
