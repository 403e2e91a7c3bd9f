package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name    string
		lang    Language
		message string
		intent  Intent
		content string
	}{
		{"peak english", English, "When is the PEAK hour today?", IntentPeak, texts[English].PeakHour},
		{"peak hindi keyword", Hindi, "आज पीक कब है", IntentPeak, texts[Hindi].PeakHour},
		{"peak kannada keyword", Kannada, "ಪೀಕ್ ಗಂಟೆ", IntentPeak, texts[Kannada].PeakHour},
		{"weather", English, "how does weather matter", IntentWeather, texts[English].Weather},
		{"weather hindi", Hindi, "मौसम", IntentWeather, texts[Hindi].Weather},
		{"csv", English, "Can I upload a file?", IntentCSV, texts[English].CSV},
		{"manual", Kannada, "manual please", IntentManual, texts[Kannada].Manual},
		{"peak wins over weather", English, "weather at peak", IntentPeak, texts[English].PeakHour},
		{"fallback", English, "hello", IntentDefault, texts[English].Welcome + "\n\n" + texts[English].Capabilities},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := Respond(tt.lang, tt.message, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, reply.Intent)
			assert.Equal(t, tt.content, reply.Content)
			assert.Equal(t, tt.lang, reply.Language)
		})
	}
}

func TestRespond_UnknownLanguageFallsBack(t *testing.T) {
	reply, err := Respond("fr", "peak", &Context{Page: "dashboard"})
	require.NoError(t, err)
	assert.Equal(t, English, reply.Language)
	assert.Contains(t, reply.Content, "Peak Hour Today: 6 PM")
}

func TestRespond_Empty(t *testing.T) {
	_, err := Respond(English, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, Hindi, ParseLanguage("HI"))
	assert.Equal(t, Kannada, ParseLanguage(" kn "))
	assert.Equal(t, English, ParseLanguage(""))
}

func TestGreetingAndVoice(t *testing.T) {
	assert.Contains(t, Greeting(), "RideWise AI")
	assert.Contains(t, Greeting(), "ಕನ್ನಡ")
	assert.Equal(t, "🎤 Voice not supported. Use Chrome/Safari.", VoiceUnsupported(English))
	assert.Equal(t, VoiceUnsupported(English), VoiceUnsupported("xx"))
}

func TestTextsComplete(t *testing.T) {
	for _, lang := range Languages {
		tx := TextsFor(lang)
		assert.NotEmpty(t, tx.Welcome, lang)
		assert.NotEmpty(t, tx.PeakHour, lang)
		assert.NotEmpty(t, tx.Weather, lang)
		assert.NotEmpty(t, tx.CSV, lang)
		assert.NotEmpty(t, tx.Manual, lang)
		assert.NotEmpty(t, tx.VoiceNotSupported, lang)
	}
}
