package chat

// greeting is the trilingual welcome shown when the chat opens.
const greeting = "👋 नमस्ते! मैं RideWise AI हूँ 🤖 | Namaskara! Naanu RideWise AI 🤖\n\n**English | हिंदी | ಕನ್ನಡ**\n\nWhat can I help? | मैं क्या मदद करूँ? | ನಾನು ಏನು ಸಹಾಯ ಮಾಡಲು?\n• Peak hours | पीक आवर्स | ಪೀಕ್ ಗಂಟೆಗಳು\n• Weather | मौसम | ಹವಾಮಾನ\n• Demand trends | मांग रुझान | ಬೇಡಿಕೆ ಟ್ರೆಂಡ್\n\n🎤 Mic ಗೆ ಸ್ಪರ್ಶಿಸಿ | Mic दबाएं | Click mic!"

var texts = map[Language]Texts{
	English: {
		Welcome:           "👋 Hi! I'm RideWise AI 🤖",
		Capabilities:      "**What I can help with:**\n• Peak demand hours\n• Weather impact\n• CSV insights\n• Manual parameters",
		Voice:             "🎤 Tap mic to speak",
		Placeholder:       "Ask 'peak hour today'...",
		Listening:         "🎤 Listening... Speak now!",
		VoiceNotSupported: "🎤 Voice not supported. Use Chrome/Safari.",
		PeakHour:          "⏰ **Peak Hour Today: 6 PM**\n\n**269 rentals predicted**\n\n*Pro tip:* Reposition bikes by 5 PM!",
		Weather:           "🌤️ **Weather Impact:**\n• Clear: +20%\n• Rainy: -40%\n• Current: Clear ☀️",
		CSV:               "📁 **CSV Analysis Ready!**\nGo to /hourly/csv",
		Manual:            "⚙️ **Manual Mode:**\nAdjust sliders → Generate forecast!",
	},
	Hindi: {
		Welcome:           "👋 नमस्ते! मैं RideWise AI हूँ 🤖",
		Capabilities:      "**मैं क्या मदद करूँ:**\n• पीक डिमांड घंटे\n• मौसम प्रभाव\n• CSV विश्लेषण\n• मैनुअल पैरामीटर",
		Voice:             "🎤 माइक दबाएं बोलने के लिए",
		Placeholder:       "पूछें 'आज पीक घंटा'...",
		Listening:         "🎤 सुन रहा हूँ... बोलें!",
		VoiceNotSupported: "🎤 वॉइस सपोर्ट नहीं। Chrome/Safari यूज़ करें।",
		PeakHour:          "⏰ **आज पीक घंटा: शाम 6 बजे**\n\n**269 किराए की भविष्यवाणी**\n\n*टिप:* 5 बजे तक बाइक रीपोजिशन करें!",
		Weather:           "🌤️ **मौसम प्रभाव:**\n• साफ: +20%\n• बारिश: -40%\n• अभी: साफ ☀️",
		CSV:               "📁 **CSV विश्लेषण तैयार!**\n/hourly/csv पर जाएं",
		Manual:            "⚙️ **मैनुअल मोड:**\nस्लाइडर एडजस्ट करें → फोरकास्ट जेनरेट!",
	},
	Kannada: {
		Welcome:           "👋 ನಮಸ್ಕಾರ! ನಾನು RideWise AI 🤖",
		Capabilities:      "**ನಾನು ಏನು ಸಹಾಯ ಮಾಡಲು:**\n• ಪೀಕ್ ಡಿಮ್ಯಾಂಡ್ ಗಂಟೆಗಳು\n• ಹವಾಮಾನ ಪರಿಣಾಮ\n• CSV ವಿಶ್ಲೇಷಣೆ\n• ಮ್ಯಾನುಯಲ್ ಪ್ಯಾರಾಮೀಟರ್‌ಗಳು",
		Voice:             "🎤 ಮೈಕ್ ಒತ್ತಿ ಮಾತಾಡಿ",
		Placeholder:       "ಚೆಸ್ಟೀನ್ 'ಇಂದು ಪೀಕ್ ಗಂಟೆ'...",
		Listening:         "🎤 ಕೇಳುತ್ತಿದ್ದೇನೆ... ಮಾತಾಡಿ!",
		VoiceNotSupported: "🎤 ಧ್ವನಿ ಸಪೋರ್ಟ್ ಇಲ್ಲ. Chrome/Safari ಬಳಸಿ.",
		PeakHour:          "⏰ **ಇಂದು ಪೀಕ್ ಗಂಟೆ: 6 PM**\n\n**269 ರೆಂಟಲ್ ಊಹೆ**\n\n*ಟಿಪ್:* 5 PM ರೊಳಗೆ ಬೈಕ್‌ಗಳನ್ನು ರೀಪೊಸಿಷನ್ ಮಾಡಿ!",
		Weather:           "🌤️ **ಹವಾಮಾನ ಪರಿಣಾಮ:**\n• ಸ್ಪಷ್ಟ: +20%\n• ಮಳೆ: -40%\n• ಇಂದು: ಸ್ಪಷ್ಟ ☀️",
		CSV:               "📁 **CSV ವಿಶ್ಲೇಷಣೆ ಸಿದ್ಧ!**\n/hourly/csv ಗೆ ಹೋಗಿ",
		Manual:            "⚙️ **ಮ್ಯಾನುಯಲ್ ಮೋಡ್:**\nಸ್ಲೈಡರ್ ಸರಿಹೊಳೆಸಿ → ಫೋರ್‌ಕಾಸ್ಟ್ ಜನರೇಟ್!",
	},
}
