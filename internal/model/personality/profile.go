package personality

// Style names a conversational register applied on top of agent responses.
type Style string

const (
	Friendly     Style = "friendly"
	Professional Style = "professional"
	Casual       Style = "casual"
)

// DefaultStyle is used when nothing else is configured.
const DefaultStyle = Friendly

// Profile captures the word lists and probabilities of a style.
type Profile struct {
	Greetings            []string
	Closings             []string
	Acknowledgments      []string
	Transitions          []string
	Fillers              []string
	Emojis               []string
	EmojiFrequency       float64
	ExclamationFrequency float64
}

// Styles lists every built-in style in a stable order.
func Styles() []Style {
	return []Style{Friendly, Professional, Casual}
}

// Names returns the style names, useful for error payloads.
func Names() []string {
	styles := Styles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return names
}

// ParseStyle resolves a style name. Only the exact lowercase keys match.
func ParseStyle(name string) (Style, bool) {
	switch Style(name) {
	case Friendly:
		return Friendly, true
	case Professional:
		return Professional, true
	case Casual:
		return Casual, true
	default:
		return "", false
	}
}

// Profile returns the immutable profile for the style.
func (s Style) Profile() Profile {
	switch s {
	case Professional:
		return Profile{
			Greetings: []string{"Good day", "Greetings", "Hello", "Welcome"},
			Closings: []string{
				"Please let me know if you require further assistance.",
				"I'm available if you have additional questions.",
				"Don't hesitate to reach out for more information.",
				"Thank you for your inquiry.",
			},
			Acknowledgments:      []string{"I understand", "Noted", "I see", "Understood"},
			Transitions:          []string{"Therefore", "Additionally", "Furthermore", "Moreover"},
			Fillers:              []string{"specifically", "particularly", "notably", "indeed"},
			ExclamationFrequency: 0.1,
		}
	case Casual:
		return Profile{
			Greetings: []string{"Hey!", "What's up?", "Hi!", "Howdy!"},
			Closings: []string{
				"Catch you later!",
				"Hope that works for you!",
				"Let me know if you need anything!",
				"Take care!",
			},
			Acknowledgments:      []string{"Sure thing", "Got it", "I hear ya", "Totally"},
			Transitions:          []string{"So", "Anyway", "Alright", "OK"},
			Fillers:              []string{"like", "kinda", "pretty much", "sort of"},
			Emojis:               []string{"😊", "👍", "✌️", "🙂", "😉", "🤔", "💯"},
			EmojiFrequency:       0.5,
			ExclamationFrequency: 0.6,
		}
	default:
		return Profile{
			Greetings: []string{"Hi there!", "Hello!", "Hey!", "Greetings!"},
			Closings: []string{
				"Hope that helps!",
				"Let me know if you need anything else!",
				"I'm here if you have more questions!",
				"Happy to assist further!",
			},
			Acknowledgments:      []string{"I understand", "I see", "Got it", "I hear you"},
			Transitions:          []string{"So", "Well", "Now", "Alright"},
			Fillers:              []string{"actually", "you know", "basically", "essentially"},
			Emojis:               []string{"😊", "👍", "✨", "🙌"},
			EmojiFrequency:       0.3,
			ExclamationFrequency: 0.4,
		}
	}
}
