package clchatbot

// contextualSuggestions propose des questions adaptées à la page consultée
var contextualSuggestions = map[string][]string{
	"/": {
		"What services do you offer?",
		"How can AI help my business?",
		"Show me success stories",
		"What makes you different?",
	},
	"/services": {
		"How much does consulting cost?",
		"What's included in automation?",
		"Can you help my industry?",
		"Show me the process",
	},
	"/portfolio": {
		"How did you achieve these results?",
		"Can you help my business too?",
		"What industries do you serve?",
		"Schedule a consultation",
	},
	"/pricing": {
		"Which package is right for me?",
		"Do you offer custom pricing?",
		"What's the ROI?",
		"How do I get started?",
	},
	"/blog": {
		"Latest AI trends",
		"Implementation best practices",
		"How to prepare for AI?",
		"Contact for consultation",
	},
	"/about": {
		"What's your experience?",
		"Why should I trust you?",
		"Meet the team",
		"Get a consultation",
	},
	"/contact": {
		"What information do you need?",
		"How quickly do you respond?",
		"Can we schedule a call?",
		"Emergency support",
	},
}

var defaultSuggestions = []string{
	"Tell me about your services",
	"How can you help me?",
	"What are your prices?",
	"Contact information",
}

// ContextualSuggestions retourne les suggestions de la page, ou le jeu par défaut.
func ContextualSuggestions(page string) []string {
	if suggestions, ok := contextualSuggestions[page]; ok {
		return suggestions
	}
	return defaultSuggestions
}
