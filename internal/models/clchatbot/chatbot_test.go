package clchatbot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldEscalate(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{"mot-clé complexe", "explain neural networks", true},
		{"mot-clé en milieu de phrase", "can you compare your packages", true},
		{"question longue", strings.Repeat("a", 51), true},
		{"questions multiples", "Price? Timeline ok?", true},
		{"question simple", "what are your prices", false},
		{"salutation", "hello", false},
		{"un seul point d'interrogation", "how much?", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldEscalate(tt.question))
		})
	}
}

func TestRespondDeterministic(t *testing.T) {
	conv := &Conversation{}
	first := Respond("tell me about your services", "/", conv)
	second := Respond("tell me about your services", "/", conv)
	assert.Equal(t, first, second)
}

func TestRespondServicesBucket(t *testing.T) {
	reply := Respond("what do you do", "/", &Conversation{})
	assert.Contains(t, reply.Text, "AI Strategy Consulting")
	assert.Contains(t, reply.Suggestions, "Show me pricing")
}

func TestRespondPricingBucket(t *testing.T) {
	reply := Respond("how much does it cost", "/", &Conversation{})
	assert.Contains(t, reply.Text, "$299")
	assert.Contains(t, reply.Text, "$2,999")
}

func TestRespondPageAwarePricing(t *testing.T) {
	// Sur /services, la question tarifaire reçoit la réponse contextuelle,
	// pas la réponse tarifaire générique
	onServices := Respond("what is the price", "/services", &Conversation{})
	assert.Contains(t, onServices.Text, "Since you're looking at our services")

	elsewhere := Respond("what is the price", "/", &Conversation{})
	assert.NotContains(t, elsewhere.Text, "Since you're looking at our services")
	assert.Contains(t, elsewhere.Text, "transparent and flexible")
}

func TestRespondPortfolioContextual(t *testing.T) {
	reply := Respond("can you help me too", "/portfolio", &Conversation{})
	assert.Contains(t, reply.Text, "success stories you're viewing")
}

func TestRespondIndustryBeforeBuckets(t *testing.T) {
	// "retail" contient "ai": la règle secteur doit passer avant le bucket IA
	reply := Respond("we are a retail company", "/", &Conversation{})
	assert.Contains(t, reply.Text, "45% increase in conversion rates")
}

func TestRespondNavigation(t *testing.T) {
	reply := Respond("take me to pricing", "/", &Conversation{})
	assert.Equal(t, "/pricing", reply.Navigate)
	assert.Contains(t, reply.Text, "Pricing page")

	reply = Respond("show me your portfolio", "/", &Conversation{})
	assert.Equal(t, "/portfolio", reply.Navigate)
}

func TestRespondNameCapture(t *testing.T) {
	conv := &Conversation{}

	reply := Respond("my name is Rudo", "/", conv)
	assert.Equal(t, "rudo", conv.UserName)
	assert.Contains(t, reply.Text, "Nice to meet you, rudo")

	// La réponse par défaut est ensuite personnalisée
	reply = Respond("zzz unmatched input", "/", conv)
	assert.Contains(t, reply.Text, "Hi rudo!")
}

func TestRespondDefaultWithoutName(t *testing.T) {
	reply := Respond("zzz unmatched input", "/", &Conversation{})
	assert.Contains(t, reply.Text, "That's a great question!")
	assert.Equal(t, ContextualSuggestions("/"), reply.Suggestions)
}

func TestContextualSuggestions(t *testing.T) {
	assert.Contains(t, ContextualSuggestions("/pricing"), "Which package is right for me?")
	assert.Equal(t, defaultSuggestions, ContextualSuggestions("/unknown"))
}

func TestPageName(t *testing.T) {
	assert.Equal(t, "Home", PageName("/"))
	assert.Equal(t, "Pricing", PageName("/pricing"))
	assert.Empty(t, PageName("/nope"))
}
