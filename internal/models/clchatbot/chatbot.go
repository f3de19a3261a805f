package clchatbot

import (
	"regexp"
	"strings"
)

// Reply est la réponse produite par le sélecteur de règles
type Reply struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
	Navigate    string   `json:"navigate,omitempty"`
}

// Conversation porte le seul état conservé entre deux messages:
// le prénom capturé du visiteur.
type Conversation struct {
	UserName string
}

// complexKeywords déclenche l'escalade vers l'IA avant toute règle locale
var complexKeywords = []string{
	"explain", "how does", "why", "what is", "difference between",
	"compare", "technical", "implementation", "algorithm",
	"machine learning", "deep learning", "neural network",
	"artificial intelligence", "methodology", "architecture",
	"integration", "scalability", "performance", "security",
	"compliance", "roi calculation", "business case", "feasibility",
	"timeline", "resources",
}

// ShouldEscalate décide si la question part vers l'IA.
// Le prédicat s'évalue avant le sélecteur de règles.
func ShouldEscalate(question string) bool {
	lower := strings.ToLower(question)

	for _, keyword := range complexKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	if len(question) > 50 {
		return true
	}

	return strings.Count(question, "?") > 1
}

var nameRegexp = regexp.MustCompile(`(?:my name is|i'm|call me)\s+(\w+)`)

// Respond fait passer la question dans la table de règles ordonnée.
// La première règle qui matche gagne, le parcours est déterministe.
func Respond(question, page string, conv *Conversation) Reply {
	in := input{
		raw:   question,
		lower: strings.ToLower(question),
		page:  page,
	}

	for _, r := range rules {
		if r.match(in) {
			return r.respond(in, conv)
		}
	}

	return defaultReply(in, conv)
}

type input struct {
	raw   string
	lower string
	page  string
}

func (in input) has(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(in.lower, s) {
			return true
		}
	}
	return false
}

// PageName traduit un chemin en nom lisible pour le contexte IA
func PageName(path string) string {
	names := map[string]string{
		"/":          "Home",
		"/services":  "Services",
		"/portfolio": "Portfolio",
		"/pricing":   "Pricing",
		"/blog":      "Blog",
		"/about":     "About",
		"/contact":   "Contact",
	}
	if name, ok := names[path]; ok {
		return name
	}
	return ""
}
