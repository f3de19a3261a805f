package clai

import (
	"regexp"
	"strings"

	stripmd "github.com/writeas/go-strip-markdown"
)

// L'IA glisse parfois du markdown malgré la consigne, on nettoie
// avant affichage dans la bulle de chat.
var (
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	bulletRe     = regexp.MustCompile(`(?m)^[\s]*[-*+]\s+`)
	spacesRe     = regexp.MustCompile(`[ \t]{3,}`)
	newlinesRe   = regexp.MustCompile(`\n{3,}`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletMarker = "• "
)

// Sanitize retire le markdown d'une réponse IA en gardant la
// structure lisible: les listes deviennent des puces.
func Sanitize(reply string) string {
	// Les puces d'abord, stripmd les aplatirait
	reply = bulletRe.ReplaceAllString(reply, bulletMarker)
	reply = boldRe.ReplaceAllString(reply, "$1")
	reply = italicRe.ReplaceAllString(reply, "$1")
	reply = headingRe.ReplaceAllString(reply, "")

	// Puis le reste du markdown (liens, code, images), ligne par ligne
	// pour préserver les sauts de ligne du texte
	lines := strings.Split(reply, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, bulletMarker) {
			lines[i] = bulletMarker + stripmd.Strip(strings.TrimPrefix(line, bulletMarker))
		} else {
			lines[i] = stripmd.Strip(line)
		}
	}
	reply = strings.Join(lines, "\n")

	reply = spacesRe.ReplaceAllString(reply, " ")
	reply = newlinesRe.ReplaceAllString(reply, "\n\n")
	return strings.TrimSpace(reply)
}
