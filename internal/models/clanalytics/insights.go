package clanalytics

import "fmt"

// Insight est un constat consultatif dérivé du tableau de bord.
// La couche est séparée de l'agrégation pour rester testable à seuils fixes.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	InsightTrafficConcentration = "traffic_concentration"
	InsightLowConversion        = "low_conversion"
	InsightHighConversion       = "high_conversion"
)

// Seuils consultatifs, en pourcentage.
const (
	homepageShareThreshold = 60.0
	lowConversionThreshold = 2.0
	highConversionRate     = 5.0
)

// ComputeInsights dérive les constats d'un tableau de bord.
// Aucune vue dans la fenêtre donne une liste vide, jamais une division par zéro.
func ComputeInsights(d *Dashboard) []Insight {
	insights := []Insight{}
	if d == nil || d.TotalViews == 0 {
		return insights
	}

	var homepageViews int64
	for _, pc := range d.PageViews {
		if pc.Page == "/" {
			homepageViews = pc.Views
			break
		}
	}

	homepageShare := float64(homepageViews) / float64(d.TotalViews) * 100
	if homepageShare > homepageShareThreshold {
		insights = append(insights, Insight{
			Kind: InsightTrafficConcentration,
			Message: fmt.Sprintf(
				"%.0f%% du trafic reste sur la page d'accueil, les pages services et tarifs sont peu explorées",
				homepageShare),
		})
	}

	conversion := float64(d.Contacts) / float64(d.TotalViews) * 100
	switch {
	case conversion < lowConversionThreshold:
		insights = append(insights, Insight{
			Kind: InsightLowConversion,
			Message: fmt.Sprintf(
				"Taux de conversion contact faible (%.2f%%), envisager un appel à l'action plus visible",
				conversion),
		})
	case conversion > highConversionRate:
		insights = append(insights, Insight{
			Kind: InsightHighConversion,
			Message: fmt.Sprintf(
				"Taux de conversion contact élevé (%.2f%%), le trafic actuel est très qualifié",
				conversion),
		})
	}

	return insights
}
