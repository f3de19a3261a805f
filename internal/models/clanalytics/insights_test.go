package clanalytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findInsight(insights []Insight, kind string) *Insight {
	for i := range insights {
		if insights[i].Kind == kind {
			return &insights[i]
		}
	}
	return nil
}

func TestInsightsZeroViews(t *testing.T) {
	// Pas de vues: aucun constat, surtout pas de division par zéro
	insights := ComputeInsights(&Dashboard{})
	assert.Empty(t, insights)
	assert.Empty(t, ComputeInsights(nil))
}

func TestInsightTrafficConcentration(t *testing.T) {
	dashboard := &Dashboard{
		TotalViews: 100,
		PageViews: []PageCount{
			{Page: "/", Views: 70},
			{Page: "/services", Views: 30},
		},
		Contacts: 3,
	}
	insights := ComputeInsights(dashboard)
	assert.NotNil(t, findInsight(insights, InsightTrafficConcentration))

	// 60% pile n'est pas "supérieur à 60%"
	dashboard.PageViews[0].Views = 60
	dashboard.PageViews[1].Views = 40
	insights = ComputeInsights(dashboard)
	assert.Nil(t, findInsight(insights, InsightTrafficConcentration))
}

func TestInsightConversionThresholds(t *testing.T) {
	dashboard := &Dashboard{
		TotalViews: 100,
		PageViews:  []PageCount{{Page: "/services", Views: 100}},
	}

	dashboard.Contacts = 1 // 1%
	insights := ComputeInsights(dashboard)
	require.NotNil(t, findInsight(insights, InsightLowConversion))
	assert.Nil(t, findInsight(insights, InsightHighConversion))

	dashboard.Contacts = 3 // 3%, zone neutre
	insights = ComputeInsights(dashboard)
	assert.Nil(t, findInsight(insights, InsightLowConversion))
	assert.Nil(t, findInsight(insights, InsightHighConversion))

	dashboard.Contacts = 6 // 6%
	insights = ComputeInsights(dashboard)
	assert.Nil(t, findInsight(insights, InsightLowConversion))
	require.NotNil(t, findInsight(insights, InsightHighConversion))
}
