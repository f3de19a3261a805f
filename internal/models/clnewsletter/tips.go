package clnewsletter

import "math/rand"

// Tip est un conseil d'automatisation du jour.
// Le contenu est rédigé en Markdown puis rendu en HTML pour l'email.
type Tip struct {
	Title   string
	Content string
}

var tips = []Tip{
	{
		Title: "Automate Customer Support",
		Content: "AI chatbots can handle **80%** of customer inquiries instantly, reducing response time " +
			"from hours to seconds while cutting support costs by up to **60%**.",
	},
	{
		Title: "Streamline Data Entry",
		Content: "Automated data processing can eliminate manual entry errors and save **15-20 hours per week** " +
			"for small businesses, allowing teams to focus on growth activities.",
	},
	{
		Title: "Smart Inventory Management",
		Content: "AI-powered inventory systems predict demand patterns and optimize stock levels, reducing waste " +
			"by **30%** and preventing stockouts that cost businesses revenue.",
	},
	{
		Title: "Automated Social Media",
		Content: "AI can schedule, create, and optimize social media posts across all platforms, increasing " +
			"engagement by **40%** while saving **10+ hours** weekly.",
	},
	{
		Title: "Intelligent Email Marketing",
		Content: "AI personalizes email campaigns based on customer behavior, improving open rates by **25%** " +
			"and conversion rates by **35%** compared to generic campaigns.",
	},
	{
		Title: "Financial Process Automation",
		Content: "Automate invoicing, expense tracking, and financial reporting to reduce accounting time " +
			"by **50%** and eliminate human errors in financial data.",
	},
}

// PickTip retourne le conseil du jour, tiré au hasard dans le catalogue.
func PickTip() Tip {
	return tips[rand.Intn(len(tips))]
}

// Subject construit l'objet de la campagne pour un conseil donné.
func Subject(tip Tip, siteName string) string {
	return "Transform Your Business Today: " + tip.Title + " | " + siteName
}
