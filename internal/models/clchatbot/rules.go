package clchatbot

import "fmt"

// rule associe un prédicat à un générateur de réponse.
// L'ordre de la table fait partie du contrat: premier match gagnant.
type rule struct {
	name    string
	match   func(in input) bool
	respond func(in input, conv *Conversation) Reply
}

var rules = []rule{
	// Réponses contextuelles selon la page consultée
	{
		name:  "services-pricing",
		match: func(in input) bool { return in.page == "/services" && in.has("price") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Since you're looking at our services, here's our pricing structure:\n\n" +
					"💼 AI Strategy Session: $299 (perfect for exploring options)\n" +
					"🚀 Implementation Plan: $999 (detailed roadmap)\n" +
					"🏢 Enterprise Consulting: $2,999 (full transformation)\n\n" +
					"Want to see what's included in each package?",
				Suggestions: []string{"What's included?", "View detailed pricing", "Book consultation", "Custom quote"},
			}
		},
	},
	{
		name: "portfolio-help",
		match: func(in input) bool {
			return in.page == "/portfolio" && in.has("my business", "help me")
		},
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Based on the success stories you're viewing, we can definitely help your business too! Our approach includes:\n\n" +
					"🔍 Business analysis\n📋 Custom strategy development\n⚡ Phased implementation\n📊 Results tracking\n\n" +
					"What type of business or industry are you in?",
				Suggestions: []string{"Tell me about my industry", "Schedule assessment", "Custom solution", "ROI projections"},
			}
		},
	},
	{
		name:  "pricing-which",
		match: func(in input) bool { return in.page == "/pricing" && in.has("which") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Great question! Here's how to choose the right package:\n\n" +
					"🎯 New to AI? → Start with Strategy Session\n" +
					"📈 Ready to implement? → Implementation Plan\n" +
					"🏢 Large organization? → Enterprise Consulting\n\n" +
					"Not sure? I can help you decide based on your needs!",
				Suggestions: []string{"I'm new to AI", "Ready to implement", "Large organization", "Help me choose"},
			}
		},
	},
	// Réponses par secteur d'activité
	{
		name:  "industry-retail",
		match: func(in input) bool { return in.has("retail", "ecommerce") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Perfect! We've helped many retail businesses with:\n\n" +
					"🛍️ Personalized recommendations\n📊 Inventory optimization\n💬 Customer service chatbots\n📈 Sales forecasting\n\n" +
					"One client saw 45% increase in conversion rates! Want to see how?",
				Suggestions: []string{"Show retail case study", "Recommendation systems", "Inventory optimization", "Get quote"},
			}
		},
	},
	{
		name:  "industry-manufacturing",
		match: func(in input) bool { return in.has("manufacturing", "factory") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Excellent! Manufacturing is one of our specialties:\n\n" +
					"🏭 Quality control automation\n⚙️ Predictive maintenance\n📊 Production optimization\n🔍 Defect detection\n\n" +
					"We helped a manufacturer achieve 95% defect detection accuracy!",
				Suggestions: []string{"Quality control details", "Predictive maintenance", "View case study", "Manufacturing quote"},
			}
		},
	},
	// Intentions de navigation
	{
		name: "navigate-services",
		match: func(in input) bool {
			return in.has("go to", "show me", "take me to") && in.has("service")
		},
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Perfect! I've taken you to our Services page. Here you can explore our AI consulting " +
					"and automation offerings. What specific service interests you?",
				Suggestions: []string{"AI consulting details", "Automation services", "Custom solutions", "Get pricing"},
				Navigate:    "/services",
			}
		},
	},
	{
		name: "navigate-portfolio",
		match: func(in input) bool {
			return in.has("go to", "show me", "take me to") && in.has("portfolio", "case stud", "success")
		},
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Great! I've navigated you to our Portfolio page where you can see real success stories " +
					"and results we've achieved for clients. Which case study interests you?",
				Suggestions: []string{"E-commerce results", "Customer service automation", "Manufacturing solutions", "Get similar results"},
				Navigate:    "/portfolio",
			}
		},
	},
	{
		name: "navigate-pricing",
		match: func(in input) bool {
			return in.has("go to", "show me", "take me to") && in.has("pricing", "price", "cost")
		},
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text:        "Excellent! Here's our Pricing page with transparent, flexible options. Which package fits your needs?",
				Suggestions: []string{"Strategy session", "Implementation plan", "Enterprise consulting", "Custom quote"},
				Navigate:    "/pricing",
			}
		},
	},
	{
		name: "navigate-contact",
		match: func(in input) bool {
			return in.has("go to", "show me", "take me to") && in.has("contact")
		},
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Perfect! I've taken you to our Contact page. You can reach us multiple ways - phone, " +
					"email, or the contact form. How would you prefer to connect?",
				Suggestions: []string{"Fill contact form", "Call directly", "Schedule meeting", "Get quote"},
				Navigate:    "/contact",
			}
		},
	},
	// Thématiques, dans l'ordre historique du site
	{
		name:  "services",
		match: func(in input) bool { return in.has("service", "what do you do") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "We specialize in AI consulting and automation! Our main services include:\n\n" +
					"🧠 AI Strategy Consulting - Expert guidance for AI adoption\n" +
					"🤖 Business Process Automation - Streamline operations\n" +
					"📊 Data Analytics & Insights - Make data-driven decisions\n" +
					"💬 Chatbot Development - 24/7 customer support\n" +
					"🔍 Computer Vision Solutions - Automated visual analysis\n\n" +
					"Which area interests you most?",
				Suggestions: []string{"Tell me about AI consulting", "How does automation work?", "Show me pricing", "View services page"},
			}
		},
	},
	{
		name:  "pricing",
		match: func(in input) bool { return in.has("price", "cost", "pricing") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Our pricing is transparent and flexible! 💰\n\n" +
					"📋 AI Strategy Session: $299 - Perfect for exploring AI opportunities\n" +
					"🚀 Implementation Plan: $999 - Comprehensive planning for AI integration\n" +
					"🏢 Enterprise Consulting: $2,999 - Complete AI transformation program\n\n" +
					"We also offer custom automation projects starting from $1,999. " +
					"Would you like to see detailed pricing or schedule a free consultation?",
				Suggestions: []string{"View detailed pricing", "Schedule consultation", "What's included?", "Custom quote request"},
			}
		},
	},
	{
		name:  "portfolio",
		match: func(in input) bool { return in.has("success", "portfolio", "case study") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "We've helped businesses achieve amazing results! 🎯\n\n" +
					"📈 45% increase in conversion rates for e-commerce\n" +
					"⚡ 70% reduction in customer response time\n" +
					"🎯 95% accuracy in automated quality control\n\n" +
					"Want to see detailed case studies?",
				Suggestions: []string{"View portfolio", "Read testimonials", "How can you help my business?", "Schedule a consultation"},
			}
		},
	},
	{
		name:  "getting-started",
		match: func(in input) bool { return in.has("start", "begin", "get started") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Getting started is easy! Here's how we can help you begin your AI journey: 🚀\n\n" +
					"1️⃣ Free initial consultation\n2️⃣ Business assessment\n3️⃣ Custom strategy plan\n4️⃣ Implementation support\n\n" +
					"Ready to take the first step?",
				Suggestions: []string{"Book free consultation", "Contact us", "Learn about process", "View pricing"},
			}
		},
	},
	{
		name:  "contact",
		match: func(in input) bool { return in.has("contact", "reach", "phone") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Ready to connect? Here's how to reach us!\n\n" +
					"Phone:\n+263 78 549 4594\n+263 78 258 3119\n\n" +
					"Email:\nngonidzashezimbwa@gmail.com\n\n" +
					"LinkedIn:\nNeuroNet AI Solutions\n\n" +
					"You can also fill out our contact form for a detailed response!",
				Suggestions: []string{"Fill contact form", "Call now", "Schedule meeting", "Ask another question"},
			}
		},
	},
	{
		name:  "automation",
		match: func(in input) bool { return in.has("automation", "automate") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "Business automation is our specialty! 🤖 We can automate:\n\n" +
					"📧 Email workflows\n📞 Customer service responses\n📊 Data processing\n🔄 Repetitive tasks\n📋 Document management\n\n" +
					"What processes would you like to automate?",
				Suggestions: []string{"Customer service automation", "Data processing", "Email workflows", "Custom automation"},
			}
		},
	},
	{
		name:  "ai",
		match: func(in input) bool { return in.has("ai", "artificial intelligence") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "AI can revolutionize your business! 🧠 Here's what we can implement:\n\n" +
					"🎯 Predictive analytics\n💬 Intelligent chatbots\n👁️ Computer vision\n📈 Recommendation engines\n🔍 Smart data analysis\n\n" +
					"Which AI solution interests you most?",
				Suggestions: []string{"Predictive analytics", "Chatbot development", "Computer vision", "Data analysis"},
			}
		},
	},
	{
		name:  "thanks",
		match: func(in input) bool { return in.has("thank", "thanks") },
		respond: func(in input, conv *Conversation) Reply {
			return Reply{
				Text: "You're very welcome! 😊 I'm here whenever you need help with AI solutions. " +
					"Is there anything else you'd like to know about NeuroNet?",
				Suggestions: []string{"Explore services", "View pricing", "Contact team", "See portfolio"},
			}
		},
	},
	// Capture du prénom pour personnaliser la suite
	{
		name: "name-capture",
		match: func(in input) bool {
			return nameRegexp.MatchString(in.lower)
		},
		respond: func(in input, conv *Conversation) Reply {
			name := nameRegexp.FindStringSubmatch(in.lower)[1]
			conv.UserName = name
			return Reply{
				Text: fmt.Sprintf("Nice to meet you, %s! 😊 Now I can provide more personalized assistance. "+
					"What brings you to NeuroNet today?", name),
				Suggestions: ContextualSuggestions(in.page),
			}
		},
	},
}

// defaultReply personnalise la réponse de repli avec le prénom connu
func defaultReply(in input, conv *Conversation) Reply {
	greeting := "That's a great question!"
	if conv.UserName != "" {
		greeting = fmt.Sprintf("Hi %s!", conv.UserName)
	}
	return Reply{
		Text: fmt.Sprintf("%s 🤔 I'm here to help you learn about our AI consulting and automation services. "+
			"You can also:\n\n📞 Call us directly: +263 78 549 4594\n📧 Email: ngonidzashezimbwa95@gmail.com\n"+
			"💼 Connect on LinkedIn\n📋 Fill out our contact form\n\nWhat specific aspect of AI interests you?", greeting),
		Suggestions: ContextualSuggestions(in.page),
	}
}
