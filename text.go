package main

var (
	HeroTitle  = "Backend Developer"
	HeroAccent = "& MERN"

	StaticHeroNotice = `Static preview (WebGL unavailable). Open in a modern browser/device to view the 3D ring animation.`

	HeroErrorTitle  = "3D preview failed to load."
	HeroErrorDetail = `This environment may be missing WebGL or Three.js features. The rest of the site still works.`

	ContactBlurb = "Let's build something!"

	AssistantPrivacyNote = `Answers come from a fixed Q&A list. Your questions are never stored.`

	FooterCredit = "Built with Go • Gin • Three.js • Tailwind."

	ContactSuccess = "Thank you for your message! I'll get back to you soon."
	ContactFailure = "Sorry, there was an error sending your message. Please try again later."
)
