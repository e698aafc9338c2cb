package profile

const resumeURL = "https://drive.google.com/file/d/1nBXouS_zcNa2kRHKVaCSbJuI3CZmWKQV/view?usp=sharing"

// Default returns the compiled-in knowledge base. Each call builds fresh
// slices, so callers can never observe each other's copies.
func Default() KnowledgeBase {
	return KnowledgeBase{
		Name:      "Mohammed Zakir Nooraj",
		Role:      "Backend Developer & MERN Stack",
		Location:  "Hyderabad, India",
		Email:     "mdnooraj14@gmail.com",
		GitHub:    "https://github.com/mdnooraj14",
		LinkedIn:  "https://www.linkedin.com/in/mohammed-zakir-nooraj",
		ResumeURL: resumeURL,
		Skills: []string{
			"Node.js", "Express.js", "MongoDB", "React.js", "Redis", "REST APIs", "Swagger/OpenAPI",
			"GitHub", "Postman", "C++", "DSA", "ServiceNow", "LLMs", "AI Agents", "Agentic Workflows",
			"MCP Server", "AIML",
		},
		Projects: []Project{
			{
				Name:        "TechMantra",
				Link:        "https://github.com/mdnooraj14/TechMantra.co_FullStack",
				Description: "Full-stack project",
			},
			{
				Name:        "Hybrid_RAG_LangChain_-_Gemini_-_HuggingFace_for_Resilient_PDF_Q-A",
				Link:        "https://github.com/mdnooraj14/Hybrid_RAG_LangChain_-_Gemini_-_HuggingFace_for_Resilient_PDF_Q-A",
				Description: "RAG pipeline combining Gemini and HuggingFace for robust PDF Q&A.",
			},
			{
				Name:        "Chat_to_Action_Gemini_LLM_with_MCP_for_Real_World_Weather_Data.ipynb",
				Link:        "https://github.com/mdnooraj14/Chat_to_Action_Gemini_LLM_with_MCP_for_Real_World_Weather_Data.ipynb",
				Description: "Chat-to-action agent using Gemini + MCP over live weather data.",
			},
		},
		Experience: "Backend Developer (MERN) at IT4YOURBUSINESS — June 2025 to Present",
		Education: []string{
			"BTECH in Information Technology (GMR Institute of Technology, 2020-2024)",
			"Intermediate (M.P.C) — Naryana Jr College (2018-2020)",
			"10th — Sri Chaitanya Techno School (2017-2018)",
			"Oracle Cloud Infrastructure 2023 Foundations Associate",
			"Java Full-Stack — Tech Mahindra SMART Academy",
		},

		Headline: "I build secure, scalable backends with Node.js, Express, MongoDB, and Redis. " +
			"Passionate about AI agents and cloud-native architectures. Based in Hyderabad.",
		About: "MERN Stack Developer skilled in backend development with Node.js, Redis, and MongoDB. " +
			"I focus on building secure, efficient systems and collaborating in Agile teams to ship " +
			"production-ready software. I'm actively exploring AI/ML, LLMs, and agentic workflows to " +
			"deliver real-world solutions.",
		Highlights: "Core responsibilities: Node.js/Express services, Redis caching/sessions, " +
			"horizontal scaling, and API integration in Agile squads.",
		ExperienceBullets: []string{
			"Built secure, scalable backend services with Node.js & Express.",
			"Implemented Redis caching & session handling for faster apps.",
			"Applied horizontal scaling to support growing user load.",
			"Collaborated across frontend, DevOps, and QA in Agile sprints.",
			"Integrated backend APIs with real-time business requirements.",
		},
		HeroTags: []string{
			"React", "Node.js", "MongoDB", "Express", "Swagger", "ServiceNow", "MachineLearning", "DSA", "GIT",
		},
		AssistantName: "MZN Assistant",
	}
}
