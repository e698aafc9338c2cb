package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mdnooraj14/portfolio/internal/profile"
)

// Intent names the topic a reply answered.
type Intent string

const (
	IntentName       Intent = "name"
	IntentLocation   Intent = "location"
	IntentContact    Intent = "contact"
	IntentGitHub     Intent = "github"
	IntentLinkedIn   Intent = "linkedin"
	IntentResume     Intent = "resume"
	IntentSkills     Intent = "skills"
	IntentProjects   Intent = "projects"
	IntentExperience Intent = "experience"
	IntentEducation  Intent = "education"
	IntentHelp       Intent = "help"
	IntentSkillMatch Intent = "skill_match"
	IntentFallback   Intent = "fallback"
)

// Rule pairs a pattern over normalized input with the reply it produces.
type Rule struct {
	Intent  Intent
	Pattern *regexp.Regexp
	Reply   func(kb profile.KnowledgeBase) string
}

// Matches reports whether normalized input triggers the rule. Matching is
// substring based, so a keyword inside a longer word still counts.
func (r Rule) Matches(normalized string) bool {
	return r.Pattern.MatchString(normalized)
}

// FallbackReply is returned when neither a rule nor a skill name matches.
const FallbackReply = "I couldn't find that in the portfolio. Try asking about skills, projects, experience, education, GitHub, LinkedIn, or resume."

const helpReply = "Try asking: \n" +
	"• \"What are your skills?\"\n" +
	"• \"Show projects\"\n" +
	"• \"How can I contact you?\"\n" +
	"• \"Download resume\"\n" +
	"• \"Where are you based?\""

// rules is evaluated top to bottom; the first match wins.
var rules = []Rule{
	{
		Intent:  IntentName,
		Pattern: regexp.MustCompile(`(?i)(name|who (are|is) you|owner)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return fmt.Sprintf("I represent %s, %s, based in %s.", kb.Name, kb.Role, kb.Location)
		},
	},
	{
		Intent:  IntentLocation,
		Pattern: regexp.MustCompile(`(?i)(location|based|where)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return fmt.Sprintf("%s is based in %s.", kb.Name, kb.Location)
		},
	},
	{
		Intent:  IntentContact,
		Pattern: regexp.MustCompile(`(?i)(email|contact|reach|mail)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return fmt.Sprintf("You can contact %s at %s or on LinkedIn (%s).", kb.Name, kb.Email, kb.LinkedIn)
		},
	},
	{
		Intent:  IntentGitHub,
		Pattern: regexp.MustCompile(`(?i)(github|code|repos)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return "GitHub profile: " + kb.GitHub
		},
	},
	{
		Intent:  IntentLinkedIn,
		Pattern: regexp.MustCompile(`(?i)linkedin`),
		Reply: func(kb profile.KnowledgeBase) string {
			return "LinkedIn: " + kb.LinkedIn
		},
	},
	{
		Intent:  IntentResume,
		Pattern: regexp.MustCompile(`(?i)(resume|cv|download)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return "Here is the resume: " + kb.ResumeURL
		},
	},
	{
		Intent:  IntentSkills,
		Pattern: regexp.MustCompile(`(?i)(skill|stack|tech|technolog)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return fmt.Sprintf("Key skills: %s.", strings.Join(kb.Skills, ", "))
		},
	},
	{
		Intent:  IntentProjects,
		Pattern: regexp.MustCompile(`(?i)(project|portfolio|work)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return "Recent projects:\n" + FormatProjects(kb.Projects)
		},
	},
	{
		// "work history" is shadowed by the projects rule above; kept so the
		// topic's keyword set stays complete if the order ever changes.
		Intent:  IntentExperience,
		Pattern: regexp.MustCompile(`(?i)(experience|job|work history)`),
		Reply: func(kb profile.KnowledgeBase) string {
			if kb.Highlights == "" {
				return kb.Experience + "."
			}
			return kb.Experience + ". " + kb.Highlights
		},
	},
	{
		Intent:  IntentEducation,
		Pattern: regexp.MustCompile(`(?i)(education|cert|degree|college|school)`),
		Reply: func(kb profile.KnowledgeBase) string {
			return "Education & Certifications:\n• " + strings.Join(kb.Education, "\n• ")
		},
	},
	{
		Intent:  IntentHelp,
		Pattern: regexp.MustCompile(`(?i)(help|what can you do|commands?)`),
		Reply: func(profile.KnowledgeBase) string {
			return helpReply
		},
	},
}

// Rules returns a copy of the rule table in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// FormatProjects renders one "• name — link" line per project, in order.
func FormatProjects(projects []profile.Project) string {
	lines := make([]string, len(projects))
	for i, p := range projects {
		lines[i] = fmt.Sprintf("• %s — %s", p.Name, p.Link)
	}
	return strings.Join(lines, "\n")
}
