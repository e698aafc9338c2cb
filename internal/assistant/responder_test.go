package assistant

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdnooraj14/portfolio/internal/profile"
)

func TestRespondIntents(t *testing.T) {
	kb := profile.Default()
	r := New(kb)

	tests := []struct {
		input  string
		intent Intent
		want   string
	}{
		{"What's your name?", IntentName, "I represent Mohammed Zakir Nooraj, Backend Developer & MERN Stack, based in Hyderabad, India."},
		{"Who are you", IntentName, ""},
		{"Where are you based?", IntentLocation, "Mohammed Zakir Nooraj is based in Hyderabad, India."},
		{"Contact info", IntentContact, "You can contact Mohammed Zakir Nooraj at mdnooraj14@gmail.com or on LinkedIn (https://www.linkedin.com/in/mohammed-zakir-nooraj)."},
		{"github?", IntentGitHub, "GitHub profile: https://github.com/mdnooraj14"},
		{"linkedin", IntentLinkedIn, "LinkedIn: https://www.linkedin.com/in/mohammed-zakir-nooraj"},
		{"Download resume", IntentResume, "Here is the resume: " + kb.ResumeURL},
		{"What are your skills?", IntentSkills, "Key skills: " + strings.Join(kb.Skills, ", ") + "."},
		{"Show projects", IntentProjects, ""},
		{"Tell me about your experience", IntentExperience, kb.Experience + ". " + kb.Highlights},
		{"Any certifications?", IntentEducation, ""},
		{"help", IntentHelp, helpReply},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, got := r.Match(tt.input)
			assert.Equal(t, tt.intent, intent)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestRespondIsTotal(t *testing.T) {
	r := New(profile.Default())
	inputs := []string{"", " ", "\n\t", "日本語のテキスト", "¿Qué tal?", "🙂🙂", strings.Repeat("x", 10000), "\x00\xff"}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.NotEmpty(t, r.Respond(in))
		})
	}
}

func TestRespondIsDeterministic(t *testing.T) {
	kb := profile.Default()
	for _, in := range []string{"Show projects", "Do you know MongoDB?", "weather", ""} {
		assert.Equal(t, Respond(in, kb), Respond(in, kb))
	}
}

func TestPriorityOrder(t *testing.T) {
	r := New(profile.Default())

	intent, _ := r.Match("resume and skills")
	assert.Equal(t, IntentResume, intent)

	intent, _ = r.Match("skills and projects")
	assert.Equal(t, IntentSkills, intent)

	// "work history" also contains "work", which the projects rule claims first.
	intent, _ = r.Match("work history")
	assert.Equal(t, IntentProjects, intent)
}

func TestSubstringMatchingInsideWords(t *testing.T) {
	r := New(profile.Default())

	// "username" contains "name".
	intent, _ := r.Match("username")
	assert.Equal(t, IntentName, intent)

	// "schoolwork" hits projects ("work") before education ("school").
	intent, _ = r.Match("schoolwork")
	assert.Equal(t, IntentProjects, intent)
}

func TestFuzzySkillMatch(t *testing.T) {
	kb := profile.Default()
	got := Respond("Do you know MongoDB?", kb)
	assert.Equal(t, "Yes, Mohammed Zakir Nooraj works with MongoDB. Full stack: "+strings.Join(kb.Skills, ", ")+".", got)
}

func TestFuzzySkillMatchStripsNonWord(t *testing.T) {
	kb := profile.Default()
	intent, got := New(kb).Match("ever used nodejs?")
	assert.Equal(t, IntentSkillMatch, intent)
	assert.Contains(t, got, "works with Node.js.")
}

func TestFuzzySkillMatchFirstInOrder(t *testing.T) {
	kb := profile.KnowledgeBase{Name: "Ada", Skills: []string{"Go", "Gopher"}}
	_, got := New(kb).Match("gopher life")
	assert.Equal(t, "Yes, Ada works with Go. Full stack: Go, Gopher.", got)
}

func TestSymbolOnlySkillMatchesAnyUnruledInput(t *testing.T) {
	kb := profile.KnowledgeBase{Name: "Ada", Skills: []string{"Rust", "++"}}

	intent, got := New(kb).Match("anything at all")
	assert.Equal(t, IntentSkillMatch, intent)
	assert.Equal(t, "Yes, Ada works with ++. Full stack: Rust, ++.", got)

	// Earlier skills still win.
	_, got = New(kb).Match("rust?")
	assert.Equal(t, "Yes, Ada works with Rust. Full stack: Rust, ++.", got)

	// Rules run before the skill pass.
	intent, _ = New(kb).Match("show projects")
	assert.Equal(t, IntentProjects, intent)
}

func TestNoMatchReturnsFallback(t *testing.T) {
	assert.Equal(t, FallbackReply, Respond("What's the weather today?", profile.Default()))
}

func TestShowProjectsListsEveryProjectInOrder(t *testing.T) {
	kb := profile.Default()
	got := Respond("Show projects", kb)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, len(kb.Projects)+1)
	assert.Equal(t, "Recent projects:", lines[0])
	for i, p := range kb.Projects {
		assert.Equal(t, "• "+p.Name+" — "+p.Link, lines[i+1])
	}
}

func TestCaseInsensitive(t *testing.T) {
	kb := profile.Default()
	want := Respond("skills", kb)
	assert.Equal(t, want, Respond("SKILLS", kb))
	assert.Equal(t, want, Respond("Skills", kb))
}

func TestEducationReplyBullets(t *testing.T) {
	kb := profile.Default()
	got := Respond("education", kb)
	assert.True(t, strings.HasPrefix(got, "Education & Certifications:\n• "))
	for _, e := range kb.Education {
		assert.Contains(t, got, "• "+e)
	}
}

func TestExperienceWithoutHighlights(t *testing.T) {
	kb := profile.Default()
	kb.Highlights = ""
	assert.Equal(t, kb.Experience+".", Respond("experience", kb))
}

func TestResponderOwnsItsKnowledgeBase(t *testing.T) {
	kb := profile.Default()
	r := New(kb)
	before := r.Respond("skills")

	kb.Skills[0] = "COBOL"
	assert.Equal(t, before, r.Respond("skills"))
}

func TestRespondConcurrent(t *testing.T) {
	r := New(profile.Default())
	want := r.Respond("Show projects")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := r.Respond("Show projects"); got != want {
					t.Errorf("got %q, want %q", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRulesOrder(t *testing.T) {
	want := []Intent{
		IntentName, IntentLocation, IntentContact, IntentGitHub, IntentLinkedIn, IntentResume,
		IntentSkills, IntentProjects, IntentExperience, IntentEducation, IntentHelp,
	}
	got := Rules()
	require.Len(t, got, len(want))
	for i, rule := range got {
		assert.Equal(t, want[i], rule.Intent)
	}
}

func TestGreeting(t *testing.T) {
	kb := profile.Default()
	assert.Equal(t, "Hi! I'm MZN Assistant. Ask me about Mohammed Zakir Nooraj's skills, projects, experience, or how to get in touch.", Greeting(kb))

	kb.AssistantName = ""
	assert.True(t, strings.HasPrefix(Greeting(kb), "Hi! I'm the portfolio assistant."))
}

func TestQuickRepliesAllAnswered(t *testing.T) {
	r := New(profile.Default())
	for _, q := range QuickReplies {
		intent, _ := r.Match(q)
		assert.NotEqual(t, IntentFallback, intent, q)
	}
}
