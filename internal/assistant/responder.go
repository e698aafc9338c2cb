// Package assistant answers portfolio questions from a fixed knowledge base.
//
// Answers come from an ordered table of keyword rules, then a loose match
// against skill names, then a fixed fallback. The same input and knowledge
// base always produce the same reply.
package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mdnooraj14/portfolio/internal/profile"
)

var nonWord = regexp.MustCompile(`\W+`)

type skillKey struct {
	skill string
	key   string
}

// Responder is safe for concurrent use; it holds no mutable state.
type Responder struct {
	kb     profile.KnowledgeBase
	skills []skillKey
}

// New builds a responder over its own copy of kb.
func New(kb profile.KnowledgeBase) *Responder {
	kb = kb.Clone()
	r := &Responder{kb: kb}
	for _, s := range kb.Skills {
		// A skill made only of symbols keys to "", which every input contains.
		r.skills = append(r.skills, skillKey{skill: s, key: skillMatchKey(s)})
	}
	return r
}

// KnowledgeBase returns a copy of the facts the responder answers from.
func (r *Responder) KnowledgeBase() profile.KnowledgeBase {
	return r.kb.Clone()
}

// Respond maps input to a reply. It never fails and never returns "".
func (r *Responder) Respond(input string) string {
	_, reply := r.Match(input)
	return reply
}

// Match is Respond plus the intent that produced the reply.
func (r *Responder) Match(input string) (Intent, string) {
	q := Normalize(input)

	for _, rule := range rules {
		if rule.Matches(q) {
			return rule.Intent, rule.Reply(r.kb)
		}
	}

	for _, s := range r.skills {
		if strings.Contains(q, s.key) {
			return IntentSkillMatch, fmt.Sprintf("Yes, %s works with %s. Full stack: %s.",
				r.kb.Name, s.skill, strings.Join(r.kb.Skills, ", "))
		}
	}

	return IntentFallback, FallbackReply
}

// Respond answers input against kb without keeping a Responder around.
func Respond(input string, kb profile.KnowledgeBase) string {
	return New(kb).Respond(input)
}

// Normalize lowercases input. No tokenizing or trimming happens here.
func Normalize(input string) string {
	return strings.ToLower(input)
}

func skillMatchKey(skill string) string {
	return nonWord.ReplaceAllString(strings.ToLower(skill), "")
}

// Greeting is the bot's opening turn.
func Greeting(kb profile.KnowledgeBase) string {
	name := kb.AssistantName
	if name == "" {
		name = "the portfolio assistant"
	}
	return fmt.Sprintf("Hi! I'm %s. Ask me about %s's skills, projects, experience, or how to get in touch.", name, kb.Name)
}

// QuickReplies are the suggestion chips shown under the conversation.
var QuickReplies = []string{
	"Show projects",
	"Download resume",
	"Contact info",
	"What are your skills?",
	"Where are you based?",
}
