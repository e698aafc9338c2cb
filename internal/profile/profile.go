// Package profile holds the portfolio owner's knowledge base: the fixed facts the
// site renders and the assistant answers from.
package profile

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid knowledge base")

type Project struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Link        string `yaml:"link" json:"link" validate:"required,url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// KnowledgeBase is built once at startup and passed by value afterwards.
// Nothing in the module mutates one after construction; use Clone when a
// holder needs its own copy of the slices.
type KnowledgeBase struct {
	Name       string    `yaml:"name" json:"name" validate:"required"`
	Role       string    `yaml:"role" json:"role" validate:"required"`
	Location   string    `yaml:"location" json:"location"`
	Email      string    `yaml:"email" json:"email" validate:"required,email"`
	GitHub     string    `yaml:"github" json:"github" validate:"omitempty,url"`
	LinkedIn   string    `yaml:"linkedin" json:"linkedin" validate:"omitempty,url"`
	ResumeURL  string    `yaml:"resume_url" json:"resume_url" validate:"omitempty,url"`
	Skills     []string  `yaml:"skills" json:"skills"`
	Projects   []Project `yaml:"projects" json:"projects" validate:"dive"`
	Experience string    `yaml:"experience" json:"experience"`
	Education  []string  `yaml:"education" json:"education"`

	// Page content. The assistant only reads Highlights and AssistantName.
	Headline          string   `yaml:"headline,omitempty" json:"headline,omitempty"`
	About             string   `yaml:"about,omitempty" json:"about,omitempty"`
	Highlights        string   `yaml:"highlights,omitempty" json:"highlights,omitempty"`
	ExperienceBullets []string `yaml:"experience_bullets,omitempty" json:"experience_bullets,omitempty"`
	HeroTags          []string `yaml:"hero_tags,omitempty" json:"hero_tags,omitempty"`
	AssistantName     string   `yaml:"assistant_name,omitempty" json:"assistant_name,omitempty"`
}

// Clone returns a deep copy.
func (kb KnowledgeBase) Clone() KnowledgeBase {
	out := kb
	out.Skills = cloneStrings(kb.Skills)
	out.Education = cloneStrings(kb.Education)
	out.ExperienceBullets = cloneStrings(kb.ExperienceBullets)
	out.HeroTags = cloneStrings(kb.HeroTags)
	if kb.Projects != nil {
		out.Projects = make([]Project, len(kb.Projects))
		copy(out.Projects, kb.Projects)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Validate checks required fields and link formats.
func (kb KnowledgeBase) Validate() error {
	if err := validator.New().Struct(kb); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrInvalid, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LoadFile decodes a YAML knowledge base. Fields missing from the file keep
// the values from Default, so an override only has to list what differs.
func LoadFile(path string) (KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KnowledgeBase{}, fmt.Errorf("reading knowledge file: %w", err)
	}

	kb := Default()
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return KnowledgeBase{}, fmt.Errorf("decoding knowledge file %s: %w", path, err)
	}
	if err := kb.Validate(); err != nil {
		return KnowledgeBase{}, err
	}
	return kb, nil
}

// Load returns the override from path, or Default when path is empty.
func Load(path string) (KnowledgeBase, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
