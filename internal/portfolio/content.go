// Package portfolio loads the static content rendered by the portfolio sections.
package portfolio

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

type Content struct {
	Profile    Profile         `yaml:"profile" json:"profile"`
	About      About           `yaml:"about" json:"about"`
	Skills     []SkillCategory `yaml:"skills" json:"skills"`
	Projects   []Project       `yaml:"projects" json:"projects"`
	Experience []Experience    `yaml:"experience" json:"experience"`
	Education  Education       `yaml:"education" json:"education"`
	Contact    []ContactLink   `yaml:"contact" json:"contact"`
}

type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Headline string `yaml:"headline" json:"headline"`
	Tagline  string `yaml:"tagline" json:"tagline"`
	Resume   string `yaml:"resume" json:"resume,omitempty"`
}

type About struct {
	Summary    []string `yaml:"summary" json:"summary"`
	Highlights []string `yaml:"highlights" json:"highlights"`
}

type SkillCategory struct {
	Title  string   `yaml:"title" json:"title"`
	Skills []string `yaml:"skills" json:"skills"`
}

type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	GitHub       string   `yaml:"github" json:"github,omitempty"`
	Demo         string   `yaml:"demo" json:"demo,omitempty"`
	Image        string   `yaml:"image" json:"image,omitempty"`
}

type Experience struct {
	Title        string   `yaml:"title" json:"title"`
	Organization string   `yaml:"organization" json:"organization"`
	Period       string   `yaml:"period" json:"period"`
	Type         string   `yaml:"type" json:"type"`
	Highlights   []string `yaml:"highlights" json:"highlights"`
}

type Education struct {
	Degrees        []Degree `yaml:"degrees" json:"degrees"`
	Certifications []string `yaml:"certifications" json:"certifications"`
}

type Degree struct {
	Title       string `yaml:"title" json:"title"`
	Institution string `yaml:"institution" json:"institution"`
	Period      string `yaml:"period" json:"period"`
}

type ContactLink struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
	Href  string `yaml:"href" json:"href,omitempty"`
}

// Sections lists the section names in page order.
var Sections = []string{"profile", "about", "skills", "projects", "experience", "education", "contact"}

// Parse decodes a content document. Unknown keys are rejected so typos in the
// YAML surface at startup.
func Parse(raw []byte) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("portfolio: decode content: %w", err)
	}
	if c.Profile.Name == "" {
		return nil, fmt.Errorf("portfolio: profile.name is required")
	}
	return &c, nil
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Section returns one named section, or false if the name is unknown.
func (c *Content) Section(name string) (interface{}, bool) {
	switch name {
	case "profile":
		return c.Profile, true
	case "about":
		return c.About, true
	case "skills":
		return c.Skills, true
	case "projects":
		return c.Projects, true
	case "experience":
		return c.Experience, true
	case "education":
		return c.Education, true
	case "contact":
		return c.Contact, true
	}
	return nil, false
}
