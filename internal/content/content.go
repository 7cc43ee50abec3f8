// Package content holds the site copy: navigation, project cards, skills,
// the about timeline, contact details and the resume.
package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

type Link struct {
	Label  string `yaml:"label"`
	Anchor string `yaml:"anchor"`
}

type Hero struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Tagline  string `yaml:"tagline"`
}

// Project is a card that opens a demo of the same id.
type Project struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	ModalTitle  string   `yaml:"modal_title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// Heading is the modal title, falling back to the card title.
func (p Project) Heading() string {
	if p.ModalTitle != "" {
		return p.ModalTitle
	}
	return p.Title
}

type Section struct {
	Anchor   string    `yaml:"anchor"`
	Title    string    `yaml:"title"`
	Blurb    string    `yaml:"blurb"`
	Projects []Project `yaml:"projects"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type SkillCategory struct {
	Title  string  `yaml:"title"`
	Skills []Skill `yaml:"skills"`
}

type Skills struct {
	Categories []SkillCategory `yaml:"categories"`
	Tools      []string        `yaml:"tools"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type Milestone struct {
	Year        string `yaml:"year"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type About struct {
	Heading    string      `yaml:"heading"`
	Paragraphs []string    `yaml:"paragraphs"`
	Stats      []Stat      `yaml:"stats"`
	Timeline   []Milestone `yaml:"timeline"`
}

type Social struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type Contact struct {
	Heading  string   `yaml:"heading"`
	Blurb    string   `yaml:"blurb"`
	Email    string   `yaml:"email"`
	Phone    string   `yaml:"phone"`
	Location string   `yaml:"location"`
	Socials  []Social `yaml:"socials"`
	Success  string   `yaml:"success"`
}

type Job struct {
	Company string   `yaml:"company"`
	Role    string   `yaml:"role"`
	Dates   string   `yaml:"dates"`
	Bullets []string `yaml:"bullets"`
}

type Credential struct {
	Title       string `yaml:"title"`
	Institution string `yaml:"institution"`
}

type Resume struct {
	Name            string       `yaml:"name"`
	Headline        string       `yaml:"headline"`
	Email           string       `yaml:"email"`
	Phone           string       `yaml:"phone"`
	DownloadName    string       `yaml:"download_name"`
	Summary         string       `yaml:"summary"`
	Accomplishments []string     `yaml:"accomplishments"`
	Experience      []Job        `yaml:"experience"`
	Education       []Credential `yaml:"education"`
}

// Site is the whole page copy.
type Site struct {
	Title    string    `yaml:"title"`
	Nav      []Link    `yaml:"nav"`
	Hero     Hero      `yaml:"hero"`
	Sections []Section `yaml:"sections"`
	Skills   Skills    `yaml:"skills"`
	About    About     `yaml:"about"`
	Contact  Contact   `yaml:"contact"`
	Resume   Resume    `yaml:"resume"`
}

// Project finds a project card by id.
func (s *Site) Project(id string) (Project, bool) {
	for _, sec := range s.Sections {
		for _, p := range sec.Projects {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Project{}, false
}

// Default parses the embedded site copy.
func Default() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes and checks site copy.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) validate() error {
	if s.Resume.DownloadName == "" {
		return errors.New("site content: resume download_name is required")
	}
	seen := map[string]bool{}
	for _, sec := range s.Sections {
		for _, p := range sec.Projects {
			if p.ID == "" {
				return fmt.Errorf("site content: project %q in %s has no id", p.Title, sec.Anchor)
			}
			if seen[p.ID] {
				return fmt.Errorf("site content: duplicate project id %q", p.ID)
			}
			seen[p.ID] = true
		}
	}
	for _, c := range s.Skills.Categories {
		for _, sk := range c.Skills {
			if sk.Level < 0 || sk.Level > 100 {
				return fmt.Errorf("site content: skill %q level %d out of range", sk.Name, sk.Level)
			}
		}
	}
	return nil
}
