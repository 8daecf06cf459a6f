// Package roster serves the fixed list of mentor pseudo-identities.
package roster

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go-profile-directory/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultMentors is used when no roster file is configured.
var DefaultMentors = []domain.Mentor{
	{ID: "mentor-1", Name: "منتور ۱"},
	{ID: "mentor-2", Name: "منتور ۲"},
	{ID: "mentor-3", Name: "منتور ۳"},
}

type mentorRepository struct {
	mentors []domain.Mentor
	byID    map[string]int
}

type rosterFile struct {
	Mentors []struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		AvatarURL string `yaml:"avatar_url"`
	} `yaml:"mentors"`
}

// NewMentorRepository validates the roster: ids are given the mentor-
// prefix when missing and must be unique, names must be non-empty.
func NewMentorRepository(mentors []domain.Mentor) (domain.MentorRepository, error) {
	repo := &mentorRepository{
		mentors: make([]domain.Mentor, 0, len(mentors)),
		byID:    make(map[string]int, len(mentors)),
	}
	for _, m := range mentors {
		m.ID = strings.TrimSpace(m.ID)
		m.Name = strings.TrimSpace(m.Name)
		if m.ID == "" || m.Name == "" {
			return nil, fmt.Errorf("roster: mentor entries need id and name")
		}
		if !domain.IsMentorID(m.ID) {
			m.ID = domain.MentorIDPrefix + m.ID
		}
		if _, dup := repo.byID[m.ID]; dup {
			return nil, fmt.Errorf("roster: duplicate mentor id %q", m.ID)
		}
		repo.byID[m.ID] = len(repo.mentors)
		repo.mentors = append(repo.mentors, m)
	}
	return repo, nil
}

// LoadMentorRepository reads the roster from a YAML file, or falls back to
// DefaultMentors when path is empty.
func LoadMentorRepository(path string) (domain.MentorRepository, error) {
	if path == "" {
		return NewMentorRepository(DefaultMentors)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	var f rosterFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}
	mentors := make([]domain.Mentor, 0, len(f.Mentors))
	for _, m := range f.Mentors {
		mentors = append(mentors, domain.Mentor{ID: m.ID, Name: m.Name, AvatarURL: m.AvatarURL})
	}
	return NewMentorRepository(mentors)
}

func (r *mentorRepository) List(_ context.Context) ([]domain.Mentor, error) {
	out := make([]domain.Mentor, len(r.mentors))
	copy(out, r.mentors)
	return out, nil
}

func (r *mentorRepository) GetByID(_ context.Context, id string) (*domain.Mentor, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	m := r.mentors[idx]
	return &m, nil
}
