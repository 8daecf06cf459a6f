package domain

import (
	"context"
	"strings"
	"time"
)

type Profile struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email,omitempty"`
	Phone              string      `json:"phone,omitempty"`
	Age                *int        `json:"age,omitempty"`
	Education          string      `json:"education,omitempty"`
	Expertise          string      `json:"expertise,omitempty"`
	ResumeLink         string      `json:"resume_link,omitempty"`
	InterviewerOpinion string      `json:"interviewer_opinion,omitempty"`
	Skills             []string    `json:"skills"`
	Bio                string      `json:"bio,omitempty"`
	ImageURL           string      `json:"image_url,omitempty"`
	AvatarURL          string      `json:"avatar_url,omitempty"` // computed: image_url or a generated avatar
	IsActive           bool        `json:"is_active"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	LatestTouchPoint   *TouchPoint `json:"latest_touch_point,omitempty"`
}

// ProfileInput is the editable part of a profile. Identifiers and
// timestamps are never taken from clients.
type ProfileInput struct {
	Name               string   `json:"name" validate:"required,not_blank,max=200"`
	Email              string   `json:"email" validate:"omitempty,email,max=254"`
	Phone              string   `json:"phone" validate:"omitempty,valid_phone"`
	Age                *int     `json:"age" validate:"omitempty,min=0,max=150"`
	Education          string   `json:"education" validate:"max=300"`
	Expertise          string   `json:"expertise" validate:"max=300"`
	ResumeLink         string   `json:"resume_link" validate:"omitempty,url,http_url,max=2048"`
	InterviewerOpinion string   `json:"interviewer_opinion" validate:"max=5000"`
	Skills             []string `json:"skills" validate:"max=50,dive,max=100"`
	Bio                string   `json:"bio" validate:"max=5000"`
	ImageURL           string   `json:"image_url" validate:"omitempty,url,http_url,max=2048"`
	IsActive           *bool    `json:"is_active"`
}

// NormalizeSkills trims entries, drops empty ones and removes duplicates
// while keeping the first occurrence order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Normalize returns a copy with text fields trimmed and skills cleaned, the
// form that is validated and stored.
func (in ProfileInput) Normalize() ProfileInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Email = strings.TrimSpace(in.Email)
	out.Phone = strings.TrimSpace(in.Phone)
	out.Education = strings.TrimSpace(in.Education)
	out.Expertise = strings.TrimSpace(in.Expertise)
	out.ResumeLink = strings.TrimSpace(in.ResumeLink)
	out.InterviewerOpinion = strings.TrimSpace(in.InterviewerOpinion)
	out.Skills = NormalizeSkills(in.Skills)
	out.Bio = strings.TrimSpace(in.Bio)
	out.ImageURL = strings.TrimSpace(in.ImageURL)
	return out
}

// Apply copies the normalized input onto p. IsActive is only changed when set.
func (in ProfileInput) Apply(p *Profile) {
	in = in.Normalize()
	p.Name = in.Name
	p.Email = in.Email
	p.Phone = in.Phone
	p.Age = in.Age
	p.Education = in.Education
	p.Expertise = in.Expertise
	p.ResumeLink = in.ResumeLink
	p.InterviewerOpinion = in.InterviewerOpinion
	p.Skills = in.Skills
	p.Bio = in.Bio
	p.ImageURL = in.ImageURL
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

const (
	StatusAll      = "all"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type ProfileFilter struct {
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=all active inactive"`
}

// Matches reports whether p satisfies the search term. Name, bio and
// expertise are matched as case-sensitive substrings; skills are matched
// case-insensitively. An empty term matches everything.
func (f ProfileFilter) Matches(p *Profile) bool {
	term := f.Search
	if term == "" {
		return true
	}
	if strings.Contains(p.Name, term) || strings.Contains(p.Bio, term) || strings.Contains(p.Expertise, term) {
		return true
	}
	lower := strings.ToLower(term)
	for _, s := range p.Skills {
		if strings.Contains(strings.ToLower(s), lower) {
			return true
		}
	}
	return false
}

// ProfileDetail is a profile with its discussion.
type ProfileDetail struct {
	Profile     *Profile     `json:"profile"`
	Comments    []Comment    `json:"comments"`
	TouchPoints []TouchPoint `json:"touch_points"`
}

// ImageUpload is a raw uploaded file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// Export is a generated file.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ProfileRepository interface {
	// List returns profiles newest first. A nil active lists every profile.
	List(ctx context.Context, active *bool) ([]Profile, error)
	// GetByID returns nil, nil when no row exists.
	GetByID(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	// Update, SetActive and SetImageURL return nil, nil when no row exists.
	Update(ctx context.Context, profile *Profile) (*Profile, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) (*Profile, error)
	SetImageURL(ctx context.Context, id, imageURL string, at time.Time) (*Profile, error)
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// ImageStorage stores public profile images.
type ImageStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(publicURL string) (string, bool)
}

type ProfileUsecase interface {
	List(ctx context.Context, filter ProfileFilter) ([]Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	GetDetail(ctx context.Context, id string) (*ProfileDetail, error)
	Create(ctx context.Context, input ProfileInput) (*Profile, error)
	Update(ctx context.Context, id string, input ProfileInput) (*Profile, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, active bool) (*Profile, error)
	UploadImage(ctx context.Context, id string, upload ImageUpload) (*Profile, error)
	Export(ctx context.Context) (*Export, error)
}
