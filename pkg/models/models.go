package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Credentials is the body of the signup and login requests
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /auth/signup and /auth/login
type AuthResponse struct {
	AccessToken               string `json:"access_token,omitempty"`
	TokenType                 string `json:"token_type,omitempty"`
	Message                   string `json:"message,omitempty"`
	Detail                    string `json:"detail,omitempty"`
	EmailConfirmationRequired bool   `json:"email_confirmation_required,omitempty"`
}

// UploadResponse is returned by /auth/upload-resume. The backend answers
// either with {message, user_id, filename} or with {message, status}.
type UploadResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id,omitempty"`
	Filename string `json:"filename,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ProcessingStatusResponse is returned by /auth/processing-status
type ProcessingStatusResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	Step         string `json:"step,omitempty"`
	MatchesFound int    `json:"matches_found,omitempty"`
}

// UserProfile mirrors the backend user_profiles row
type UserProfile struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	FullName        string           `json:"full_name,omitempty"`
	Email           string           `json:"email,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Location        string           `json:"location,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	ExperienceYears int              `json:"experience_years,omitempty"`
	EducationLevel  string           `json:"education_level,omitempty"`
	LinkedInURL     string           `json:"linkedin_url,omitempty"`
	GitHubURL       string           `json:"github_url,omitempty"`
	ResumeFilename  string           `json:"resume_filename,omitempty"`
	Education       []UserEducation  `json:"education,omitempty"`
	Experience      []UserExperience `json:"experience,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
	UpdatedAt       string           `json:"updated_at,omitempty"`
}

// UserSkill is a skill extracted from the uploaded resume
type UserSkill struct {
	ID              string  `json:"id,omitempty"`
	UserID          string  `json:"user_id,omitempty"`
	SkillName       string  `json:"skill_name"`
	SkillType       string  `json:"skill_type,omitempty"` // technical, soft
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// UnmarshalJSON accepts both a bare skill name and a full skill object.
func (s *UserSkill) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = UserSkill{SkillName: name}
		return nil
	}

	type plain UserSkill
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode skill: %w", err)
	}
	*s = UserSkill(p)
	return nil
}

// SkillsResponse covers both shapes of /auth/skills
type SkillsResponse struct {
	TechnicalSkills []UserSkill `json:"technical_skills,omitempty"`
	SoftSkills      []UserSkill `json:"soft_skills,omitempty"`
	TotalCount      int         `json:"total_count,omitempty"`
	Skills          []UserSkill `json:"skills,omitempty"`
	Total           int         `json:"total,omitempty"`
}

// SkillSet is the normalized form of SkillsResponse
type SkillSet struct {
	Technical []UserSkill `json:"technical"`
	Soft      []UserSkill `json:"soft"`
	Other     []UserSkill `json:"other,omitempty"`
	Total     int         `json:"total"`
}

// Normalize folds either response shape into a SkillSet. Flat skill lists
// are split on SkillType; untyped entries land in Other.
func (r *SkillsResponse) Normalize() *SkillSet {
	set := &SkillSet{
		Technical: append([]UserSkill{}, r.TechnicalSkills...),
		Soft:      append([]UserSkill{}, r.SoftSkills...),
	}
	for _, skill := range r.Skills {
		switch skill.SkillType {
		case "technical":
			set.Technical = append(set.Technical, skill)
		case "soft":
			set.Soft = append(set.Soft, skill)
		default:
			set.Other = append(set.Other, skill)
		}
	}

	counted := len(set.Technical) + len(set.Soft) + len(set.Other)
	switch {
	case r.TotalCount > 0:
		set.Total = r.TotalCount
	case r.Total > 0:
		set.Total = r.Total
	default:
		set.Total = counted
	}
	return set
}

// UserEducation represents one education entry
type UserEducation struct {
	ID            string `json:"id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	Institution   string `json:"institution"`
	Degree        string `json:"degree,omitempty"`
	FieldOfStudy  string `json:"field_of_study,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	IsCurrent     bool   `json:"is_current,omitempty"`
	GradeOrHonors string `json:"grade_or_honors,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// UserExperience represents one work experience entry
type UserExperience struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Company     string `json:"company"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"` // empty for current positions
	IsCurrent   bool   `json:"is_current,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// JobMatch is a scored job posting
type JobMatch struct {
	JobID         string   `json:"job_id"`
	JobTitle      string   `json:"job_title"`
	Company       string   `json:"company"`
	Location      string   `json:"location,omitempty"`
	MatchScore    float64  `json:"match_score"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	Confidence    string   `json:"confidence,omitempty"` // high, medium, low
	Reasoning     string   `json:"reasoning,omitempty"`
	JobURL        string   `json:"job_url,omitempty"`
}

// SavedJob is a JobMatch the user bookmarked
type SavedJob struct {
	ID string `json:"id"`
	JobMatch
	Description string `json:"description,omitempty"`
	SavedAt     string `json:"saved_at,omitempty"`
}

// ErrorResponse is the error body the backend sends on non-2xx responses.
// Detail is a string for most errors and a list of field errors for 422s.
type ErrorResponse struct {
	Detail  json.RawMessage `json:"detail,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Text returns the most specific human-readable message in the body.
func (e *ErrorResponse) Text() string {
	if len(e.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(e.Detail, &detail); err == nil && detail != "" {
			return detail
		}
		var fields []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(e.Detail, &fields); err == nil && len(fields) > 0 && fields[0].Msg != "" {
			return fields[0].Msg
		}
	}
	return e.Message
}

// Session is the locally stored login
type Session struct {
	Email       string
	AccessToken string
	TokenType   string
	CreatedAt   time.Time
}

// Upload is one entry of the local upload history
type Upload struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	Status      string
	Attempts    int
	Message     string
	StartedAt   time.Time
	FinishedAt  *time.Time
}

// Finished reports whether the upload reached a final status.
func (u *Upload) Finished() bool {
	return u.FinishedAt != nil
}
