package api

import (
	"context"
	"net/http"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: PathProfile, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Skills returns the extracted skills, normalized from either response shape.
func (c *Client) Skills(ctx context.Context) (*models.SkillSet, error) {
	var out models.SkillsResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: PathSkills, auth: true}, &out); err != nil {
		return nil, err
	}
	return out.Normalize(), nil
}

// SavedJobs returns the jobs the user bookmarked.
func (c *Client) SavedJobs(ctx context.Context) ([]models.SavedJob, error) {
	out := []models.SavedJob{}
	if err := c.do(ctx, request{method: http.MethodGet, path: PathSavedJobs, auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
