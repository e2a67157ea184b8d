package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

// ListTeachers returns every reviewable professor.
func (c *Client) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var teachers []models.Teacher
	if err := c.do(ctx, http.MethodGet, "/review/teachers/", nil, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

// ListReviews returns the reviews for one (teacher, course) pair.
func (c *Client) ListReviews(ctx context.Context, teacherID, courseID int64) ([]models.Review, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var reviews []models.Review
	path := fmt.Sprintf("/review/teacher-reviews/?teacher_id=%d&course_id=%d", teacherID, courseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

type SubmitReviewRequest struct {
	TeacherID         int64  `json:"teacher_id"`
	CourseID          int64  `json:"course_id"`
	TeachingStyle     int    `json:"teaching_style"`
	Marking           int    `json:"marking"`
	AdditionalRemarks string `json:"additional_remarks,omitempty"`
}

// SubmitReview posts one review. Ratings are 1-5 stars; both are
// required, so missing ratings fail before any request is made.
func (c *Client) SubmitReview(ctx context.Context, req SubmitReviewRequest) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	if req.TeacherID == 0 || req.CourseID == 0 {
		return fmt.Errorf("teacher and course are required")
	}
	if req.TeachingStyle < 1 || req.TeachingStyle > 5 || req.Marking < 1 || req.Marking > 5 {
		return fmt.Errorf("ratings must be between 1 and 5")
	}
	return c.do(ctx, http.MethodPost, "/review/teacher-reviews/", req, nil)
}
