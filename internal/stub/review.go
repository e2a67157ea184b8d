package stub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	teachers := make([]models.Teacher, len(s.teachers))
	copy(teachers, s.teachers)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, apiResponse{Data: teachers, Message: "teacher(s) retrieved successfully"})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	teacherID, err1 := strconv.ParseInt(r.URL.Query().Get("teacher_id"), 10, 64)
	courseID, err2 := strconv.ParseInt(r.URL.Query().Get("course_id"), 10, 64)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "both 'teacher_id' and 'course_id' are required"})
		return
	}
	s.mu.Lock()
	reviews := make([]models.Review, 0)
	for _, rv := range s.reviews {
		if rv.TeacherID == teacherID && rv.CourseID == courseID {
			reviews = append(reviews, rv)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, apiResponse{Data: reviews, Message: "teacher reviews retrieved successfully"})
}

type reviewRequest struct {
	TeacherID         int64  `json:"teacher_id"`
	CourseID          int64  `json:"course_id"`
	TeachingStyle     int    `json:"teaching_style"`
	Marking           int    `json:"marking"`
	AdditionalRemarks string `json:"additional_remarks"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.viewer(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Message: "unauthorized"})
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "invalid request body"})
		return
	}
	if req.TeacherID == 0 || req.CourseID == 0 || req.TeachingStyle == 0 || req.Marking == 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "missing required fields: 'teacher_id', 'course_id', 'teaching_style', 'marking'"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rv := range s.reviews {
		if rv.UserID == acc.id && rv.TeacherID == req.TeacherID && rv.CourseID == req.CourseID {
			writeJSON(w, http.StatusBadRequest, apiResponse{Message: "you have already reviewed this teacher for this course"})
			return
		}
	}
	review := models.Review{
		ID:                int64(len(s.reviews) + 1),
		UserID:            acc.id,
		TeacherID:         req.TeacherID,
		CourseID:          req.CourseID,
		TeachingStyle:     req.TeachingStyle,
		Marking:           req.Marking,
		AdditionalRemarks: req.AdditionalRemarks,
	}
	s.reviews = append(s.reviews, review)
	writeJSON(w, http.StatusCreated, apiResponse{Data: review, Message: "review submitted successfully"})
}
