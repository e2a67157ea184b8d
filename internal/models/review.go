package models

// Course is one course a teacher can be reviewed for.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Teacher is a reviewable professor with the courses they teach.
type Teacher struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Courses []Course `json:"courses"`
}

// Review is a professor review tied to one (teacher, course) pair.
// TeachingStyle and Marking are 1-5 star ratings.
type Review struct {
	ID                int64  `json:"id"`
	UserID            int64  `json:"user"`
	TeacherID         int64  `json:"teacher"`
	CourseID          int64  `json:"course"`
	TeachingStyle     int    `json:"teaching_style"`
	Marking           int    `json:"marking"`
	AdditionalRemarks string `json:"additional_remarks,omitempty"`
}
