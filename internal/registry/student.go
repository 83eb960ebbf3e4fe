package registry

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"campusreg/pkg/errors"
)

type Student struct {
	PersonInfo `bson:",inline"`

	ID      string            `json:"student_id" bson:"student_id"`
	Grades  map[string]string `json:"grades" bson:"grades"`
	Courses []string          `json:"courses" bson:"courses"`
}

func NewStudent(name string, age int, address, id string) *Student {
	return &Student{
		PersonInfo: PersonInfo{Name: name, Age: age, Address: address},
		ID:         id,
		Grades:     map[string]string{},
		Courses:    []string{},
	}
}

// EnrollCourse appends code to the course list. The list holds no
// duplicates.
func (s *Student) EnrollCourse(code string) error {
	if slices.Contains(s.Courses, code) {
		return errors.Wrapf(ErrDuplicate, "student %s already enrolled in %s", s.ID, code)
	}

	s.Courses = append(s.Courses, code)
	return nil
}

// SetGrade records a grade for an enrolled course. A repeated grade for
// the same course overwrites the previous one.
func (s *Student) SetGrade(code, grade string) error {
	if !slices.Contains(s.Courses, code) {
		return errors.Wrapf(ErrNotEnrolled, "student %s is not enrolled in %s", s.ID, code)
	}

	if s.Grades == nil {
		s.Grades = map[string]string{}
	}
	s.Grades[code] = grade
	return nil
}

func (s *Student) WriteInfo(w io.Writer) {
	fmt.Fprintln(w, "Student Information:")
	s.PersonInfo.WriteInfo(w)
	fmt.Fprintf(w, "ID: %s\n", s.ID)

	courses := "None"
	if len(s.Courses) > 0 {
		courses = strings.Join(s.Courses, ", ")
	}
	fmt.Fprintf(w, "Enrolled Courses: %s\n", courses)

	fmt.Fprintf(w, "Grades: %s\n", s.formatGrades())
}

// formatGrades renders grades in course-list order so the output is
// deterministic.
func (s *Student) formatGrades() string {
	if len(s.Grades) == 0 {
		return "{}"
	}

	parts := make([]string, 0, len(s.Grades))
	for _, code := range s.Courses {
		if grade, ok := s.Grades[code]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", code, grade))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// normalize replaces nil collections left by decoding with empty ones.
func (s *Student) normalize() {
	if s.Grades == nil {
		s.Grades = map[string]string{}
	}
	if s.Courses == nil {
		s.Courses = []string{}
	}
}

func (s *Student) clone() Student {
	c := *s
	c.Courses = slices.Clone(s.Courses)
	c.Grades = make(map[string]string, len(s.Grades))
	for code, grade := range s.Grades {
		c.Grades[code] = grade
	}
	return c
}

func (s *Student) unenroll(code string) {
	idx := slices.Index(s.Courses, code)
	if idx >= 0 {
		s.Courses = slices.Delete(s.Courses, idx, idx+1)
	}
}
