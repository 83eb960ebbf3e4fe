package registry

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"campusreg/pkg/errors"
)

type Course struct {
	Name       string   `json:"course_name" bson:"course_name"`
	Code       string   `json:"course_code" bson:"course_code"`
	Instructor string   `json:"instructor" bson:"instructor"`
	Students   []string `json:"students" bson:"students"`
}

func NewCourse(name, code, instructor string) *Course {
	return &Course{
		Name:       name,
		Code:       code,
		Instructor: instructor,
		Students:   []string{},
	}
}

// AddStudent appends a student id to the roster. The roster holds no
// duplicates.
func (c *Course) AddStudent(id string) error {
	if slices.Contains(c.Students, id) {
		return errors.Wrapf(ErrDuplicate, "student %s already enrolled in %s", id, c.Code)
	}

	c.Students = append(c.Students, id)
	return nil
}

// WriteInfo renders course details. resolve maps a student id to a
// display name; ids it cannot resolve are rendered as-is.
func (c *Course) WriteInfo(w io.Writer, resolve func(id string) (string, bool)) {
	fmt.Fprintln(w, "Course Information:")
	fmt.Fprintf(w, "Course Name: %s\n", c.Name)
	fmt.Fprintf(w, "Code: %s\n", c.Code)
	fmt.Fprintf(w, "Instructor: %s\n", c.Instructor)

	roster := "None"
	if len(c.Students) > 0 {
		names := make([]string, 0, len(c.Students))
		for _, id := range c.Students {
			if resolve != nil {
				if name, ok := resolve(id); ok {
					names = append(names, name)
					continue
				}
			}
			names = append(names, id)
		}
		roster = strings.Join(names, ", ")
	}
	fmt.Fprintf(w, "Enrolled Students: %s\n", roster)
}

func (c *Course) normalize() {
	if c.Students == nil {
		c.Students = []string{}
	}
}

func (c *Course) clone() Course {
	cp := *c
	cp.Students = slices.Clone(c.Students)
	return cp
}
