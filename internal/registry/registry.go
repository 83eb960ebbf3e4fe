// Package registry owns the in-memory student and course collections and
// every mutation entry point over them. Collections are keyed by student
// id and course code and iterate in insertion order.
package registry

import (
	"context"
	"io"
	"slices"

	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
	"campusreg/pkg/ordmap"
)

// Snapshot is the persisted form of the whole registry: both collections
// with entity values, keyed and ordered the way the registry holds them.
type Snapshot struct {
	Students *ordmap.Map[Student] `json:"students"`
	Courses  *ordmap.Map[Course]  `json:"courses"`
}

// Store persists and restores whole snapshots.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

type Registry struct {
	students *ordmap.Map[*Student]
	courses  *ordmap.Map[*Course]
	log      logger.Logger
}

func New(log logger.Logger) *Registry {
	return &Registry{
		students: ordmap.New[*Student](),
		courses:  ordmap.New[*Course](),
		log:      log.With("registry"),
	}
}

func (r *Registry) AddStudent(name string, age int, address, id string) (*Student, error) {
	if r.students.Has(id) {
		return nil, errors.Wrapf(ErrDuplicate, "student ID %s", id)
	}

	s := NewStudent(name, age, address, id)
	r.students.Set(id, s)
	r.log.Debugf("added student %s", id)
	return s, nil
}

// Student returns the stored entity itself, not a copy.
func (r *Registry) Student(id string) (*Student, error) {
	s, ok := r.students.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "student ID %s", id)
	}
	return s, nil
}

func (r *Registry) AddCourse(name, code, instructor string) (*Course, error) {
	if r.courses.Has(code) {
		return nil, errors.Wrapf(ErrDuplicate, "course code %s", code)
	}

	c := NewCourse(name, code, instructor)
	r.courses.Set(code, c)
	r.log.Debugf("added course %s", code)
	return c, nil
}

func (r *Registry) Course(code string) (*Course, error) {
	c, ok := r.courses.Get(code)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "course code %s", code)
	}
	return c, nil
}

// Enroll records the student/course association on both sides. If the
// course side cannot be updated the student side is rolled back, so the
// two lists never diverge through this operation.
func (r *Registry) Enroll(studentID, courseCode string) error {
	student, err := r.Student(studentID)
	if err != nil {
		return err
	}

	course, err := r.Course(courseCode)
	if err != nil {
		return err
	}

	err = student.EnrollCourse(courseCode)
	if err != nil {
		return err
	}

	err = course.AddStudent(studentID)
	if err != nil {
		student.unenroll(courseCode)
		return err
	}

	r.log.Debugf("enrolled student %s in course %s", studentID, courseCode)
	return nil
}

func (r *Registry) SetGrade(studentID, courseCode, grade string) error {
	student, err := r.Student(studentID)
	if err != nil {
		return err
	}

	return student.SetGrade(courseCode, grade)
}

func (r *Registry) RenderStudent(w io.Writer, id string) error {
	student, err := r.Student(id)
	if err != nil {
		return err
	}

	student.WriteInfo(w)
	return nil
}

func (r *Registry) RenderCourse(w io.Writer, code string) error {
	course, err := r.Course(code)
	if err != nil {
		return err
	}

	course.WriteInfo(w, func(id string) (string, bool) {
		s, ok := r.students.Get(id)
		if !ok {
			return "", false
		}
		return s.Name, true
	})
	return nil
}

// Snapshot deep-copies both collections, so later registry mutations do
// not leak into a snapshot handed to a store.
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{
		Students: ordmap.New[Student](),
		Courses:  ordmap.New[Course](),
	}

	r.students.Range(func(id string, s *Student) bool {
		snap.Students.Set(id, s.clone())
		return true
	})
	r.courses.Range(func(code string, c *Course) bool {
		snap.Courses.Set(code, c.clone())
		return true
	})

	return snap
}

// Restore replaces both collections with the snapshot's contents, then
// repairs enrollments in one direction: any student listed on an existing
// course roster gets that course added to their course list. The reverse
// direction is left untouched; rosters are treated as authoritative.
func (r *Registry) Restore(snap Snapshot) {
	students := ordmap.New[*Student]()
	courses := ordmap.New[*Course]()

	if snap.Students != nil {
		snap.Students.Range(func(id string, s Student) bool {
			stored := s.clone()
			stored.normalize()
			students.Set(id, &stored)
			return true
		})
	}
	if snap.Courses != nil {
		snap.Courses.Range(func(code string, c Course) bool {
			stored := c.clone()
			stored.normalize()
			courses.Set(code, &stored)
			return true
		})
	}

	r.students = students
	r.courses = courses

	r.repairEnrollments()
}

func (r *Registry) repairEnrollments() {
	r.courses.Range(func(code string, c *Course) bool {
		for _, id := range c.Students {
			s, ok := r.students.Get(id)
			if !ok {
				continue
			}
			if !slices.Contains(s.Courses, code) {
				s.Courses = append(s.Courses, code)
				r.log.Infof("repaired enrollment: student %s was missing course %s", id, code)
			}
		}
		return true
	})
}

func (r *Registry) Save(ctx context.Context, store Store) error {
	err := store.Save(ctx, r.Snapshot())
	if err != nil {
		return errors.WrapFail(err, "save snapshot")
	}

	r.log.Infof("saved %d students and %d courses", r.students.Len(), r.courses.Len())
	return nil
}

// Load restores the registry from a store. In-memory state is replaced
// only after the snapshot is fully read; any error leaves it untouched.
func (r *Registry) Load(ctx context.Context, store Store) error {
	snap, err := store.Load(ctx)
	if err != nil {
		return errors.WrapFail(err, "load snapshot")
	}

	r.Restore(snap)
	r.log.Infof("loaded %d students and %d courses", r.students.Len(), r.courses.Len())
	return nil
}
