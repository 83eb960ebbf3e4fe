// Package menu implements the interactive console shell: a numeric menu
// that collects prompts and drives registry operations. It is the sole
// recovery boundary; every operation error is classified, printed as one
// line, and the loop continues.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"campusreg/internal/registry"
	"campusreg/internal/storage"
	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
)

const text = `
==== Student Management System ====

1. Add New Student
2. Add New Course
3. Enroll Student in Course
4. Add Grade for Student
5. Display Student Details
6. Display Course Details
7. Save Data to File
8. Load Data from File
0. Exit
`

var (
	errInputClosed = errors.Error("input closed")
	errBadAge      = errors.Error("age must be an integer")
)

func New(log logger.Logger, reg *registry.Registry, in io.Reader, out io.Writer, dataFile string) *Menu {
	if dataFile == "" {
		dataFile = storage.DefaultFile
	}

	m := &Menu{
		reg:      reg,
		in:       bufio.NewScanner(in),
		out:      out,
		log:      log.With("menu"),
		dataFile: dataFile,
	}
	m.openStore = func(path string) snapshotStore {
		return storage.NewFile(path, log)
	}
	return m
}

type Menu struct {
	reg      *registry.Registry
	in       *bufio.Scanner
	out      io.Writer
	log      logger.Logger
	dataFile string

	openStore func(path string) snapshotStore
}

// Run loops until the exit command or end of input.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, text)
		fmt.Fprintln(m.out)

		choice, err := m.prompt("Select Option: ")
		if err != nil {
			return nil
		}

		if choice == "0" {
			fmt.Fprintln(m.out, "Exiting Student Management System. Goodbye!")
			return nil
		}

		err = m.dispatch(ctx, choice)
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			m.report(err)
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.addStudent()
	case "2":
		return m.addCourse()
	case "3":
		return m.enroll()
	case "4":
		return m.addGrade()
	case "5":
		return m.displayStudent()
	case "6":
		return m.displayCourse()
	case "7":
		return m.save(ctx)
	case "8":
		return m.load(ctx)
	default:
		fmt.Fprintln(m.out, "Invalid option. Please select a number from the menu.")
		return nil
	}
}

func (m *Menu) addStudent() error {
	name, err := m.prompt("Enter Name: ")
	if err != nil {
		return err
	}
	age, err := m.promptAge("Enter Age: ")
	if err != nil {
		return err
	}
	address, err := m.prompt("Enter Address: ")
	if err != nil {
		return err
	}
	id, err := m.prompt("Enter Student ID: ")
	if err != nil {
		return err
	}

	_, err = m.reg.AddStudent(name, age, address, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Student %s (ID: %s) added successfully.\n", name, id)
	return nil
}

func (m *Menu) addCourse() error {
	name, err := m.prompt("Enter Course Name: ")
	if err != nil {
		return err
	}
	code, err := m.prompt("Enter Course Code: ")
	if err != nil {
		return err
	}
	instructor, err := m.prompt("Enter Instructor: ")
	if err != nil {
		return err
	}

	_, err = m.reg.AddCourse(name, code, instructor)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Course %s (Code: %s) created with instructor %s.\n", name, code, instructor)
	return nil
}

func (m *Menu) enroll() error {
	id, err := m.prompt("Enter Student ID: ")
	if err != nil {
		return err
	}
	code, err := m.prompt("Enter Course Code: ")
	if err != nil {
		return err
	}

	err = m.reg.Enroll(id, code)
	if err != nil {
		return err
	}

	student, err := m.reg.Student(id)
	if err != nil {
		return err
	}
	course, err := m.reg.Course(code)
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Student %s (ID: %s) enrolled in %s (Code: %s).\n",
		student.Name, id, course.Name, code)
	return nil
}

func (m *Menu) addGrade() error {
	id, err := m.prompt("Enter Student ID: ")
	if err != nil {
		return err
	}
	code, err := m.prompt("Enter Course Code: ")
	if err != nil {
		return err
	}
	grade, err := m.prompt("Enter Grade: ")
	if err != nil {
		return err
	}

	err = m.reg.SetGrade(id, code, grade)
	if err != nil {
		return err
	}

	student, err := m.reg.Student(id)
	if err != nil {
		return err
	}

	courseName := code
	if course, err := m.reg.Course(code); err == nil {
		courseName = course.Name
	}

	fmt.Fprintf(m.out, "Grade %s added for %s in %s.\n", grade, student.Name, courseName)
	return nil
}

func (m *Menu) displayStudent() error {
	id, err := m.prompt("Enter Student ID: ")
	if err != nil {
		return err
	}

	return m.reg.RenderStudent(m.out, id)
}

func (m *Menu) displayCourse() error {
	code, err := m.prompt("Enter Course Code: ")
	if err != nil {
		return err
	}

	return m.reg.RenderCourse(m.out, code)
}

func (m *Menu) save(ctx context.Context) error {
	name, err := m.promptFilename("save")
	if err != nil {
		return err
	}

	err = m.reg.Save(ctx, m.openStore(name))
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "All student and course data saved successfully.")
	return nil
}

func (m *Menu) load(ctx context.Context) error {
	name, err := m.promptFilename("load")
	if err != nil {
		return err
	}

	err = m.reg.Load(ctx, m.openStore(name))
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, "Data loaded successfully.")
	return nil
}

func (m *Menu) promptFilename(action string) (string, error) {
	name, err := m.prompt(fmt.Sprintf("Enter filename to %s (default: %s): ", action, m.dataFile))
	if err != nil {
		return "", err
	}
	if name == "" {
		name = m.dataFile
	}
	return name, nil
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", errInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) promptAge(label string) (int, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, err
	}

	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(errBadAge, "bad age %q", raw)
	}
	return age, nil
}

func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, registry.ErrDuplicate),
		errors.Is(err, registry.ErrNotEnrolled),
		errors.Is(err, errBadAge):
		fmt.Fprintf(m.out, "Value error: %s\n", err)
	case errors.Is(err, registry.ErrNotFound):
		fmt.Fprintf(m.out, "Lookup error: %s\n", err)
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(m.out, "File not found. Please check the filename and try again.")
	default:
		fmt.Fprintf(m.out, "An unexpected error occurred: %s\n", err)
		m.log.Error(err)
	}
}
