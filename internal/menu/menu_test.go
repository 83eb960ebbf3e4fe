package menu

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campusreg/internal/registry"
	"campusreg/internal/storage"
	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
	"campusreg/pkg/ordmap"
)

func runMenu(t *testing.T, reg *registry.Registry, input string, open func(string) snapshotStore) string {
	t.Helper()

	var out bytes.Buffer
	m := New(logger.NewStub(), reg, strings.NewReader(input), &out, "")
	if open != nil {
		m.openStore = open
	}

	require.NoError(t, m.Run(context.Background()))
	return out.String()
}

func TestMenu_AddStudent(t *testing.T) {
	reg := registry.New(logger.NewStub())
	out := runMenu(t, reg, "1\nAlice\n20\nX St\nS1\n0\n", nil)

	require.Contains(t, out, "Student Alice (ID: S1) added successfully.")
	require.Contains(t, out, "Exiting Student Management System. Goodbye!")

	s, err := reg.Student("S1")
	require.NoError(t, err)
	require.Equal(t, "Alice", s.Name)
	require.Equal(t, 20, s.Age)
}

func TestMenu_AddStudentBadAge(t *testing.T) {
	reg := registry.New(logger.NewStub())
	out := runMenu(t, reg, "1\nAlice\nnope\n0\n", nil)

	require.Contains(t, out, `Value error: bad age "nope": age must be an integer`)

	_, err := reg.Student("S1")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestMenu_InvalidOption(t *testing.T) {
	reg := registry.New(logger.NewStub())
	out := runMenu(t, reg, "9\n0\n", nil)

	require.Contains(t, out, "Invalid option. Please select a number from the menu.")
}

func TestMenu_DuplicateStudent(t *testing.T) {
	reg := registry.New(logger.NewStub())
	session := "1\nAlice\n20\nX St\nS1\n" +
		"1\nMallory\n33\nY St\nS1\n" +
		"0\n"
	out := runMenu(t, reg, session, nil)

	require.Contains(t, out, "Value error: student ID S1: already exists")
}

func TestMenu_LookupError(t *testing.T) {
	reg := registry.New(logger.NewStub())
	out := runMenu(t, reg, "5\nghost\n0\n", nil)

	require.Contains(t, out, "Lookup error: student ID ghost: not found")
}

func TestMenu_Scenario(t *testing.T) {
	reg := registry.New(logger.NewStub())
	session := "1\nAlice\n20\nX St\nS1\n" +
		"2\nAlgo\nC1\nDr. B\n" +
		"3\nS1\nC1\n" +
		"4\nS1\nC1\nA\n" +
		"5\nS1\n" +
		"6\nC1\n" +
		"0\n"
	out := runMenu(t, reg, session, nil)

	require.Contains(t, out, "Course Algo (Code: C1) created with instructor Dr. B.")
	require.Contains(t, out, "Student Alice (ID: S1) enrolled in Algo (Code: C1).")
	require.Contains(t, out, "Grade A added for Alice in Algo.")
	require.Contains(t, out, "Enrolled Courses: C1")
	require.Contains(t, out, "Grades: {C1: A}")
	require.Contains(t, out, "Enrolled Students: Alice")
}

func TestMenu_GradeBeforeEnrollment(t *testing.T) {
	reg := registry.New(logger.NewStub())
	session := "1\nAlice\n20\nX St\nS1\n" +
		"2\nAlgo\nC1\nDr. B\n" +
		"4\nS1\nC1\nA\n" +
		"0\n"
	out := runMenu(t, reg, session, nil)

	require.Contains(t, out, "Value error: student S1 is not enrolled in C1")
}

func TestMenu_SaveUsesDefaultFilename(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := NewMocksnapshotStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var opened []string
	open := func(path string) snapshotStore {
		opened = append(opened, path)
		return store
	}

	reg := registry.New(logger.NewStub())
	out := runMenu(t, reg, "7\n\n0\n", open)

	require.Contains(t, out, "All student and course data saved successfully.")
	require.Equal(t, []string{storage.DefaultFile}, opened)
}

func TestMenu_SaveWithExplicitFilename(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := NewMocksnapshotStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var opened []string
	open := func(path string) snapshotStore {
		opened = append(opened, path)
		return store
	}

	reg := registry.New(logger.NewStub())
	runMenu(t, reg, "7\nbackup.json\n0\n", open)

	require.Equal(t, []string{"backup.json"}, opened)
}

func TestMenu_LoadMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)

	store := NewMocksnapshotStore(ctrl)
	store.EXPECT().
		Load(gomock.Any()).
		Return(registry.Snapshot{}, errors.WrapFail(os.ErrNotExist, "read absent.json"))

	open := func(path string) snapshotStore { return store }

	reg := registry.New(logger.NewStub())
	_, err := reg.AddStudent("Alice", 20, "X St", "S1")
	require.NoError(t, err)

	out := runMenu(t, reg, "8\nabsent.json\n0\n", open)
	require.Contains(t, out, "File not found. Please check the filename and try again.")

	// failed load leaves state untouched
	s, err := reg.Student("S1")
	require.NoError(t, err)
	require.Equal(t, "Alice", s.Name)
}

func TestMenu_LoadReplacesState(t *testing.T) {
	ctrl := gomock.NewController(t)

	snap := registry.Snapshot{
		Students: ordmap.New[registry.Student](),
		Courses:  ordmap.New[registry.Course](),
	}
	snap.Students.Set("S2", registry.Student{
		PersonInfo: registry.PersonInfo{Name: "Bob", Age: 22, Address: "Y St"},
		ID:         "S2",
	})

	store := NewMocksnapshotStore(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(snap, nil)

	open := func(path string) snapshotStore { return store }

	reg := registry.New(logger.NewStub())
	_, err := reg.AddStudent("Alice", 20, "X St", "S1")
	require.NoError(t, err)

	out := runMenu(t, reg, "8\n\n0\n", open)
	require.Contains(t, out, "Data loaded successfully.")

	_, err = reg.Student("S1")
	require.ErrorIs(t, err, registry.ErrNotFound)

	s, err := reg.Student("S2")
	require.NoError(t, err)
	require.Equal(t, "Bob", s.Name)
}
