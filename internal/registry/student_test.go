package registry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStudent_EnrollCourse(t *testing.T) {
	s := NewStudent("Alice", 20, "X St", "S1")

	require.NoError(t, s.EnrollCourse("C1"))
	require.NoError(t, s.EnrollCourse("C2"))
	require.ErrorIs(t, s.EnrollCourse("C1"), ErrDuplicate)

	require.Equal(t, []string{"C1", "C2"}, s.Courses)
}

func TestStudent_SetGrade(t *testing.T) {
	s := NewStudent("Alice", 20, "X St", "S1")

	require.ErrorIs(t, s.SetGrade("C1", "A"), ErrNotEnrolled)

	require.NoError(t, s.EnrollCourse("C1"))
	require.NoError(t, s.SetGrade("C1", "B"))
	require.NoError(t, s.SetGrade("C1", "A"))
	require.Equal(t, map[string]string{"C1": "A"}, s.Grades)
}

func TestStudent_WriteInfo(t *testing.T) {
	type testcase struct {
		name    string
		student func() *Student
		want    string
	}

	tests := [...]testcase{
		{
			name: "no enrollments",
			student: func() *Student {
				return NewStudent("Alice", 20, "X St", "S1")
			},
			want: "Student Information:\n" +
				"Name: Alice\n" +
				"Age: 20\n" +
				"Address: X St\n" +
				"ID: S1\n" +
				"Enrolled Courses: None\n" +
				"Grades: {}\n",
		},
		{
			name: "courses and grades",
			student: func() *Student {
				s := NewStudent("Alice", 20, "X St", "S1")
				_ = s.EnrollCourse("C1")
				_ = s.EnrollCourse("C2")
				_ = s.SetGrade("C2", "B")
				return s
			},
			want: "Student Information:\n" +
				"Name: Alice\n" +
				"Age: 20\n" +
				"Address: X St\n" +
				"ID: S1\n" +
				"Enrolled Courses: C1, C2\n" +
				"Grades: {C2: B}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.student().WriteInfo(&buf)
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestStudent_JSONRoundTrip(t *testing.T) {
	s := NewStudent("Alice", 20, "X St", "S1")
	require.NoError(t, s.EnrollCourse("C1"))
	require.NoError(t, s.SetGrade("C1", "A"))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"name": "Alice",
		"age": 20,
		"address": "X St",
		"student_id": "S1",
		"courses": ["C1"],
		"grades": {"C1": "A"}
	}`, string(data))

	var back Student
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, *s, back)
}

func TestStudent_DecodeDefaultsCollections(t *testing.T) {
	var s Student
	err := json.Unmarshal(
		[]byte(`{"name":"Alice","age":20,"address":"X St","student_id":"S1"}`),
		&s,
	)
	require.NoError(t, err)

	s.normalize()
	require.NotNil(t, s.Courses)
	require.NotNil(t, s.Grades)
	require.Empty(t, s.Courses)
	require.Empty(t, s.Grades)
}
