package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestStudentPatchApplyOnlyMark(t *testing.T) {
	before := Student{ID: 7, RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "85"}

	after := StudentPatch{Mark: ptr("X")}.Apply(before)

	assert.Equal(t, Student{ID: 7, RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "X"}, after)
	assert.Equal(t, "85", before.Mark, "original must not be mutated")
}

func TestStudentPatchApplyEmptyStringOverwrites(t *testing.T) {
	before := Student{ID: 1, RollNo: "1", Name: "Jane", ClassSection: "9B", Mark: "70"}

	after := StudentPatch{Name: ptr(""), ClassSection: ptr("9C")}.Apply(before)

	assert.Equal(t, "", after.Name)
	assert.Equal(t, "9C", after.ClassSection)
	assert.Equal(t, "1", after.RollNo)
	assert.Equal(t, "70", after.Mark)
	assert.Equal(t, int64(1), after.ID)
}

func TestStudentPatchIsEmpty(t *testing.T) {
	assert.True(t, StudentPatch{}.IsEmpty())
	assert.False(t, StudentPatch{RollNo: ptr("")}.IsEmpty())
}

func TestStudentFieldsStudent(t *testing.T) {
	s := StudentFields{RollNo: "12345", Name: "John Doe", ClassSection: "10A", Mark: "85"}.Student()
	assert.Zero(t, s.ID)
	assert.Equal(t, "John Doe", s.Name)
}
