package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subjectConfig(id, serial int, name, typ string, mcs ...MarkConfig) SubjectMarkConfig {
	var max float64
	for i := range mcs {
		mcs[i].SubjectConfigID = id
		max += mcs[i].MaxMark
	}
	return SubjectMarkConfig{
		ID:            id,
		SubjectID:     id,
		ClassID:       1,
		SubjectName:   name,
		SubjectSerial: serial,
		SubjectType:   typ,
		MaxMark:       max,
		MarkConfigs:   mcs,
	}
}

func TestAggregate(t *testing.T) {
	math := subjectConfig(1, 2, "Math", Compulsory,
		MarkConfig{ID: 11, MarkTypeName: "MCQ", MaxMark: 40, PassMark: 13},
		MarkConfig{ID: 12, MarkTypeName: "Written", MaxMark: 60, PassMark: 20},
	)
	arabic := subjectConfig(2, 1, "Arabic", Compulsory,
		MarkConfig{ID: 21, MarkTypeName: "Written", MaxMark: 100, PassMark: 33},
	)
	science := subjectConfig(3, 3, "Science", Choosable,
		MarkConfig{ID: 31, MarkTypeName: "MCQ", MaxMark: 25, PassMark: 8},
		MarkConfig{ID: 32, MarkTypeName: "Written", MaxMark: 50, PassMark: 17},
		MarkConfig{ID: 33, MarkTypeName: "Practical", MaxMark: 25, PassMark: 8},
	)
	configs := []SubjectMarkConfig{math, arabic, science}

	tests := []struct {
		name    string
		entries map[int]MarkEntry
		opts    AggregateOptions
		want    []StudentSubjectResult
	}{
		{
			name: "sums every mark-type, ordered by serial",
			entries: map[int]MarkEntry{
				11: {Obtained: 30}, 12: {Obtained: 45},
				21: {Obtained: 70},
				31: {Obtained: 20}, 32: {Obtained: 40}, 33: {Obtained: 22},
			},
			want: []StudentSubjectResult{
				{SubjectName: "Arabic", Serial: 1, SubjectType: Compulsory, Obtained: 70, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", Serial: 2, SubjectType: Compulsory, Obtained: 75, MaxMark: 100, PassMark: 33},
				{SubjectName: "Science", Serial: 3, SubjectType: Choosable, Obtained: 82, MaxMark: 100, PassMark: 33},
			},
		},
		{
			name: "legacy two mark-type limit drops the third",
			entries: map[int]MarkEntry{
				11: {Obtained: 30}, 12: {Obtained: 45},
				21: {Obtained: 70},
				31: {Obtained: 20}, 32: {Obtained: 40}, 33: {Obtained: 22},
			},
			opts: AggregateOptions{MaxMarkTypes: 2},
			want: []StudentSubjectResult{
				{SubjectName: "Arabic", Serial: 1, SubjectType: Compulsory, Obtained: 70, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", Serial: 2, SubjectType: Compulsory, Obtained: 75, MaxMark: 100, PassMark: 33},
				{SubjectName: "Science", Serial: 3, SubjectType: Choosable, Obtained: 60, MaxMark: 75, PassMark: 25},
			},
		},
		{
			name:    "missing marks count zero and fail",
			entries: map[int]MarkEntry{11: {Obtained: 30}},
			want: []StudentSubjectResult{
				{SubjectName: "Arabic", Serial: 1, SubjectType: Compulsory, Obtained: 0, MaxMark: 100, PassMark: 33, IsFailed: true},
				{SubjectName: "Math", Serial: 2, SubjectType: Compulsory, Obtained: 30, MaxMark: 100, PassMark: 33, IsFailed: true},
				{SubjectName: "Science", Serial: 3, SubjectType: Choosable, Obtained: 0, MaxMark: 100, PassMark: 33, IsFailed: true},
			},
		},
		{
			name: "one absent mark-type makes the subject absent, not failed",
			entries: map[int]MarkEntry{
				11: {Obtained: 30}, 12: {IsAbsent: true},
				21: {Obtained: 33},
				31: {Obtained: 8}, 32: {Obtained: 17}, 33: {Obtained: 7.5},
			},
			want: []StudentSubjectResult{
				{SubjectName: "Arabic", Serial: 1, SubjectType: Compulsory, Obtained: 33, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", Serial: 2, SubjectType: Compulsory, Obtained: 0, MaxMark: 100, PassMark: 33, IsAbsent: true},
				{SubjectName: "Science", Serial: 3, SubjectType: Choosable, Obtained: 32.5, MaxMark: 100, PassMark: 33, IsFailed: true},
			},
		},
		{
			name:    "unknown mark configs are ignored",
			entries: map[int]MarkEntry{99: {Obtained: 100}, 21: {Obtained: 50}},
			opts:    AggregateOptions{MaxMarkTypes: 1},
			want: []StudentSubjectResult{
				{SubjectName: "Arabic", Serial: 1, SubjectType: Compulsory, Obtained: 50, MaxMark: 100, PassMark: 33},
				{SubjectName: "Math", Serial: 2, SubjectType: Compulsory, Obtained: 0, MaxMark: 40, PassMark: 13, IsFailed: true},
				{SubjectName: "Science", Serial: 3, SubjectType: Choosable, Obtained: 0, MaxMark: 25, PassMark: 8, IsFailed: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.entries, configs, tt.opts))
		})
	}
}

func TestAggregate_combinedSubjects(t *testing.T) {
	first := subjectConfig(1, 1, "Bangla 1st Paper", Compulsory, MarkConfig{ID: 11, MaxMark: 100, PassMark: 33})
	first.CombinedSubjectName = "Bangla"
	second := subjectConfig(2, 1, "Bangla 2nd Paper", Choosable, MarkConfig{ID: 21, MaxMark: 100, PassMark: 33})
	second.CombinedSubjectName = "Bangla"
	english := subjectConfig(3, 1, "English", Choosable, MarkConfig{ID: 31, MaxMark: 100, PassMark: 33})

	got := Aggregate(
		map[int]MarkEntry{11: {Obtained: 20}, 21: {Obtained: 60}, 31: {Obtained: 50}},
		[]SubjectMarkConfig{first, english, second},
		AggregateOptions{},
	)
	require.Len(t, got, 2)
	assert.Equal(t, StudentSubjectResult{
		SubjectName: "Bangla",
		Serial:      1,
		SubjectType: Compulsory,
		Obtained:    80,
		MaxMark:     200,
		PassMark:    66,
	}, got[0])
	assert.Equal(t, "English", got[1].SubjectName)
}

func TestAggregate_noConfigs(t *testing.T) {
	assert.Empty(t, Aggregate(map[int]MarkEntry{1: {Obtained: 10}}, nil, AggregateOptions{}))
}

func TestNewMarkBook(t *testing.T) {
	mb := NewMarkBook([]ObtainedMark{
		{StudentID: 2, MarkConfID: 11, Obtained: 10},
		{StudentID: 1, MarkConfID: 11, Obtained: 20},
		{StudentID: 1, MarkConfID: 12, IsAbsent: true},
		{StudentID: 1, MarkConfID: 11, Obtained: 25},
	})

	e, ok := mb.Get(1, 11)
	assert.True(t, ok)
	assert.Equal(t, MarkEntry{Obtained: 25}, e)

	e, ok = mb.Get(1, 12)
	assert.True(t, ok)
	assert.True(t, e.IsAbsent)

	_, ok = mb.Get(3, 11)
	assert.False(t, ok)

	assert.Len(t, mb.ForStudent(1), 2)
	assert.Nil(t, mb.ForStudent(3))
	assert.Equal(t, []int{1, 2}, mb.Students())
}
