package interaction

import (
	"testing"

	"github.com/penwyp/go-lecture-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lectureIDs(lectures []*model.Lecture) []int64 {
	ids := make([]int64, len(lectures))
	for i, l := range lectures {
		ids[i] = l.ID
	}
	return ids
}

func TestLectureSorter(t *testing.T) {
	base := []*model.Lecture{
		{ID: 3, Title: "beta", Date: "2023-05-01", Speaker: "Carol"},
		{ID: 1, Title: "Alpha", Date: "2024-01-10", Speaker: "bob"},
		{ID: 2, Title: "gamma", Date: "2022-12-31", Speaker: "Alice"},
	}

	tests := []struct {
		name  string
		field SortField
		order SortOrder
		want  []int64
	}{
		{name: "title ignores case", field: SortByTitle, order: SortAscending, want: []int64{1, 3, 2}},
		{name: "date descending", field: SortByDate, order: SortDescending, want: []int64{1, 3, 2}},
		{name: "speaker", field: SortBySpeaker, order: SortAscending, want: []int64{2, 1, 3}},
		{name: "id", field: SortByID, order: SortAscending, want: []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lectures := append([]*model.Lecture(nil), base...)
			s := NewLectureSorter()
			s.SetField(tt.field)
			s.SetOrder(tt.order)
			s.Sort(lectures)
			assert.Equal(t, tt.want, lectureIDs(lectures))
		})
	}
}

func TestLectureSorterToggleOrder(t *testing.T) {
	lectures := []*model.Lecture{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}
	s := NewLectureSorter()
	s.ToggleOrder()
	s.Sort(lectures)
	assert.Equal(t, []int64{2, 1}, lectureIDs(lectures))
}

func TestParseSortField(t *testing.T) {
	field, err := ParseSortField(" Date ")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, field)

	field, err = ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByTitle, field)

	_, err = ParseSortField("cost")
	assert.Error(t, err)
}
