package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-lecture-monitor/internal/core/model"
)

// SortField represents the field to sort lectures by
type SortField int

const (
	SortByTitle SortField = iota
	SortByDate
	SortBySpeaker
	SortByID
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// ParseSortField maps a flag value to a SortField.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return SortByTitle, nil
	case "date":
		return SortByDate, nil
	case "speaker":
		return SortBySpeaker, nil
	case "id":
		return SortByID, nil
	default:
		return SortByTitle, fmt.Errorf("unknown sort field %q (title, date, speaker, id)", s)
	}
}

// LectureSorter orders lecture lists for the library listing.
type LectureSorter struct {
	field SortField
	order SortOrder
}

// NewLectureSorter sorts by title, ascending.
func NewLectureSorter() *LectureSorter {
	return &LectureSorter{
		field: SortByTitle,
		order: SortAscending,
	}
}

// SetField changes the sort field
func (s *LectureSorter) SetField(field SortField) {
	s.field = field
}

// SetOrder changes the sort order
func (s *LectureSorter) SetOrder(order SortOrder) {
	s.order = order
}

// ToggleOrder flips between ascending and descending.
func (s *LectureSorter) ToggleOrder() {
	if s.order == SortAscending {
		s.order = SortDescending
	} else {
		s.order = SortAscending
	}
}

// Sort sorts lectures in place. Ties keep their input order.
func (s *LectureSorter) Sort(lectures []*model.Lecture) {
	sort.SliceStable(lectures, func(i, j int) bool {
		a, b := lectures[i], lectures[j]
		if s.order == SortDescending {
			a, b = b, a
		}

		switch s.field {
		case SortByDate:
			return a.Date < b.Date
		case SortBySpeaker:
			return strings.ToLower(a.Speaker) < strings.ToLower(b.Speaker)
		case SortByID:
			return a.ID < b.ID
		default:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	})
}
