package result

import "sort"

type (
	// MarkEntry is what a student scored on a single mark config.
	MarkEntry struct {
		Obtained float64 `json:"obtained"`
		IsAbsent bool    `json:"is_absent"`
	}

	// MarkBook holds the obtained marks of one exam keyed by student, then by mark config.
	MarkBook map[int]map[int]MarkEntry
)

// NewMarkBook indexes marks by student and mark config.
// A later row for the same (student, mark config) pair replaces an earlier one.
func NewMarkBook(marks []ObtainedMark) MarkBook {
	mb := make(MarkBook)
	for _, m := range marks {
		mb.Set(m.StudentID, m.MarkConfID, MarkEntry{Obtained: m.Obtained, IsAbsent: m.IsAbsent})
	}
	return mb
}

func (mb MarkBook) Set(studentID, markConfID int, entry MarkEntry) {
	row, ok := mb[studentID]
	if !ok {
		row = make(map[int]MarkEntry)
		mb[studentID] = row
	}
	row[markConfID] = entry
}

// Get returns the entry of a student on a mark config and whether one was recorded.
func (mb MarkBook) Get(studentID, markConfID int) (MarkEntry, bool) {
	row, ok := mb[studentID]
	if !ok {
		return MarkEntry{}, false
	}
	e, ok := row[markConfID]
	return e, ok
}

// ForStudent returns the student's entries keyed by mark config; nil if there are none.
func (mb MarkBook) ForStudent(studentID int) map[int]MarkEntry {
	return mb[studentID]
}

// Students returns the IDs of the students holding at least one entry, sorted.
func (mb MarkBook) Students() []int {
	ids := make([]int, 0, len(mb))
	for id := range mb {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
