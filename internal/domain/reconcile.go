package domain

import "sort"

// LinkDiff is the minimal set of link mutations turning one amenity set into another.
type LinkDiff struct {
	Link   []int64 `json:"linked"`
	Unlink []int64 `json:"unlinked"`
}

func (d LinkDiff) Empty() bool { return len(d.Link) == 0 && len(d.Unlink) == 0 }

// Diff returns selected−original as Link and original−selected as Unlink.
// Both outputs are sorted, free of duplicates and never share an id.
func Diff(original, selected []int64) LinkDiff {
	orig := toSet(original)
	sel := toSet(selected)

	d := LinkDiff{Link: []int64{}, Unlink: []int64{}}
	for id := range sel {
		if _, ok := orig[id]; !ok {
			d.Link = append(d.Link, id)
		}
	}
	for id := range orig {
		if _, ok := sel[id]; !ok {
			d.Unlink = append(d.Unlink, id)
		}
	}
	sortIDs(d.Link)
	sortIDs(d.Unlink)
	return d
}

// Selection tracks one edit session of an owner's amenities: the ids persisted when the
// session opened and the ids currently selected. It is a plain value; callers own it.
type Selection struct {
	original map[int64]struct{}
	selected map[int64]struct{}
}

func NewSelection(original []int64) Selection {
	return Selection{original: toSet(original), selected: toSet(original)}
}

// Toggle flips id in the current selection and reports whether it is now selected.
func (s *Selection) Toggle(id int64) bool {
	if s.selected == nil {
		s.selected = map[int64]struct{}{}
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// Set replaces the current selection.
func (s *Selection) Set(ids []int64) { s.selected = toSet(ids) }

// Reset drops every change made since the session opened.
func (s *Selection) Reset() { s.selected = copySet(s.original) }

func (s Selection) Selected(id int64) bool {
	_, ok := s.selected[id]
	return ok
}

func (s Selection) Original() []int64 { return setIDs(s.original) }
func (s Selection) Current() []int64  { return setIDs(s.selected) }

func (s Selection) Diff() LinkDiff { return Diff(s.Original(), s.Current()) }

func (s Selection) Dirty() bool { return !s.Diff().Empty() }

func toSet(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func copySet(in map[int64]struct{}) map[int64]struct{} {
	out := make(map[int64]struct{}, len(in))
	for id := range in {
		out[id] = struct{}{}
	}
	return out
}

func setIDs(m map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
