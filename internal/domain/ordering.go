package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the way a file moves inside an OrderingList.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection accepts "up" and "down" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// PageRef addresses one page of one file in an OrderingList.
// File is the list index, Page is 1-based.
type PageRef struct {
	File int `json:"file"`
	Page int `json:"page"`
}

// OrderingList is the ordered sequence of files to be merged.
// List order is merge order.
type OrderingList struct {
	files []*SelectedFile
}

// NewOrderingList builds a list from already validated files.
func NewOrderingList(files ...*SelectedFile) *OrderingList {
	l := &OrderingList{}
	for _, f := range files {
		l.files = append(l.files, f)
	}
	return l
}

// Len returns the number of files.
func (l *OrderingList) Len() int {
	return len(l.files)
}

// Files returns a copy of the list; the files themselves are shared.
func (l *OrderingList) Files() []*SelectedFile {
	return slices.Clone(l.files)
}

// Clone copies the list and its file entries. File contents are shared.
func (l *OrderingList) Clone() *OrderingList {
	c := &OrderingList{files: make([]*SelectedFile, len(l.files))}
	for i, f := range l.files {
		cp := *f
		if f.InsertAt != nil {
			v := *f.InsertAt
			cp.InsertAt = &v
		}
		c.files[i] = &cp
	}
	return c
}

// Get returns the file at index.
func (l *OrderingList) Get(index int) (*SelectedFile, error) {
	if err := l.checkIndex(index); err != nil {
		return nil, err
	}
	return l.files[index], nil
}

// Add appends file. Non-PDF files are rejected and the list is left as is.
func (l *OrderingList) Add(file *SelectedFile) error {
	if file == nil || !file.IsPDF() {
		return ErrNotPDF
	}
	if file.InsertAt != nil && *file.InsertAt < 0 {
		return ErrInvalidInsertIndex
	}
	l.files = append(l.files, file)
	return nil
}

// Remove deletes the entry at index.
func (l *OrderingList) Remove(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.files = slices.Delete(l.files, index, index+1)
	return nil
}

// Move swaps the entry at index with its neighbour.
// Moving the first entry up or the last one down does nothing.
func (l *OrderingList) Move(index int, direction Direction) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}

	var target int
	switch direction {
	case DirectionUp:
		target = index - 1
	case DirectionDown:
		target = index + 1
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	if target < 0 || target >= len(l.files) {
		return nil
	}

	l.files[index], l.files[target] = l.files[target], l.files[index]
	return nil
}

// SetInsertAt sets or clears (nil) the insertion index of the entry at index.
func (l *OrderingList) SetInsertAt(index int, insertAt *int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if insertAt != nil && *insertAt < 0 {
		return ErrInvalidInsertIndex
	}
	if insertAt != nil {
		v := *insertAt
		insertAt = &v
	}
	l.files[index].InsertAt = insertAt
	return nil
}

// Plan lays out the merged document page by page.
//
// Files are applied in list order. A file whose insertion index is at most
// the number of pages accumulated so far has its pages spliced in at that
// position; every other file is appended. Colliding indices are not
// reconciled: a later file spliced at the same position lands in front of
// the earlier one.
func (l *OrderingList) Plan(pageCounts []int) ([]PageRef, error) {
	if len(pageCounts) != len(l.files) {
		return nil, fmt.Errorf("%w: %d files, %d counts", ErrPageCountMismatch, len(l.files), len(pageCounts))
	}

	total := 0
	for i, n := range pageCounts {
		if n < 0 {
			return nil, fmt.Errorf("%w: file %d has %d pages", ErrPageCountMismatch, i, n)
		}
		total += n
	}

	out := make([]PageRef, 0, total)
	for i, f := range l.files {
		pages := make([]PageRef, pageCounts[i])
		for p := range pages {
			pages[p] = PageRef{File: i, Page: p + 1}
		}

		if f.InsertAt != nil && *f.InsertAt >= 0 && *f.InsertAt <= len(out) {
			out = slices.Insert(out, *f.InsertAt, pages...)
			continue
		}
		out = append(out, pages...)
	}
	return out, nil
}

func (l *OrderingList) checkIndex(index int) error {
	if index < 0 || index >= len(l.files) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(l.files))
	}
	return nil
}

// IsSequential reports whether plan is the plain concatenation of all pages.
func IsSequential(plan []PageRef, pageCounts []int) bool {
	i := 0
	for file, n := range pageCounts {
		for page := 1; page <= n; page++ {
			if i >= len(plan) || plan[i].File != file || plan[i].Page != page {
				return false
			}
			i++
		}
	}
	return i == len(plan)
}
