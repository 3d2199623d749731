package domain

import (
	"errors"
	"testing"
)

func pdfFile(name string) *SelectedFile {
	return &SelectedFile{ID: name, Name: name, MIMEType: PDFMIMEType}
}

func names(l *OrderingList) []string {
	var out []string
	for _, f := range l.Files() {
		out = append(out, f.Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intPtr(v int) *int { return &v }

func TestOrderingList_AddRejectsNonPDF(t *testing.T) {
	l := NewOrderingList(pdfFile("a.pdf"))

	err := l.Add(&SelectedFile{Name: "notes.txt", MIMEType: "text/plain"})
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected list to be unchanged, got %d entries", l.Len())
	}
}

func TestOrderingList_AddAcceptsMIMEParameters(t *testing.T) {
	l := NewOrderingList()
	if err := l.Add(&SelectedFile{Name: "a.pdf", MIMEType: "Application/PDF; charset=binary"}); err != nil {
		t.Fatalf("expected PDF with parameters to be accepted, got %v", err)
	}
}

func TestOrderingList_Remove(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"), pdfFile("c"), pdfFile("d"))

	if err := l.Remove(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(l); !equalStrings(got, []string{"a", "c", "d"}) {
		t.Fatalf("unexpected order after remove: %v", got)
	}
	if err := l.Remove(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if l.Len() != 3 {
		t.Fatalf("failed remove must not change length, got %d", l.Len())
	}
}

func TestOrderingList_MoveBoundariesAreNoOps(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"), pdfFile("c"))

	if err := l.Move(0, DirectionUp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Move(2, DirectionDown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(l); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected unchanged order, got %v", got)
	}
}

func TestOrderingList_MoveSwapsNeighbours(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"), pdfFile("c"))

	if err := l.Move(0, DirectionDown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(l); !equalStrings(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if err := l.Move(2, DirectionUp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(l); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if err := l.Move(1, Direction("sideways")); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" UP "); err != nil || d != DirectionUp {
		t.Fatalf("expected up, got %q %v", d, err)
	}
	if _, err := ParseDirection("left"); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestOrderingList_SetInsertAt(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"))

	if err := l.SetInsertAt(1, intPtr(-1)); !errors.Is(err, ErrInvalidInsertIndex) {
		t.Fatalf("expected ErrInvalidInsertIndex, got %v", err)
	}
	v := 2
	if err := l.SetInsertAt(1, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v = 7
	f, _ := l.Get(1)
	if f.InsertAt == nil || *f.InsertAt != 2 {
		t.Fatalf("expected insert index to be copied, got %v", f.InsertAt)
	}
	if err := l.SetInsertAt(1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.InsertAt != nil {
		t.Fatalf("expected insert index to be cleared")
	}
}

func TestPlan_AppendsInOrder(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"))

	plan, err := l.Plan([]int{1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []PageRef{{File: 0, Page: 1}, {File: 1, Page: 1}}
	if len(plan) != len(want) || plan[0] != want[0] || plan[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, plan)
	}
	if !IsSequential(plan, []int{1, 1}) {
		t.Fatalf("expected plain concatenation to be sequential")
	}
}

func TestPlan_TotalPagesPreserved(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"), pdfFile("c"))
	counts := []int{3, 5, 2}

	plan, err := l.Plan(counts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 10 {
		t.Fatalf("expected 10 pages, got %d", len(plan))
	}
}

func TestPlan_SplicesAtInsertIndex(t *testing.T) {
	base := pdfFile("base")
	extra := pdfFile("extra")
	extra.InsertAt = intPtr(1)
	l := NewOrderingList(base, extra)

	plan, err := l.Plan([]int{3, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []PageRef{{0, 1}, {1, 1}, {1, 2}, {0, 2}, {0, 3}}
	assertPlan(t, plan, want)
	if IsSequential(plan, []int{3, 2}) {
		t.Fatalf("spliced plan must not be sequential")
	}
}

func TestPlan_InsertIndexEqualToCountAppends(t *testing.T) {
	extra := pdfFile("extra")
	extra.InsertAt = intPtr(2)
	l := NewOrderingList(pdfFile("base"), extra)

	plan, _ := l.Plan([]int{2, 1})
	assertPlan(t, plan, []PageRef{{0, 1}, {0, 2}, {1, 1}})
}

func TestPlan_InsertIndexBeyondCountAppends(t *testing.T) {
	extra := pdfFile("extra")
	extra.InsertAt = intPtr(9)
	l := NewOrderingList(pdfFile("base"), extra)

	plan, _ := l.Plan([]int{2, 1})
	assertPlan(t, plan, []PageRef{{0, 1}, {0, 2}, {1, 1}})
}

func TestPlan_CollidingIndicesLastAppliedWins(t *testing.T) {
	b := pdfFile("b")
	b.InsertAt = intPtr(1)
	c := pdfFile("c")
	c.InsertAt = intPtr(1)
	l := NewOrderingList(pdfFile("a"), b, c)

	plan, _ := l.Plan([]int{2, 1, 1})
	assertPlan(t, plan, []PageRef{{0, 1}, {2, 1}, {1, 1}, {0, 2}})
}

func TestPlan_CountMismatch(t *testing.T) {
	l := NewOrderingList(pdfFile("a"), pdfFile("b"))
	if _, err := l.Plan([]int{1}); !errors.Is(err, ErrPageCountMismatch) {
		t.Fatalf("expected ErrPageCountMismatch, got %v", err)
	}
}

func assertPlan(t *testing.T, got, want []PageRef) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestOrderingList_CloneIsIndependent(t *testing.T) {
	a := pdfFile("a")
	a.InsertAt = intPtr(1)
	l := NewOrderingList(a, pdfFile("b"))

	c := l.Clone()
	if err := c.Move(0, DirectionDown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SetInsertAt(1, intPtr(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := names(l); !equalStrings(got, []string{"a", "b"}) {
		t.Fatalf("original order changed: %v", got)
	}
	if f, _ := l.Get(0); *f.InsertAt != 1 {
		t.Fatalf("original insert index changed: %d", *f.InsertAt)
	}
}
