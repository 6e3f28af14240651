package coverage

import "testing"

func TestPaginateSevenItemsPageSizeFive(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page0, info0 := Paginate(items, 5, 0)
	if len(page0) != 5 || page0[0] != 1 || page0[4] != 5 {
		t.Errorf("page 0 items: got %v", page0)
	}
	if info0.StartIndex != 1 || info0.EndIndex != 5 {
		t.Errorf("page 0 indexes: got %d-%d, want 1-5", info0.StartIndex, info0.EndIndex)
	}
	if !info0.HasNext || info0.HasPrev {
		t.Errorf("page 0 flags: next=%v prev=%v", info0.HasNext, info0.HasPrev)
	}
	if info0.TotalPages != 2 {
		t.Errorf("TotalPages: got %d, want 2", info0.TotalPages)
	}

	page1, info1 := Paginate(items, 5, 1)
	if len(page1) != 2 || page1[0] != 6 || page1[1] != 7 {
		t.Errorf("page 1 items: got %v", page1)
	}
	if info1.StartIndex != 6 || info1.EndIndex != 7 {
		t.Errorf("page 1 indexes: got %d-%d, want 6-7", info1.StartIndex, info1.EndIndex)
	}
	if info1.HasNext || !info1.HasPrev {
		t.Errorf("page 1 flags: next=%v prev=%v", info1.HasNext, info1.HasPrev)
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	page, info := Paginate([]string(nil), 5, 0)
	if len(page) != 0 {
		t.Errorf("items: got %v, want empty", page)
	}
	if info.TotalPages != 1 {
		t.Errorf("TotalPages: got %d, want 1 even for empty input", info.TotalPages)
	}
	if info.StartIndex != 0 || info.EndIndex != 0 {
		t.Errorf("indexes: got %d-%d, want 0-0", info.StartIndex, info.EndIndex)
	}
	if info.HasNext || info.HasPrev {
		t.Error("empty input must have no next/previous page")
	}
}

func TestPaginateOutOfRangeClamps(t *testing.T) {
	items := []int{1, 2, 3}
	page, info := Paginate(items, 2, 99)
	if len(page) != 1 || page[0] != 3 {
		t.Errorf("clamped page items: got %v, want [3]", page)
	}
	if info.CurrentPage != 1 {
		t.Errorf("CurrentPage: got %d, want 1 (last valid page)", info.CurrentPage)
	}
}

func TestPaginateBadPageSize(t *testing.T) {
	items := []int{1, 2}
	page, info := Paginate(items, 0, 0)
	if len(page) != 1 {
		t.Errorf("pageSize 0 must be raised to 1, got %d items", len(page))
	}
	if info.TotalPages != 2 {
		t.Errorf("TotalPages: got %d, want 2", info.TotalPages)
	}
}
