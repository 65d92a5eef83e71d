package ocr

import (
	"context"
	"testing"

	"docbc/common"
)

func TestCollapseRangesMergesConsecutivePages(t *testing.T) {
	got := CollapseRanges([]int{1, 2, 3, 5, 9, 10})
	if want := "1-3,5,9-10"; got != want {
		t.Errorf("CollapseRanges() = %q, want %q", got, want)
	}
}

func TestCollapseRangesDedupsAndSorts(t *testing.T) {
	got := CollapseRanges([]int{5, 1, 1, 2})
	if want := "1-2,5"; got != want {
		t.Errorf("CollapseRanges() = %q, want %q", got, want)
	}
}

func TestCollapseRangesEmpty(t *testing.T) {
	if got := CollapseRanges(nil); got != "" {
		t.Errorf("CollapseRanges(nil) = %q, want empty string", got)
	}
}

func TestRunOCRIsNoopForEmptyPageList(t *testing.T) {
	out, err := RunOCR(context.Background(), "/nonexistent/in.pdf", nil, "/nonexistent/out.pdf")
	if err != nil {
		t.Fatalf("RunOCR with no pages should not error, got %v", err)
	}
	if out != "/nonexistent/in.pdf" {
		t.Errorf("RunOCR with no pages should return input path unchanged, got %q", out)
	}
}

func TestMarkOCRPagesSetsFlagOnlyForListedPages(t *testing.T) {
	pages := []common.PageText{{PageNum: 1}, {PageNum: 2}, {PageNum: 3}}
	marked := MarkOCRPages(pages, []int{2})

	if marked[0].HasOCR || marked[2].HasOCR {
		t.Errorf("expected only page 2 marked, got %+v", marked)
	}
	if !marked[1].HasOCR {
		t.Error("expected page 2 to be marked HasOCR")
	}
}
