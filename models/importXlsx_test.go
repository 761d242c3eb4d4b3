package models

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	return f
}

func TestReadOrderRows(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"이름", "휴대폰번호", "닉네임", "주문번호", "판매액(원)", "결제일시", "메모"},
		{"김철수", "010-1111-2222", "하늘", "ORD-1", "1,234,000원", "2024-01-15 10:30:00", "비고란"},
		{"", "", "", "", "", "", ""},
		{"이영희", "010-3333-4444", "", "ORD-2", 50000, "", ""},
	})
	defer f.Close()

	orders, err := ReadOrderRows(f, "Sheet1")
	if err != nil {
		t.Fatalf("ReadOrderRows: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders (filler row dropped), got %d", len(orders))
	}
	first := orders[0]
	if first.Name != "김철수" || first.Phone != "010-1111-2222" || first.OrderID != "ORD-1" {
		t.Fatalf("typed fields not mapped: %+v", first)
	}
	if first.GrossAmount != "1,234,000원" {
		t.Fatalf("raw cells must stay raw, got %q", first.GrossAmount)
	}
	if first.Extra["메모"] != "비고란" {
		t.Fatalf("unknown columns must land in Extra, got %v", first.Extra)
	}
	if _, leaked := first.Extra["이름"]; leaked {
		t.Fatal("typed columns must not leak into Extra")
	}
}

func TestReadCoachingRows_HeaderScanAndCoachFill(t *testing.T) {
	// registry sheets often carry a banner row above the real header, and
	// merge the coach cell over that coach's block
	f := buildSheet(t, [][]interface{}{
		{"3월 코칭 현황"},
		{"코치", "이름", "번호", "코칭진행일", "취소 및 환불"},
		{"코치A", "김철수", "010-1", "2024-03-02", ""},
		{"", "이영희", "010-2", "2024-03-03", ""},
		{"코치B", "박민준", "010-3", "2024-03-04", "취소"},
	})
	defer f.Close()

	coachings, err := ReadCoachingRows(f, "Sheet1")
	if err != nil {
		t.Fatalf("ReadCoachingRows: %v", err)
	}
	if len(coachings) != 3 {
		t.Fatalf("expected 3 coaching rows, got %d", len(coachings))
	}
	if coachings[1].Coach != "코치A" {
		t.Fatalf("merged coach cell must forward-fill, got %q", coachings[1].Coach)
	}
	if coachings[2].Coach != "코치B" {
		t.Fatalf("new coach value must replace the fill, got %q", coachings[2].Coach)
	}
	if !coachings[2].IsCancelled() {
		t.Fatal("cancellation column not mapped")
	}
}

func TestReadCoachingRows_AltHeaders(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"코치", "상담일시", "닉네임", "연락처", "성함"},
		{"코치A", "2024-03-02 14:00:00", "sky", "010-1", "김철수"},
	})
	defer f.Close()

	coachings, err := ReadCoachingRows(f, "Sheet1")
	if err != nil {
		t.Fatalf("ReadCoachingRows: %v", err)
	}
	if len(coachings) != 1 {
		t.Fatalf("expected 1 row, got %d", len(coachings))
	}
	c := coachings[0]
	if c.Name != "김철수" || c.Phone != "010-1" || c.SessionDate != "2024-03-02 14:00:00" {
		t.Fatalf("alias headers not mapped: %+v", c)
	}
}

func TestReadOrderRows_NoHeader(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"아무", "관계없는", "열"},
		{"1", "2", "3"},
	})
	defer f.Close()

	if _, err := ReadOrderRows(f, "Sheet1"); err == nil {
		t.Fatal("expected an error when no header row is recognizable")
	}
}

func TestReadOrderRows_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := ReadOrderRows(f, "Sheet1"); err == nil {
		t.Fatal("expected an error for a sheet without data")
	}
}
