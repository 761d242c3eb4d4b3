package reports

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/weolbu/settlement_backend/models"
)

func matchedItem(order models.OrderRecord, coaching models.CoachingRecord) models.ComparisonItem {
	return models.ComparisonItem{
		Key:      order.Key(),
		Order:    &order,
		Coaching: &coaching,
		Result:   models.ResultMatched,
	}
}

func orderOnlyItem(order models.OrderRecord) models.ComparisonItem {
	return models.ComparisonItem{Key: order.Key(), Order: &order, Result: models.ResultOnlyInOrders}
}

func coachingOnlyItem(coaching models.CoachingRecord) models.ComparisonItem {
	return models.ComparisonItem{Key: coaching.Key(), Coaching: &coaching, Result: models.ResultOnlyInCoaching}
}

func cellDecimal(t *testing.T, row Row, col string) decimal.Decimal {
	t.Helper()
	value, ok := row[col].(decimal.Decimal)
	if !ok {
		t.Fatalf("column %q holds %T, want decimal", col, row[col])
	}
	return value
}

func TestSettlementRows_Matched(t *testing.T) {
	item := matchedItem(
		models.OrderRecord{
			Name:        "김철수",
			OrderID:     "ORD-1",
			ProductName: "재테크 코칭",
			GrossAmount: "1,234,000원",
			Status:      "결제완료",
			PaidAt:      "2024-01-15 10:30:00",
		},
		models.CoachingRecord{Name: "김철수", Coach: "코치A", SessionDate: "2024-01-20"},
	)

	rows := SettlementRows([]models.ComparisonItem{item, coachingOnlyItem(models.CoachingRecord{Name: "x"})})
	if len(rows) != 1 {
		t.Fatalf("only matched items belong in the settlement sheet, got %d rows", len(rows))
	}
	row := rows[0]
	if row[models.HeaderStatus] != "결제완료" {
		t.Fatalf("status = %v", row[models.HeaderStatus])
	}
	if !cellDecimal(t, row, models.HeaderGrossAmount).Equal(decimal.NewFromInt(1234000)) {
		t.Fatalf("gross amount = %v", row[models.HeaderGrossAmount])
	}
	if row[models.HeaderCoach] != "코치A" || row[models.HeaderSessionDate] != "2024.01.20" {
		t.Fatalf("coaching side not carried: coach=%v date=%v",
			row[models.HeaderCoach], row[models.HeaderSessionDate])
	}
}

func TestUnmatchedRows_PlaceholdersAndLabels(t *testing.T) {
	items := []models.ComparisonItem{
		orderOnlyItem(models.OrderRecord{Name: "김철수", GrossAmount: "50000"}),
		coachingOnlyItem(models.CoachingRecord{Name: "이영희", Coach: "코치B"}),
	}

	rows := UnmatchedRows(items, nil)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	paid := rows[0]
	if paid[models.HeaderStatus] != StatusPaidNoCoaching {
		t.Fatalf("paid-only status = %v", paid[models.HeaderStatus])
	}
	if paid[models.HeaderCoach] != textPlaceholder {
		t.Fatalf("absent coaching text column = %v, want %q", paid[models.HeaderCoach], textPlaceholder)
	}

	coached := rows[1]
	if coached[models.HeaderStatus] != StatusCoachedNotPaid {
		t.Fatalf("coaching-only status = %v", coached[models.HeaderStatus])
	}
	if coached[models.HeaderProductName] != "코칭신청" || coached[models.HeaderOptionInfo] != "코칭서비스" {
		t.Fatalf("coaching-only description: %v / %v",
			coached[models.HeaderProductName], coached[models.HeaderOptionInfo])
	}
	// amount columns stay numeric even with no order side
	if !cellDecimal(t, coached, models.HeaderGrossAmount).IsZero() {
		t.Fatalf("absent amount = %v, want 0", coached[models.HeaderGrossAmount])
	}
}

func TestUnmatchedRows_SkipsClaimedPairs(t *testing.T) {
	orderItem := orderOnlyItem(models.OrderRecord{Name: "김철수", Phone: "010-1"})
	coachingItem := coachingOnlyItem(models.CoachingRecord{Name: "김영수", Phone: "010-1"})
	leftover := orderOnlyItem(models.OrderRecord{Name: "박민준"})

	pairs := []models.SuspectedMatchPair{
		{OrderItem: orderItem, CoachingItem: coachingItem, Basis: models.BasisPhone},
	}

	rows := UnmatchedRows([]models.ComparisonItem{orderItem, coachingItem, leftover}, pairs)
	if len(rows) != 1 {
		t.Fatalf("claimed items must not appear, got %d rows", len(rows))
	}
	if rows[0][models.HeaderName] != "박민준" {
		t.Fatalf("wrong survivor: %v", rows[0][models.HeaderName])
	}
}

func TestSuspectedMatchRows_RecordsBasis(t *testing.T) {
	pairs := []models.SuspectedMatchPair{
		{
			OrderItem:    orderOnlyItem(models.OrderRecord{Name: "김철수", Phone: "010-1"}),
			CoachingItem: coachingOnlyItem(models.CoachingRecord{Name: "김영수", Phone: "010-1", Coach: "코치A"}),
			Basis:        models.BasisPhone,
		},
	}

	rows := SuspectedMatchRows(pairs)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row[colMatchBasis] != string(models.BasisPhone) {
		t.Fatalf("match basis = %v", row[colMatchBasis])
	}
	if row[models.HeaderStatus] != StatusSuspectedSame {
		t.Fatalf("status = %v", row[models.HeaderStatus])
	}
	// ledger identity wins over the registry spelling
	if row[models.HeaderName] != "김철수" {
		t.Fatalf("name = %v", row[models.HeaderName])
	}
}

func TestDuplicateRows_Label(t *testing.T) {
	order := models.OrderRecord{Name: "김철수", GrossAmount: "50000"}
	dup := models.ComparisonItem{
		Key:      order.Key(),
		Order:    &order,
		Coaching: &models.CoachingRecord{Name: "김철수", Coach: "코치B"},
		Result:   models.ResultDuplicate,
	}

	rows := DuplicateRows([]models.ComparisonItem{dup})
	if len(rows) != 1 || rows[0][models.HeaderStatus] != StatusDuplicateCoaching {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][models.HeaderCoach] != "코치B" {
		t.Fatalf("coach = %v", rows[0][models.HeaderCoach])
	}
}

func TestColumns_FixedThenSortedExtras(t *testing.T) {
	rows := []Row{
		{models.HeaderName: "a", "추가2": "x", colMatchBasis: "이름"},
		{"추가1": "y"},
	}

	columns := Columns(rows)

	for i, col := range settlementColumns {
		if columns[i] != col {
			t.Fatalf("fixed prefix broken at %d: %q", i, columns[i])
		}
	}
	extras := columns[len(settlementColumns):]
	want := []string{colMatchBasis, "추가1", "추가2"}
	if len(extras) != len(want) {
		t.Fatalf("extras = %v", extras)
	}
	for i := range want {
		if extras[i] != want[i] {
			t.Fatalf("extras not sorted: %v", extras)
		}
	}
}
