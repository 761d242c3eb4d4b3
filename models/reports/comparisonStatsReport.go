package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/weolbu/settlement_backend/models"
	"github.com/weolbu/settlement_backend/utils"
)

// NoDataSentinel is the date-range placeholder for an empty batch.
const NoDataSentinel = "데이터 없음"

// UnassignedCoach labels matched sales whose registry row has no coach.
const UnassignedCoach = "미지정"

type OrderBatchStats struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	DateRange   string          `json:"dateRange"`
}

type CoachingBatchStats struct {
	UniqueCoaches int    `json:"uniqueCoaches"`
	DateRange     string `json:"dateRange"`
}

// ComparisonStats is the aggregate view over one finished run. It is a pure
// value recomputed on every request; nothing here is stored.
type ComparisonStats struct {
	Total                         int                        `json:"total"`
	Matched                       int                        `json:"matched"`
	OnlyInOrders                  int                        `json:"onlyInA"`
	OnlyInCoaching                int                        `json:"onlyInB"`
	OrderTotal                    int                        `json:"orderTotal"`
	CoachingTotal                 int                        `json:"coachingTotal"`
	CoachingTotalWithoutCancelled int                        `json:"coachingTotalWithoutCancelled"`
	CancelledCount                int                        `json:"cancelledCount"`
	OrderStats                    OrderBatchStats            `json:"orderStats"`
	CoachingStats                 CoachingBatchStats         `json:"coachingStats"`
	CoachSales                    map[string]decimal.Decimal `json:"coachSales"`
}

// ComputeStats folds a classified item set plus the raw batches into summary
// counters. Counters cover valid rows only (non-blank name, cancellation
// excluded) except CancelledCount and CoachingTotal, which count every
// cancelled row.
func ComputeStats(items []models.ComparisonItem, orders []models.OrderRecord, coachings []models.CoachingRecord) *ComparisonStats {
	validMatched := len(models.ValidMatched(items))
	validOnlyInOrders := len(models.ValidOnlyInOrders(items))
	validOnlyInCoaching := len(models.ValidOnlyInCoaching(items))

	totalAmount := decimal.Zero
	orderDates := make([]string, 0, len(orders))
	orderTotal := 0
	for i := range orders {
		order := &orders[i]
		if !order.HasName() {
			continue
		}
		orderTotal++
		totalAmount = totalAmount.Add(utils.ParseAmount(order.GrossAmount))
		if d := utils.ParseSheetDate(order.PaidAt); d != "" {
			orderDates = append(orderDates, d)
		}
	}

	coaches := make(map[string]struct{})
	coachingDates := make([]string, 0, len(coachings))
	cancelledCount := 0
	for i := range coachings {
		coaching := &coachings[i]
		if coaching.IsCancelled() {
			cancelledCount++
			continue
		}
		if !coaching.HasName() {
			continue
		}
		if coach := utils.TrimString(coaching.Coach); coach != "" {
			coaches[coach] = struct{}{}
		}
		if d := utils.ParseSheetDate(coaching.SessionDate); d != "" {
			coachingDates = append(coachingDates, d)
		}
	}

	return &ComparisonStats{
		Total:                         validMatched + validOnlyInOrders + validOnlyInCoaching,
		Matched:                       validMatched,
		OnlyInOrders:                  validOnlyInOrders,
		OnlyInCoaching:                validOnlyInCoaching,
		OrderTotal:                    orderTotal,
		CoachingTotal:                 validMatched + validOnlyInCoaching + cancelledCount,
		CoachingTotalWithoutCancelled: validMatched + validOnlyInCoaching,
		CancelledCount:                cancelledCount,
		OrderStats: OrderBatchStats{
			TotalAmount: totalAmount,
			DateRange:   dateRange(orderDates),
		},
		CoachingStats: CoachingBatchStats{
			UniqueCoaches: len(coaches),
			DateRange:     dateRange(coachingDates),
		},
		CoachSales: coachSales(items),
	}
}

// coachSales sums the gross amount of matched payments per coach.
func coachSales(items []models.ComparisonItem) map[string]decimal.Decimal {
	sales := make(map[string]decimal.Decimal)
	for _, item := range models.ValidMatched(items) {
		coach := utils.TrimString(item.Coaching.Coach)
		if coach == "" {
			coach = UnassignedCoach
		}
		sales[coach] = sales[coach].Add(utils.ParseAmount(item.Order.GrossAmount))
	}
	return sales
}

// dateRange joins min~max. The normalized "YYYY.MM.DD" strings sort
// lexically, so min/max fall out of a plain sort.
func dateRange(dates []string) string {
	if len(dates) == 0 {
		return NoDataSentinel
	}
	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)
	return sorted[0] + " ~ " + sorted[len(sorted)-1]
}
