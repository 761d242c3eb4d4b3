package reports

import (
	"sort"

	"github.com/weolbu/settlement_backend/models"
	"github.com/weolbu/settlement_backend/utils"
)

// Row is one flat output row. Cell values are strings or decimal.Decimal;
// absent fields are filled with an explicit placeholder, never left out.
type Row map[string]any

// Status labels assigned by classification; never copied from the source.
const (
	StatusPaidNoCoaching    = "결제완료(코칭없음)"
	StatusCoachedNotPaid    = "코칭신청(결제없음)"
	StatusSuspectedSame     = "결제완료(코칭있음)"
	StatusDuplicateCoaching = "중복코칭(결제1건)"
)

const (
	colMatchBasis    = "매칭기준"
	coachExtraPrefix = "코칭_"
	textPlaceholder  = "-"
)

// settlementColumns is the documented base column order of every settlement
// export: ledger columns first, then the coaching side. Coaching-side extra
// columns follow, prefixed to avoid collision with ledger column names.
var settlementColumns = []string{
	models.HeaderProductName,
	models.HeaderName,
	models.HeaderOrderPhone,
	models.HeaderOrderID,
	models.HeaderMemberID,
	models.HeaderNickname,
	models.HeaderOptionInfo,
	models.HeaderGrossAmount,
	models.HeaderPGAmount,
	models.HeaderInAppAmount,
	models.HeaderPointsUsed,
	models.HeaderBenepiaPoints,
	models.HeaderVoucherUsed,
	models.HeaderCouponDiscount,
	models.HeaderStatus,
	models.HeaderPaidAt,
	models.HeaderWaitlistedAt,
	models.HeaderPayMethod,
	models.HeaderPayRequest,
	models.HeaderPayPlatform,
	models.HeaderMarketingOptIn,
	models.HeaderLegacyID,
	models.HeaderCoach,
	models.HeaderSessionDate,
}

func orText(value, fallback string) string {
	if utils.IsBlank(value) {
		return fallback
	}
	return value
}

// baseRow fills the settlement columns from an optional order side and an
// optional coaching side, then merges the pass-through extras: ledger extras
// under their original column names, coaching extras prefixed.
func baseRow(order *models.OrderRecord, coaching *models.CoachingRecord, status string) Row {
	row := Row{}
	for _, col := range settlementColumns {
		row[col] = textPlaceholder
	}

	name, nickname, phone := "", "", ""
	if order != nil {
		name, nickname, phone = order.Name, order.Nickname, order.Phone
	}
	if coaching != nil {
		name = orText(name, coaching.Name)
		nickname = orText(nickname, coaching.Nickname)
		phone = orText(phone, coaching.Phone)
	}
	row[models.HeaderName] = orText(name, textPlaceholder)
	row[models.HeaderNickname] = orText(nickname, textPlaceholder)
	row[models.HeaderOrderPhone] = orText(phone, textPlaceholder)
	row[models.HeaderStatus] = status

	if order != nil {
		row[models.HeaderProductName] = orText(order.ProductName, textPlaceholder)
		row[models.HeaderOrderID] = orText(order.OrderID, textPlaceholder)
		row[models.HeaderMemberID] = orText(order.MemberID, textPlaceholder)
		row[models.HeaderOptionInfo] = orText(order.OptionInfo, textPlaceholder)
		row[models.HeaderPaidAt] = orText(utils.ParseSheetDateTime(order.PaidAt), textPlaceholder)
		row[models.HeaderWaitlistedAt] = orText(utils.ParseSheetDateTime(order.WaitlistedAt), textPlaceholder)
		row[models.HeaderPayMethod] = orText(order.PayMethod, textPlaceholder)
		row[models.HeaderPayRequest] = orText(order.PayRequest, textPlaceholder)
		row[models.HeaderPayPlatform] = orText(order.PayPlatform, textPlaceholder)
		row[models.HeaderMarketingOptIn] = orText(order.MarketingOptIn, "Y")
		row[models.HeaderLegacyID] = orText(order.LegacyID, textPlaceholder)
		for key, value := range order.Extra {
			row[key] = value
		}
	} else if coaching != nil {
		row[models.HeaderProductName] = "코칭신청"
		row[models.HeaderOptionInfo] = "코칭서비스"
	}

	// amount columns carry 0 rather than a dash when the order side is absent
	amounts := map[string]string{
		models.HeaderGrossAmount:    "",
		models.HeaderPGAmount:       "",
		models.HeaderInAppAmount:    "",
		models.HeaderPointsUsed:     "",
		models.HeaderBenepiaPoints:  "",
		models.HeaderVoucherUsed:    "",
		models.HeaderCouponDiscount: "",
	}
	if order != nil {
		amounts[models.HeaderGrossAmount] = order.GrossAmount
		amounts[models.HeaderPGAmount] = order.PGAmount
		amounts[models.HeaderInAppAmount] = order.InAppAmount
		amounts[models.HeaderPointsUsed] = order.PointsUsed
		amounts[models.HeaderBenepiaPoints] = order.BenepiaPoints
		amounts[models.HeaderVoucherUsed] = order.VoucherUsed
		amounts[models.HeaderCouponDiscount] = order.CouponDiscount
	}
	for col, raw := range amounts {
		row[col] = utils.ParseAmount(raw)
	}

	if coaching != nil {
		row[models.HeaderCoach] = orText(coaching.Coach, textPlaceholder)
		row[models.HeaderSessionDate] = orText(utils.ParseSheetDate(coaching.SessionDate), textPlaceholder)
		if !utils.IsBlank(coaching.Progress) {
			row[coachExtraPrefix+models.HeaderProgress] = coaching.Progress
		}
		if !utils.IsBlank(coaching.AppliedAt) {
			row[coachExtraPrefix+models.HeaderAppliedAt] = utils.ParseSheetDate(coaching.AppliedAt)
		}
		if !utils.IsBlank(coaching.Cancellation) {
			row[coachExtraPrefix+models.HeaderCancellation] = coaching.Cancellation
		}
		for key, value := range coaching.Extra {
			row[coachExtraPrefix+key] = value
		}
	}

	return row
}

// SettlementRows shapes the matched items into settlement export rows.
func SettlementRows(items []models.ComparisonItem) []Row {
	rows := make([]Row, 0)
	for _, item := range items {
		if item.Result != models.ResultMatched {
			continue
		}
		status := "결제완료"
		if item.Order != nil && !utils.IsBlank(item.Order.Status) {
			status = item.Order.Status
		}
		rows = append(rows, baseRow(item.Order, item.Coaching, status))
	}
	return rows
}

// UnmatchedRows shapes the residual one-sided items, skipping cancelled
// coaching rows, duplicate cases and any item already claimed by a suspected
// match.
func UnmatchedRows(items []models.ComparisonItem, suspected []models.SuspectedMatchPair) []Row {
	claimedOrders := make(map[string]struct{})
	claimedCoachings := make(map[string]struct{})
	for _, pair := range suspected {
		claimedOrders[pair.OrderItem.Key] = struct{}{}
		claimedCoachings[pair.CoachingItem.Key] = struct{}{}
	}

	rows := make([]Row, 0)
	for _, item := range models.ValidOnlyInOrders(items) {
		if _, claimed := claimedOrders[item.Key]; claimed {
			continue
		}
		rows = append(rows, baseRow(item.Order, nil, StatusPaidNoCoaching))
	}
	for _, item := range models.ValidOnlyInCoaching(items) {
		if _, claimed := claimedCoachings[item.Key]; claimed {
			continue
		}
		rows = append(rows, baseRow(nil, item.Coaching, StatusCoachedNotPaid))
	}
	return rows
}

// SuspectedMatchRows flattens each suspected pair into one combined row with
// the triggering field recorded in a trailing column.
func SuspectedMatchRows(pairs []models.SuspectedMatchPair) []Row {
	rows := make([]Row, 0, len(pairs))
	for _, pair := range pairs {
		row := baseRow(pair.OrderItem.Order, pair.CoachingItem.Coaching, StatusSuspectedSame)
		row[colMatchBasis] = string(pair.Basis)
		rows = append(rows, row)
	}
	return rows
}

// DuplicateRows shapes the repeat-enrollment cases.
func DuplicateRows(cases []models.ComparisonItem) []Row {
	rows := make([]Row, 0, len(cases))
	for _, item := range cases {
		rows = append(rows, baseRow(item.Order, item.Coaching, StatusDuplicateCoaching))
	}
	return rows
}

// Columns resolves the final column order for a row set: the fixed settlement
// columns, then every remaining key sorted, so pass-through columns always
// land in a deterministic place.
func Columns(rows []Row) []string {
	base := make(map[string]struct{}, len(settlementColumns))
	for _, col := range settlementColumns {
		base[col] = struct{}{}
	}

	extraSet := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			if _, fixed := base[key]; !fixed {
				extraSet[key] = struct{}{}
			}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extras = append(extras, key)
	}
	sort.Strings(extras)

	columns := make([]string, 0, len(settlementColumns)+len(extras))
	columns = append(columns, settlementColumns...)
	return append(columns, extras...)
}
