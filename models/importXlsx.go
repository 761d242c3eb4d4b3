package models

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/weolbu/settlement_backend/utils"
)

// Ledger export column headers.
const (
	HeaderOrderID        = "주문번호"
	HeaderMemberID       = "ID"
	HeaderName           = "이름"
	HeaderNickname       = "닉네임"
	HeaderOrderPhone     = "휴대폰번호"
	HeaderProductName    = "전시상품명"
	HeaderOptionInfo     = "옵션정보"
	HeaderGrossAmount    = "판매액(원)"
	HeaderPGAmount       = "PG 결제액(원)"
	HeaderInAppAmount    = "인앱 결제액(원)"
	HeaderPointsUsed     = "포인트사용"
	HeaderBenepiaPoints  = "베네피아포인트"
	HeaderVoucherUsed    = "상품권 사용"
	HeaderCouponDiscount = "쿠폰할인"
	HeaderStatus         = "상태"
	HeaderPaidAt         = "결제일시"
	HeaderWaitlistedAt   = "대기신청일"
	HeaderPayMethod      = "결제수단"
	HeaderPayRequest     = "결제요청"
	HeaderPayPlatform    = "결제플랫폼"
	HeaderMarketingOptIn = "마케팅수신동의"
	HeaderLegacyID       = "예전아이디"
)

// Registry export column headers. Coaching status exports name some of the
// same fields differently (성함/연락처/상담일시), so those aliases map to the
// same typed fields.
const (
	HeaderCoachingPhone  = "번호"
	HeaderSessionDate    = "코칭진행일"
	HeaderCoach          = "코치"
	HeaderProgress       = "진행여부 / 비고"
	HeaderAppliedAt      = "신청일"
	HeaderCancellation   = "취소 및 환불"
	HeaderAltName        = "성함"
	HeaderAltPhone       = "연락처"
	HeaderAltSessionDate = "상담일시"
)

// headers that qualify a row as the header row during the scan
var identityHeaders = []string{
	HeaderName, HeaderNickname, HeaderOrderPhone,
	HeaderAltName, HeaderAltPhone, HeaderCoachingPhone,
}

const headerScanRows = 5

// OpenWorkbook decodes an uploaded xlsx stream.
func OpenWorkbook(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}

// sheetHeader is the resolved header row of one sheet: names plus the source
// column index of each, blank header cells dropped.
type sheetHeader struct {
	names   []string
	indices []int
	rowIdx  int
}

// findHeader scans the first rows for one that contains at least one
// recognizable identity column, per the uncontrolled-export reality: some
// registry files carry a title row or a coach banner above the real header.
func findHeader(rows [][]string) (*sheetHeader, error) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		names := make([]string, 0, len(rows[i]))
		indices := make([]int, 0, len(rows[i]))
		for col, cell := range rows[i] {
			name := utils.TrimString(cell)
			if name == "" {
				continue
			}
			names = append(names, name)
			indices = append(indices, col)
		}
		if len(names) < 2 {
			continue
		}
		for _, want := range identityHeaders {
			for _, name := range names {
				if name == want {
					return &sheetHeader{names: names, indices: indices, rowIdx: i}, nil
				}
			}
		}
	}
	return nil, utils.ErrHeaderMissing
}

// rowToMap pairs a data row with the resolved header, skipping blank cells so
// absent columns stay absent rather than becoming empty strings.
func (h *sheetHeader) rowToMap(row []string) map[string]string {
	fields := make(map[string]string, len(h.names))
	for i, name := range h.names {
		col := h.indices[i]
		if col >= len(row) {
			continue
		}
		if value := row[col]; strings.TrimSpace(value) != "" {
			fields[name] = value
		}
	}
	return fields
}

func takeField(fields map[string]string, keys ...string) string {
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			delete(fields, key)
			return value
		}
	}
	return ""
}

// ReadOrderRows reads the payment ledger sheet into order records. Rows
// lacking every identity field (name, nickname, phone) are dropped as filler.
func ReadOrderRows(f *excelize.File, sheet string) ([]OrderRecord, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, utils.ErrEmptySheet
	}
	header, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	orders := make([]OrderRecord, 0, len(rows)-header.rowIdx-1)
	for _, row := range rows[header.rowIdx+1:] {
		fields := header.rowToMap(row)
		if len(fields) == 0 {
			continue
		}
		order := OrderRecord{
			OrderID:        takeField(fields, HeaderOrderID),
			MemberID:       takeField(fields, HeaderMemberID),
			Name:           takeField(fields, HeaderName),
			Nickname:       takeField(fields, HeaderNickname),
			Phone:          takeField(fields, HeaderOrderPhone),
			ProductName:    takeField(fields, HeaderProductName),
			OptionInfo:     takeField(fields, HeaderOptionInfo),
			GrossAmount:    takeField(fields, HeaderGrossAmount),
			PGAmount:       takeField(fields, HeaderPGAmount),
			InAppAmount:    takeField(fields, HeaderInAppAmount),
			PointsUsed:     takeField(fields, HeaderPointsUsed),
			BenepiaPoints:  takeField(fields, HeaderBenepiaPoints),
			VoucherUsed:    takeField(fields, HeaderVoucherUsed),
			CouponDiscount: takeField(fields, HeaderCouponDiscount),
			Status:         takeField(fields, HeaderStatus),
			PaidAt:         takeField(fields, HeaderPaidAt),
			WaitlistedAt:   takeField(fields, HeaderWaitlistedAt),
			PayMethod:      takeField(fields, HeaderPayMethod),
			PayRequest:     takeField(fields, HeaderPayRequest),
			PayPlatform:    takeField(fields, HeaderPayPlatform),
			MarketingOptIn: takeField(fields, HeaderMarketingOptIn),
			LegacyID:       takeField(fields, HeaderLegacyID),
			Extra:          fields,
		}
		if utils.IsBlank(order.Name) && utils.IsBlank(order.Nickname) && utils.IsBlank(order.Phone) {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ReadCoachingRows reads the enrollment registry sheet into coaching records.
// The coach column is forward-filled across rows because registry sheets
// merge the coach cell over that coach's block of enrollments.
func ReadCoachingRows(f *excelize.File, sheet string) ([]CoachingRecord, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, utils.ErrEmptySheet
	}
	header, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	coachings := make([]CoachingRecord, 0, len(rows)-header.rowIdx-1)
	currentCoach := ""
	for _, row := range rows[header.rowIdx+1:] {
		fields := header.rowToMap(row)
		if len(fields) == 0 {
			continue
		}
		coaching := CoachingRecord{
			Nickname:     takeField(fields, HeaderNickname),
			Name:         takeField(fields, HeaderName, HeaderAltName),
			Phone:        takeField(fields, HeaderCoachingPhone, HeaderAltPhone),
			SessionDate:  takeField(fields, HeaderSessionDate, HeaderAltSessionDate),
			Coach:        takeField(fields, HeaderCoach),
			Progress:     takeField(fields, HeaderProgress),
			AppliedAt:    takeField(fields, HeaderAppliedAt),
			Cancellation: takeField(fields, HeaderCancellation),
			Extra:        fields,
		}
		if utils.IsBlank(coaching.Coach) {
			coaching.Coach = currentCoach
		} else {
			currentCoach = utils.TrimString(coaching.Coach)
		}
		if utils.IsBlank(coaching.Name) && utils.IsBlank(coaching.Nickname) && utils.IsBlank(coaching.Phone) {
			continue
		}
		coachings = append(coachings, coaching)
	}
	return coachings, nil
}
