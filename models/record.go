package models

import (
	"github.com/weolbu/settlement_backend/utils"
)

// OrderRecord is one row of the payment/order ledger export. Core columns are
// typed; every other column travels in Extra untouched and is merged back at
// the row-shaping stage. Cell values stay raw strings — parsing happens where
// a number or date is actually needed.
type OrderRecord struct {
	OrderID        string
	MemberID       string
	Name           string
	Nickname       string
	Phone          string
	ProductName    string
	OptionInfo     string
	GrossAmount    string // 판매액(원)
	PGAmount       string // PG 결제액(원)
	InAppAmount    string // 인앱 결제액(원)
	PointsUsed     string
	BenepiaPoints  string
	VoucherUsed    string
	CouponDiscount string
	Status         string
	PaidAt         string // 결제일시
	WaitlistedAt   string // 대기신청일
	PayMethod      string
	PayRequest     string
	PayPlatform    string
	MarketingOptIn string
	LegacyID       string
	Extra          map[string]string
}

// CoachingRecord is one row of the coaching-enrollment registry export.
// The registry names its phone column differently from the ledger (번호 vs
// 휴대폰번호) but the values live in the same domain.
type CoachingRecord struct {
	Nickname     string
	Name         string
	Phone        string // 번호
	SessionDate  string // 코칭진행일
	Coach        string
	Progress     string // 진행여부 / 비고
	AppliedAt    string // 신청일
	Cancellation string // 취소 및 환불
	Extra        map[string]string
}

// IdentityKey derives the join key for primary matching: the trimmed name,
// used verbatim. Two people sharing a name collapse to one identity on
// purpose; phone and nickname only come into play in the residual
// suspected-match pass. Making this key composite would shift the
// matched/unmatched counts the settlement team reconciles against.
func IdentityKey(name string) string {
	return utils.TrimString(name)
}

func (o *OrderRecord) Key() string {
	return IdentityKey(o.Name)
}

func (c *CoachingRecord) Key() string {
	return IdentityKey(c.Name)
}

func (o *OrderRecord) HasName() bool {
	return !utils.IsBlank(o.Name)
}

func (c *CoachingRecord) HasName() bool {
	return !utils.IsBlank(c.Name)
}

// cancelledStatuses holds the source-locale cancellation vocabulary plus the
// English normalizations, compared trimmed and lowercased.
var cancelledStatuses = map[string]struct{}{
	"취소":        {},
	"환불":        {},
	"cancelled": {},
	"refunded":  {},
}

// IsCancelled reports whether the enrollment was cancelled or refunded.
// Cancelled rows never match and never deduplicate; they are reported
// individually and counted apart.
func (c *CoachingRecord) IsCancelled() bool {
	_, ok := cancelledStatuses[utils.TrimLower(c.Cancellation)]
	return ok
}
