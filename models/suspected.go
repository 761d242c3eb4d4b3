package models

import (
	"github.com/weolbu/settlement_backend/utils"
)

// MatchBasis names the field that triggered a secondary link. The values are
// the source-locale labels carried straight into the export.
type MatchBasis string

const (
	BasisPhone    MatchBasis = "전화번호"
	BasisNickname MatchBasis = "닉네임"
	BasisName     MatchBasis = "이름"
)

// SuspectedMatchPair is a lower-confidence link between a residual onlyInA
// item and a residual onlyInB item — probably the same person entered
// inconsistently across the two sources. Pairs are reporting-only and never
// feed back into the primary classification.
type SuspectedMatchPair struct {
	OrderItem    ComparisonItem `json:"orderItem"`
	CoachingItem ComparisonItem `json:"coachingItem"`
	Basis        MatchBasis     `json:"basis"`
}

// FindSuspectedMatches links residual unmatched items by exact trimmed-string
// equality in strict priority order: phone, then nickname, then name. First
// hit wins per order item; assignment is greedy in input order with each
// coaching item claimable at most once. A composite basis+value key guards
// against emitting the same pair twice.
//
// Callers pass the *valid* residual buckets (non-blank names, cancelled rows
// excluded); see ValidOnlyInOrders / ValidOnlyInCoaching.
func FindSuspectedMatches(onlyOrders, onlyCoachings []ComparisonItem) []SuspectedMatchPair {
	pairs := make([]SuspectedMatchPair, 0)
	seenMatchKeys := make(map[string]struct{})
	usedCoaching := make(map[int]struct{})

	claim := func(orderItem ComparisonItem, idx int, basis MatchBasis, value string) {
		matchKey := string(basis) + "_" + value
		if _, dup := seenMatchKeys[matchKey]; dup {
			return
		}
		seenMatchKeys[matchKey] = struct{}{}
		usedCoaching[idx] = struct{}{}
		pairs = append(pairs, SuspectedMatchPair{
			OrderItem:    orderItem,
			CoachingItem: onlyCoachings[idx],
			Basis:        basis,
		})
	}

	find := func(value string, field func(*CoachingRecord) string) int {
		for i, item := range onlyCoachings {
			if _, used := usedCoaching[i]; used {
				continue
			}
			candidate := utils.TrimString(field(item.Coaching))
			if candidate != "" && candidate == value {
				return i
			}
		}
		return -1
	}

	for _, orderItem := range onlyOrders {
		order := orderItem.Order
		phone := utils.TrimString(order.Phone)
		nickname := utils.TrimString(order.Nickname)
		name := utils.TrimString(order.Name)

		if phone != "" {
			if idx := find(phone, func(c *CoachingRecord) string { return c.Phone }); idx >= 0 {
				claim(orderItem, idx, BasisPhone, phone)
				continue
			}
		}
		if nickname != "" {
			if idx := find(nickname, func(c *CoachingRecord) string { return c.Nickname }); idx >= 0 {
				claim(orderItem, idx, BasisNickname, nickname)
				continue
			}
		}
		if name != "" {
			if idx := find(name, func(c *CoachingRecord) string { return c.Name }); idx >= 0 {
				claim(orderItem, idx, BasisName, name)
			}
		}
	}

	return pairs
}
