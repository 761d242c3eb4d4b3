package models

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/weolbu/settlement_backend/config"
)

type MatchResult string

const (
	ResultMatched        MatchResult = "matched"
	ResultOnlyInOrders   MatchResult = "onlyInA"
	ResultOnlyInCoaching MatchResult = "onlyInB"
	ResultDuplicate      MatchResult = "duplicate"
)

// ComparisonItem links a ledger row and a registry row under one identity
// key. Exactly one side may be nil depending on Result. Items are never
// mutated after creation; a reclassification produces a new item.
type ComparisonItem struct {
	Key      string          `json:"key"`
	Order    *OrderRecord    `json:"order,omitempty"`
	Coaching *CoachingRecord `json:"coaching,omitempty"`
	Result   MatchResult     `json:"result"`
}

// Compare classifies every order row and every coaching row into
// matched / onlyInA / onlyInB.
//
// Cancelled and refunded coaching rows are carved out first: they never enter
// the match map and each one is emitted as onlyInB regardless of key
// repetition. Among active coaching rows the first occurrence of a key wins
// the map slot; later occurrences surface through FindDuplicateCases.
// Order-derived items precede coaching-derived items in the output.
func Compare(orders []OrderRecord, coachings []CoachingRecord) []ComparisonItem {
	results := make([]ComparisonItem, 0, len(orders)+len(coachings))

	coachingMap := make(map[string]*CoachingRecord)
	for i := range coachings {
		coaching := &coachings[i]
		if coaching.IsCancelled() {
			continue
		}
		key := coaching.Key()
		if _, exists := coachingMap[key]; !exists {
			coachingMap[key] = coaching
		}
	}

	usedCoachingKeys := make(map[string]struct{})

	for i := range orders {
		order := &orders[i]
		key := order.Key()
		if coaching, ok := coachingMap[key]; ok {
			results = append(results, ComparisonItem{
				Key:      key,
				Order:    order,
				Coaching: coaching,
				Result:   ResultMatched,
			})
			usedCoachingKeys[key] = struct{}{}
		} else {
			results = append(results, ComparisonItem{
				Key:    key,
				Order:  order,
				Result: ResultOnlyInOrders,
			})
		}
	}

	emittedKeys := make(map[string]struct{})
	for i := range coachings {
		coaching := &coachings[i]
		key := coaching.Key()

		if coaching.IsCancelled() {
			// every cancelled row is reported, no key dedup
			results = append(results, ComparisonItem{
				Key:      key,
				Coaching: coaching,
				Result:   ResultOnlyInCoaching,
			})
			continue
		}

		if _, consumed := usedCoachingKeys[key]; consumed {
			continue
		}
		if _, emitted := emittedKeys[key]; emitted {
			continue
		}
		emittedKeys[key] = struct{}{}
		results = append(results, ComparisonItem{
			Key:      key,
			Coaching: coaching,
			Result:   ResultOnlyInCoaching,
		})
	}

	return results
}

// ComparisonRun bundles one full classification pass over two batches.
type ComparisonRun struct {
	RunID            string               `json:"runId"`
	Items            []ComparisonItem     `json:"items"`
	DuplicateCases   []ComparisonItem     `json:"duplicateCases"`
	SuspectedMatches []SuspectedMatchPair `json:"suspectedMatches"`
}

// RunComparison composes a complete run: primary classification, duplicate
// refinement of the onlyInA bucket, then the residual suspected-match pass.
// Inputs are read-only; every stage builds new collections.
func RunComparison(orders []OrderRecord, coachings []CoachingRecord) *ComparisonRun {
	duplicateCases := FindDuplicateCases(orders, coachings)

	// order rows claimed by a duplicate case leave the onlyInA bucket so one
	// person never shows up in two buckets
	duplicateOrderKeys := make(map[string]struct{})
	for _, item := range duplicateCases {
		if item.Order != nil && item.Order.HasName() {
			duplicateOrderKeys[item.Order.Key()] = struct{}{}
		}
	}

	results := Compare(orders, coachings)
	filtered := make([]ComparisonItem, 0, len(results))
	for _, item := range results {
		if item.Result == ResultOnlyInOrders && item.Order != nil {
			if _, claimed := duplicateOrderKeys[item.Order.Key()]; claimed {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	items := append(filtered, duplicateCases...)

	suspected := FindSuspectedMatches(
		ValidOnlyInOrders(items),
		ValidOnlyInCoaching(items),
	)

	run := &ComparisonRun{
		RunID:            uuid.New().String(),
		Items:            items,
		DuplicateCases:   duplicateCases,
		SuspectedMatches: suspected,
	}

	config.GetLogger().WithFields(logrus.Fields{
		"runId":      run.RunID,
		"orders":     len(orders),
		"coachings":  len(coachings),
		"items":      len(items),
		"duplicates": len(duplicateCases),
		"suspected":  len(suspected),
	}).Info("comparison run finished")

	return run
}

// ValidOnlyInOrders returns the onlyInA items that carry a non-blank name.
// Blank-name rows stay in the raw item set for pass-through export but are
// excluded from every accounting view.
func ValidOnlyInOrders(items []ComparisonItem) []ComparisonItem {
	out := make([]ComparisonItem, 0)
	for _, item := range items {
		if item.Result == ResultOnlyInOrders && item.Order != nil && item.Order.HasName() {
			out = append(out, item)
		}
	}
	return out
}

// ValidOnlyInCoaching returns the onlyInB items with a non-blank name,
// excluding cancelled rows.
func ValidOnlyInCoaching(items []ComparisonItem) []ComparisonItem {
	out := make([]ComparisonItem, 0)
	for _, item := range items {
		if item.Result != ResultOnlyInCoaching || item.Coaching == nil {
			continue
		}
		if !item.Coaching.HasName() || item.Coaching.IsCancelled() {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ValidMatched returns matched items where both sides carry a name and the
// coaching side is not cancelled.
func ValidMatched(items []ComparisonItem) []ComparisonItem {
	out := make([]ComparisonItem, 0)
	for _, item := range items {
		if item.Result != ResultMatched || item.Order == nil || item.Coaching == nil {
			continue
		}
		if !item.Order.HasName() || !item.Coaching.HasName() || item.Coaching.IsCancelled() {
			continue
		}
		out = append(out, item)
	}
	return out
}
