package models

// FindDuplicateCases surfaces repeat enrollments: a key whose active
// (non-cancelled) coaching rows number two or more while the ledger holds at
// most one payment for it. Every coaching row past the first becomes a
// Duplicate item carrying the single payment, when there is one, so the
// report can show who was coached repeatedly against one order.
//
// Keys with two or more payments are not duplicate cases — the person simply
// paid per session. Blank-name keys never form a case.
func FindDuplicateCases(orders []OrderRecord, coachings []CoachingRecord) []ComparisonItem {
	activeByKey := make(map[string][]*CoachingRecord)
	keyOrder := make([]string, 0)
	for i := range coachings {
		coaching := &coachings[i]
		if coaching.IsCancelled() || !coaching.HasName() {
			continue
		}
		key := coaching.Key()
		if _, seen := activeByKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		activeByKey[key] = append(activeByKey[key], coaching)
	}

	ordersByKey := make(map[string][]*OrderRecord)
	for i := range orders {
		order := &orders[i]
		if !order.HasName() {
			continue
		}
		key := order.Key()
		ordersByKey[key] = append(ordersByKey[key], order)
	}

	cases := make([]ComparisonItem, 0)
	for _, key := range keyOrder {
		enrollments := activeByKey[key]
		if len(enrollments) < 2 {
			continue
		}
		payments := ordersByKey[key]
		if len(payments) > 1 {
			continue
		}

		var paid *OrderRecord
		if len(payments) == 1 {
			paid = payments[0]
		}
		for _, extra := range enrollments[1:] {
			cases = append(cases, ComparisonItem{
				Key:      key,
				Order:    paid,
				Coaching: extra,
				Result:   ResultDuplicate,
			})
		}
	}

	return cases
}
