package evaluation

// RecallAtK computes Recall@K: the fraction of relevant items found in the top-K retrieved results.
// Returns 0.0 if relevant is empty.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}

	relevantSet := toSet(relevant)
	found := 0
	for _, r := range topK(retrieved, k) {
		if _, ok := relevantSet[r]; ok {
			found++
		}
	}

	return float64(found) / float64(len(relevant))
}

// MRRAtK computes the reciprocal rank of the first relevant item in the top-K retrieved results.
// Returns 0.0 if no relevant item is found in top-K.
func MRRAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 || len(retrieved) == 0 {
		return 0.0
	}

	relevantSet := toSet(relevant)
	for i, r := range topK(retrieved, k) {
		if _, ok := relevantSet[r]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

// OrderAgreement is the fraction of expected positions holding exactly the expected id.
// Returns 1.0 when nothing is expected.
func OrderAgreement(expected, retrieved []string) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	hits := 0
	for i, id := range expected {
		if i < len(retrieved) && retrieved[i] == id {
			hits++
		}
	}
	return float64(hits) / float64(len(expected))
}

// Present returns the members of ids that appear anywhere in retrieved, in ids order.
func Present(ids, retrieved []string) []string {
	if len(ids) == 0 {
		return nil
	}
	got := toSet(retrieved)
	var out []string
	for _, id := range ids {
		if _, ok := got[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func topK(retrieved []string, k int) []string {
	if k >= 0 && k < len(retrieved) {
		return retrieved[:k]
	}
	return retrieved
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
