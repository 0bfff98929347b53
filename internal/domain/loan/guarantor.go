package loan

import (
	"fmt"
	"loan-backoffice/internal/pkg/apperrors"
)

// NormalizeGuarantorIDs drops repeated ids while keeping first-seen order.
// The borrower may appear in the set.
func NormalizeGuarantorIDs(ids []int64) ([]int64, error) {
	if ids == nil {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return nil, apperrors.FieldErrors{
				"guarantors": fmt.Sprintf("entry %d must be a positive customer id", i),
			}
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
