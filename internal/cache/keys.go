package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// RecommendationKey identifies one ranked-recommendation payload. The two
// version counters are part of the key, so a profile edit or an ingested
// batch makes every previously cached entry unreachable without an explicit
// delete.
func RecommendationKey(userID uuid.UUID, profileVersion, jobSetVersion int64) string {
	return fmt.Sprintf("recs:user:%s:p%d:j%d", userID, profileVersion, jobSetVersion)
}

func TaskLockKey(task string) string {
	return "task:lock:" + task
}
