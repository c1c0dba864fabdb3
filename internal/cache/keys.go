package cache

import (
	"fmt"
	"strconv"
)

// Keys are composed deterministically so distinct logical views never collide
// and a given view always maps to the same key.

// QuestionSetKey addresses the gated question set for one test and trade.
func QuestionSetKey(testID int64, trade string) string {
	return fmt.Sprintf("apti:%d:trade:%s", testID, trade)
}

// ToppersKey addresses the cached toppers view for one test.
func ToppersKey(testID int64) string {
	return "toppers:" + strconv.FormatInt(testID, 10)
}
