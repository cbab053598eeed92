package cache

import (
	"time"
)

// TimeUntilNext は now から loc における次の hour 時ちょうどまでの期間を返します。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	now = now.In(loc)

	// 今日の指定時刻を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 既に過ぎている場合は翌日の同時刻を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
