package read

import (
	"fmt"
	"time"
)

// FormatRecency は閲覧時刻を相対表現の日本語文字列に変換する。
//
//	1分未満:  「たった今」
//	60分未満: 「N分前」
//	24時間未満: 「N時間前」
//	7日未満:  「N日前」
//	それ以上: 「2006年1月2日」形式の絶対日付
//
// nowより未来の時刻は「たった今」として扱う（クロックずれの吸収）。
func FormatRecency(t time.Time, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "たった今"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%d分前", int(elapsed.Minutes()))
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%d時間前", int(elapsed.Hours()))
	}
	if elapsed < 7*24*time.Hour {
		return fmt.Sprintf("%d日前", int(elapsed.Hours()/24))
	}
	return t.Format("2006年1月2日")
}
