package fortune

import (
	"math"
	"time"
	"unicode/utf8"

	"fortune-proxy/api/internal/fortune/types"
)

// Порядок обеих таблиц наблюдаем снаружи: менять нельзя.
var (
	kyuseiOrder = [9]int{0, 8, 7, 6, 5, 4, 3, 2, 1}
	kyuseiNames = [9]string{
		"一白水星", "二黒土星", "三碧木星", "四緑木星", "五黄土星",
		"六白金星", "七赤金星", "八白土星", "九紫火星",
	}
	lifeStageNames = [12]string{
		"長生", "沐浴", "冠帯", "建禄", "帝旺", "衰",
		"病", "死", "墓", "絶", "胎", "養",
	}
)

const (
	kyuseiEpoch = 1864
	seriesDays  = 14
	scoreMin    = 35
	scoreMax    = 100
)

// Период 9 лет, 1864 год = 一白水星.
func KyuseiStar(year int) string {
	i := ((year-kyuseiEpoch)%9 + 9) % 9
	return kyuseiNames[kyuseiOrder[i]]
}

func LifeStage(year, month, day int) string {
	i := ((year%100+month*3+day)%12 + 12) % 12
	return lifeStageNames[i]
}

// ScoreSeries returns 14 days starting at today, scores in [35,100].
func ScoreSeries(star, stage string, birthDay int, today time.Time) []types.DayScore {
	seed := utf8.RuneCountInString(star) + utf8.RuneCountInString(stage) + birthDay
	out := make([]types.DayScore, 0, seriesDays)
	for i := 0; i < seriesDays; i++ {
		base := 55 + (seed*37+i*13)%45
		osc := int(math.Round(12 * math.Sin(2*math.Pi*float64(i)/6)))
		out = append(out, types.DayScore{
			Date:  AddDaysYMD(today, i),
			Score: clampInt(base+osc, scoreMin, scoreMax),
		})
	}
	return out
}

// Profile считает символический профиль; today: результат TodayJST.
func Profile(birth, today time.Time) types.SymbolicProfile {
	star := KyuseiStar(birth.Year())
	stage := LifeStage(birth.Year(), int(birth.Month()), birth.Day())
	return types.SymbolicProfile{
		KyuseiStar: star,
		LifeStage:  stage,
		Series:     ScoreSeries(star, stage, birth.Day(), today),
	}
}

// Age считает полных лет на дату today.
func Age(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
