package types

type DayScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// SymbolicProfile считается из даты рождения на каждый запрос и нигде не хранится.
type SymbolicProfile struct {
	KyuseiStar string     `json:"kyusei_star"`
	LifeStage  string     `json:"life_stage"`
	Series     []DayScore `json:"series"`
}
