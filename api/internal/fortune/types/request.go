package types

// Mode: normal («表») или ura («裏», осакская тётушка).
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeUra    Mode = "ura"
)

// MethodMixed подставляется, когда клиент не выбрал ни одного метода.
const MethodMixed = "ミックス"

const MaxMethods = 6

type FortuneRequest struct {
	Birth      string   `json:"birth"`
	Gender     string   `json:"gender"`
	Theme      string   `json:"theme"`
	BaseResult string   `json:"baseResult"`
	Wish       string   `json:"wish"`
	Methods    []string `json:"methods"`
	Mode       Mode     `json:"tone"`
}
