package services

import (
	"errors"
	"math"
	"strings"
)

type StrategyType string

const (
	StrategySafe       StrategyType = "SAFE"
	StrategyBalanced   StrategyType = "BALANCED"
	StrategyAggressive StrategyType = "AGGRESSIVE"
)

type MuscleRisk string

const (
	MuscleRiskLow    MuscleRisk = "low"
	MuscleRiskMedium MuscleRisk = "medium"
	MuscleRiskHigh   MuscleRisk = "high"
)

const (
	DrugStatusOn  = "ON"
	DrugStatusOff = "OFF"
)

const (
	MuscleMassNormal  = "normal"
	MuscleMassLow     = "low"
	MuscleMassUnknown = "unknown"
)

const (
	BudgetValue    = "value"
	BudgetStandard = "standard"
	BudgetPremium  = "premium"
)

const (
	defaultStrategyAge     = 35
	adaptationWeeks        = 4
	rapidWeeklyLossPercent = 1.5
	briskWeeklyLossPercent = 1.0
	maxWeeklyLossPercent   = 10.0
)

var ErrStrategyInputInvalid = errors.New("invalid weekly strategy input")

type StrategyInput struct {
	DrugStatus    string   `json:"drug_status"`
	Age           *int     `json:"age,omitempty"`
	CurrentWeek   int      `json:"current_week"`
	CurrentWeight float64  `json:"current_weight"`
	LastWeight    *float64 `json:"last_weight,omitempty"`
	StartBMI      *float64 `json:"start_bmi,omitempty"`
	MuscleMass    string   `json:"muscle_mass"`
	Budget        string   `json:"budget"`
	StageTitle    string   `json:"stage_title,omitempty"`
}

type StrategyMission struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

type StrategyHeader struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	CoachIntro string `json:"coach_intro"`
}

type StrategyWeek struct {
	Summary  string            `json:"summary"`
	Missions []StrategyMission `json:"missions"`
}

type StrategyGuide struct {
	Title    string   `json:"title"`
	Bullets  []string `json:"bullets"`
	Examples []string `json:"examples"`
}

type StrategyMessage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type StrategyPreview struct {
	Preview string `json:"preview"`
}

type WeeklyStrategy struct {
	Strategy      StrategyType    `json:"strategy"`
	ExitMode      bool            `json:"is_exit_mode"`
	WeeklyLossPct *float64        `json:"weekly_loss_pct,omitempty"`
	MuscleRisk    MuscleRisk      `json:"muscle_capital_risk"`
	Header        StrategyHeader  `json:"header"`
	ThisWeek      StrategyWeek    `json:"this_week"`
	Nutrition     StrategyGuide   `json:"nutrition"`
	Training      StrategyGuide   `json:"training"`
	ReturnMessage StrategyMessage `json:"roi"`
	NextWeek      StrategyPreview `json:"next_week"`
}

func normalizeStrategyInput(input StrategyInput) (StrategyInput, error) {
	input.DrugStatus = strings.ToUpper(strings.TrimSpace(input.DrugStatus))
	switch input.DrugStatus {
	case "":
		input.DrugStatus = DrugStatusOn
	case DrugStatusOn, DrugStatusOff:
	default:
		return StrategyInput{}, ErrStrategyInputInvalid
	}

	input.MuscleMass = strings.ToLower(strings.TrimSpace(input.MuscleMass))
	switch input.MuscleMass {
	case "":
		input.MuscleMass = MuscleMassUnknown
	case MuscleMassNormal, MuscleMassLow, MuscleMassUnknown:
	default:
		return StrategyInput{}, ErrStrategyInputInvalid
	}

	input.Budget = strings.ToLower(strings.TrimSpace(input.Budget))
	if input.Budget == "" {
		input.Budget = BudgetStandard
	}
	if input.CurrentWeek < 1 || input.CurrentWeight <= 0 {
		return StrategyInput{}, ErrStrategyInputInvalid
	}
	if input.Age != nil && (*input.Age < 1 || *input.Age > 120) {
		return StrategyInput{}, ErrStrategyInputInvalid
	}
	return input, nil
}

func strategyAge(age *int) int {
	if age == nil {
		return defaultStrategyAge
	}
	return *age
}

// WeeklyLossPercent is the loss since lastWeight as a percentage of it,
// clamped to ±10. It is nil without a usable previous weight.
func WeeklyLossPercent(lastWeight *float64, currentWeight float64) *float64 {
	if lastWeight == nil || *lastWeight <= 0 {
		return nil
	}
	pct := (*lastWeight - currentWeight) / *lastWeight * 100
	pct = math.Max(-maxWeeklyLossPercent, math.Min(maxWeeklyLossPercent, pct))
	return &pct
}

// DecideStrategy picks the weekly mode. Stopping the drug always forces a
// safe exit mode; early weeks and older patients never go aggressive.
func DecideStrategy(drugStatus string, age *int, currentWeek int, weeklyLossPct *float64) (StrategyType, bool) {
	if drugStatus == DrugStatusOff {
		return StrategySafe, true
	}

	years := strategyAge(age)
	if years >= 60 {
		return StrategySafe, false
	}
	if currentWeek <= adaptationWeeks {
		return StrategyBalanced, false
	}
	if weeklyLossPct != nil && *weeklyLossPct >= rapidWeeklyLossPercent {
		if years >= 45 {
			return StrategySafe, false
		}
		return StrategyBalanced, false
	}
	return StrategyAggressive, false
}

func MuscleCapitalRisk(age *int, muscleMass string, startBMI *float64, weeklyLossPct *float64) MuscleRisk {
	score := 0

	years := strategyAge(age)
	switch {
	case years >= 60:
		score += 2
	case years >= 45:
		score++
	}

	switch muscleMass {
	case MuscleMassLow:
		score += 2
	case MuscleMassUnknown:
		score++
	}

	if startBMI != nil && *startBMI < 30 {
		score++
	}

	if weeklyLossPct != nil {
		switch {
		case *weeklyLossPct >= rapidWeeklyLossPercent:
			score += 2
		case *weeklyLossPct >= briskWeeklyLossPercent:
			score++
		}
	}

	switch {
	case score >= 5:
		return MuscleRiskHigh
	case score >= 3:
		return MuscleRiskMedium
	default:
		return MuscleRiskLow
	}
}

func BuildWeeklyStrategy(input StrategyInput) (WeeklyStrategy, error) {
	input, err := normalizeStrategyInput(input)
	if err != nil {
		return WeeklyStrategy{}, err
	}

	lossPct := WeeklyLossPercent(input.LastWeight, input.CurrentWeight)
	strategy, exitMode := DecideStrategy(input.DrugStatus, input.Age, input.CurrentWeek, lossPct)
	risk := MuscleCapitalRisk(input.Age, input.MuscleMass, input.StartBMI, lossPct)

	var report WeeklyStrategy
	switch strategy {
	case StrategySafe:
		report = safeModeStrategy(input.Budget, risk, input.DrugStatus)
	case StrategyBalanced:
		report = balancedModeStrategy()
	default:
		report = aggressiveModeStrategy()
	}

	report.Strategy = strategy
	report.ExitMode = exitMode
	report.WeeklyLossPct = lossPct
	report.MuscleRisk = risk
	if stage := strings.TrimSpace(input.StageTitle); stage != "" {
		report.Header.Subtitle = "Current stage: " + stage + " · " + report.Header.Subtitle
	}
	return report, nil
}

func safeModeStrategy(budget string, risk MuscleRisk, drugStatus string) WeeklyStrategy {
	intro := "Losing muscle is selling your capital. This week the goal is to protect muscle and habits rather than chase the scale."
	subtitle := "Protect muscle capital"
	if drugStatus == DrugStatusOff {
		intro += " The first month after stopping is the window that decides rebound. Holding your weight counts as success."
		subtitle = "Rebound defense after stopping"
	}

	roi := "Your protein and strength routine is rebound insurance. Protecting capital over the scale lowers the long-term cost."
	if budget == BudgetValue {
		roi = "Keeping muscle costs nothing extra and gives you a baseline to return to once the drug effect fades."
	}

	preview := "Next week, raise daily activity slightly (+20% steps) and check how well you hold."
	if risk == MuscleRiskHigh {
		preview = "Stay in Safe mode next week and split protein across 3 to 4 meals."
	}

	return WeeklyStrategy{
		Header: StrategyHeader{Title: "Safe mode", Subtitle: subtitle, CoachIntro: intro},
		ThisWeek: StrategyWeek{
			Summary: "Lock in protein and strength training first and keep the pace of loss from running too fast.",
			Missions: []StrategyMission{
				{Label: "Meals", Detail: "Leucine switch: 1 scoop of whey or 2 eggs plus 2 egg whites"},
				{Label: "Exercise", Detail: "Large-muscle resistance work 3 times a week (squat, lunge, hip hinge)"},
				{Label: "Lifestyle", Detail: "2L of water and fixed meal times"},
			},
		},
		Nutrition: StrategyGuide{
			Title: "Nutrition guide",
			Bullets: []string{
				"Protein: 1.2 to 1.5 g per kg of body weight",
				"Reach 2.5 to 3.0 g of leucine at every meal",
				"Use tofu and low-calorie volume foods to stay full",
			},
			Examples: []string{
				"Breakfast: one whey protein shake",
				"Lunch: chicken or fish with vegetables",
				"Dinner: less broth, more tofu and solids",
			},
		},
		Training: StrategyGuide{
			Title: "Training guide",
			Bullets: []string{
				"Favor strength over cardio (about 80% strength)",
				"Aim for muscle fatigue rather than breathlessness",
				"Rest one day between sessions",
			},
			Examples: []string{"Squat 10 x 3 sets", "Lunge 10 x 2 sets", "Wall or knee push-up 8 x 2 sets"},
		},
		ReturnMessage: StrategyMessage{Title: "Return on this week", Message: roi},
		NextWeek:      StrategyPreview{Preview: preview},
	}
}

func balancedModeStrategy() WeeklyStrategy {
	return WeeklyStrategy{
		Header: StrategyHeader{
			Title:      "Balanced mode",
			Subtitle:   "Sustainable loss without burning out",
			CoachIntro: "You are on a stable track. This week is about making habits solid without overdoing it.",
		},
		ThisWeek: StrategyWeek{
			Summary: "Balance strength and cardio and fix meal order and hydration.",
			Missions: []StrategyMission{
				{Label: "Meals", Detail: "Vegetables, then protein, then carbohydrates"},
				{Label: "Exercise", Detail: "2 strength sessions and 2 interval walks (30 min)"},
				{Label: "Lifestyle", Detail: "20% more activity than usual (stairs, walking)"},
			},
		},
		Nutrition: StrategyGuide{
			Title: "Nutrition guide",
			Bullets: []string{
				"At least 20 g of protein per meal",
				"Switch to whole grains or oats (half a bowl)",
				"Use low-salt fermented foods",
			},
			Examples: []string{"Half a bowl of mixed grains with fish or tofu", "Salad with chicken", "Snack: Greek yogurt or a boiled egg"},
		},
		Training: StrategyGuide{
			Title: "Training guide",
			Bullets: []string{
				"Full-body strength twice a week",
				"Moderate intervals for cardio",
			},
			Examples: []string{"20 min full-body strength", "30 min interval walk", "7,000 to 9,000 steps a day"},
		},
		ReturnMessage: StrategyMessage{
			Title:   "Return on this week",
			Message: "Consistency lowers cost more than speed. Stable habits keep appetite in check after the drug stops.",
		},
		NextWeek: StrategyPreview{Preview: "Next week, read weight by its weekly average and switch to Safe if needed."},
	}
}

func aggressiveModeStrategy() WeeklyStrategy {
	return WeeklyStrategy{
		Header: StrategyHeader{
			Title:      "Aggressive mode",
			Subtitle:   "Short mode for breaking a plateau",
			CoachIntro: "This is a short mode to break a plateau. Do not ignore fatigue, nausea or worse sleep.",
		},
		ThisWeek: StrategyWeek{
			Summary: "Raise everyday activity (NEAT) instead of high-intensity training.",
			Missions: []StrategyMission{
				{Label: "Meals", Detail: "Keep protein at 30 to 40% of intake"},
				{Label: "Exercise", Detail: "NEAT +30% (10,000 steps, standing work, chores)"},
				{Label: "Maintain", Detail: "At least one strength session to keep the muscle signal"},
			},
		},
		Nutrition: StrategyGuide{
			Title: "Nutrition guide",
			Bullets: []string{
				"Spend half the food budget on eggs, chicken and whey",
				"Limit fried food, spicy food and alcohol to avoid GI triggers",
				"Add volume with cabbage or konjac but avoid extreme restriction",
			},
			Examples: []string{"Eggs with tofu", "Chicken salad", "Cabbage and konjac volume meal"},
		},
		Training: StrategyGuide{
			Title: "Training guide",
			Bullets: []string{
				"Move all day rather than training longer",
				"Go back to Balanced as soon as energy drops",
			},
			Examples: []string{"10,000 steps a day", "Three short walks", "One 15 min full-body strength session"},
		},
		ReturnMessage: StrategyMessage{
			Title:   "Return on this week",
			Message: "This is a fast week. Losing muscle capital makes stopping more expensive, so protein stays first.",
		},
		NextWeek: StrategyPreview{Preview: "Next week, check fatigue and sleep and switch to Safe or Balanced if needed."},
	}
}
