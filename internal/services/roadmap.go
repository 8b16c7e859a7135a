package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/terraincognita07/glpcare/internal/models"
)

const (
	DrugSemaglutide = "SEMAGLUTIDE"
	DrugTirzepatide = "TIRZEPATIDE"
)

const (
	RoadmapPhaseTitration   = "titration"
	RoadmapPhaseMaintenance = "maintenance"
)

const (
	roadmapIntervalWeeks       = 4
	roadmapSeniorIntervalWeeks = 6
	roadmapSeniorAge           = 65
)

const roadmapDisclaimer = "This roadmap is a reference based on published titration data. Actual dosing must follow your prescriber."

var (
	ErrRoadmapDrugInvalid   = errors.New("invalid drug type")
	ErrRoadmapGenderInvalid = errors.New("invalid gender")
	ErrRoadmapAgeInvalid    = errors.New("invalid age")
	ErrRoadmapWeightInvalid = errors.New("invalid current weight")
	ErrRoadmapMuscleInvalid = errors.New("invalid muscle status")
)

type drugSchedule struct {
	Name  string
	Unit  string
	Steps []float64
}

// Maintenance is the top titration step.
func (schedule drugSchedule) MaintenanceDose() float64 {
	return schedule.Steps[len(schedule.Steps)-1]
}

var drugSchedules = map[string]drugSchedule{
	DrugSemaglutide: {Name: "Semaglutide", Unit: "mg", Steps: []float64{0.25, 0.5, 1.0, 1.7, 2.4}},
	DrugTirzepatide: {Name: "Tirzepatide", Unit: "mg", Steps: []float64{2.5, 5, 7.5, 10, 12.5, 15}},
}

type RoadmapInput struct {
	DrugType      string  `json:"drug_type"`
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	CurrentWeight float64 `json:"current_weight"`
	MuscleStatus  string  `json:"muscle_status"`
}

type RoadmapStep struct {
	Week        int      `json:"week"`
	Dose        string   `json:"dose"`
	Phase       string   `json:"phase"`
	Strategy    string   `json:"strategy"`
	Supplements []string `json:"supplements"`
}

type Roadmap struct {
	DrugName      string        `json:"drug_name"`
	IntervalWeeks int           `json:"interval_weeks"`
	Steps         []RoadmapStep `json:"roadmap"`
	TotalWeeks    int           `json:"total_duration"`
	Disclaimer    string        `json:"disclaimer"`
}

func normalizeRoadmapInput(input RoadmapInput) (RoadmapInput, error) {
	input.DrugType = strings.ToUpper(strings.TrimSpace(input.DrugType))
	if _, ok := drugSchedules[input.DrugType]; !ok {
		return RoadmapInput{}, ErrRoadmapDrugInvalid
	}

	input.Gender = strings.ToLower(strings.TrimSpace(input.Gender))
	if input.Gender != "male" && input.Gender != "female" {
		return RoadmapInput{}, ErrRoadmapGenderInvalid
	}
	if input.Age < 1 || input.Age > 120 {
		return RoadmapInput{}, ErrRoadmapAgeInvalid
	}
	if input.CurrentWeight < models.MinWeeklyWeightKg || input.CurrentWeight > models.MaxWeeklyWeightKg {
		return RoadmapInput{}, ErrRoadmapWeightInvalid
	}

	input.MuscleStatus = strings.ToLower(strings.TrimSpace(input.MuscleStatus))
	switch input.MuscleStatus {
	case "":
		input.MuscleStatus = "normal"
	case "normal", "low":
	default:
		return RoadmapInput{}, ErrRoadmapMuscleInvalid
	}
	return input, nil
}

// BuildRoadmap lays out the titration schedule of a drug starting at week 1.
// Older patients step up every six weeks instead of four.
func BuildRoadmap(input RoadmapInput) (Roadmap, error) {
	input, err := normalizeRoadmapInput(input)
	if err != nil {
		return Roadmap{}, err
	}
	schedule := drugSchedules[input.DrugType]

	interval := roadmapIntervalWeeks
	if input.Age >= roadmapSeniorAge {
		interval = roadmapSeniorIntervalWeeks
	}

	steps := make([]RoadmapStep, 0, len(schedule.Steps))
	for index, dose := range schedule.Steps {
		step := RoadmapStep{
			Week: index*interval + 1,
			Dose: strconv.FormatFloat(dose, 'f', -1, 64) + schedule.Unit,
		}
		if dose >= schedule.MaintenanceDose() {
			step.Phase = RoadmapPhaseMaintenance
			step.Strategy = "metabolic stabilization and muscle preservation"
			step.Supplements = []string{"HMB 3g (required)", "berberine", "soluble fiber"}
		} else {
			step.Phase = RoadmapPhaseTitration
			step.Strategy = "body adaptation and fat loss"
			step.Supplements = []string{"high-protein diet", "multivitamin"}
		}
		steps = append(steps, step)
	}

	return Roadmap{
		DrugName:      schedule.Name,
		IntervalWeeks: interval,
		Steps:         steps,
		TotalWeeks:    steps[len(steps)-1].Week + interval - 1,
		Disclaimer:    roadmapDisclaimer,
	}, nil
}
