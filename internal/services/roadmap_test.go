package services

import (
	"errors"
	"testing"
)

func TestBuildRoadmapSemaglutide(t *testing.T) {
	roadmap, err := BuildRoadmap(RoadmapInput{
		DrugType:      "semaglutide",
		Gender:        "Female",
		Age:           40,
		CurrentWeight: 92.5,
		MuscleStatus:  "normal",
	})
	if err != nil {
		t.Fatalf("BuildRoadmap() unexpected error: %v", err)
	}

	if roadmap.DrugName != "Semaglutide" || roadmap.IntervalWeeks != 4 {
		t.Fatalf("unexpected roadmap header: %+v", roadmap)
	}
	expectedWeeks := []int{1, 5, 9, 13, 17}
	expectedDoses := []string{"0.25mg", "0.5mg", "1mg", "1.7mg", "2.4mg"}
	if len(roadmap.Steps) != len(expectedWeeks) {
		t.Fatalf("expected %d steps, got %d", len(expectedWeeks), len(roadmap.Steps))
	}
	for index, step := range roadmap.Steps {
		if step.Week != expectedWeeks[index] || step.Dose != expectedDoses[index] {
			t.Fatalf("step %d = %+v, want week %d dose %s", index, step, expectedWeeks[index], expectedDoses[index])
		}
		wantPhase := RoadmapPhaseTitration
		if index == len(roadmap.Steps)-1 {
			wantPhase = RoadmapPhaseMaintenance
		}
		if step.Phase != wantPhase {
			t.Fatalf("step %d phase = %s, want %s", index, step.Phase, wantPhase)
		}
		if len(step.Supplements) == 0 {
			t.Fatalf("step %d has no supplements", index)
		}
	}
	if roadmap.TotalWeeks != 20 {
		t.Fatalf("expected total of 20 weeks, got %d", roadmap.TotalWeeks)
	}
	if roadmap.Disclaimer == "" {
		t.Fatal("expected disclaimer")
	}
}

func TestBuildRoadmapSeniorUsesLongerInterval(t *testing.T) {
	roadmap, err := BuildRoadmap(RoadmapInput{
		DrugType:      DrugTirzepatide,
		Gender:        "male",
		Age:           65,
		CurrentWeight: 80,
	})
	if err != nil {
		t.Fatalf("BuildRoadmap() unexpected error: %v", err)
	}
	if roadmap.IntervalWeeks != 6 {
		t.Fatalf("expected 6 week interval, got %d", roadmap.IntervalWeeks)
	}
	if len(roadmap.Steps) != 6 || roadmap.Steps[1].Week != 7 || roadmap.Steps[5].Week != 31 {
		t.Fatalf("unexpected senior schedule: %+v", roadmap.Steps)
	}
	if roadmap.Steps[1].Dose != "5mg" || roadmap.Steps[2].Dose != "7.5mg" {
		t.Fatalf("unexpected dose labels: %+v", roadmap.Steps)
	}
	if roadmap.TotalWeeks != 36 {
		t.Fatalf("expected total of 36 weeks, got %d", roadmap.TotalWeeks)
	}
}

func TestBuildRoadmapValidation(t *testing.T) {
	valid := RoadmapInput{DrugType: DrugSemaglutide, Gender: "female", Age: 30, CurrentWeight: 70}

	tests := []struct {
		name   string
		mutate func(*RoadmapInput)
		want   error
	}{
		{name: "unknown drug", mutate: func(input *RoadmapInput) { input.DrugType = "LIRAGLUTIDE" }, want: ErrRoadmapDrugInvalid},
		{name: "unknown gender", mutate: func(input *RoadmapInput) { input.Gender = "other" }, want: ErrRoadmapGenderInvalid},
		{name: "zero age", mutate: func(input *RoadmapInput) { input.Age = 0 }, want: ErrRoadmapAgeInvalid},
		{name: "weight too low", mutate: func(input *RoadmapInput) { input.CurrentWeight = 10 }, want: ErrRoadmapWeightInvalid},
		{name: "bad muscle status", mutate: func(input *RoadmapInput) { input.MuscleStatus = "strong" }, want: ErrRoadmapMuscleInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			if _, err := BuildRoadmap(input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
