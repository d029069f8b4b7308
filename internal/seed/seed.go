// Package seed loads the default exercise catalog into the library.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"

	"fitlog/internal/model"
	"fitlog/internal/repository"
)

//go:embed catalog.json
var catalogJSON []byte

// Entry is one exercise of a catalog document.
type Entry struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	MovementType          string   `json:"movementType"`
	PrimaryMuscleGroup    string   `json:"primaryMuscleGroup"`
	SecondaryMuscleGroups []string `json:"secondaryMuscleGroups"`
	Equipment             string   `json:"equipment"`
	Difficulty            string   `json:"difficulty"`
	Instructions          string   `json:"instructions"`
	ImageURL              string   `json:"imageUrl"`
	VideoURL              string   `json:"videoUrl"`
}

// Result summarizes a seeding run.
type Result struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

// Catalog returns the built-in exercise catalog.
func Catalog() ([]Entry, error) {
	return decode(catalogJSON)
}

// Fetch downloads a catalog document from url.
func Fetch(ctx context.Context, url string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return decode(body)
}

func decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return entries, nil
}

// Seeder inserts catalog entries that are not in the library yet.
type Seeder struct {
	repo repository.ExerciseRepository
}

// NewSeeder creates a seeder backed by the exercise repository.
func NewSeeder(repo repository.ExerciseRepository) *Seeder {
	return &Seeder{repo: repo}
}

// Run seeds entries, matching existing exercises by name. Entries with an
// empty name or an unknown classification are skipped. createdBy may be nil
// for system-owned exercises.
func (s *Seeder) Run(ctx context.Context, entries []Entry, createdBy *uint) (Result, error) {
	var res Result
	for _, entry := range entries {
		exercise, ok := toModel(entry)
		if !ok {
			res.Skipped++
			continue
		}
		exercise.CreatedByID = createdBy

		_, created, err := s.repo.FindByNameOrCreate(ctx, exercise)
		if err != nil {
			return res, fmt.Errorf("seed exercise %q: %w", entry.Name, err)
		}
		if created {
			res.Created++
		} else {
			res.Existing++
		}
	}
	return res, nil
}

func toModel(e Entry) (*model.Exercise, bool) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, false
	}
	checks := []struct {
		value   string
		allowed model.Choices
	}{
		{e.MovementType, model.MovementTypes},
		{e.PrimaryMuscleGroup, model.MuscleGroups},
		{e.Equipment, model.Equipment},
		{e.Difficulty, model.Difficulties},
	}
	for _, c := range checks {
		if c.value != "" && !c.allowed.Contains(c.value) {
			return nil, false
		}
	}
	secondary := datatypes.JSONSlice[string]{}
	for _, g := range e.SecondaryMuscleGroups {
		if !model.MuscleGroups.Contains(g) {
			return nil, false
		}
		secondary = append(secondary, g)
	}

	return &model.Exercise{
		Name:                  name,
		Description:           optional(e.Description),
		MovementType:          optional(e.MovementType),
		PrimaryMuscleGroup:    optional(e.PrimaryMuscleGroup),
		SecondaryMuscleGroups: secondary,
		Equipment:             optional(e.Equipment),
		Difficulty:            optional(e.Difficulty),
		Instructions:          optional(e.Instructions),
		ImageURL:              optional(e.ImageURL),
		VideoURL:              optional(e.VideoURL),
		IsActive:              true,
	}, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
