package usecase

import (
	"context"
	"time"

	"planward/model"
	"planward/services"
)

const starterCategoryID = "algorithms"

var defaultCategories = []model.Category{
	{CategoryID: starterCategoryID, Name: "Algorithms", Color: "#4f86f7"},
	{CategoryID: "system-design", Name: "System Design", Color: "#f7a64f"},
	{CategoryID: "behavioral", Name: "Behavioral", Color: "#6fbf73"},
}

// SeedNewUser installs the default categories and a one-week starter plan so
// a fresh account is not empty. Starter progress entries are keyed with the
// same key derivation the section builder uses, so they line up with the
// plan's tasks from the first render.
func SeedNewUser(ctx context.Context, categories CategoryStore, states StateStore, userID string) error {
	now := time.Now()
	for _, category := range defaultCategories {
		c := category
		c.UserID = userID
		c.CreatedAt = now
		if err := categories.CreateCategory(ctx, &c); err != nil {
			return err
		}
	}

	state, err := states.LoadState(ctx, userID)
	if err != nil {
		return err
	}
	ImportPlan(state, starterCategoryID, starterPlan())
	state.Started = false // nothing imported by the user yet

	welcomeKey := services.MakeTaskKey(starterCategoryID, 1, "1", services.BucketActivity, "Set up your study space")
	state.Progress[welcomeKey] = model.TaskMeta{Tags: []string{"getting-started"}}

	return states.SaveState(ctx, userID, state)
}

func starterPlan() model.Plan {
	return model.Plan{
		Title: "Getting started",
		Schedule: []model.ScheduleWeek{
			{
				Week:  1,
				Topic: "Warm-up",
				Days: []model.ScheduleDay{
					{
						Day:        "1",
						Activities: []string{"Set up your study space", "Skim the plan format"},
					},
					{
						Day: "2-3",
						Patterns: []model.Pattern{
							{
								Name:     "Two Pointers",
								Problems: []string{"Two Sum II", "Valid Palindrome"},
							},
						},
						Activities: []string{"Review array basics"},
					},
				},
			},
		},
	}
}
