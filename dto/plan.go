package dto

import (
	"planward/model"
	"planward/services"
)

type PlanSummaryResponse struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	StartDate  string `json:"start_date,omitempty"`
	Weeks      int    `json:"weeks"`
	Days       int    `json:"days"`
}

func ToPlanSummaryResponse(categoryID string, plan model.Plan) PlanSummaryResponse {
	days := 0
	for _, week := range plan.Schedule {
		days += len(week.Days)
	}
	return PlanSummaryResponse{
		CategoryID: categoryID,
		Title:      plan.Title,
		StartDate:  plan.StartDate,
		Weeks:      len(plan.Schedule),
		Days:       days,
	}
}

type SectionsResponse struct {
	CategoryID string          `json:"category_id"`
	View       string          `json:"view"`
	Strategy   string          `json:"strategy"`
	Sections   []model.Section `json:"sections"`
	Stats      model.Stats     `json:"stats"`
}

func ToSectionsResponse(categoryID string, view services.ViewMode, strategy services.Strategy, sections []model.Section) SectionsResponse {
	var stats model.Stats
	for _, s := range sections {
		stats.Completed += s.Stats.Completed
		stats.Total += s.Stats.Total
	}
	if sections == nil {
		sections = []model.Section{}
	}
	return SectionsResponse{
		CategoryID: categoryID,
		View:       string(view),
		Strategy:   string(strategy),
		Sections:   sections,
		Stats:      stats,
	}
}
