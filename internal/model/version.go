package model

// Priority - важность версии, 1 (низкая) .. 4 (критическая)
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// Label is the display name shown in the UI badges.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "低"
	case PriorityMedium:
		return "中"
	case PriorityHigh:
		return "高"
	case PriorityCritical:
		return "紧急"
	}
	return "未知"
}

type Status string

const (
	StatusPlanning    Status = "planning"
	StatusDevelopment Status = "development"
	StatusTesting     Status = "testing"
	StatusRelease     Status = "release"
	StatusCompleted   Status = "completed"
)

// Statuses lists every status in lifecycle order. No transition order is enforced.
var Statuses = []Status{StatusPlanning, StatusDevelopment, StatusTesting, StatusRelease, StatusCompleted}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusPlanning:
		return "规划中"
	case StatusDevelopment:
		return "开发中"
	case StatusTesting:
		return "测试中"
	case StatusRelease:
		return "发布中"
	case StatusCompleted:
		return "已完成"
	}
	return "未知"
}

type Version struct {
	ID                      int64    `json:"id"`
	Name                    string   `json:"name"`
	Priority                Priority `json:"priority"`
	Summary                 string   `json:"summary"`
	StartDate               Date     `json:"start_date"`
	EndDate                 Date     `json:"end_date"`
	RequirementCompleteDate Date     `json:"requirement_complete_date"`
	DevelopmentCompleteDate Date     `json:"development_complete_date"`
	TestingCompleteDate     Date     `json:"testing_complete_date"`
	Status                  Status   `json:"status"`
	Progress                int      `json:"progress"`
	CreatedAt               Date     `json:"created_at"`
	UpdatedAt               Date     `json:"updated_at"`
}

// VersionInput - изменяемые поля версии (без id и временных меток)
type VersionInput struct {
	Name                    string   `json:"name"`
	Priority                Priority `json:"priority"`
	Summary                 string   `json:"summary"`
	StartDate               Date     `json:"start_date"`
	EndDate                 Date     `json:"end_date"`
	RequirementCompleteDate Date     `json:"requirement_complete_date"`
	DevelopmentCompleteDate Date     `json:"development_complete_date"`
	TestingCompleteDate     Date     `json:"testing_complete_date"`
	Status                  Status   `json:"status"`
	Progress                int      `json:"progress"`
}

// Input returns the mutable fields of v.
func (v Version) Input() VersionInput {
	return VersionInput{
		Name:                    v.Name,
		Priority:                v.Priority,
		Summary:                 v.Summary,
		StartDate:               v.StartDate,
		EndDate:                 v.EndDate,
		RequirementCompleteDate: v.RequirementCompleteDate,
		DevelopmentCompleteDate: v.DevelopmentCompleteDate,
		TestingCompleteDate:     v.TestingCompleteDate,
		Status:                  v.Status,
		Progress:                v.Progress,
	}
}

// Apply overwrites the mutable fields of v with in.
func (v *Version) Apply(in VersionInput) {
	v.Name = in.Name
	v.Priority = in.Priority
	v.Summary = in.Summary
	v.StartDate = in.StartDate
	v.EndDate = in.EndDate
	v.RequirementCompleteDate = in.RequirementCompleteDate
	v.DevelopmentCompleteDate = in.DevelopmentCompleteDate
	v.TestingCompleteDate = in.TestingCompleteDate
	v.Status = in.Status
	v.Progress = in.Progress
}
