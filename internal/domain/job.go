package domain

import "github.com/lib/pq"

// Job is one catalog record. Nullable columns are pointers.
type Job struct {
	JobID          string         `json:"job_id" gorm:"column:job_id;primaryKey"`
	Title          string         `json:"title" gorm:"column:title;not null"`
	Company        string         `json:"company" gorm:"column:company"`
	Location       string         `json:"location" gorm:"column:location"`
	Domain         *string        `json:"domain" gorm:"column:domain"`
	EmploymentType string         `json:"employment_type" gorm:"column:employment_type"`
	Seniority      *string        `json:"seniority" gorm:"column:seniority"`
	Remote         *bool          `json:"remote" gorm:"column:remote"`
	Skills         pq.StringArray `json:"skills" gorm:"column:skills;type:text[]"`
	SalaryMin      *int           `json:"salary_min" gorm:"column:salary_min"`
	SalaryMax      *int           `json:"salary_max" gorm:"column:salary_max"`
	SalaryUnit     string         `json:"salary_unit" gorm:"column:salary_unit"`
	Position       int            `json:"-" gorm:"column:position;index"`
}

// TableName overrides the table name used by gorm
func (Job) TableName() string {
	return "jobs"
}

// MatchItem is one ranked candidate returned to the user
type MatchItem struct {
	JobID       string   `json:"job_id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	SalaryRange *string  `json:"salary_range"`
	Domain      *string  `json:"domain"`
	Reasons     []string `json:"reasons"`
	Score       float64  `json:"score"`
}
