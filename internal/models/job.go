package models

import (
	"time"

	"gorm.io/gorm"
)

// JobCategory classifies a job posting.
type JobCategory string

const (
	JobCategoryEngineering JobCategory = "ENGINEERING"
	JobCategoryDesign      JobCategory = "DESIGN"
	JobCategoryMarketing   JobCategory = "MARKETING"
	JobCategorySales       JobCategory = "SALES"
	JobCategoryFinance     JobCategory = "FINANCE"
	JobCategoryOperations  JobCategory = "OPERATIONS"
	JobCategoryHR          JobCategory = "HR"
	JobCategoryEducation   JobCategory = "EDUCATION"
	JobCategoryResearch    JobCategory = "RESEARCH"
	JobCategoryOther       JobCategory = "OTHER"
)

// JobCategories lists every category in display order.
var JobCategories = []JobCategory{
	JobCategoryEngineering, JobCategoryDesign, JobCategoryMarketing, JobCategorySales,
	JobCategoryFinance, JobCategoryOperations, JobCategoryHR, JobCategoryEducation,
	JobCategoryResearch, JobCategoryOther,
}

// EmploymentType is the contract shape of a job posting.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentInternship EmploymentType = "INTERNSHIP"
)

// JobPosting is an opening shared with the network.
type JobPosting struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Company        string         `gorm:"size:150;not null;index" json:"company"`
	Location       string         `gorm:"size:150" json:"location"`
	IsRemote       bool           `gorm:"not null;default:false" json:"is_remote"`
	EmploymentType EmploymentType `gorm:"type:varchar(20);not null;index" json:"employment_type"`
	SalaryRange    string         `gorm:"size:100" json:"salary_range,omitempty"`
	ApplyLink      string         `json:"apply_link,omitempty"`
	ExpiryDate     *time.Time     `gorm:"index" json:"expiry_date,omitempty"`
	JobCategory    JobCategory    `gorm:"type:varchar(20);not null;index" json:"job_category"`
	IsActive       bool           `gorm:"not null;default:true;index" json:"is_active"`
	PosterID       uint           `gorm:"not null;index" json:"poster_id"`
	Poster         User           `gorm:"foreignKey:PosterID" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM
func (JobPosting) TableName() string {
	return "job_postings"
}

// JobView is a posting with its poster summary.
type JobView struct {
	JobPosting
	PosterSummary UserSummary `json:"poster"`
}

// View projects the job posting for API responses.
func (j *JobPosting) View() JobView {
	return JobView{JobPosting: *j, PosterSummary: j.Poster.Summary()}
}

// JobCategoryCount is the number of open postings in a category.
type JobCategoryCount struct {
	Category JobCategory `json:"category"`
	Count    int64       `json:"count"`
}
