package postgres

import "time"

type UserModel struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	Email           string `gorm:"uniqueIndex"`
	Username        string `gorm:"uniqueIndex"`
	FirstName       string
	LastName        string
	ProfileImageURL string
	Role            string    `gorm:"not null;default:auditor"`
	Tier            string    `gorm:"not null;default:observer"`
	Status          string    `gorm:"not null;default:applied"`
	ReputationScore int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type AuditorProfileModel struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     string `gorm:"type:uuid;uniqueIndex;not null"`
	Bio        string
	Wallet     string
	ProofLinks []byte `gorm:"type:jsonb"`
	SkillsTags []byte `gorm:"type:jsonb"`
	Notes      string
}

func (AuditorProfileModel) TableName() string { return "auditor_profiles" }

type VettingApplicationModel struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         string    `gorm:"type:uuid;index;not null"`
	SubmittedAt    time.Time `gorm:"not null"`
	Links          []byte    `gorm:"type:jsonb"`
	WriteupText    string
	Score          *int
	Decision       string `gorm:"index;not null;default:pending"`
	ReviewerUserID *string `gorm:"type:uuid"`
	Comments       string
}

func (VettingApplicationModel) TableName() string { return "vetting_applications" }

type AuditModel struct {
	ID         int64  `gorm:"primaryKey"`
	Title      string `gorm:"not null"`
	ClientName string `gorm:"not null"`
	ScopeText  string `gorm:"not null"`
	RepoURL    string
	Chain      string
	Status     string    `gorm:"not null;default:intake"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (AuditModel) TableName() string { return "audits" }

type AuditAssignmentModel struct {
	ID             int64     `gorm:"primaryKey"`
	AuditID        int64     `gorm:"uniqueIndex:idx_assignment_audit_user;not null"`
	UserID         string    `gorm:"type:uuid;uniqueIndex:idx_assignment_audit_user;not null"`
	AssignmentType string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (AuditAssignmentModel) TableName() string { return "audit_assignments" }

type FindingModel struct {
	ID              int64  `gorm:"primaryKey"`
	AuditID         int64  `gorm:"index;not null"`
	Title           string `gorm:"not null"`
	Description     string `gorm:"not null"`
	Severity        string `gorm:"not null"`
	Category        string
	ReproSteps      string
	Impact          string
	Recommendation  string
	Status          string    `gorm:"index;not null;default:draft"`
	CreatedByUserID string    `gorm:"type:uuid;index;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (FindingModel) TableName() string { return "findings" }

type FindingReviewModel struct {
	ID             int64  `gorm:"primaryKey"`
	FindingID      int64  `gorm:"index;not null"`
	ReviewerUserID string `gorm:"type:uuid;not null"`
	Decision       string `gorm:"not null"`
	Notes          string
	CreatedAt      time.Time `gorm:"not null"`
}

func (FindingReviewModel) TableName() string { return "finding_reviews" }

type ReputationEventModel struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    string `gorm:"type:uuid;index;not null"`
	Type      string `gorm:"not null"`
	Points    int    `gorm:"not null"`
	AuditID   *int64
	FindingID *int64
	CreatedAt time.Time `gorm:"not null"`
}

func (ReputationEventModel) TableName() string { return "reputation_events" }
