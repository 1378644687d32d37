package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"auditcollective/internal/config"
	"auditcollective/internal/domain/collective"
	"auditcollective/internal/usecase"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := gdb.AutoMigrate(
		&UserModel{},
		&AuditorProfileModel{},
		&VettingApplicationModel{},
		&AuditModel{},
		&AuditAssignmentModel{},
		&FindingModel{},
		&FindingReviewModel{},
		&ReputationEventModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{DB: gdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Repos() usecase.Repos {
	return reposFor(s.DB)
}

// InTx runs fn against repositories bound to one transaction; any error
// rolls every statement back.
func (s *Store) InTx(ctx context.Context, fn func(usecase.Repos) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func reposFor(db *gorm.DB) usecase.Repos {
	return usecase.Repos{
		Users:       &UserRepo{db: db},
		Profiles:    &ProfileRepo{db: db},
		Vetting:     &VettingRepo{db: db},
		Audits:      &AuditRepo{db: db},
		Assignments: &AssignmentRepo{db: db},
		Findings:    &FindingRepo{db: db},
		Reviews:     &ReviewRepo{db: db},
		Reputation:  &ReputationRepo{db: db},
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return collective.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return collective.ErrConflict
	}
	return err
}

func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func unmarshalStrings(payload []byte) []string {
	if len(payload) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil
	}
	return out
}

func stringPtrIfNotEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
