package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maternalab/gravida/internal/domain"
)

type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `user_id, name, pregnancy_week, lmp_date, due_date, blood_type,
	medical_conditions, allergies, medications, emergency_contact, created_at, updated_at`

func (s *ProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, name, pregnancy_week, lmp_date, due_date, blood_type,
		                       medical_conditions, allergies, medications, emergency_contact)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at`,
		p.UserID, p.Name, p.PregnancyWeek, p.LMPDate, p.DueDate, p.BloodType,
		p.MedicalConditions, p.Allergies, p.Medications, p.EmergencyContact,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Get returns nil with no error when the user has no profile; the Turn API
// uses that to short-circuit into onboarding.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := s.db.QueryRow(ctx,
		`SELECT `+profileColumns+`,
		        (SELECT COUNT(*) FROM medical_documents d WHERE d.user_id = p.user_id)
		 FROM profiles p WHERE user_id = $1`,
		userID,
	).Scan(
		&p.UserID, &p.Name, &p.PregnancyWeek, &p.LMPDate, &p.DueDate, &p.BloodType,
		&p.MedicalConditions, &p.Allergies, &p.Medications, &p.EmergencyContact,
		&p.CreatedAt, &p.UpdatedAt, &p.DocumentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Update applies the non-nil fields of u and bumps updated_at. Whole-document
// last-writer-wins, matching the concurrency model for profiles.
func (s *ProfileStore) Update(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{userID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.PregnancyWeek != nil {
		add("pregnancy_week", *u.PregnancyWeek)
	}
	if u.LMPDate != nil {
		add("lmp_date", *u.LMPDate)
	}
	if u.DueDate != nil {
		add("due_date", *u.DueDate)
	}
	if u.BloodType != nil {
		add("blood_type", *u.BloodType)
	}
	if u.MedicalConditions != nil {
		add("medical_conditions", u.MedicalConditions)
	}
	if u.Allergies != nil {
		add("allergies", u.Allergies)
	}
	if u.Medications != nil {
		add("medications", u.Medications)
	}
	if u.EmergencyContact != nil {
		add("emergency_contact", *u.EmergencyContact)
	}

	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $1`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, userID)
}
