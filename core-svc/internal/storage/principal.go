package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/foodcourt-platform/platform/identity"
)

// PrincipalStore implements platform/identity.Store over the same *sql.DB the rest of
// core-svc uses, so identity resolution shares the connection pool instead of standing up
// its own. identity.ScopeResolver is implemented by PostgresRepository (restaurant.go).
type PrincipalStore struct {
	DB *sql.DB
}

func NewPrincipalStore(db *sql.DB) *PrincipalStore {
	return &PrincipalStore{DB: db}
}

func (s *PrincipalStore) FindByExternalID(ctx context.Context, externalID string) (*identity.Principal, error) {
	var p identity.Principal
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, role, external_identity_id FROM principal WHERE external_identity_id = $1`, externalID).
		Scan(&p.ID, &p.Role, &p.ExternalIdentityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PrincipalStore) FindByID(ctx context.Context, id string) (*identity.Principal, error) {
	var p identity.Principal
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, role, external_identity_id FROM principal WHERE id = $1`, id).
		Scan(&p.ID, &p.Role, &p.ExternalIdentityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PrincipalStore) CreateCustomer(ctx context.Context, externalID string) (*identity.Principal, error) {
	p := &identity.Principal{
		ID:                 uuid.NewString(),
		Role:               identity.Customer,
		ExternalIdentityID: externalID,
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO principal (id, role, external_identity_id) VALUES ($1, $2, $3)`,
		p.ID, p.Role, p.ExternalIdentityID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PromoteToEmployee upgrades a Customer principal's role after a successful invite
// consumption (spec §4.6: "the caller's role is upgraded to Employee ... on next token refresh").
func (s *PrincipalStore) PromoteToEmployee(ctx context.Context, principalID string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE principal SET role = $1 WHERE id = $2`, identity.Employee, principalID)
	return err
}

