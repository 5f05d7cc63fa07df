package postgres

import (
	"context"
	"errors"

	"github.com/caremesh/chat-service/internal/domain"
	"github.com/caremesh/chat-service/internal/repository"
	"github.com/caremesh/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
)

// Хранилища аккаунтов раздельные и структурно разные; для чата от обоих
// нужен только одинаковый срез: id + display-атрибуты.

type PatientLookup struct {
	q querier
}

func NewPatientLookup(q querier) *PatientLookup {
	return &PatientLookup{q: q}
}

func (r *PatientLookup) Role() domain.Role { return domain.RolePatient }

func (r *PatientLookup) Lookup(ctx context.Context, id string) (*domain.Account, error) {
	return getAccount(ctx, r.q, queries.QueryGetPatient, id, domain.RolePatient)
}

type ClinicianLookup struct {
	q querier
}

func NewClinicianLookup(q querier) *ClinicianLookup {
	return &ClinicianLookup{q: q}
}

func (r *ClinicianLookup) Role() domain.Role { return domain.RoleClinician }

func (r *ClinicianLookup) Lookup(ctx context.Context, id string) (*domain.Account, error) {
	return getAccount(ctx, r.q, queries.QueryGetClinician, id, domain.RoleClinician)
}

func getAccount(ctx context.Context, q querier, sql, id string, role domain.Role) (*domain.Account, error) {
	var acc domain.Account
	err := q.QueryRow(ctx, sql, id).Scan(&acc.ID, &acc.DisplayName, &acc.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPgError(err)
	}
	acc.Role = role

	return &acc, nil
}
