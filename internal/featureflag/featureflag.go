// Package featureflag resolves the switches that select validation behaviour
// per message.
package featureflag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/validation"
)

// Flag names.
const (
	RowValidation              = "EnableRowValidation"
	OrganisationDataValidation = "EnableOrganisationDataValidation"
	LeaverCodeValidation       = "EnableLeaverCodeValidation"
)

// Provider answers whether a named flag is on.
type Provider interface {
	IsEnabled(ctx context.Context, name string) (bool, error)
}

// Static is a fixed set of flags. Unknown names are off.
type Static map[string]bool

// IsEnabled implements Provider.
func (s Static) IsEnabled(_ context.Context, name string) (bool, error) {
	return s[name], nil
}

// queryRower is the part of pgxpool.Pool the Postgres provider needs.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectFlag = `SELECT enabled FROM feature_flags WHERE name = $1`

// Postgres reads flags from the feature_flags table. A flag without a row is
// answered by the fallback provider.
type Postgres struct {
	db       queryRower
	fallback Provider
}

// NewPostgres creates a provider backed by pool. fallback may be nil, in which
// case missing flags are off.
func NewPostgres(pool *pgxpool.Pool, fallback Provider) *Postgres {
	return newPostgres(pool, fallback)
}

func newPostgres(db queryRower, fallback Provider) *Postgres {
	if fallback == nil {
		fallback = Static{}
	}
	return &Postgres{db: db, fallback: fallback}
}

// IsEnabled implements Provider.
func (p *Postgres) IsEnabled(ctx context.Context, name string) (bool, error) {
	var enabled bool
	err := p.db.QueryRow(ctx, selectFlag, name).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return p.fallback.IsEnabled(ctx, name)
	}
	if err != nil {
		return false, fmt.Errorf("read feature flag %s: %w", name, err)
	}
	return enabled, nil
}

// Mode builds the validation mode for one message. errorLimit comes from
// configuration; the phase switches and leaver rule set come from flags.
func Mode(ctx context.Context, p Provider, errorLimit int) (validation.Mode, error) {
	m := validation.Mode{ErrorLimit: errorLimit, LeaverRules: rules.LeaverRulesStatusCode}

	var err error
	if m.RowRules, err = p.IsEnabled(ctx, RowValidation); err != nil {
		return validation.Mode{}, err
	}
	if m.CrossReference, err = p.IsEnabled(ctx, OrganisationDataValidation); err != nil {
		return validation.Mode{}, err
	}
	leaver, err := p.IsEnabled(ctx, LeaverCodeValidation)
	if err != nil {
		return validation.Mode{}, err
	}
	if leaver {
		m.LeaverRules = rules.LeaverRulesLeaverCode
	}
	return m, nil
}
