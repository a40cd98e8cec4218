// Package his syncs the hospital directory from an external hospital
// information system running on SQL Server. The adapter polls a facility
// view on an interval and upserts rows keyed by their external code, so
// repeated runs converge instead of duplicating.
package his

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/rs/zerolog"
	"github.com/vietcare/platform/internal/hospital"
	"github.com/vietcare/platform/internal/shared/config"
	"github.com/vietcare/platform/internal/shared/logging"
	"github.com/vietcare/platform/internal/shared/types"
)

// Adapter polls the HIS facility view and mirrors it into the directory.
type Adapter struct {
	db        *sql.DB
	hospitals *hospital.Repository
	interval  time.Duration
	view      string
	log       zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New connects to the HIS database and returns a stopped adapter.
func New(cfg config.HISConfig, hospitals *hospital.Repository) (*Adapter, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open HIS connection: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Adapter{
		db:        db,
		hospitals: hospitals,
		interval:  time.Duration(cfg.PollInterval) * time.Second,
		view:      cfg.FacilityView,
		log:       logging.Component("his-sync"),
	}, nil
}

// Start runs an immediate sync, then polls until Stop is called.
func (a *Adapter) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		if err := a.syncOnce(ctx); err != nil {
			a.log.Error().Err(err).Msg("initial HIS sync failed")
		}

		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.syncOnce(ctx); err != nil {
					a.log.Error().Err(err).Msg("HIS sync failed")
				}
			}
		}
	}()
}

// Stop halts polling, waits for an in-flight sync and closes the connection.
func (a *Adapter) Stop() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	return a.db.Close()
}

func (a *Adapter) syncOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT FacilityCode, FacilityName, Address,
			ISNULL(City, ''), ISNULL(Phone, ''), ISNULL(Email, '')
		FROM %s
		WHERE FacilityCode IS NOT NULL`, a.view)

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query facility view: %w", err)
	}
	defer rows.Close()

	var synced, failed int
	for rows.Next() {
		var code, name, address, city, phone, email string
		if err := rows.Scan(&code, &name, &address, &city, &phone, &email); err != nil {
			return fmt.Errorf("failed to scan facility row: %w", err)
		}
		if code == "" || name == "" {
			continue
		}

		h := &hospital.Hospital{
			ID:           types.NewDeterministicID("his-facility", code),
			Name:         name,
			Address:      address,
			City:         city,
			Phone:        phone,
			Email:        email,
			ExternalCode: code,
		}
		if err := a.hospitals.UpsertByExternalCode(ctx, h); err != nil {
			failed++
			a.log.Warn().Err(err).Str("external_code", code).Msg("failed to upsert facility")
			continue
		}
		synced++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read facility rows: %w", err)
	}

	a.log.Info().Int("synced", synced).Int("failed", failed).Msg("HIS facility sync complete")
	return nil
}
