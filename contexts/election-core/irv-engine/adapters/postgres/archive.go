package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
	"rankvote/contexts/election-core/irv-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Archive persists decided-election audit rows. Only terminal outcomes and
// per-round aggregate counts are written; ballots never leave process memory.
type Archive struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewArchive(db *gorm.DB, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{
		db:     db,
		logger: logger,
	}
}

type outcomeModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Status      string    `gorm:"column:status"`
	Winner      string    `gorm:"column:winner"`
	BallotCount int       `gorm:"column:ballot_count"`
	Rounds      []byte    `gorm:"column:rounds;type:jsonb"`
	DecidedAt   time.Time `gorm:"column:decided_at"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (outcomeModel) TableName() string {
	return "election_outcomes"
}

// Migrate creates the outcome table when the archive is enabled.
func (a *Archive) Migrate() error {
	return a.db.AutoMigrate(&outcomeModel{})
}

func (a *Archive) ArchiveOutcome(ctx context.Context, outcome ports.ElectionOutcome) error {
	rounds, err := json.Marshal(outcome.Rounds)
	if err != nil {
		return fmt.Errorf("encode rounds for election %s: %w", outcome.ElectionID, err)
	}
	row := outcomeModel{
		ID:          outcome.ElectionID,
		Name:        outcome.Name,
		Status:      outcome.Status,
		Winner:      outcome.Winner,
		BallotCount: outcome.BallotCount,
		Rounds:      rounds,
		DecidedAt:   outcome.DecidedAt,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		a.logger.Error("outcome archive write failed",
			"event", "election_archive_write_failed",
			"module", "election-core/irv-engine",
			"layer", "adapter",
			"election_id", outcome.ElectionID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
