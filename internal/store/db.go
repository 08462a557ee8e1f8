package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSession inserts or updates the stored record for a session.
// Re-finalizing a session after a late answer replaces the prior row.
func (d *Database) SaveSession(record *SessionRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.SessionID = strings.TrimSpace(record.SessionID)
	if record.SessionID == "" {
		return errors.New("session id is empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"decision",
			"context",
			"scale",
			"confidence",
			"option_a",
			"option_b",
			"chosen_option",
			"other_option",
			"distortion_risk",
			"integrity_score",
			"chosen_rational",
			"other_rational",
			"justification_gap",
			"bias_pressure",
			"foresight_gap",
			"fairness_risk",
			"risk_label",
			"practical_preference",
			"findings_json",
			"notes_json",
			"duration_ms",
		}),
	}).Create(record).Error
}

// GetSession fetches a stored record by its session id.
func (d *Database) GetSession(sessionID string) (*SessionRecord, error) {
	var record SessionRecord
	if err := d.gorm.Where("session_id = ?", strings.TrimSpace(sessionID)).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteSession removes a stored record by its session id.
func (d *Database) DeleteSession(sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Where("session_id = ?", strings.TrimSpace(sessionID)).Delete(&SessionRecord{}).Error
}

// CountSessions returns the number of stored session records.
func (d *Database) CountSessions() (int64, error) {
	var count int64
	if err := d.gorm.Model(&SessionRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SessionQuery encapsulates filters and pagination for listing session rows.
type SessionQuery struct {
	Query     string
	Context   string
	Scale     string
	RiskLabel string
	Practical string
	Sort      string
	Offset    int
	Limit     int
}

// ListSessions returns paginated session records applying optional filters.
func (d *Database) ListSessions(opts SessionQuery) ([]SessionRecord, int64, error) {
	var total int64
	base := d.gorm.Model(&SessionRecord{})
	if opts.Query != "" {
		like := fmt.Sprintf("%%%s%%", opts.Query)
		base = base.Where("decision LIKE ? OR option_a LIKE ? OR option_b LIKE ?", like, like, like)
	}
	if ctx := strings.TrimSpace(opts.Context); ctx != "" {
		base = base.Where("context = ?", strings.ToLower(ctx))
	}
	if scale := strings.TrimSpace(opts.Scale); scale != "" {
		base = base.Where("scale = ?", strings.ToLower(scale))
	}
	if label := strings.TrimSpace(opts.RiskLabel); label != "" {
		base = base.Where("risk_label = ?", label)
	}
	switch strings.ToLower(strings.TrimSpace(opts.Practical)) {
	case "true", "yes", "1":
		base = base.Where("practical_preference = ?", true)
	case "false", "no", "0":
		base = base.Where("practical_preference = ?", false)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := orderForSort(opts.Sort)
	queryBuilder := base.Order(order).Offset(opts.Offset)
	if opts.Limit > 0 {
		queryBuilder = queryBuilder.Limit(opts.Limit)
	}

	var rows []SessionRecord
	if err := queryBuilder.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func orderForSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "decision_asc":
		return "session_records.decision ASC"
	case "decision_desc":
		return "session_records.decision DESC"
	case "risk_desc":
		return "session_records.distortion_risk DESC, session_records.id DESC"
	case "risk_asc":
		return "session_records.distortion_risk ASC, session_records.id DESC"
	case "integrity_desc":
		return "session_records.integrity_score DESC, session_records.id DESC"
	case "integrity_asc":
		return "session_records.integrity_score ASC, session_records.id DESC"
	case "created_asc":
		return "session_records.created_at ASC"
	case "created_desc":
		return "session_records.created_at DESC"
	default:
		return "session_records.id DESC"
	}
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_session_records_session_id ON session_records(session_id)",
		"CREATE INDEX IF NOT EXISTS idx_session_records_context ON session_records(context)",
		"CREATE INDEX IF NOT EXISTS idx_session_records_scale ON session_records(scale)",
		"CREATE INDEX IF NOT EXISTS idx_session_records_risk_label ON session_records(risk_label)",
		"CREATE INDEX IF NOT EXISTS idx_session_records_distortion_risk ON session_records(distortion_risk)",
		"CREATE INDEX IF NOT EXISTS idx_session_records_created_at ON session_records(created_at)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
