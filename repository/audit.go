package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/seanchatmangpt/kgcl/delta"
)

// receiptModel is the GORM-mapped row for one archived apply outcome.
// gorm.Model supplies ID, CreatedAt, UpdatedAt, DeletedAt.
type receiptModel struct {
	gorm.Model
	CaseID      string `gorm:"index"`
	TxID        string `gorm:"uniqueIndex"`
	Committed   bool
	MerkleRoot  string
	LogicHash   string
	DurationNs  int64
	Error       string
	HookResults []byte `gorm:"type:jsonb"`
}

// ReceiptRecord is one archived apply outcome: the Receipt plus the case
// it belonged to, for audit trails the base C14 contract doesn't itself
// require but a compliance-minded deployment typically wants.
type ReceiptRecord struct {
	CaseID     string
	TxID       string
	Committed  bool
	MerkleRoot string
	LogicHash  string
	DurationNs int64
	Error      string
	AppliedAt  time.Time
}

// ReceiptMetrics summarizes a case's apply history over a time window.
type ReceiptMetrics struct {
	CaseID      string
	TotalTxns   int64
	Committed   int64
	Vetoed      int64
	AvgDuration time.Duration
	LastApplied time.Time
}

// AuditRepository archives receipts beyond the lifetime of a single
// engine process, for compliance and post-hoc investigation. It is an
// optional extension to the base C14 contract: a host need not wire it
// to get a working engine.
type AuditRepository interface {
	SaveReceipt(ctx context.Context, caseID string, r delta.Receipt) error
	ListReceipts(ctx context.Context, caseID string, limit int) ([]ReceiptRecord, error)
	Metrics(ctx context.Context, caseID string, from, to time.Time) (ReceiptMetrics, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	Close() error
}

// PostgresAudit implements AuditRepository over a PostgreSQL table via
// GORM, storing each receipt as an append-only row with a JSON
// hook-result payload for later inspection.
type PostgresAudit struct {
	db *gorm.DB
}

// OpenPostgresAudit connects to PostgreSQL and auto-migrates the receipts
// table. dsn is a standard PostgreSQL connection string, e.g.
// "host=localhost user=kgcl dbname=kgcl sslmode=disable".
func OpenPostgresAudit(dsn string) (*PostgresAudit, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres audit store: %w", err)
	}
	if err := db.AutoMigrate(&receiptModel{}); err != nil {
		return nil, fmt.Errorf("migrate receipts table: %w", err)
	}
	return &PostgresAudit{db: db}, nil
}

func (a *PostgresAudit) SaveReceipt(ctx context.Context, caseID string, r delta.Receipt) error {
	hookResults, err := json.Marshal(r.HookResults)
	if err != nil {
		return fmt.Errorf("marshal hook results: %w", err)
	}
	row := receiptModel{
		CaseID:      caseID,
		TxID:        r.TxID.String(),
		Committed:   r.Committed,
		MerkleRoot:  hashHex(r.MerkleRoot),
		LogicHash:   hashHex(r.LogicHash),
		DurationNs:  r.DurationNs,
		Error:       r.Error,
		HookResults: hookResults,
	}
	return a.db.WithContext(ctx).Create(&row).Error
}

func (a *PostgresAudit) ListReceipts(ctx context.Context, caseID string, limit int) ([]ReceiptRecord, error) {
	var rows []receiptModel
	err := a.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ReceiptRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReceiptRecord{
			CaseID:     row.CaseID,
			TxID:       row.TxID,
			Committed:  row.Committed,
			MerkleRoot: row.MerkleRoot,
			LogicHash:  row.LogicHash,
			DurationNs: row.DurationNs,
			Error:      row.Error,
			AppliedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

func (a *PostgresAudit) Metrics(ctx context.Context, caseID string, from, to time.Time) (ReceiptMetrics, error) {
	m := ReceiptMetrics{CaseID: caseID}

	var totals struct {
		Total       int64
		Committed   int64
		AvgDuration float64
		LastApplied time.Time
	}
	err := a.db.WithContext(ctx).Model(&receiptModel{}).
		Select("COUNT(*) as total, SUM(CASE WHEN committed THEN 1 ELSE 0 END) as committed, AVG(duration_ns) as avg_duration, MAX(created_at) as last_applied").
		Where("case_id = ? AND created_at BETWEEN ? AND ?", caseID, from, to).
		Scan(&totals).Error
	if err != nil {
		return ReceiptMetrics{}, err
	}

	m.TotalTxns = totals.Total
	m.Committed = totals.Committed
	m.Vetoed = totals.Total - totals.Committed
	m.AvgDuration = time.Duration(totals.AvgDuration)
	m.LastApplied = totals.LastApplied
	return m, nil
}

func (a *PostgresAudit) DeleteOlderThan(ctx context.Context, before time.Time) error {
	return a.db.WithContext(ctx).Where("created_at < ?", before).Delete(&receiptModel{}).Error
}

func (a *PostgresAudit) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func hashHex(h [32]byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(h)*2)
	for i, b := range h {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}

var _ AuditRepository = (*PostgresAudit)(nil)
