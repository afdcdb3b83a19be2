package proposal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Simplici0/glassquote/internal/pricing"
)

var (
	// ErrNotFound is returned when no proposal matches the lookup.
	ErrNotFound = errors.New("proposal not found")
	// ErrDuplicateNumber is returned by Create when the proposal number is already taken.
	ErrDuplicateNumber = errors.New("proposal number already taken")
)

// StatusDraft is the status of every proposal this service creates.
const StatusDraft = "draft"

// Proposal is a persisted commercial proposal.
type Proposal struct {
	ID         int64
	Number     string
	CreatedAt  time.Time
	Total      float64
	PDFPath    string
	Items      []pricing.SummaryItem
	Deliveries []pricing.DeliveryLine
	Manager    string
	Status     string
}

// NewProposal is the input of Store.Create.
type NewProposal struct {
	Number     string
	CreatedAt  time.Time
	Total      float64
	PDFPath    string
	Items      []pricing.SummaryItem
	Deliveries []pricing.DeliveryLine
	Manager    string
}

// WithSuffix returns base for n <= 1 and base_n otherwise.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

// Number formats the proposal number for t, e.g. КП_15102026143005.
func Number(t time.Time) string {
	return "КП_" + t.Format("02012006150405")
}

// Store persists proposals in the proposals table. Rows are created once and never changed.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new draft proposal.
func (s *Store) Create(ctx context.Context, in NewProposal) (Proposal, error) {
	itemsJSON, err := json.Marshal(nonNilItems(in.Items))
	if err != nil {
		return Proposal{}, fmt.Errorf("encode proposal items: %w", err)
	}
	deliveriesJSON, err := json.Marshal(nonNilDeliveries(in.Deliveries))
	if err != nil {
		return Proposal{}, fmt.Errorf("encode proposal deliveries: %w", err)
	}
	createdAt := in.CreatedAt.UTC()
	if in.CreatedAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO proposals (proposal_number, created_at, total, pdf_path, items_json, deliveries_json, manager, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.Number, createdAt.Format(time.RFC3339), in.Total, in.PDFPath, string(itemsJSON), string(deliveriesJSON), nullString(in.Manager), StatusDraft)
	if err != nil {
		if isUniqueViolation(err) {
			return Proposal{}, ErrDuplicateNumber
		}
		return Proposal{}, fmt.Errorf("insert proposal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Proposal{}, fmt.Errorf("read proposal id: %w", err)
	}

	return Proposal{
		ID:         id,
		Number:     in.Number,
		CreatedAt:  createdAt,
		Total:      in.Total,
		PDFPath:    in.PDFPath,
		Items:      nonNilItems(in.Items),
		Deliveries: nonNilDeliveries(in.Deliveries),
		Manager:    in.Manager,
		Status:     StatusDraft,
	}, nil
}

// List returns proposals newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Proposal, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, selectProposal+`
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()

	proposals := make([]Proposal, 0)
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	return proposals, nil
}

// Get returns the proposal with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Proposal, error) {
	return s.getOne(ctx, `WHERE id = ?`, id)
}

// GetByNumber returns the proposal with the given number.
func (s *Store) GetByNumber(ctx context.Context, number string) (Proposal, error) {
	return s.getOne(ctx, `WHERE proposal_number = ?`, number)
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (Proposal, error) {
	p, err := scanProposal(s.db.QueryRowContext(ctx, selectProposal+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return Proposal{}, ErrNotFound
	}
	return p, err
}

const selectProposal = `
	SELECT id, proposal_number, created_at, total, COALESCE(pdf_path, ''),
		COALESCE(items_json, ''), COALESCE(deliveries_json, ''), COALESCE(manager, ''), status
	FROM proposals
`

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(row scanner) (Proposal, error) {
	var (
		p              Proposal
		createdAt      string
		itemsJSON      string
		deliveriesJSON string
	)
	if err := row.Scan(&p.ID, &p.Number, &createdAt, &p.Total, &p.PDFPath, &itemsJSON, &deliveriesJSON, &p.Manager, &p.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Proposal{}, err
		}
		return Proposal{}, fmt.Errorf("scan proposal: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	p.Items = []pricing.SummaryItem{}
	p.Deliveries = []pricing.DeliveryLine{}
	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &p.Items); err != nil {
			return Proposal{}, fmt.Errorf("decode proposal %d items: %w", p.ID, err)
		}
	}
	if deliveriesJSON != "" {
		if err := json.Unmarshal([]byte(deliveriesJSON), &p.Deliveries); err != nil {
			return Proposal{}, fmt.Errorf("decode proposal %d deliveries: %w", p.ID, err)
		}
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Connections without extended result codes only report the primary code.
		return strings.Contains(sqlErr.Error(), "UNIQUE")
	}
	return false
}

func parseTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNilItems(items []pricing.SummaryItem) []pricing.SummaryItem {
	if items == nil {
		return []pricing.SummaryItem{}
	}
	return items
}

func nonNilDeliveries(d []pricing.DeliveryLine) []pricing.DeliveryLine {
	if d == nil {
		return []pricing.DeliveryLine{}
	}
	return d
}
