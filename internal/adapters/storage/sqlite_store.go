package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements ports.Storage on a local SQLite file. It is the
// default backend for single-node deployments and CLI usage.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InitSchema creates tables and indexes if they don't exist
func (s *SQLiteStore) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS donors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		verified INTEGER DEFAULT 0,
		phone_verified INTEGER DEFAULT 0,
		has_photo INTEGER DEFAULT 0,
		has_bio INTEGER DEFAULT 0,
		city TEXT DEFAULT '',
		state TEXT DEFAULT '',
		country TEXT DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		city TEXT DEFAULT '',
		state TEXT DEFAULT '',
		country TEXT DEFAULT '',
		goal_amount REAL NOT NULL CHECK (goal_amount > 0),
		raised_amount REAL NOT NULL DEFAULT 0 CHECK (raised_amount >= 0),
		donor_count INTEGER NOT NULL DEFAULT 0,
		creator_id TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		verified INTEGER DEFAULT 0,
		share_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		end_date TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_campaigns_status_category ON campaigns(status, category);
	CREATE INDEX IF NOT EXISTS idx_campaigns_creator_created ON campaigns(creator_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS donations (
		id TEXT PRIMARY KEY,
		donor_id TEXT NOT NULL,
		campaign_id TEXT NOT NULL,
		amount REAL NOT NULL CHECK (amount > 0),
		payment_method TEXT DEFAULT '',
		status TEXT NOT NULL DEFAULT 'completed',
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_donations_donor_created ON donations(donor_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_donations_created ON donations(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CreateDonor inserts or replaces a donor record
func (s *SQLiteStore) CreateDonor(ctx context.Context, donor *domain.Donor) error {
	query := `
		INSERT OR REPLACE INTO donors (id, name, email, verified, phone_verified, has_photo, has_bio, city, state, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		donor.ID.String(), donor.Name, donor.Email, donor.Verified, donor.PhoneVerified,
		donor.HasPhoto, donor.HasBio,
		donor.Location.City, donor.Location.State, donor.Location.Country,
		donor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donor: %w", err)
	}
	return nil
}

// GetDonor fetches a donor by ID
func (s *SQLiteStore) GetDonor(ctx context.Context, id uuid.UUID) (*domain.Donor, error) {
	query := `
		SELECT id, name, email, verified, phone_verified, has_photo, has_bio, city, state, country, created_at
		FROM donors WHERE id = ?`

	donor := &domain.Donor{}
	var rawID string
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &donor.Name, &donor.Email, &donor.Verified, &donor.PhoneVerified,
		&donor.HasPhoto, &donor.HasBio,
		&donor.Location.City, &donor.Location.State, &donor.Location.Country,
		&donor.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donor: %w", err)
	}
	donor.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt donor id %q: %w", rawID, err)
	}
	return donor, nil
}

// CreateCampaign inserts a campaign record
func (s *SQLiteStore) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, title, description, category, city, state, country,
			goal_amount, raised_amount, donor_count, creator_id, status, verified, share_count, created_at, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		campaign.ID.String(), campaign.Title, campaign.Description, string(campaign.Category),
		campaign.Location.City, campaign.Location.State, campaign.Location.Country,
		campaign.GoalAmount, campaign.RaisedAmount, campaign.DonorCount,
		campaign.CreatorID.String(), string(campaign.Status), campaign.Verified, campaign.ShareCount,
		campaign.CreatedAt, nullableTime(campaign.EndDate))
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetCampaign fetches a campaign by ID
func (s *SQLiteStore) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := sqliteCampaignColumns + ` FROM campaigns WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id.String())
	campaign, err := scanSQLiteCampaign(row, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// SearchCampaigns filters campaigns in SQL. SQLite has no text-rank
// function, so the text score counts LIKE hits per term: a title hit is
// worth 2, a description hit 1, matching the in-memory store.
func (s *SQLiteStore) SearchCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]ports.CampaignMatch, error) {
	var (
		conditions []string
		args       []any
	)

	terms := strings.Fields(strings.ToLower(strings.TrimSpace(filter.Query)))
	scoreExpr := "0"
	if len(terms) > 0 {
		var parts []string
		for _, term := range terms {
			pattern := "%" + term + "%"
			parts = append(parts,
				"(CASE WHEN LOWER(title) LIKE ? THEN 2 ELSE 0 END + CASE WHEN LOWER(description) LIKE ? THEN 1 ELSE 0 END)")
			args = append(args, pattern, pattern)
		}
		scoreExpr = "(" + strings.Join(parts, " + ") + ")"
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.City != "" {
		conditions = append(conditions, "LOWER(city) = LOWER(?)")
		args = append(args, filter.City)
	}
	if filter.State != "" {
		conditions = append(conditions, "LOWER(state) = LOWER(?)")
		args = append(args, filter.State)
	}
	if filter.MinGoal > 0 {
		conditions = append(conditions, "goal_amount >= ?")
		args = append(args, filter.MinGoal)
	}
	if filter.MaxGoal > 0 {
		conditions = append(conditions, "goal_amount <= ?")
		args = append(args, filter.MaxGoal)
	}

	query := sqliteCampaignColumns + ", " + scoreExpr + " AS text_score FROM campaigns"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if len(terms) > 0 {
		// With a query, drop rows that match no term at all
		query = "SELECT * FROM (" + query + ") WHERE text_score > 0"
	}
	query += " ORDER BY text_score DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}
	defer rows.Close()

	matches := make([]ports.CampaignMatch, 0)
	for rows.Next() {
		match := ports.CampaignMatch{}
		campaign, err := scanSQLiteCampaign(rows, &match.TextScore)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		match.Campaign = *campaign
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// ListByCreator returns the creator's campaigns created at or after since,
// newest first
func (s *SQLiteStore) ListByCreator(ctx context.Context, creatorID uuid.UUID, since time.Time) ([]domain.Campaign, error) {
	query := sqliteCampaignColumns + `
		FROM campaigns
		WHERE creator_id = ? AND created_at >= ?
		ORDER BY created_at DESC`

	return s.listCampaigns(ctx, query, creatorID.String(), since)
}

// CountByCreator returns the creator's lifetime campaign count
func (s *SQLiteStore) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE creator_id = ?`, creatorID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

// ListRecentCampaigns returns the newest campaigns up to limit
func (s *SQLiteStore) ListRecentCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error) {
	query := sqliteCampaignColumns + `
		FROM campaigns
		ORDER BY created_at DESC, id ASC
		LIMIT ?`

	return s.listCampaigns(ctx, query, limit)
}

// CreateDonation inserts a donation and updates campaign aggregates in one
// transaction
func (s *SQLiteStore) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO donations (id, donor_id, campaign_id, amount, payment_method, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		donation.ID.String(), donation.DonorID.String(), donation.CampaignID.String(),
		donation.Amount, donation.PaymentMethod, donation.Status, donation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	if donation.Status == "completed" {
		_, err = tx.ExecContext(ctx, `
			UPDATE campaigns
			SET raised_amount = raised_amount + ?, donor_count = donor_count + 1
			WHERE id = ?`,
			donation.Amount, donation.CampaignID.String())
		if err != nil {
			return fmt.Errorf("failed to update campaign aggregates: %w", err)
		}
	}

	return tx.Commit()
}

// DonorHistory returns the donor's completed donations joined with campaign
// category and location, oldest first
func (s *SQLiteStore) DonorHistory(ctx context.Context, donorID uuid.UUID) ([]domain.DonationRecord, error) {
	query := `
		SELECT d.id, d.donor_id, d.campaign_id, d.amount, d.payment_method, d.status, d.created_at,
		       c.category, c.city, c.state, c.country
		FROM donations d
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.donor_id = ? AND d.status = 'completed'
		ORDER BY d.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, donorID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DonationRecord, 0)
	for rows.Next() {
		var (
			record                         domain.DonationRecord
			rawID, rawDonorID, rawCampaign string
		)
		err := rows.Scan(
			&rawID, &rawDonorID, &rawCampaign, &record.Amount,
			&record.PaymentMethod, &record.Donation.Status, &record.CreatedAt,
			&record.Category, &record.Location.City, &record.Location.State, &record.Location.Country)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation record: %w", err)
		}
		if record.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("corrupt donation id %q: %w", rawID, err)
		}
		record.DonorID, _ = uuid.Parse(rawDonorID)
		record.CampaignID, _ = uuid.Parse(rawCampaign)
		records = append(records, record)
	}
	return records, rows.Err()
}

// RecentByDonor returns the donor's donations newest first, up to limit
func (s *SQLiteStore) RecentByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]domain.Donation, error) {
	query := `
		SELECT id, donor_id, campaign_id, amount, payment_method, status, created_at
		FROM donations
		WHERE donor_id = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, donorID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent donations: %w", err)
	}
	defer rows.Close()

	donations := make([]domain.Donation, 0)
	for rows.Next() {
		var (
			donation                       domain.Donation
			rawID, rawDonorID, rawCampaign string
		)
		err := rows.Scan(&rawID, &rawDonorID, &rawCampaign,
			&donation.Amount, &donation.PaymentMethod, &donation.Status, &donation.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		if donation.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("corrupt donation id %q: %w", rawID, err)
		}
		donation.DonorID, _ = uuid.Parse(rawDonorID)
		donation.CampaignID, _ = uuid.Parse(rawCampaign)
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

// DonationVelocity aggregates completed donation flow per campaign since
// the given time, highest flow first
func (s *SQLiteStore) DonationVelocity(ctx context.Context, since time.Time) ([]ports.VelocityStat, error) {
	query := `
		SELECT campaign_id, COALESCE(SUM(amount), 0), COUNT(*)
		FROM donations
		WHERE status = 'completed' AND created_at >= ?
		GROUP BY campaign_id
		ORDER BY SUM(amount) DESC, campaign_id ASC`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate donation velocity: %w", err)
	}
	defer rows.Close()

	stats := make([]ports.VelocityStat, 0)
	for rows.Next() {
		var (
			stat  ports.VelocityStat
			rawID string
		)
		if err := rows.Scan(&rawID, &stat.Amount, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan velocity stat: %w", err)
		}
		if stat.CampaignID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("corrupt campaign id %q: %w", rawID, err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

const sqliteCampaignColumns = `
	SELECT id, title, description, category, city, state, country,
	       goal_amount, raised_amount, donor_count, creator_id, status,
	       verified, share_count, created_at, end_date`

func scanSQLiteCampaign(row rowScanner, textScore *float64) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}
	var (
		rawID     string
		creatorID sql.NullString
		endDate   sql.NullTime
	)

	dest := []any{
		&rawID, &campaign.Title, &campaign.Description, &campaign.Category,
		&campaign.Location.City, &campaign.Location.State, &campaign.Location.Country,
		&campaign.GoalAmount, &campaign.RaisedAmount, &campaign.DonorCount,
		&creatorID, &campaign.Status, &campaign.Verified, &campaign.ShareCount,
		&campaign.CreatedAt, &endDate,
	}
	if textScore != nil {
		dest = append(dest, textScore)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt campaign id %q: %w", rawID, err)
	}
	campaign.ID = parsed

	if creatorID.Valid {
		if parsed, err := uuid.Parse(creatorID.String); err == nil {
			campaign.CreatorID = parsed
		}
	}
	if endDate.Valid {
		campaign.EndDate = endDate.Time
	}
	return campaign, nil
}

func (s *SQLiteStore) listCampaigns(ctx context.Context, query string, args ...any) ([]domain.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanSQLiteCampaign(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, rows.Err()
}
