package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/givehub/campaign-discovery/internal/domain"
	"github.com/givehub/campaign-discovery/internal/ports"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore implements ports.Storage for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage instance
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Connection pool settings; tune per workload in production
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates database tables if they don't exist.
// In production, use proper migration tools.
func (s *PostgresStore) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS donors (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(254) NOT NULL UNIQUE,
		verified BOOLEAN DEFAULT FALSE,
		phone_verified BOOLEAN DEFAULT FALSE,
		has_photo BOOLEAN DEFAULT FALSE,
		has_bio BOOLEAN DEFAULT FALSE,
		city VARCHAR(100) DEFAULT '',
		state VARCHAR(100) DEFAULT '',
		country VARCHAR(100) DEFAULT '',
		created_at TIMESTAMP DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS campaigns (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category VARCHAR(30) NOT NULL,
		city VARCHAR(100) DEFAULT '',
		state VARCHAR(100) DEFAULT '',
		country VARCHAR(100) DEFAULT '',
		goal_amount NUMERIC(14,2) NOT NULL CHECK (goal_amount > 0),
		raised_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (raised_amount >= 0),
		donor_count INTEGER NOT NULL DEFAULT 0,
		creator_id UUID REFERENCES donors(id),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		verified BOOLEAN DEFAULT FALSE,
		share_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT NOW(),
		end_date TIMESTAMP,
		search_tsv tsvector GENERATED ALWAYS AS (
			setweight(to_tsvector('english', title), 'A') ||
			setweight(to_tsvector('english', description), 'B')
		) STORED
	);

	-- Backs the filtered candidate fetch
	CREATE INDEX IF NOT EXISTS idx_campaigns_status_category ON campaigns(status, category);
	CREATE INDEX IF NOT EXISTS idx_campaigns_creator_created ON campaigns(creator_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_campaigns_search ON campaigns USING GIN (search_tsv);

	CREATE TABLE IF NOT EXISTS donations (
		id UUID PRIMARY KEY,
		donor_id UUID NOT NULL REFERENCES donors(id),
		campaign_id UUID NOT NULL REFERENCES campaigns(id),
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		payment_method VARCHAR(30) DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'completed',
		created_at TIMESTAMP DEFAULT NOW()
	);

	-- Backs DonorHistory and RecentByDonor
	CREATE INDEX IF NOT EXISTS idx_donations_donor_created ON donations(donor_id, created_at DESC);
	-- Backs DonationVelocity
	CREATE INDEX IF NOT EXISTS idx_donations_created ON donations(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CreateDonor inserts or updates a donor record
func (s *PostgresStore) CreateDonor(ctx context.Context, donor *domain.Donor) error {
	query := `
		INSERT INTO donors (id, name, email, verified, phone_verified, has_photo, has_bio, city, state, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			verified = EXCLUDED.verified,
			phone_verified = EXCLUDED.phone_verified,
			has_photo = EXCLUDED.has_photo,
			has_bio = EXCLUDED.has_bio,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			country = EXCLUDED.country`

	_, err := s.db.ExecContext(ctx, query,
		donor.ID, donor.Name, donor.Email, donor.Verified, donor.PhoneVerified,
		donor.HasPhoto, donor.HasBio,
		donor.Location.City, donor.Location.State, donor.Location.Country,
		donor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donor: %w", err)
	}
	return nil
}

// GetDonor fetches a donor by ID
func (s *PostgresStore) GetDonor(ctx context.Context, id uuid.UUID) (*domain.Donor, error) {
	query := `
		SELECT id, name, email, verified, phone_verified, has_photo, has_bio, city, state, country, created_at
		FROM donors WHERE id = $1`

	donor := &domain.Donor{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&donor.ID, &donor.Name, &donor.Email, &donor.Verified, &donor.PhoneVerified,
		&donor.HasPhoto, &donor.HasBio,
		&donor.Location.City, &donor.Location.State, &donor.Location.Country,
		&donor.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donor: %w", err)
	}
	return donor, nil
}

// CreateCampaign inserts a campaign record
func (s *PostgresStore) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, title, description, category, city, state, country,
			goal_amount, raised_amount, donor_count, creator_id, status, verified, share_count, created_at, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.db.ExecContext(ctx, query,
		campaign.ID, campaign.Title, campaign.Description, campaign.Category,
		campaign.Location.City, campaign.Location.State, campaign.Location.Country,
		campaign.GoalAmount, campaign.RaisedAmount, campaign.DonorCount,
		campaign.CreatorID, campaign.Status, campaign.Verified, campaign.ShareCount,
		campaign.CreatedAt, nullableTime(campaign.EndDate))
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetCampaign fetches a campaign by ID
func (s *PostgresStore) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := campaignColumns + ` FROM campaigns WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	campaign, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// SearchCampaigns applies the filter in SQL and returns candidates with an
// opaque ts_rank text score. Scoring beyond text rank stays in application
// code; the database only filters, ranks text, and caps the candidate set.
func (s *PostgresStore) SearchCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]ports.CampaignMatch, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	textRank := "0"
	if q := strings.TrimSpace(filter.Query); q != "" {
		placeholder := arg(q)
		textRank = fmt.Sprintf("ts_rank(search_tsv, websearch_to_tsquery('english', %s))", placeholder)
		conditions = append(conditions, fmt.Sprintf("search_tsv @@ websearch_to_tsquery('english', %s)", placeholder))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = "+arg(string(filter.Category)))
	}
	if filter.City != "" {
		conditions = append(conditions, "LOWER(city) = LOWER("+arg(filter.City)+")")
	}
	if filter.State != "" {
		conditions = append(conditions, "LOWER(state) = LOWER("+arg(filter.State)+")")
	}
	if filter.MinGoal > 0 {
		conditions = append(conditions, "goal_amount >= "+arg(filter.MinGoal))
	}
	if filter.MaxGoal > 0 {
		conditions = append(conditions, "goal_amount <= "+arg(filter.MaxGoal))
	}

	query := campaignColumns + ", " + textRank + " AS text_rank FROM campaigns"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY text_rank DESC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search campaigns: %w", err)
	}
	defer rows.Close()

	matches := make([]ports.CampaignMatch, 0)
	for rows.Next() {
		match := ports.CampaignMatch{}
		campaign, err := scanCampaignFields(rows, &match.TextScore)
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
func (s *PostgresStore) ListByCreator(ctx context.Context, creatorID uuid.UUID, since time.Time) ([]domain.Campaign, error) {
	query := campaignColumns + `
		FROM campaigns
		WHERE creator_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`

	return s.listCampaigns(ctx, query, creatorID, since)
}

// CountByCreator returns the creator's lifetime campaign count
func (s *PostgresStore) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE creator_id = $1`, creatorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

// ListRecentCampaigns returns the newest campaigns up to limit
func (s *PostgresStore) ListRecentCampaigns(ctx context.Context, limit int) ([]domain.Campaign, error) {
	query := campaignColumns + `
		FROM campaigns
		ORDER BY created_at DESC, id ASC
		LIMIT $1`

	return s.listCampaigns(ctx, query, limit)
}

// CreateDonation inserts a donation and updates the campaign's aggregates
// in one transaction
func (s *PostgresStore) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO donations (id, donor_id, campaign_id, amount, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		donation.ID, donation.DonorID, donation.CampaignID, donation.Amount,
		donation.PaymentMethod, donation.Status, donation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	if donation.Status == "completed" {
		_, err = tx.ExecContext(ctx, `
			UPDATE campaigns
			SET raised_amount = raised_amount + $1, donor_count = donor_count + 1
			WHERE id = $2`,
			donation.Amount, donation.CampaignID)
		if err != nil {
			return fmt.Errorf("failed to update campaign aggregates: %w", err)
		}
	}

	return tx.Commit()
}

// DonorHistory returns the donor's completed donations joined with each
// campaign's category and location, oldest first
func (s *PostgresStore) DonorHistory(ctx context.Context, donorID uuid.UUID) ([]domain.DonationRecord, error) {
	query := `
		SELECT d.id, d.donor_id, d.campaign_id, d.amount, d.payment_method, d.status, d.created_at,
		       c.category, c.city, c.state, c.country
		FROM donations d
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.donor_id = $1 AND d.status = 'completed'
		ORDER BY d.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DonationRecord, 0)
	for rows.Next() {
		var record domain.DonationRecord
		err := rows.Scan(
			&record.ID, &record.DonorID, &record.CampaignID, &record.Amount,
			&record.PaymentMethod, &record.Donation.Status, &record.CreatedAt,
			&record.Category, &record.Location.City, &record.Location.State, &record.Location.Country)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// RecentByDonor returns the donor's donations newest first, up to limit
func (s *PostgresStore) RecentByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]domain.Donation, error) {
	query := `
		SELECT id, donor_id, campaign_id, amount, payment_method, status, created_at
		FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, donorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent donations: %w", err)
	}
	defer rows.Close()

	donations := make([]domain.Donation, 0)
	for rows.Next() {
		var donation domain.Donation
		err := rows.Scan(&donation.ID, &donation.DonorID, &donation.CampaignID,
			&donation.Amount, &donation.PaymentMethod, &donation.Status, &donation.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

// DonationVelocity aggregates completed donation flow per campaign since
// the given time, highest flow first
func (s *PostgresStore) DonationVelocity(ctx context.Context, since time.Time) ([]ports.VelocityStat, error) {
	query := `
		SELECT campaign_id, COALESCE(SUM(amount), 0), COUNT(*)
		FROM donations
		WHERE status = 'completed' AND created_at >= $1
		GROUP BY campaign_id
		ORDER BY SUM(amount) DESC, campaign_id ASC`

	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate donation velocity: %w", err)
	}
	defer rows.Close()

	stats := make([]ports.VelocityStat, 0)
	for rows.Next() {
		var stat ports.VelocityStat
		if err := rows.Scan(&stat.CampaignID, &stat.Amount, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan velocity stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

const campaignColumns = `
	SELECT id, title, description, category, city, state, country,
	       goal_amount, raised_amount, donor_count, creator_id, status,
	       verified, share_count, created_at, end_date`

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	return scanCampaignFields(row, nil)
}

// scanCampaignFields scans the shared campaign column list, optionally
// followed by a trailing text-rank column
func scanCampaignFields(row rowScanner, textScore *float64) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}
	var (
		endDate   sql.NullTime
		creatorID sql.NullString
	)

	dest := []any{
		&campaign.ID, &campaign.Title, &campaign.Description, &campaign.Category,
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

	if endDate.Valid {
		campaign.EndDate = endDate.Time
	}
	if creatorID.Valid {
		parsed, err := uuid.Parse(creatorID.String)
		if err == nil {
			campaign.CreatorID = parsed
		}
	}
	return campaign, nil
}

func (s *PostgresStore) listCampaigns(ctx context.Context, query string, args ...any) ([]domain.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, rows.Err()
}

// nullableTime maps the zero time to SQL NULL
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
