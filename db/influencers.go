package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/usario/creators-services/internal/events"
	"github.com/usario/creators-services/models"
)

const (
	influencersTable = "influencers"
	influencerFields = `i.id, i.client_id, COALESCE(c.name, ''), i.added_by_user_id, i.name, i.business_email,
		i.instagram_followers, i.tiktok_followers, i.average_views, i.engagement_rate,
		i.instagram_url, i.tiktok_url, i.notes, i.submitted, i.created_at, i.date_added`
	influencerFrom = ` FROM influencers i LEFT JOIN clients c ON c.id = i.client_id`
)

func scanInfluencer(row rowScanner) (models.Influencer, error) {
	var inf models.Influencer
	var dateAdded time.Time
	err := row.Scan(&inf.ID, &inf.ClientID, &inf.ClientName, &inf.AddedByUserID, &inf.Name, &inf.BusinessEmail,
		&inf.InstagramFollowers, &inf.TikTokFollowers, &inf.AverageViews, &inf.EngagementRate,
		&inf.InstagramURL, &inf.TikTokURL, &inf.Notes, &inf.Submitted, &inf.CreatedAt, &dateAdded)
	inf.DateAdded = dateAdded.Format(models.DateLayout)
	return inf, err
}

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanInfluencers(rows *sql.Rows) ([]models.Influencer, error) {
	defer rows.Close()

	influencers := []models.Influencer{}
	for rows.Next() {
		inf, err := scanInfluencer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning influencers: %w", err)
		}
		influencers = append(influencers, inf)
	}
	return influencers, rows.Err()
}

// CreateInfluencer inserts an influencer. A duplicate business email for the
// same client returns ErrConflict.
func (db *CRMDB) CreateInfluencer(ctx context.Context, inf models.Influencer) (*models.Influencer, error) {
	now := time.Now().UTC()
	inf.CreatedAt = now
	inf.DateAdded = now.Format(models.DateLayout)
	inf.Submitted = false

	var addedBy any
	if inf.AddedByUserID != uuid.Nil {
		addedBy = inf.AddedByUserID
	}

	err := db.DB.QueryRowContext(ctx, `
		INSERT INTO influencers (client_id, added_by_user_id, name, business_email,
			instagram_followers, tiktok_followers, average_views, engagement_rate,
			instagram_url, tiktok_url, notes, submitted, created_at, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, $12, $13)
		RETURNING id`,
		inf.ClientID, addedBy, inf.Name, inf.BusinessEmail,
		inf.InstagramFollowers, inf.TikTokFollowers, inf.AverageViews, inf.EngagementRate,
		inf.InstagramURL, inf.TikTokURL, inf.Notes, inf.CreatedAt, inf.DateAdded).Scan(&inf.ID)
	if err != nil {
		return nil, fmt.Errorf("error inserting influencer: %w", translate(err))
	}

	db.publish(influencersTable, events.Insert, inf)
	return &inf, nil
}

// GetInfluencer retrieves an influencer by ID. A missing influencer returns nil, nil.
func (db *CRMDB) GetInfluencer(ctx context.Context, id int64) (*models.Influencer, error) {
	row := db.DB.QueryRowContext(ctx, `SELECT `+influencerFields+influencerFrom+` WHERE i.id = $1`, id)

	inf, err := scanInfluencer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning influencer: %w", err)
	}
	return &inf, nil
}

// ListInfluencers returns influencers matching filter, newest first.
func (db *CRMDB) ListInfluencers(ctx context.Context, filter models.InfluencerFilter) ([]models.Influencer, error) {
	if filter.ClientIDs != nil && len(filter.ClientIDs) == 0 {
		return []models.Influencer{}, nil
	}

	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ClientIDs != nil {
		ids := make([]string, len(filter.ClientIDs))
		for i, id := range filter.ClientIDs {
			ids[i] = id.String()
		}
		add("i.client_id = ANY($%d::uuid[])", pq.Array(ids))
	}
	if filter.ClientID != nil {
		add("i.client_id = $%d", *filter.ClientID)
	}
	if filter.Submitted != nil {
		add("i.submitted = $%d", *filter.Submitted)
	}
	if filter.AddedBy != nil {
		add("i.added_by_user_id = $%d", *filter.AddedBy)
	}
	if filter.AddedOn != nil {
		add("i.date_added = $%d", filter.AddedOn.UTC().Format(models.DateLayout))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(i.name ILIKE $%d ESCAPE '\' OR i.business_email ILIKE $%d ESCAPE '\')`, n, n))
	}

	query := `SELECT ` + influencerFields + influencerFrom
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY i.created_at DESC, i.id DESC`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving influencers: %w", err)
	}
	return scanInfluencers(rows)
}

// ClientEmails returns the lowercased business emails stored for a client.
func (db *CRMDB) ClientEmails(ctx context.Context, clientID uuid.UUID) (map[string]bool, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT lower(business_email) FROM influencers WHERE client_id = $1`, clientID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving client emails: %w", err)
	}
	defer rows.Close()

	emails := make(map[string]bool)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("error scanning client emails: %w", err)
		}
		emails[email] = true
	}
	return emails, rows.Err()
}

// UpdateInfluencer applies the non-nil fields of update.
func (db *CRMDB) UpdateInfluencer(ctx context.Context, id int64, update models.InfluencerUpdate) (*models.Influencer, error) {
	var updated int64
	err := db.DB.QueryRowContext(ctx, `
		UPDATE influencers SET
			name = COALESCE($2, name),
			business_email = COALESCE($3, business_email),
			instagram_followers = COALESCE($4, instagram_followers),
			tiktok_followers = COALESCE($5, tiktok_followers),
			average_views = COALESCE($6, average_views),
			engagement_rate = COALESCE($7, engagement_rate),
			instagram_url = COALESCE($8, instagram_url),
			tiktok_url = COALESCE($9, tiktok_url),
			notes = COALESCE($10, notes)
		WHERE id = $1
		RETURNING id`,
		id, update.Name, update.BusinessEmail, update.InstagramFollowers, update.TikTokFollowers,
		update.AverageViews, update.EngagementRate, update.InstagramURL, update.TikTokURL, update.Notes).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating influencer: %w", translate(err))
	}

	inf, err := db.GetInfluencer(ctx, updated)
	if err != nil {
		return nil, err
	}
	if inf == nil {
		return nil, ErrNotFound
	}

	db.publish(influencersTable, events.Update, inf)
	return inf, nil
}

// DeleteInfluencer removes an influencer.
func (db *CRMDB) DeleteInfluencer(ctx context.Context, id int64) error {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM influencers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting influencer: %w", translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	db.publish(influencersTable, events.Delete, map[string]int64{"id": id})
	return nil
}
