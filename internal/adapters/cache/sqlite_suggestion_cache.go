package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
)

// SQLite backed cache for provider suggestions, used when no Redis is
// configured. Entries older than TTL are treated as misses.
type SqliteSuggestionCache struct {
	DB  *sql.DB
	TTL time.Duration
	Now func() time.Time
}

func NewSqliteSuggestionCache(db *sql.DB, ttl time.Duration) *SqliteSuggestionCache {
	return &SqliteSuggestionCache{DB: db, TTL: ttl, Now: time.Now}
}

func (s *SqliteSuggestionCache) Get(
	ctx context.Context,
	destination string,
	kind domain.OverlayKind,
) (_ []string, _ bool, err error) {
	defer obs.Time(ctx, "suggest.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("suggestion cache: db is nil")
	}

	var names, fetchedAt string
	err = s.DB.QueryRowContext(ctx, `
	SELECT names, fetched_at
	FROM suggestion_cache
	WHERE destination = ?
		AND kind = ?;
	`, normalize(destination), kind.String()).Scan(&names, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: query suggestion_cache table: %w", err)
	}

	if s.TTL > 0 {
		at, perr := time.Parse(time.RFC3339, fetchedAt)
		if perr != nil || s.Now().Sub(at) > s.TTL {
			return nil, false, nil
		}
	}

	return domain.SplitAggregate(names), true, nil
}

func (s *SqliteSuggestionCache) Put(ctx context.Context, destination string, kind domain.OverlayKind, names []string) error {
	if s.DB == nil {
		return errors.New("suggestion cache: db is nil")
	}

	dest := normalize(destination)
	if dest == "" {
		return errors.New("put suggestion cache: destination must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO suggestion_cache (
		destination,
		kind,
		names,
		fetched_at
	)
	VALUES (?, ?, ?, ?);
	`, dest, kind.String(), domain.JoinAggregate(names), s.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("put suggestion cache dest=%q: %w", dest, err)
	}

	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
