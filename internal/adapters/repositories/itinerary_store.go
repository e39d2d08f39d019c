package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"trip-itinerary-service/internal/domain"
	"trip-itinerary-service/internal/platform/obs"
	"trip-itinerary-service/internal/ports"
)

const dateLayout = "2006-01-02"

// placeholder renders the n-th (1-based) bind parameter of a dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

// itineraryStore is the SQL implementation shared by the SQLite and
// Postgres repositories; only bind parameter syntax differs between them.
type itineraryStore struct {
	db   *sql.DB
	ph   placeholder
	name string
}

// q rewrites every "?" in query with the dialect's placeholders.
func (s *itineraryStore) q(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.ph(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *itineraryStore) load(ctx context.Context, id string) (_ domain.Itinerary, err error) {
	defer obs.Time(ctx, s.name+".LoadItinerary")(&err)

	if s.db == nil {
		return domain.Itinerary{}, errors.New("itinerary repository: DB is nil")
	}

	var (
		it        domain.Itinerary
		startDate string
	)
	row := s.db.QueryRowContext(ctx, s.q(`
	SELECT id, title, start_date
	FROM itineraries
	WHERE id = ?;
	`), id)
	if err := row.Scan(&it.ID, &it.Title, &startDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Itinerary{}, fmt.Errorf("load itinerary %q: %w", id, ports.ErrItineraryNotFound)
		}
		return domain.Itinerary{}, fmt.Errorf("load itinerary: query itineraries table: %w", err)
	}

	it.StartDate, err = time.Parse(dateLayout, startDate)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("load itinerary: parse start_date %q: %w", startDate, err)
	}

	if it.Destinations, err = s.loadDestinations(ctx, id); err != nil {
		return domain.Itinerary{}, err
	}

	if it.Sightseeing, err = s.loadItems(ctx, "day_sightseeing", id); err != nil {
		return domain.Itinerary{}, err
	}
	if it.Dining, err = s.loadItems(ctx, "day_dining", id); err != nil {
		return domain.Itinerary{}, err
	}
	if it.Lodging, err = s.loadLodging(ctx, id); err != nil {
		return domain.Itinerary{}, err
	}
	if it.Notes, err = s.loadNotes(ctx, id); err != nil {
		return domain.Itinerary{}, err
	}

	return it, nil
}

func (s *itineraryStore) loadDestinations(ctx context.Context, id string) ([]domain.Destination, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
	SELECT
		seq,
		destination_id,
		name,
		nights,
		auto_sightseeing,
		manual_sightseeing,
		lodging_name,
		lodging_is_manual,
		dining,
		transport_to_next,
		notes
	FROM destinations
	WHERE itinerary_id = ?
	ORDER BY seq;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: query destinations table: %w", err)
	}
	defer rows.Close()

	dests := make([]domain.Destination, 0, 8)
	for rows.Next() {
		var (
			d                    domain.Destination
			seq                  int
			auto, manual, dining string
		)
		if err := rows.Scan(&seq, &d.ID, &d.Name, &d.Nights, &auto, &manual,
			&d.LodgingName, &d.LodgingIsManual, &dining, &d.TransportToNext, &d.Notes); err != nil {
			return nil, fmt.Errorf("load itinerary: scan destination row: %w", err)
		}
		d.Position = len(dests)
		d.AutoSightseeing = domain.SplitAggregate(auto)
		d.ManualSightseeing = domain.SplitAggregate(manual)
		d.DiningAggregate = domain.SplitAggregate(dining)
		dests = append(dests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load itinerary: destination row iteration: %w", err)
	}

	return dests, nil
}

// loadItems reads a list-valued overlay table. Table names are constants.
func (s *itineraryStore) loadItems(ctx context.Context, table, id string) (map[int][]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q(fmt.Sprintf(`
	SELECT day_index, items
	FROM %s
	WHERE itinerary_id = ?;
	`, table)), id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: query %s table: %w", table, err)
	}
	defer rows.Close()

	out := map[int][]string{}
	for rows.Next() {
		var (
			day   int
			items string
		)
		if err := rows.Scan(&day, &items); err != nil {
			return nil, fmt.Errorf("load itinerary: scan %s row: %w", table, err)
		}
		out[day] = domain.SplitAggregate(items)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load itinerary: %s row iteration: %w", table, err)
	}

	return out, nil
}

func (s *itineraryStore) loadLodging(ctx context.Context, id string) (map[int]domain.Lodging, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
	SELECT day_index, name, is_manual
	FROM day_lodging
	WHERE itinerary_id = ?;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: query day_lodging table: %w", err)
	}
	defer rows.Close()

	out := map[int]domain.Lodging{}
	for rows.Next() {
		var (
			day int
			l   domain.Lodging
		)
		if err := rows.Scan(&day, &l.Name, &l.IsManual); err != nil {
			return nil, fmt.Errorf("load itinerary: scan day_lodging row: %w", err)
		}
		out[day] = l
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load itinerary: day_lodging row iteration: %w", err)
	}

	return out, nil
}

func (s *itineraryStore) loadNotes(ctx context.Context, id string) (map[int]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
	SELECT day_index, note
	FROM day_notes
	WHERE itinerary_id = ?;
	`), id)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: query day_notes table: %w", err)
	}
	defer rows.Close()

	out := map[int]string{}
	for rows.Next() {
		var (
			day  int
			note string
		)
		if err := rows.Scan(&day, &note); err != nil {
			return nil, fmt.Errorf("load itinerary: scan day_notes row: %w", err)
		}
		out[day] = note
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load itinerary: day_notes row iteration: %w", err)
	}

	return out, nil
}

// save replaces every stored row of the itinerary in one transaction.
func (s *itineraryStore) save(ctx context.Context, it domain.Itinerary) (err error) {
	defer obs.Time(ctx, s.name+".SaveItinerary")(&err)

	if s.db == nil {
		return errors.New("itinerary repository: DB is nil")
	}
	if strings.TrimSpace(it.ID) == "" {
		return errors.New("save itinerary: id must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save itinerary: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.q(`
	INSERT INTO itineraries (id, title, start_date)
	VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		start_date = EXCLUDED.start_date;
	`), it.ID, it.Title, it.StartDate.Format(dateLayout)); err != nil {
		return fmt.Errorf("save itinerary: upsert itinerary: %w", err)
	}

	for _, table := range []string{"destinations", "day_sightseeing", "day_lodging", "day_dining", "day_notes"} {
		if _, err := tx.ExecContext(ctx, s.q("DELETE FROM "+table+" WHERE itinerary_id = ?;"), it.ID); err != nil {
			return fmt.Errorf("save itinerary: clear %s: %w", table, err)
		}
	}

	if err := s.insertDestinations(ctx, tx, it); err != nil {
		return err
	}

	if err := s.insertRows(ctx, tx, `
	INSERT INTO day_sightseeing (itinerary_id, day_index, items) VALUES (?, ?, ?);
	`, it.ID, itemRows(it.Sightseeing)); err != nil {
		return fmt.Errorf("save itinerary: day_sightseeing: %w", err)
	}

	if err := s.insertRows(ctx, tx, `
	INSERT INTO day_dining (itinerary_id, day_index, items) VALUES (?, ?, ?);
	`, it.ID, itemRows(it.Dining)); err != nil {
		return fmt.Errorf("save itinerary: day_dining: %w", err)
	}

	lodging := make(map[int][]any, len(it.Lodging))
	for day, l := range it.Lodging {
		lodging[day] = []any{l.Name, l.IsManual}
	}
	if err := s.insertRows(ctx, tx, `
	INSERT INTO day_lodging (itinerary_id, day_index, name, is_manual) VALUES (?, ?, ?, ?);
	`, it.ID, lodging); err != nil {
		return fmt.Errorf("save itinerary: day_lodging: %w", err)
	}

	notes := make(map[int][]any, len(it.Notes))
	for day, n := range it.Notes {
		notes[day] = []any{n}
	}
	if err := s.insertRows(ctx, tx, `
	INSERT INTO day_notes (itinerary_id, day_index, note) VALUES (?, ?, ?);
	`, it.ID, notes); err != nil {
		return fmt.Errorf("save itinerary: day_notes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save itinerary: commit tx: %w", err)
	}

	return nil
}

func (s *itineraryStore) insertDestinations(ctx context.Context, tx *sql.Tx, it domain.Itinerary) error {
	stmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO destinations (
		itinerary_id,
		seq,
		destination_id,
		name,
		nights,
		auto_sightseeing,
		manual_sightseeing,
		lodging_name,
		lodging_is_manual,
		dining,
		transport_to_next,
		notes
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save itinerary: prepare destination insert: %w", err)
	}
	defer stmt.Close()

	for seq, d := range it.Destinations {
		if d.Nights < 0 {
			return fmt.Errorf("save itinerary: destination seq=%d: nights must not be negative", seq)
		}
		if _, err := stmt.ExecContext(ctx,
			it.ID, seq, d.ID, d.Name, d.Nights,
			domain.JoinAggregate(d.AutoSightseeing),
			domain.JoinAggregate(d.ManualSightseeing),
			d.LodgingName, d.LodgingIsManual,
			domain.JoinAggregate(d.DiningAggregate),
			d.TransportToNext, d.Notes,
		); err != nil {
			return fmt.Errorf("save itinerary: insert destination seq=%d: %w", seq, err)
		}
	}

	return nil
}

// insertRows executes query once per day; every row is bound as
// (itineraryID, day, values...).
func (s *itineraryStore) insertRows(ctx context.Context, tx *sql.Tx, query, itineraryID string, rows map[int][]any) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, s.q(query))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for day, values := range rows {
		args := append([]any{itineraryID, day}, values...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert day_index=%d: %w", day, err)
		}
	}

	return nil
}

func (s *itineraryStore) list(ctx context.Context) (_ []ports.ItinerarySummary, err error) {
	defer obs.Time(ctx, s.name+".ListItineraries")(&err)

	if s.db == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT i.id, i.title, COUNT(d.seq)
	FROM itineraries i
	LEFT JOIN destinations d ON d.itinerary_id = i.id
	GROUP BY i.id, i.title
	ORDER BY i.title, i.id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: query itineraries table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.ItinerarySummary, 0, 16)
	for rows.Next() {
		var sum ports.ItinerarySummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.DestinationCount); err != nil {
			return nil, fmt.Errorf("list itineraries: scan row: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list itineraries: row iteration: %w", err)
	}

	return out, nil
}

func itemRows(m map[int][]string) map[int][]any {
	out := make(map[int][]any, len(m))
	for day, items := range m {
		out[day] = []any{domain.JoinAggregate(items)}
	}
	return out
}
