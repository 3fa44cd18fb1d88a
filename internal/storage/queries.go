package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-league-standings/internal/matches"
	"github.com/pable/go-league-standings/internal/model"
)

// Meta keys.
const (
	MetaLeague = "league"
	MetaSeason = "season"
)

// SetMeta stores a key/value pair, replacing any previous value.
func (db *DB) SetMeta(key, value string) error {
	return setMeta(db.conn, key, value)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setMeta(ex execer, key, value string) error {
	_, err := ex.Exec(`INSERT OR REPLACE INTO meta(key, value) VALUES (?, ?)`, key, value)
	return err
}

// GetMeta returns the value for key, or "" when unset.
func (db *DB) GetMeta(key string) (string, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

// InsertMatches bulk-inserts ordered match entries under one batch id. A
// match already stored for the same round and fixture is replaced, so
// re-ingesting a file is idempotent.
func (db *DB) InsertMatches(batchID string, entries []matches.Entry) error {
	return db.inTx(func(tx *sql.Tx) error { return insertMatches(tx, batchID, entries) })
}

func insertMatches(tx *sql.Tx, batchID string, entries []matches.Entry) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			batch_id, round_label, round_order, home_team, away_team,
			home_goals, away_goals, home_yellows, home_reds, away_yellows, away_reds
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		m := e.Match
		_, err = stmt.Exec(
			batchID, m.RoundLabel, e.Order, m.HomeTeam, m.AwayTeam,
			m.HomeGoals, m.AwayGoals,
			m.HomeYellowCards, m.HomeRedCards, m.AwayYellowCards, m.AwayRedCards,
		)
		if err != nil {
			return fmt.Errorf("insert match %s %s-%s: %w", m.RoundLabel, m.HomeTeam, m.AwayTeam, err)
		}
	}
	return nil
}

// ListMatches returns every stored match in replay order.
func (db *DB) ListMatches() ([]model.MatchResult, error) {
	rows, err := db.conn.Query(`
		SELECT round_label, home_team, away_team, home_goals, away_goals,
		       home_yellows, home_reds, away_yellows, away_reds
		FROM matches ORDER BY round_order, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchResult
	for rows.Next() {
		var m model.MatchResult
		if err := rows.Scan(&m.RoundLabel, &m.HomeTeam, &m.AwayTeam, &m.HomeGoals, &m.AwayGoals,
			&m.HomeYellowCards, &m.HomeRedCards, &m.AwayYellowCards, &m.AwayRedCards); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MatchCount returns the number of stored matches.
func (db *DB) MatchCount() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(1) FROM matches`).Scan(&n)
	return n, err
}

// ReplaceSnapshots deletes every stored snapshot and writes history in its
// place, in one transaction.
func (db *DB) ReplaceSnapshots(history []model.RoundSnapshot) error {
	return db.inTx(func(tx *sql.Tx) error { return replaceSnapshots(tx, history) })
}

func replaceSnapshots(tx *sql.Tx, history []model.RoundSnapshot) error {
	if _, err := tx.Exec(`DELETE FROM snapshot_rows`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM snapshots`); err != nil {
		return err
	}

	snapStmt, err := tx.Prepare(`INSERT INTO snapshots(round_label, round_order, matches) VALUES (?,?,?)`)
	if err != nil {
		return err
	}
	defer snapStmt.Close()

	rowStmt, err := tx.Prepare(`
		INSERT INTO snapshot_rows(
			round_label, rank, team, played, won, drawn, lost,
			goals_for, goals_against, goal_diff, points,
			yellow_cards, red_cards, fair_play, form
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer rowStmt.Close()

	for _, s := range history {
		if _, err := snapStmt.Exec(s.Round, s.Order, s.Matches); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", s.Round, err)
		}
		for _, r := range s.Table {
			_, err := rowStmt.Exec(
				s.Round, r.Rank, r.Team, r.Played, r.Won, r.Drawn, r.Lost,
				r.GoalsFor, r.GoalsAgainst, r.GoalDiff, r.Points,
				r.YellowCards, r.RedCards, r.FairPlay, r.Form,
			)
			if err != nil {
				return fmt.Errorf("insert snapshot row %s #%d: %w", s.Round, r.Rank, err)
			}
		}
	}
	return nil
}

// RoundSummary is one stored round with its leader.
type RoundSummary struct {
	Round        string `json:"round"`
	Order        int    `json:"order"`
	Matches      int    `json:"matches"`
	Teams        int    `json:"teams"`
	Leader       string `json:"leader"`
	LeaderPoints int    `json:"leader_points"`
}

// ListRounds returns every stored round in order.
func (db *DB) ListRounds() ([]RoundSummary, error) {
	rows, err := db.conn.Query(`
		SELECT s.round_label, s.round_order, s.matches,
		       (SELECT COUNT(1) FROM snapshot_rows c WHERE c.round_label = s.round_label),
		       COALESCE(r.team, ''), COALESCE(r.points, 0)
		FROM snapshots s
		LEFT JOIN snapshot_rows r ON r.round_label = s.round_label AND r.rank = 1
		ORDER BY s.round_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundSummary
	for rows.Next() {
		var r RoundSummary
		if err := rows.Scan(&r.Round, &r.Order, &r.Matches, &r.Teams, &r.Leader, &r.LeaderPoints); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSnapshot returns the snapshot stored under the exact round label, or
// nil when there is none.
func (db *DB) GetSnapshot(round string) (*model.RoundSnapshot, error) {
	return db.snapshotWhere(`round_label = ?`, round)
}

// GetSnapshotByOrder returns the snapshot whose round number is order, or nil.
func (db *DB) GetSnapshotByOrder(order int) (*model.RoundSnapshot, error) {
	return db.snapshotWhere(`round_order = ?`, order)
}

// LatestSnapshot returns the last round's snapshot, or nil when nothing is stored.
func (db *DB) LatestSnapshot() (*model.RoundSnapshot, error) {
	return db.snapshotWhere(`round_order = (SELECT MAX(round_order) FROM snapshots)`)
}

func (db *DB) snapshotWhere(cond string, args ...any) (*model.RoundSnapshot, error) {
	var s model.RoundSnapshot
	err := db.conn.QueryRow(`SELECT round_label, round_order, matches FROM snapshots WHERE `+cond+` LIMIT 1`, args...).
		Scan(&s.Round, &s.Order, &s.Matches)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT rank, team, played, won, drawn, lost, goals_for, goals_against, goal_diff,
		       points, yellow_cards, red_cards, fair_play, form
		FROM snapshot_rows WHERE round_label = ? ORDER BY rank`, s.Round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r model.TableRow
		if err := rows.Scan(&r.Rank, &r.Team, &r.Played, &r.Won, &r.Drawn, &r.Lost,
			&r.GoalsFor, &r.GoalsAgainst, &r.GoalDiff, &r.Points,
			&r.YellowCards, &r.RedCards, &r.FairPlay, &r.Form); err != nil {
			return nil, err
		}
		s.Table = append(s.Table, r)
	}
	return &s, rows.Err()
}

// ReplaceHeadToHead stores the season ledger, replacing the previous one.
func (db *DB) ReplaceHeadToHead(records []model.HeadToHeadRecord) error {
	return db.inTx(func(tx *sql.Tx) error { return replaceHeadToHead(tx, records) })
}

func replaceHeadToHead(tx *sql.Tx, records []model.HeadToHeadRecord) error {
	if _, err := tx.Exec(`DELETE FROM head_to_head`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO head_to_head(team, opponent, meetings, won, drawn, lost, points, goals_for, goals_against)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Team, r.Opponent, r.Meetings, r.Won, r.Drawn, r.Lost,
			r.Points, r.GoalsFor, r.GoalsAgainst); err != nil {
			return fmt.Errorf("insert head_to_head %s-%s: %w", r.Team, r.Opponent, err)
		}
	}
	return nil
}

// Season is everything one ingest writes.
type Season struct {
	BatchID    string
	Entries    []matches.Entry // new or replaced fixtures
	History    []model.RoundSnapshot
	HeadToHead []model.HeadToHeadRecord
	Meta       map[string]string // empty values are skipped
}

// SaveSeason stores a batch of matches together with the snapshots and
// ledger replayed from it, in one transaction. On error nothing is written.
func (db *DB) SaveSeason(s Season) error {
	return db.inTx(func(tx *sql.Tx) error {
		if err := insertMatches(tx, s.BatchID, s.Entries); err != nil {
			return err
		}
		if err := replaceSnapshots(tx, s.History); err != nil {
			return err
		}
		if err := replaceHeadToHead(tx, s.HeadToHead); err != nil {
			return err
		}
		for k, v := range s.Meta {
			if v == "" {
				continue
			}
			if err := setMeta(tx, k, v); err != nil {
				return fmt.Errorf("set meta %s: %w", k, err)
			}
		}
		return nil
	})
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (db *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// GetHeadToHead returns team's stored record against opponent. Names match
// case-insensitively. The result is nil when the two have not met.
func (db *DB) GetHeadToHead(team, opponent string) (*model.HeadToHeadRecord, error) {
	var r model.HeadToHeadRecord
	err := db.conn.QueryRow(`
		SELECT team, opponent, meetings, won, drawn, lost, points, goals_for, goals_against
		FROM head_to_head WHERE team = ? COLLATE NOCASE AND opponent = ? COLLATE NOCASE`, team, opponent).
		Scan(&r.Team, &r.Opponent, &r.Meetings, &r.Won, &r.Drawn, &r.Lost, &r.Points, &r.GoalsFor, &r.GoalsAgainst)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// MatchesBetween returns the stored meetings of two teams in replay order.
func (db *DB) MatchesBetween(a, b string) ([]model.MatchResult, error) {
	rows, err := db.conn.Query(`
		SELECT round_label, home_team, away_team, home_goals, away_goals,
		       home_yellows, home_reds, away_yellows, away_reds
		FROM matches
		WHERE (home_team = ? COLLATE NOCASE AND away_team = ? COLLATE NOCASE)
		   OR (home_team = ? COLLATE NOCASE AND away_team = ? COLLATE NOCASE)
		ORDER BY round_order, seq`, a, b, b, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchResult
	for rows.Next() {
		var m model.MatchResult
		if err := rows.Scan(&m.RoundLabel, &m.HomeTeam, &m.AwayTeam, &m.HomeGoals, &m.AwayGoals,
			&m.HomeYellowCards, &m.HomeRedCards, &m.AwayYellowCards, &m.AwayRedCards); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
