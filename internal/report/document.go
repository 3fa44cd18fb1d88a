package report

import (
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pable/go-league-standings/internal/model"
)

// TieBreakNote describes the ranking order written into every document.
const TieBreakNote = "Ranking: points; among teams level on points that have all played each other equally, " +
	"head-to-head points, head-to-head goal difference, head-to-head goals scored; " +
	"then overall goal difference, overall goals scored, fair play (yellow and red cards), team name"

// RoundTable is one round's entry in a standings document.
type RoundTable struct {
	Round string           `json:"round"`
	Table []model.TableRow `json:"table"`
}

// Document is the exported per-round standings file.
type Document struct {
	League       string       `json:"league"`
	Season       string       `json:"season"`
	GeneratedAt  string       `json:"generated_at"`
	Note         string       `json:"note"`
	TotalMatches int          `json:"total_matches"`
	Standings    []RoundTable `json:"standings"`
}

// NewDocument builds a document from snapshot history in round order.
func NewDocument(league, season string, history []model.RoundSnapshot, now time.Time) Document {
	doc := Document{
		League:      league,
		Season:      season,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Note:        TieBreakNote,
		Standings:   make([]RoundTable, 0, len(history)),
	}
	for _, s := range history {
		doc.Standings = append(doc.Standings, RoundTable{Round: s.Round, Table: s.Table})
		doc.TotalMatches = s.Matches
	}
	return doc
}

// WriteDocument writes doc as indented JSON.
func WriteDocument(w io.Writer, doc Document) error {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
