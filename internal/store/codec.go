// Package store holds the wire formats shared by the persistence
// backends: players as CSV (UTF-8 with BOM, columns game_id, game_class,
// selected) and teams as a JSON array of {captain, members}. The layout
// matches the data files the roster was originally maintained in.
package store

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/team"
)

// UTF8BOM is prepended to players.csv for spreadsheet compatibility.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"game_id", "game_class", "selected"}

// EncodePlayersCSV renders players as a BOM-prefixed CSV document.
func EncodePlayersCSV(players []roster.Player) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(UTF8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("encoding players csv: %w", err)
	}
	for _, p := range players {
		rec := []string{p.ID, p.Class, strconv.FormatBool(p.Selected)}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("encoding players csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encoding players csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePlayersCSV parses a players CSV document. Empty input yields an
// empty roster. The required columns are game_id and game_class; the
// selected column is optional and defaults to false (older files lack it).
func DecodePlayersCSV(data []byte) ([]roster.Player, error) {
	if len(data) == 0 {
		return []roster.Player{}, nil
	}
	data = bytes.TrimPrefix(data, UTF8BOM)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing players csv: %w", err)
	}
	if len(records) == 0 {
		return []roster.Player{}, nil
	}

	header := records[0]
	if len(header) < 2 || header[0] != csvHeader[0] || header[1] != csvHeader[1] {
		return nil, fmt.Errorf("players csv: missing required columns %s, %s", csvHeader[0], csvHeader[1])
	}

	players := make([]roster.Player, 0, len(records)-1)
	for _, rec := range records[1:] {
		p := roster.Player{ID: rec[0], Class: rec[1]}
		if len(rec) > 2 {
			p.Selected, _ = strconv.ParseBool(rec[2])
		}
		players = append(players, p)
	}
	return players, nil
}

// EncodeTeamsJSON renders teams as a JSON array, never null.
func EncodeTeamsJSON(teams []team.Team) ([]byte, error) {
	if teams == nil {
		teams = []team.Team{}
	}
	data, err := json.Marshal(teams)
	if err != nil {
		return nil, fmt.Errorf("encoding teams json: %w", err)
	}
	return data, nil
}

// DecodeTeamsJSON parses a teams JSON document. Empty input yields an
// empty list.
func DecodeTeamsJSON(data []byte) ([]team.Team, error) {
	if len(data) == 0 {
		return []team.Team{}, nil
	}
	var teams []team.Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("parsing teams json: %w", err)
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return teams, nil
}
