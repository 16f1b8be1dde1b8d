// Package githubstore persists roster snapshots to a GitHub repository via
// the contents API, using the same file layout as the local backend.
// Writes are conditional on the blob sha read at load time, so a
// concurrent edit of the repository surfaces as a sync error instead of
// silently clobbering it.
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/store"
	"github.com/squadup/squadup/internal/team"
)

const defaultBaseURL = "https://api.github.com"

// Config identifies the repository and file paths to sync with.
type Config struct {
	Token       string
	Owner       string
	Repo        string
	Branch      string
	PlayersPath string
	TeamsPath   string

	// BaseURL overrides the GitHub API endpoint; used by tests and
	// GitHub Enterprise installs. Empty means api.github.com.
	BaseURL string
}

// Store is a GitHub-contents-API-backed persistence store.
type Store struct {
	cfg        Config
	httpClient *http.Client

	// mu guards the remembered blob shas between a load and the next save.
	mu         sync.Mutex
	playersSHA string
	teamsSHA   string
}

// New creates a GitHub-backed store.
func New(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &Store{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type contentResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type updateResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// Load fetches both files from the repository. A missing file yields empty
// state, matching the local backend.
func (s *Store) Load(ctx context.Context) ([]roster.Player, []team.Team, error) {
	playersData, playersSHA, err := s.getFile(ctx, s.cfg.PlayersPath)
	if err != nil {
		return nil, nil, err
	}
	teamsData, teamsSHA, err := s.getFile(ctx, s.cfg.TeamsPath)
	if err != nil {
		return nil, nil, err
	}

	players, err := store.DecodePlayersCSV(playersData)
	if err != nil {
		return nil, nil, err
	}
	teams, err := store.DecodeTeamsJSON(teamsData)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.playersSHA = playersSHA
	s.teamsSHA = teamsSHA
	s.mu.Unlock()

	return players, teams, nil
}

// Save uploads both files with the shas remembered from the last
// load/save. A stale sha means the repository moved underneath us; the
// error is surfaced and no in-memory state is touched here.
func (s *Store) Save(ctx context.Context, players []roster.Player, teams []team.Team) error {
	playersData, err := store.EncodePlayersCSV(players)
	if err != nil {
		return err
	}
	teamsData, err := store.EncodeTeamsJSON(teams)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newSHA, err := s.putFile(ctx, s.cfg.PlayersPath, playersData, s.playersSHA)
	if err != nil {
		return err
	}
	s.playersSHA = newSHA

	newSHA, err = s.putFile(ctx, s.cfg.TeamsPath, teamsData, s.teamsSHA)
	if err != nil {
		return err
	}
	s.teamsSHA = newSHA

	return nil
}

// Ping checks the repository is reachable with the configured credentials.
func (s *Store) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/repos/%s/%s", s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating repo request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reaching GitHub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from GitHub for %s/%s", resp.StatusCode, s.cfg.Owner, s.cfg.Repo)
	}
	return nil
}

// getFile returns the decoded content and blob sha of path, or empty
// content and sha for a 404.
func (s *Store) getFile(ctx context.Context, path string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo, path, s.cfg.Branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating contents request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, path)
	}

	var cr contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, "", fmt.Errorf("decoding contents response for %s: %w", path, err)
	}

	// The API wraps base64 content with newlines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(cr.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decoding content of %s: %w", path, err)
	}
	return raw, cr.SHA, nil
}

// putFile creates or updates path and returns the new blob sha. An empty
// sha creates the file; a stale sha is rejected by GitHub (409/422) and
// reported as a conflict.
func (s *Store) putFile(ctx context.Context, path string, data []byte, sha string) (string, error) {
	body, err := json.Marshal(updateRequest{
		Message: "sync roster data",
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  s.cfg.Branch,
		SHA:     sha,
	})
	if err != nil {
		return "", fmt.Errorf("encoding update request for %s: %w", path, err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.cfg.BaseURL, s.cfg.Owner, s.cfg.Repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating update request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("updating %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s changed upstream, refusing to overwrite (status %d)", path, resp.StatusCode)
	default:
		return "", fmt.Errorf("unexpected status %d updating %s", resp.StatusCode, path)
	}

	var ur updateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("decoding update response for %s: %w", path, err)
	}
	return ur.Content.SHA, nil
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
}
