package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiBase = "/api/v1"

// Client talks to the tic-tac-toe JSON API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/") + apiBase,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is an error response from the API
type APIError struct {
	Status    int    `json:"-"`
	RequestID string `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

type credentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type invitationRequest struct {
	ToUsername string `json:"to_username"`
	Message    string `json:"message,omitempty"`
}

type moveRequest struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Comment string `json:"comment,omitempty"`
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) (HealthResult, error) {
	var out HealthResult
	return out, c.do(ctx, http.MethodGet, "/health", nil, &out)
}

// Register creates an account and returns its first session
func (c *Client) Register(ctx context.Context, username, password, displayName string) (AuthResult, error) {
	var out AuthResult
	return out, c.do(ctx, http.MethodPost, "/players/register", credentials{username, password, displayName}, &out)
}

// Login starts a new session
func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	var out AuthResult
	return out, c.do(ctx, http.MethodPost, "/players/login", credentials{Username: username, Password: password}, &out)
}

// Logout revokes the client's token on the server
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/players/logout", nil, nil)
}

// Me returns the logged-in player
func (c *Client) Me(ctx context.Context) (Player, error) {
	var out Player
	return out, c.do(ctx, http.MethodGet, "/players/me", nil, &out)
}

// MyGames lists the player's games; status is active, finished or all
func (c *Client) MyGames(ctx context.Context, status string) (PlayerGames, error) {
	var out PlayerGames
	return out, c.do(ctx, http.MethodGet, "/players/me/games?status="+url.QueryEscape(status), nil, &out)
}

// Games lists every game on the server
func (c *Client) Games(ctx context.Context) ([]Game, error) {
	var out []Game
	return out, c.do(ctx, http.MethodGet, "/games", nil, &out)
}

// Game returns a game with its board and move history
func (c *Client) Game(ctx context.Context, id string) (GameDetail, error) {
	var out GameDetail
	return out, c.do(ctx, http.MethodGet, "/games/"+url.PathEscape(id), nil, &out)
}

// Move marks column x, row y in game id
func (c *Client) Move(ctx context.Context, id string, x, y int, comment string) (MoveResult, error) {
	var out MoveResult
	return out, c.do(ctx, http.MethodPost, "/games/"+url.PathEscape(id)+"/moves", moveRequest{x, y, comment}, &out)
}

// DeleteGame removes a game the player is in
func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/games/"+url.PathEscape(id), nil, nil)
}

// Invite asks another player for a game
func (c *Client) Invite(ctx context.Context, toUsername, message string) (Invitation, error) {
	var out Invitation
	return out, c.do(ctx, http.MethodPost, "/invitations", invitationRequest{toUsername, message}, &out)
}

// Invitations lists invitations the player has received
func (c *Client) Invitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	return out, c.do(ctx, http.MethodGet, "/invitations", nil, &out)
}

// SentInvitations lists invitations the player is still waiting on
func (c *Client) SentInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	return out, c.do(ctx, http.MethodGet, "/invitations/sent", nil, &out)
}

// Accept accepts an invitation and returns the new game
func (c *Client) Accept(ctx context.Context, id string) (Game, error) {
	var out Game
	return out, c.do(ctx, http.MethodPost, "/invitations/"+url.PathEscape(id)+"/accept", nil, &out)
}

// Decline turns an invitation down
func (c *Client) Decline(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/invitations/"+url.PathEscape(id)+"/decline", nil, nil)
}

// do sends body as JSON and decodes a successful response into result.
// Error responses come back as *APIError when the server sent one.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error APIError `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			errResp.Error.RequestID = resp.Header.Get("X-Request-ID")
			return &errResp.Error
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
