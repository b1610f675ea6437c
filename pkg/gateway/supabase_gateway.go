package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"zipli-backend/domain"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

type (
	supabaseGateway struct {
		baseURL string
		apiKey  string
		timeout time.Duration
	}

	supabaseQuery struct {
		gateway *supabaseGateway
		table   string
		order   []string
	}

	supabaseSession struct {
		AccessToken string      `json:"access_token"`
		TokenType   string      `json:"token_type"`
		ExpiresIn   int64       `json:"expires_in"`
		ExpiresAt   int64       `json:"expires_at"`
		User        domain.User `json:"user"`
	}
)

// NewSupabaseGateway talks to a hosted Supabase project: PostgREST under
// /rest/v1 and GoTrue under /auth/v1.
func NewSupabaseGateway(baseURL, apiKey string) Gateway {
	return &supabaseGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: defaultTimeout,
	}
}

func (g *supabaseGateway) prepare(ctx context.Context, agent *fiber.Agent) (*fiber.Agent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	bearer := g.apiKey
	if token := accessTokenFrom(ctx); token != "" {
		bearer = token
	}
	agent.Set("apikey", g.apiKey).
		Set(fiber.HeaderAuthorization, "Bearer "+bearer).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(timeout)
	return agent, nil
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
func (g *supabaseGateway) do(ctx context.Context, agent *fiber.Agent, out any) error {
	agent, err := g.prepare(ctx, agent)
	if err != nil {
		return err
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("gateway request: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return &Error{Status: code, Message: errorMessage(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"msg", "error_description", "message", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return "unexpected response from backend"
}

func (g *supabaseGateway) Create(ctx context.Context, table string, record Record) (Record, error) {
	agent := fiber.Post(g.baseURL + "/rest/v1/" + url.PathEscape(table))
	agent.Set("Prefer", "return=representation").JSON(record)

	var rows []Record
	if err := g.do(ctx, agent, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return record, nil
	}
	return rows[0], nil
}

func (g *supabaseGateway) Query(table string) Query {
	return &supabaseQuery{gateway: g, table: table}
}

func (q *supabaseQuery) OrderBy(field string, desc bool) Query {
	direction := "asc"
	if desc {
		direction = "desc"
	}
	next := *q
	next.order = append(append([]string(nil), q.order...), field+"."+direction)
	return &next
}

func (q *supabaseQuery) All(ctx context.Context) ([]Record, error) {
	params := url.Values{}
	params.Set("select", "*")
	if len(q.order) > 0 {
		params.Set("order", strings.Join(q.order, ","))
	}
	agent := fiber.Get(q.gateway.baseURL + "/rest/v1/" + url.PathEscape(q.table) + "?" + params.Encode())

	rows := []Record{}
	if err := q.gateway.do(ctx, agent, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (g *supabaseGateway) SignUp(ctx context.Context, email, password string, metadata domain.UserMetadata) (*domain.Session, error) {
	agent := fiber.Post(g.baseURL + "/auth/v1/signup")
	agent.JSON(fiber.Map{
		"email":    email,
		"password": password,
		"data":     metadata,
	})

	// Without email confirmation the response is a session; with it, the
	// bare user.
	var raw json.RawMessage
	if err := g.do(ctx, agent, &raw); err != nil {
		return nil, err
	}
	var session supabaseSession
	if err := json.Unmarshal(raw, &session); err == nil && session.AccessToken != "" {
		return session.toDomain(), nil
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode sign up response: %w", err)
	}
	return &domain.Session{User: user}, nil
}

func (g *supabaseGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	agent := fiber.Post(g.baseURL + "/auth/v1/token?grant_type=password")
	agent.JSON(fiber.Map{"email": email, "password": password})

	var session supabaseSession
	if err := g.do(ctx, agent, &session); err != nil {
		return nil, err
	}
	return session.toDomain(), nil
}

func (g *supabaseGateway) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	agent := fiber.Get(g.baseURL + "/auth/v1/user")

	var user domain.User
	if err := g.do(WithAccessToken(ctx, accessToken), agent, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *supabaseGateway) ResetPasswordRequest(ctx context.Context, email, redirectURL string) error {
	endpoint := g.baseURL + "/auth/v1/recover"
	if redirectURL != "" {
		endpoint += "?redirect_to=" + url.QueryEscape(redirectURL)
	}
	agent := fiber.Post(endpoint)
	agent.JSON(fiber.Map{"email": email})
	return g.do(ctx, agent, nil)
}

func (g *supabaseGateway) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	agent := fiber.Put(g.baseURL + "/auth/v1/user")
	agent.JSON(fiber.Map{"password": newPassword})
	return g.do(WithAccessToken(ctx, accessToken), agent, nil)
}

func (s supabaseSession) toDomain() *domain.Session {
	expiresAt := time.Unix(s.ExpiresAt, 0)
	if s.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return &domain.Session{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresAt:   expiresAt,
		User:        s.User,
	}
}
