package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kasbah/internal/guard/handler/mocks"
	"kasbah/internal/guard/models"
)

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	guard  *mocks.MockService
	router chi.Router
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.guard = mocks.NewMockService(s.ctrl)

	h := New(s.guard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestDecideSuccess() {
	s.guard.EXPECT().
		Decide(gomock.Any(), models.DecideRequest{
			Product: "chatgpt",
			Host:    "chatgpt.com",
			Action:  "chat.send",
			Meta:    models.DecideMeta{Preview: "my api_key=sk-123", Secrets: []string{"API Key"}},
		}).
		Return(models.DecideResponse{
			OK:        true,
			Decision:  models.DecisionPending,
			Ticket:    "t-1",
			ExpMS:     1700000060000,
			Risk:      85,
			Preflight: models.VerdictWarn,
			Reason:    "sensitive patterns detected: api_key, sk-",
		})

	rec := s.do(http.MethodPost, "/decide", `{
		"product": "chatgpt",
		"host": "chatgpt.com",
		"action": "chat.send",
		"meta": {"preview": "my api_key=sk-123", "secrets": ["API Key"]}
	}`)

	s.Equal(http.StatusOK, rec.Code)

	var res map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(true, res["ok"])
	s.Equal("PENDING", res["decision"])
	s.Equal("t-1", res["ticket"])
	s.Equal(float64(1700000060000), res["exp_ms"])
	s.Equal(float64(85), res["risk"])
	s.Equal("WARN", res["preflight"])
}

func (s *HandlerSuite) TestDecideInvalidJSON() {
	rec := s.do(http.MethodPost, "/decide", `{"product": "chatgpt",`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"ok": false, "error": "invalid JSON"}`, rec.Body.String())
}

func (s *HandlerSuite) TestDecideEmptyBodyIsInvalid() {
	rec := s.do(http.MethodPost, "/decide", "")

	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"ok": false, "error": "invalid JSON"}`, rec.Body.String())
}

func (s *HandlerSuite) TestConsumeSuccess() {
	s.guard.EXPECT().
		Consume(gomock.Any(), models.ConsumeRequest{Ticket: "t-1", Choice: "ALLOW"}).
		Return(models.ConsumeResponse{OK: true, Decision: models.DecisionAllow, Reason: models.ReasonUserAllowed})

	rec := s.do(http.MethodPost, "/consume", `{"ticket": "t-1", "choice": "ALLOW"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok": true, "decision": "ALLOW", "reason": "user allowed"}`, rec.Body.String())
}

func (s *HandlerSuite) TestConsumeInvalidJSON() {
	rec := s.do(http.MethodPost, "/consume", `not json`)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"ok": false, "error": "invalid JSON"}`, rec.Body.String())
}

func (s *HandlerSuite) TestConsumeMissingFieldsStillDelegates() {
	// Field normalization (empty ticket, default DENY) is the service's
	// job; the handler forwards whatever parsed.
	s.guard.EXPECT().
		Consume(gomock.Any(), models.ConsumeRequest{}).
		Return(models.ConsumeResponse{OK: true, Decision: models.DecisionDeny, Reason: models.ReasonUnknownTicket})

	rec := s.do(http.MethodPost, "/consume", `{}`)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"ok": true, "decision": "DENY", "reason": "unknown ticket"}`, rec.Body.String())
}

func (s *HandlerSuite) TestStatus() {
	s.guard.EXPECT().
		Status(gomock.Any()).
		Return(models.StatusResponse{
			OK:      true,
			Service: "kasbah-guard-local",
			Port:    8788,
			TsMS:    1700000000000,
			Stats:   models.Stats{Total: 3, Allowed: 1, Denied: 2, ReplayBlocked: 1},
		})

	rec := s.do(http.MethodGet, "/status", "")

	s.Equal(http.StatusOK, rec.Code)
	var res map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal("kasbah-guard-local", res["service"])
	s.Equal(float64(8788), res["port"])
	stats := res["stats"].(map[string]any)
	s.Equal(float64(3), stats["total"])
}

func (s *HandlerSuite) TestEventsIgnoresQuerySuffix() {
	s.guard.EXPECT().
		Events(gomock.Any()).
		Return([]models.EventResponse{
			{TsMS: 2, Kind: models.EventDecide, Data: map[string]any{"ticket": "t-1"}},
			{TsMS: 1, Kind: models.EventStartup, Data: map[string]any{"port": 8788}},
		})

	rec := s.do(http.MethodGet, "/events?cb=12345", "")

	s.Equal(http.StatusOK, rec.Code)
	var events []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &events))
	s.Require().Len(events, 2)
	s.Equal("DECIDE", events[0]["kind"])
	s.Equal(float64(2), events[0]["ts_ms"])
}

func (s *HandlerSuite) TestEventsEmptyIsArray() {
	s.guard.EXPECT().Events(gomock.Any()).Return(nil)

	rec := s.do(http.MethodGet, "/events", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *HandlerSuite) TestStats() {
	s.guard.EXPECT().
		Stats(gomock.Any()).
		Return(models.Stats{Total: 10, Allowed: 4, Denied: 6, ReplayBlocked: 2, SecretsCaught: 3})

	rec := s.do(http.MethodGet, "/stats", "")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"total": 10, "allowed": 4, "denied": 6, "replay_blocked": 2, "secrets_caught": 3}`, rec.Body.String())
}
