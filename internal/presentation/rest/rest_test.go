package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/service"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/messaging"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/metrics"
	"github.com/engthiagolucena/customer-risk-analysis/internal/presentation/rest"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/auth"
)

const validEvaluation = `{
	"dealership_id": "dealer-1",
	"trade_in_value": 0,
	"primary": {
		"first_name": "Ana",
		"last_name": "Silva",
		"employment_length_months": 24,
		"employment_type": "W2",
		"age": 35,
		"pay_frequency": "Bi-Weekly",
		"paychecks": [2400, "2500", 2600],
		"monthly_car_payment": 800,
		"total_monthly_expenses": 1000,
		"downpayment": 2000
	}
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type routerOption func(*rest.RouterConfig)

func newRouter(t *testing.T, opts ...routerOption) http.Handler {
	t.Helper()

	logger := testLogger()
	recorder, err := metrics.NewRecorder(noop.NewMeterProvider())
	require.NoError(t, err)
	publisher := messaging.NewLogPublisher(logger)
	classifier := service.NewRiskClassifier()

	risk, err := rest.NewRiskHandler(
		usecase.NewEvaluateRisk(publisher, recorder, classifier, logger),
		usecase.NewClassifyProfile(publisher, recorder, classifier, logger),
		usecase.NewListRiskTiers(),
		logger,
	)
	require.NoError(t, err)

	cfg := rest.RouterConfig{
		Health: rest.NewHealthHandler("risk-service", logger, nil),
		Risk:   risk,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return rest.NewRouter(cfg)
}

func do(h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) rest.ErrorResponse {
	t.Helper()
	var resp rest.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestEvaluate(t *testing.T) {
	t.Run("scores a valid application", func(t *testing.T) {
		rec := do(newRouter(t), http.MethodPost, "/api/v1/risk/evaluations", validEvaluation)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp dto.EvaluateRiskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 0, resp.Score)
		assert.Equal(t, "LOW", resp.Tier)
		assert.Equal(t, "Ana Silva", resp.ApplicantName)
		assert.Equal(t, "5000", resp.Profile.TotalMonthlyIncome.String())
		assert.Equal(t, []string{
			"Stable employment (W2)",
			"Optimal payment-to-net-income ratio (≤25%) - Financially stable",
			"Moderate downpayment reducing risk",
			"Moderate risk for customers aged 31-40",
		}, resp.Factors)
	})

	schemaFailures := []struct {
		name string
		body string
	}{
		{"missing primary", `{"trade_in_value": 0}`},
		{"underage", strings.Replace(validEvaluation, `"age": 35`, `"age": 17`, 1)},
		{"unknown employment type", strings.Replace(validEvaluation, `"W2"`, `"Contractor"`, 1)},
		{"too many paychecks", strings.Replace(validEvaluation, `[2400, "2500", 2600]`, `[1, 1, 1, 1, 1, 1, 1]`, 1)},
		{"negative amount", strings.Replace(validEvaluation, `"downpayment": 2000`, `"downpayment": -5`, 1)},
		{"negative amount string", strings.Replace(validEvaluation, `"2500"`, `"-2500"`, 1)},
		{"unknown field", strings.Replace(validEvaluation, `"dealership_id"`, `"dealer"`, 1)},
	}
	for _, tt := range schemaFailures {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			rec := do(newRouter(t), http.MethodPost, "/api/v1/risk/evaluations", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, "request does not match schema", resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}

	t.Run("rejects malformed JSON", func(t *testing.T) {
		rec := do(newRouter(t), http.MethodPost, "/api/v1/risk/evaluations", `{"primary":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "malformed JSON body", decodeError(t, rec).Error)
	})

	t.Run("rejects a method that is not routed", func(t *testing.T) {
		rec := do(newRouter(t), http.MethodGet, "/api/v1/risk/evaluations", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestClassify(t *testing.T) {
	t.Run("short-circuits on bankruptcy and repossession", func(t *testing.T) {
		body := `{
			"employment_length_months": 120,
			"employment_type": "W2",
			"age": 99,
			"total_monthly_income": 20000,
			"net_monthly_income": 15000,
			"monthly_car_payment": 100,
			"bankruptcy_count": 1,
			"repossession_count": 1,
			"downpayment": "1000000"
		}`

		rec := do(newRouter(t), http.MethodPost, "/api/v1/risk/classifications", body)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp dto.EvaluateRiskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 10, resp.Score)
		assert.Equal(t, "HIGH", resp.Tier)
		assert.Equal(t, []string{"High risk due to bankruptcy and repossession history"}, resp.Factors)
	})

	t.Run("accepts negative net income", func(t *testing.T) {
		body := `{
			"employment_length_months": 12,
			"employment_type": "Self-Employed",
			"age": 45,
			"total_monthly_income": 1000,
			"net_monthly_income": "-500",
			"monthly_car_payment": 300
		}`

		rec := do(newRouter(t), http.MethodPost, "/api/v1/risk/classifications", body)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp dto.EvaluateRiskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		// self-employed +1, ratio sentinel 1 +3, over 40 -2
		assert.Equal(t, 2, resp.Score)
		assert.Equal(t, "1", resp.PaymentRatio.String())
	})

	t.Run("rejects a missing field", func(t *testing.T) {
		rec := do(newRouter(t), http.MethodPost, "/api/v1/risk/classifications", `{"employment_type": "W2"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTiers(t *testing.T) {
	rec := do(newRouter(t), http.MethodGet, "/api/v1/risk/tiers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ListRiskTiersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Tiers, 3)
	assert.Equal(t, dto.RiskTierDTO{
		Name:     "MODERATE",
		MinScore: 5,
		Banner:   "Moderate Risk: Repossession risk after more than 50% payments.",
	}, resp.Tiers[1])
}

func TestHealth(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		rec := do(newRouter(t), http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp rest.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "risk-service", resp.Service)
	})

	t.Run("readiness reports failing checks", func(t *testing.T) {
		h := newRouter(t, func(cfg *rest.RouterConfig) {
			cfg.Health = rest.NewHealthHandler("risk-service", testLogger(), map[string]rest.ReadinessCheck{
				"kafka": func(context.Context) error { return errors.New("broker unreachable") },
			})
		})

		rec := do(h, http.MethodGet, "/readyz", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp rest.ReadinessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "broker unreachable", resp.Checks["kafka"])
		assert.Equal(t, "ok", resp.Checks["classifier"])
	})

	t.Run("readiness with healthy checks", func(t *testing.T) {
		rec := do(newRouter(t), http.MethodGet, "/readyz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "risk-test", Expiration: time.Hour})
	require.NoError(t, err)
	h := newRouter(t, func(cfg *rest.RouterConfig) { cfg.Validator = jwtSvc })

	t.Run("health stays public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "").Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := do(h, http.MethodPost, "/api/v1/risk/evaluations", validEvaluation)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtSvc.GenerateToken("user-1", "dealer-9", []string{auth.RoleSalesAgent})
		require.NoError(t, err)

		rec := do(h, http.MethodPost, "/api/v1/risk/evaluations", validEvaluation, "Authorization", "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestRateLimit(t *testing.T) {
	h := newRouter(t, func(cfg *rest.RouterConfig) {
		cfg.RateLimitRPS = 0.001
		cfg.RateLimitBurst = 2
	})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/risk/tiers", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/risk/tiers", "").Code)

	rec := do(h, http.MethodGet, "/api/v1/risk/tiers", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decodeError(t, rec).Error)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := rest.NewRateLimiter(0.001, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are independent per client")
}
