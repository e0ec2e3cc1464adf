package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/auth"
)

// evaluatorRoles may call every RiskService method.
var evaluatorRoles = []string{auth.RoleAdmin, auth.RoleUnderwriter, auth.RoleSalesAgent, auth.RoleAPIClient}

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	evaluateRisk    *usecase.EvaluateRisk
	classifyProfile *usecase.ClassifyProfile
	listRiskTiers   *usecase.ListRiskTiers
	logger          *slog.Logger
	authRequired    bool
}

// NewRiskServiceHandler creates a new gRPC handler. When authRequired is set
// every call must carry claims with one of the evaluator roles.
func NewRiskServiceHandler(
	evaluateRisk *usecase.EvaluateRisk,
	classifyProfile *usecase.ClassifyProfile,
	listRiskTiers *usecase.ListRiskTiers,
	logger *slog.Logger,
	authRequired bool,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		evaluateRisk:    evaluateRisk,
		classifyProfile: classifyProfile,
		listRiskTiers:   listRiskTiers,
		logger:          logger,
		authRequired:    authRequired,
	}
}

// Proto-aligned request/response message types. Monetary amounts are decimal strings.

// ApplicantMsg represents the proto Applicant message.
type ApplicantMsg struct {
	FirstName              string   `json:"first_name"`
	LastName               string   `json:"last_name"`
	EmploymentType         string   `json:"employment_type"`
	PayFrequency           string   `json:"pay_frequency"`
	Paychecks              []string `json:"paychecks"`
	OtherIncomes           []string `json:"other_incomes,omitempty"`
	MonthlyCarPayment      string   `json:"monthly_car_payment"`
	TotalMonthlyExpenses   string   `json:"total_monthly_expenses"`
	Downpayment            string   `json:"downpayment"`
	EmploymentLengthMonths int32    `json:"employment_length_months"`
	Age                    int32    `json:"age"`
	BankruptcyCount        int32    `json:"bankruptcy_count"`
	RepossessionCount      int32    `json:"repossession_count"`
}

// ProfileMsg represents the proto ApplicantProfile message.
type ProfileMsg struct {
	EmploymentType         string `json:"employment_type"`
	TotalMonthlyIncome     string `json:"total_monthly_income"`
	NetMonthlyIncome       string `json:"net_monthly_income"`
	MonthlyCarPayment      string `json:"monthly_car_payment"`
	Downpayment            string `json:"downpayment"`
	TradeInValue           string `json:"trade_in_value"`
	EmploymentLengthMonths int32  `json:"employment_length_months"`
	Age                    int32  `json:"age"`
	BankruptcyCount        int32  `json:"bankruptcy_count"`
	RepossessionCount      int32  `json:"repossession_count"`
}

// AssessmentMsg represents the proto RiskAssessment message.
type AssessmentMsg struct {
	AssessmentID  string      `json:"assessment_id"`
	ApplicationID string      `json:"application_id,omitempty"`
	ApplicantName string      `json:"applicant_name,omitempty"`
	Tier          string      `json:"tier"`
	Banner        string      `json:"banner"`
	PaymentRatio  string      `json:"payment_ratio"`
	AssessedAt    string      `json:"assessed_at"`
	Factors       []string    `json:"factors"`
	Profile       *ProfileMsg `json:"profile"`
	Score         int32       `json:"score"`
	HasCoBuyer    bool        `json:"has_co_buyer"`
}

// EvaluateRiskRequest represents the proto EvaluateRiskRequest message.
type EvaluateRiskRequest struct {
	Primary      *ApplicantMsg `json:"primary"`
	CoBuyer      *ApplicantMsg `json:"co_buyer,omitempty"`
	TradeInValue string        `json:"trade_in_value"`
}

// EvaluateRiskResponse represents the proto EvaluateRiskResponse message.
type EvaluateRiskResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ClassifyProfileRequest represents the proto ClassifyProfileRequest message.
type ClassifyProfileRequest struct {
	Profile *ProfileMsg `json:"profile"`
}

// ClassifyProfileResponse represents the proto ClassifyProfileResponse message.
type ClassifyProfileResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListRiskTiersRequest represents the proto ListRiskTiersRequest message.
type ListRiskTiersRequest struct{}

// RiskTierMsg represents the proto RiskTier message.
type RiskTierMsg struct {
	Name     string `json:"name"`
	Banner   string `json:"banner"`
	MinScore int32  `json:"min_score"`
}

// ListRiskTiersResponse represents the proto ListRiskTiersResponse message.
type ListRiskTiersResponse struct {
	Tiers []*RiskTierMsg `json:"tiers"`
}

// EvaluateRisk scores a full application.
func (h *RiskServiceHandler) EvaluateRisk(ctx context.Context, req *EvaluateRiskRequest) (*EvaluateRiskResponse, error) {
	dealershipID, err := h.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Primary == nil {
		return nil, status.Error(codes.InvalidArgument, "primary applicant is required")
	}

	in := dto.EvaluateRiskRequest{DealershipID: dealershipID}
	if in.Primary, err = toApplicantRequest("primary", req.Primary); err != nil {
		return nil, err
	}
	if req.CoBuyer != nil {
		coBuyer, err := toApplicantRequest("co_buyer", req.CoBuyer)
		if err != nil {
			return nil, err
		}
		in.CoBuyer = &coBuyer
	}
	if in.TradeInValue, err = parseAmount("trade_in_value", req.TradeInValue); err != nil {
		return nil, err
	}

	result, err := h.evaluateRisk.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus("evaluate risk", err)
	}
	return &EvaluateRiskResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ClassifyProfile scores an already aggregated profile.
func (h *RiskServiceHandler) ClassifyProfile(ctx context.Context, req *ClassifyProfileRequest) (*ClassifyProfileResponse, error) {
	dealershipID, err := h.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Profile == nil {
		return nil, status.Error(codes.InvalidArgument, "profile is required")
	}

	profile, err := toProfileDTO(req.Profile)
	if err != nil {
		return nil, err
	}

	result, err := h.classifyProfile.Execute(ctx, dto.ClassifyProfileRequest{
		DealershipID: dealershipID,
		ProfileDTO:   profile,
	})
	if err != nil {
		return nil, h.toStatus("classify profile", err)
	}
	return &ClassifyProfileResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListRiskTiers returns the tier table, highest tier first.
func (h *RiskServiceHandler) ListRiskTiers(ctx context.Context, _ *ListRiskTiersRequest) (*ListRiskTiersResponse, error) {
	if _, err := h.authorize(ctx); err != nil {
		return nil, err
	}

	result := h.listRiskTiers.Execute(ctx)
	resp := &ListRiskTiersResponse{Tiers: make([]*RiskTierMsg, 0, len(result.Tiers))}
	for _, t := range result.Tiers {
		resp.Tiers = append(resp.Tiers, &RiskTierMsg{
			Name:     t.Name,
			Banner:   t.Banner,
			MinScore: int32(t.MinScore),
		})
	}
	return resp, nil
}

// authorize checks the caller's roles and returns the dealership carried in
// its claims. It is a no-op when auth is disabled.
func (h *RiskServiceHandler) authorize(ctx context.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !h.authRequired {
		if ok {
			return claims.DealershipID, nil
		}
		return "", nil
	}
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(evaluatorRoles...) {
		return "", status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return claims.DealershipID, nil
}

func (h *RiskServiceHandler) toStatus(op string, err error) error {
	if errors.Is(err, usecase.ErrInvalidApplication) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	h.logger.Error("failed to "+op, slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

func parseAmounts(field string, values []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		d, err := parseAmount(field, v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func toApplicantRequest(prefix string, m *ApplicantMsg) (dto.ApplicantRequest, error) {
	req := dto.ApplicantRequest{
		FirstName:              m.FirstName,
		LastName:               m.LastName,
		EmploymentType:         m.EmploymentType,
		PayFrequency:           m.PayFrequency,
		EmploymentLengthMonths: int(m.EmploymentLengthMonths),
		Age:                    int(m.Age),
		BankruptcyCount:        int(m.BankruptcyCount),
		RepossessionCount:      int(m.RepossessionCount),
	}

	var err error
	if req.Paychecks, err = parseAmounts(prefix+".paychecks", m.Paychecks); err != nil {
		return req, err
	}
	if req.OtherIncomes, err = parseAmounts(prefix+".other_incomes", m.OtherIncomes); err != nil {
		return req, err
	}
	if req.MonthlyCarPayment, err = parseAmount(prefix+".monthly_car_payment", m.MonthlyCarPayment); err != nil {
		return req, err
	}
	if req.TotalMonthlyExpenses, err = parseAmount(prefix+".total_monthly_expenses", m.TotalMonthlyExpenses); err != nil {
		return req, err
	}
	if req.Downpayment, err = parseAmount(prefix+".downpayment", m.Downpayment); err != nil {
		return req, err
	}
	return req, nil
}

func toProfileDTO(m *ProfileMsg) (dto.ProfileDTO, error) {
	p := dto.ProfileDTO{
		EmploymentType:         m.EmploymentType,
		EmploymentLengthMonths: int(m.EmploymentLengthMonths),
		Age:                    int(m.Age),
		BankruptcyCount:        int(m.BankruptcyCount),
		RepossessionCount:      int(m.RepossessionCount),
	}

	var err error
	if p.TotalMonthlyIncome, err = parseAmount("total_monthly_income", m.TotalMonthlyIncome); err != nil {
		return p, err
	}
	if p.NetMonthlyIncome, err = parseAmount("net_monthly_income", m.NetMonthlyIncome); err != nil {
		return p, err
	}
	if p.MonthlyCarPayment, err = parseAmount("monthly_car_payment", m.MonthlyCarPayment); err != nil {
		return p, err
	}
	if p.Downpayment, err = parseAmount("downpayment", m.Downpayment); err != nil {
		return p, err
	}
	if p.TradeInValue, err = parseAmount("trade_in_value", m.TradeInValue); err != nil {
		return p, err
	}
	return p, nil
}

func toProfileMsg(p dto.ProfileDTO) *ProfileMsg {
	return &ProfileMsg{
		EmploymentType:         p.EmploymentType,
		TotalMonthlyIncome:     p.TotalMonthlyIncome.String(),
		NetMonthlyIncome:       p.NetMonthlyIncome.String(),
		MonthlyCarPayment:      p.MonthlyCarPayment.String(),
		Downpayment:            p.Downpayment.String(),
		TradeInValue:           p.TradeInValue.String(),
		EmploymentLengthMonths: int32(p.EmploymentLengthMonths),
		Age:                    int32(p.Age),
		BankruptcyCount:        int32(p.BankruptcyCount),
		RepossessionCount:      int32(p.RepossessionCount),
	}
}

func toAssessmentMsg(r dto.EvaluateRiskResponse) *AssessmentMsg {
	return &AssessmentMsg{
		AssessmentID:  r.AssessmentID,
		ApplicationID: r.ApplicationID,
		ApplicantName: r.ApplicantName,
		Tier:          r.Tier,
		Banner:        r.Banner,
		PaymentRatio:  r.PaymentRatio.String(),
		AssessedAt:    r.AssessedAt.UTC().Format(time.RFC3339),
		Factors:       r.Factors,
		Profile:       toProfileMsg(r.Profile),
		Score:         int32(r.Score),
		HasCoBuyer:    r.HasCoBuyer,
	}
}
