package usecase

import (
	"context"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

// ListRiskTiers returns the tier thresholds and banners, most severe first.
type ListRiskTiers struct{}

func NewListRiskTiers() *ListRiskTiers {
	return &ListRiskTiers{}
}

func (uc *ListRiskTiers) Execute(_ context.Context) dto.ListRiskTiersResponse {
	tiers := valueobject.RiskTiers()
	resp := dto.ListRiskTiersResponse{Tiers: make([]dto.RiskTierDTO, 0, len(tiers))}
	for _, t := range tiers {
		resp.Tiers = append(resp.Tiers, dto.FromTier(t))
	}
	return resp
}
