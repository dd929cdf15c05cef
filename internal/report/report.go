// Package report builds the admin aggregate over stored profiles.
package report

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// NoDataMessage is returned when no profile has a height recorded
const NoDataMessage = "📊 No hay datos de altura registrados aún."

// HeightSource provides per-height aggregates
type HeightSource interface {
	HeightGroups(ctx context.Context) ([]domain.HeightGroup, error)
}

// Service renders reports from a height source
type Service struct {
	source HeightSource
}

// NewService creates a new report service
func NewService(source HeightSource) *Service {
	return &Service{source: source}
}

// HeightReport queries the groups and renders them as chat text
func (s *Service) HeightReport(ctx context.Context) (string, error) {
	groups, err := s.source.HeightGroups(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load height groups: %w", err)
	}
	return RenderHeights(groups), nil
}

// RenderHeights formats the height groups. Groups must be ordered by height.
func RenderHeights(groups []domain.HeightGroup) string {
	var b strings.Builder
	totalUsers := 0
	weightedHeight := 0

	b.WriteString("📊 **Reporte de Alturas Registradas:**\n\n")
	for _, g := range groups {
		if g.Users <= 0 {
			continue
		}
		fmt.Fprintf(&b, "%dcm: %d usuario(s) | Peso promedio: %.1fkg\n", g.HeightCm, g.Users, g.AvgWeightKg)
		totalUsers += g.Users
		weightedHeight += g.HeightCm * g.Users
	}

	if totalUsers == 0 {
		return NoDataMessage
	}

	avgHeight := math.Round(float64(weightedHeight) / float64(totalUsers))
	fmt.Fprintf(&b, "\n**Total de usuarios con datos:** %d", totalUsers)
	fmt.Fprintf(&b, "\n**Altura promedio:** %dcm", int(avgHeight))
	return b.String()
}
