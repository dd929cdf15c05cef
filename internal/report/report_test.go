package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

type stubSource struct {
	groups []domain.HeightGroup
	err    error
}

func (s stubSource) HeightGroups(context.Context) ([]domain.HeightGroup, error) {
	return s.groups, s.err
}

func TestRenderHeights(t *testing.T) {
	groups := []domain.HeightGroup{
		{HeightCm: 165, Users: 1, AvgWeightKg: 60},
		{HeightCm: 180, Users: 3, AvgWeightKg: 78.333},
	}

	got := RenderHeights(groups)

	want := "📊 **Reporte de Alturas Registradas:**\n\n" +
		"165cm: 1 usuario(s) | Peso promedio: 60.0kg\n" +
		"180cm: 3 usuario(s) | Peso promedio: 78.3kg\n" +
		"\n**Total de usuarios con datos:** 4" +
		"\n**Altura promedio:** 176cm"
	assert.Equal(t, want, got)
}

func TestRenderHeights_NoData(t *testing.T) {
	assert.Equal(t, NoDataMessage, RenderHeights(nil))
	assert.Equal(t, NoDataMessage, RenderHeights([]domain.HeightGroup{{HeightCm: 170, Users: 0}}))
}

func TestService_HeightReport(t *testing.T) {
	ctx := context.Background()

	t.Run("zero profiles", func(t *testing.T) {
		got, err := NewService(stubSource{}).HeightReport(ctx)
		require.NoError(t, err)
		assert.Equal(t, NoDataMessage, got)
	})

	t.Run("source error", func(t *testing.T) {
		_, err := NewService(stubSource{err: errors.New("db down")}).HeightReport(ctx)
		assert.ErrorContains(t, err, "db down")
	})
}
