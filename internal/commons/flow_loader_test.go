package commons

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cactus377/japede-cardapio/internal/domain"
)

func TestLoadFlowDurations_EmptyPathUsesDefaults(t *testing.T) {
	flow, err := LoadFlowDurations("")

	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, flow.DurationFor(domain.OrderTypeDelivery, domain.OrderStatusPending))
}

func TestLoadFlowDurations_OverridesMergeOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	content := `
DELIVERY:
  PENDING: 60000
  PREPARING: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	flow, err := LoadFlowDurations(path)

	require.NoError(t, err)
	assert.Equal(t, time.Minute, flow.DurationFor(domain.OrderTypeDelivery, domain.OrderStatusPending))
	assert.Equal(t, time.Duration(0), flow.DurationFor(domain.OrderTypeDelivery, domain.OrderStatusPreparing),
		"explicit zero disables auto-advance")
	assert.Equal(t, 2*time.Minute, flow.DurationFor(domain.OrderTypeDelivery, domain.OrderStatusReadyForPickup),
		"untouched statuses keep the defaults")
	assert.Equal(t, 5*time.Minute, flow.DurationFor(domain.OrderTypeDineIn, domain.OrderStatusPending),
		"untouched types keep the defaults")
}

func TestLoadFlowDurations_MissingFile(t *testing.T) {
	_, err := LoadFlowDurations("/nonexistent/flow.yaml")
	assert.Error(t, err)
}

func TestLoadFlowDurations_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DELIVERY: [not a map"), 0o644))

	_, err := LoadFlowDurations(path)
	assert.Error(t, err)
}
