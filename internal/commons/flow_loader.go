package commons

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/cactus377/japede-cardapio/internal/config"
)

// LoadFlowDurations reads per-type, per-status auto-advance durations from a
// YAML file keyed by order type and status, values in milliseconds:
//
//	DELIVERY:
//	  PENDING: 180000
//	  PREPARING: 900000
//
// Statuses absent from the file keep the built-in defaults for that type;
// an explicit 0 disables auto-advance at that status.
func LoadFlowDurations(path string) (config.FlowDurations, error) {
	flow := config.DefaultFlowDurations()
	if path == "" {
		return flow, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order flow file: %w", err)
	}

	var raw map[string]map[string]int64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing order flow file: %w", err)
	}

	for orderType, byStatus := range raw {
		if flow[orderType] == nil {
			flow[orderType] = map[string]time.Duration{}
		}
		for status, millis := range byStatus {
			flow[orderType][status] = time.Duration(millis) * time.Millisecond
		}
	}

	return flow, nil
}
