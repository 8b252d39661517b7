package legocity

import (
	"fmt"
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	dec "github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
)

// NewTrafficFlowObserved creates a new instance of TrafficFlowObserved
// along the given road geometry, a sequence of lon,lat vertices.
func NewTrafficFlowObserved(entityID string, roadName string, coordinates [][]float64, observedAt string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(coordinates) < 2 {
		return nil, fmt.Errorf("a trafficflowobserved entity requires a road geometry of at least two points")
	}

	if !strings.HasPrefix(entityID, TrafficFlowObservedIDPrefix) {
		entityID = TrafficFlowObservedIDPrefix + entityID
	}

	decorators = append(decorators,
		entities.DefaultContext(),
		dec.LineStringLocation(coordinates),
		dec.Text("roadName", roadName),
		dec.ObservedAt(observedAt),
	)

	return entities.New(entityID, TrafficFlowObservedTypeName, decorators...)
}
