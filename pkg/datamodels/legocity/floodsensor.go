package legocity

import (
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	dec "github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
)

// NewFloodSensor creates a new instance of FloodSensor
func NewFloodSensor(entityID string, latitude, longitude, waterLevel float64, observedAt string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if !strings.HasPrefix(entityID, FloodSensorIDPrefix) {
		entityID = FloodSensorIDPrefix + entityID
	}

	decorators = append(decorators,
		entities.DefaultContext(),
		dec.Location(latitude, longitude),
		dec.Number("waterLevel", waterLevel),
		dec.ObservedAt(observedAt),
	)

	return entities.New(entityID, FloodSensorTypeName, decorators...)
}
