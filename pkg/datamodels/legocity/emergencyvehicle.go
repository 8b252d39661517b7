package legocity

import (
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	dec "github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
)

// NewEmergencyVehicle creates a new instance of EmergencyVehicle
func NewEmergencyVehicle(entityID string, latitude, longitude float64, vehicleType string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if !strings.HasPrefix(entityID, EmergencyVehicleIDPrefix) {
		entityID = EmergencyVehicleIDPrefix + entityID
	}

	decorators = append(decorators,
		entities.DefaultContext(),
		dec.Location(latitude, longitude),
		dec.Text("vehicleType", vehicleType),
	)

	return entities.New(entityID, EmergencyVehicleTypeName, decorators...)
}
