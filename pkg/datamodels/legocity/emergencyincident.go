package legocity

import (
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	dec "github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
)

// NewEmergencyIncident creates a new instance of EmergencyIncident
func NewEmergencyIncident(entityID string, latitude, longitude float64, incidentType string, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if !strings.HasPrefix(entityID, EmergencyIncidentIDPrefix) {
		entityID = EmergencyIncidentIDPrefix + entityID
	}

	decorators = append(decorators,
		entities.DefaultContext(),
		dec.Location(latitude, longitude),
		dec.Text("incidentType", incidentType),
	)

	return entities.New(entityID, EmergencyIncidentTypeName, decorators...)
}
