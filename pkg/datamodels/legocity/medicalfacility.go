package legocity

import (
	"fmt"
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	dec "github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
)

// NewMedicalFacility creates a new instance of MedicalFacility
func NewMedicalFacility(entityID string, name string, latitude, longitude float64, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one property must be set in a medicalfacility entity")
	}

	if !strings.HasPrefix(entityID, MedicalFacilityIDPrefix) {
		entityID = MedicalFacilityIDPrefix + entityID
	}

	decorators = append(decorators,
		entities.DefaultContext(),
		dec.Name(name),
		dec.Location(latitude, longitude),
	)

	return entities.New(entityID, MedicalFacilityTypeName, decorators...)
}
