package legocity

import (
	"fmt"
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	dec "github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
)

// NewFloodZone creates a new instance of FloodZone. The ring is a closed
// sequence of lon,lat vertices describing the flooded area.
func NewFloodZone(entityID string, name string, ring [][]float64, decorators ...entities.EntityDecoratorFunc) (types.Entity, error) {

	if len(decorators) == 0 {
		return nil, fmt.Errorf("at least one property must be set in a floodzone entity")
	}

	if !strings.HasPrefix(entityID, FloodZoneIDPrefix) {
		entityID = FloodZoneIDPrefix + entityID
	}

	decorators = append(decorators,
		entities.DefaultContext(),
		dec.Name(name),
		dec.PolygonLocation([][][]float64{ring}),
	)

	return entities.New(entityID, FloodZoneTypeName, decorators...)
}
