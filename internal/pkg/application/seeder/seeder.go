package seeder

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/storage"
	"github.com/CTU-SematX/LegoCity/pkg/datamodels/legocity"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
)

// Road sourcing tops up from the fallback list when the live source
// collects fewer than minSeedRoads, to at most maxSeedRoads in total.
const (
	minSeedRoads = 20
	maxSeedRoads = 25
)

// RoadSource provides line geometries for traffic entities. The live
// implementation queries the Overpass API, tests plug in a stub.
type RoadSource interface {
	FetchRoads(ctx context.Context, geo Geography) ([]Road, error)
}

type Seeder struct {
	geo   Geography
	rnd   *rand.Rand
	roads RoadSource
}

func New(geo Geography, options ...func(*Seeder)) *Seeder {
	s := &Seeder{
		geo:   geo,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		roads: NewOverpassRoadSource(geo.OverpassAPIURL),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func WithRandomSource(seed int64) func(*Seeder) {
	return func(s *Seeder) {
		s.rnd = rand.New(rand.NewSource(seed))
	}
}

func WithRoadSource(source RoadSource) func(*Seeder) {
	return func(s *Seeder) {
		s.roads = source
	}
}

// Seed generates all entity families and replaces the stored set of
// each type. The total lands somewhere around 165 to 185 entities.
func (s *Seeder) Seed(ctx context.Context, store storage.EntityStore) (int, error) {
	log := logging.GetFromContext(ctx)

	families := map[string][]types.Entity{
		legocity.TrafficFlowObservedTypeName: s.TrafficFlowObserved(ctx),
		legocity.EmergencyIncidentTypeName:   s.EmergencyIncidents(),
		legocity.EmergencyVehicleTypeName:    s.EmergencyVehicles(),
		legocity.MedicalFacilityTypeName:     s.MedicalFacilities(),
		legocity.FloodSensorTypeName:         s.FloodSensors(),
		legocity.FloodZoneTypeName:           s.FloodZones(),
	}

	entityTypes := make([]string, 0, len(families))
	for entityType := range families {
		entityTypes = append(entityTypes, entityType)
	}
	sort.Strings(entityTypes)

	total := 0

	for _, entityType := range entityTypes {
		stored, err := store.ReplaceAllOfType(ctx, entityType, families[entityType])
		if err != nil {
			return total, fmt.Errorf("failed to store %s entities: %w", entityType, err)
		}

		log.Info("seeded entities", "type", entityType, "count", stored)
		total += stored
	}

	return total, nil
}

// TrafficFlowObserved places traffic observations on real road
// geometries, falling back to a built in set of major roads when the
// road source yields too few.
func (s *Seeder) TrafficFlowObserved(ctx context.Context) []types.Entity {
	log := logging.GetFromContext(ctx)

	roads, err := s.roads.FetchRoads(ctx, s.geo)
	if err != nil {
		log.Warn("road source unavailable, using fallback roads", "err", err.Error())
		roads = nil
	}

	if len(roads) < minSeedRoads {
		missing := maxSeedRoads - len(roads)
		if missing > len(s.geo.FallbackRoads) {
			missing = len(s.geo.FallbackRoads)
		}
		roads = append(roads, s.geo.FallbackRoads[:missing]...)
	}

	count := s.countFor(legocity.TrafficFlowObservedTypeName, Span{Min: 28, Max: 32})
	result := make([]types.Entity, 0, count)

	for i := 0; i < count && len(roads) > 0; i++ {
		road := roads[i%len(roads)]

		e, err := legocity.NewTrafficFlowObserved(s.cityID(), road.Name, road.Coordinates, s.randomTimestamp(),
			decorators.Number("congestionIndex", s.roundTo(s.rnd.Float64(), 3)),
			decorators.Number("averageVehicleSpeed", float64(5+s.rnd.Intn(56))),
			decorators.Number("vehicleCount", float64(10+s.rnd.Intn(191))),
		)
		if err != nil {
			continue
		}

		result = append(result, e)
	}

	return result
}

func (s *Seeder) EmergencyIncidents() []types.Entity {
	incidentTypes := []string{"Fire", "TrafficAccident", "Flooding", "MedicalEmergency"}
	severities := []string{"Low", "Medium", "High", "Critical"}
	statuses := []string{"Active", "Dispatching", "Resolved"}

	count := s.countFor(legocity.EmergencyIncidentTypeName, Span{Min: 38, Max: 45})
	result := make([]types.Entity, 0, count)

	for i := 0; i < count; i++ {
		zone := s.weightedZone()
		point := s.ClusteredPointInZone(zone, 0.003)

		e, err := legocity.NewEmergencyIncident(s.cityID(), point[1], point[0], s.pick(incidentTypes),
			decorators.Text("severity", s.pick(severities)),
			decorators.Status(s.pick(statuses)),
			decorators.ObservedAt(s.randomTimestamp()),
		)
		if err != nil {
			continue
		}

		result = append(result, e)
	}

	return result
}

func (s *Seeder) EmergencyVehicles() []types.Entity {
	vehicleTypes := []string{"Ambulance", "FireTruck", "PoliceCar"}
	statuses := []string{"Available", "OnMission", "Maintenance"}

	count := s.countFor(legocity.EmergencyVehicleTypeName, Span{Min: 23, Max: 28})
	result := make([]types.Entity, 0, count)

	for i := 0; i < count; i++ {
		zone := s.geo.Zones[s.rnd.Intn(len(s.geo.Zones))]
		point := s.ClusteredPointInZone(zone, 0.005)

		e, err := legocity.NewEmergencyVehicle(s.cityID(), point[1], point[0], s.pick(vehicleTypes),
			decorators.Status(s.pick(statuses)),
			decorators.Number("speed", float64(s.rnd.Intn(81))),
			decorators.Number("heading", float64(s.rnd.Intn(361))),
			decorators.ObservedAt(s.randomTimestamp()),
		)
		if err != nil {
			continue
		}

		result = append(result, e)
	}

	return result
}

func (s *Seeder) MedicalFacilities() []types.Entity {
	facilityNames := []string{
		"HCMC General Hospital", "Cho Ray Hospital", "115 People's Hospital",
		"University Medical Center", "Phu Nhuan Hospital", "Binh Thanh Clinic",
		"District 1 Medical Center", "Tan Binh Hospital", "City Children's Hospital",
		"Heart Institute", "Thu Duc Hospital", "District 7 Medical Center",
	}

	urban := s.zonesByKey("district_1", "district_3", "district_7", "binh_thanh", "tan_binh")

	count := s.countFor(legocity.MedicalFacilityTypeName, Span{Min: 9, Max: 12})
	result := make([]types.Entity, 0, count)

	for i := 0; i < count; i++ {
		zone := urban[s.rnd.Intn(len(urban))]
		point := s.ClusteredPointInZone(zone, 0.002)

		bedCapacity := 100 + s.rnd.Intn(1901)

		e, err := legocity.NewMedicalFacility(s.cityID(), facilityNames[i%len(facilityNames)], point[1], point[0],
			decorators.Number("bedCapacity", float64(bedCapacity)),
			decorators.Number("availableBeds", float64(s.rnd.Intn(bedCapacity+1))),
			decorators.ObservedAt(s.randomTimestamp()),
		)
		if err != nil {
			continue
		}

		result = append(result, e)
	}

	return result
}

// FloodSensors places 70 percent of the sensors along waterway
// corridors and the rest in the zones that flood the most.
func (s *Seeder) FloodSensors() []types.Entity {
	count := s.countFor(legocity.FloodSensorTypeName, Span{Min: 42, Max: 48})
	waterwayCount := count * 7 / 10

	floodZones := s.zonesByKey("district_7", "binh_thanh", "thu_duc", "can_gio")

	result := make([]types.Entity, 0, count)

	for i := 0; i < count; i++ {
		var point []float64

		if i < waterwayCount && len(s.geo.Waterways) > 0 {
			point = s.WaterwaySensorLocation()
		} else {
			zone := floodZones[s.rnd.Intn(len(floodZones))]
			point = s.ClusteredPointInZone(zone, 0.004)
		}

		e, err := legocity.NewFloodSensor(s.cityID(), point[1], point[0],
			s.roundTo(s.rnd.Float64()*2.5, 2), s.randomTimestamp(),
			decorators.Number("batteryLevel", s.roundTo(0.3+s.rnd.Float64()*0.7, 2)),
		)
		if err != nil {
			continue
		}

		result = append(result, e)
	}

	return result
}

// FloodZones generates polygon areas around known flood locations,
// sized by area type and annotated with severity driven metrics.
func (s *Seeder) FloodZones() []types.Entity {
	severityLevels := map[string]int{"low": 1, "medium": 2, "high": 3}
	areaTypeSizes := map[string][2]int{
		"urban_road":   {200, 400},
		"intersection": {150, 300},
		"residential":  {350, 600},
		"canal_side":   {250, 500},
		"lowland":      {450, 800},
		"highway":      {300, 600},
		"agricultural": {500, 800},
		"coastal":      {500, 800},
	}

	count := s.countFor(legocity.FloodZoneTypeName, Span{Min: 18, Max: 22})

	areas := make([]FloodArea, len(s.geo.FloodAreas))
	copy(areas, s.geo.FloodAreas)
	s.rnd.Shuffle(len(areas), func(i, j int) { areas[i], areas[j] = areas[j], areas[i] })

	if count < len(areas) {
		areas = areas[:count]
	}

	// Derive extra areas near known ones when more are asked for than exist
	for len(areas) < count {
		base := s.geo.FloodAreas[s.rnd.Intn(len(s.geo.FloodAreas))]
		areas = append(areas, FloodArea{
			Name:     base.Name + " (Extended)",
			Center:   []float64{base.Center[0] + s.uniform(-0.005, 0.005), base.Center[1] + s.uniform(-0.005, 0.005)},
			Severity: base.Severity,
			AreaType: base.AreaType,
		})
	}

	result := make([]types.Entity, 0, len(areas))

	for _, area := range areas {
		level, ok := severityLevels[area.Severity]
		if !ok {
			level = 1
		}

		sizeRange, ok := areaTypeSizes[area.AreaType]
		if !ok {
			sizeRange = [2]int{100, 200}
		}

		sizeMeters := sizeRange[0] + s.rnd.Intn(sizeRange[1]-sizeRange[0]+1)
		ring := s.PolygonAround(area.Center[0], area.Center[1], float64(sizeMeters), 0.3)

		e, err := legocity.NewFloodZone(s.cityID(), area.Name, ring,
			decorators.Text("floodSeverity", area.Severity),
			decorators.Text("areaType", area.AreaType),
			decorators.Number("waterDepth", s.roundTo(s.uniform(0.1, 0.8)*float64(level), 2)),
			decorators.Number("affectedPopulation", float64((50+s.rnd.Intn(451))*level)),
			decorators.Boolean("isActive", s.rnd.Intn(4) < 3),
			decorators.ObservedAt(s.randomTimestamp()),
		)
		if err != nil {
			continue
		}

		result = append(result, e)
	}

	return result
}

// RandomPointInZone draws a uniform lon,lat point inside the zone.
func (s *Seeder) RandomPointInZone(zone Zone) []float64 {
	lat := s.uniform(zone.Lat[0], zone.Lat[1])
	lon := s.uniform(zone.Lon[0], zone.Lon[1])
	return []float64{lon, lat}
}

// ClusteredPointInZone draws a lon,lat point with gaussian clustering
// around one of the zone landmarks, clamped to the zone bounds.
func (s *Seeder) ClusteredPointInZone(zone Zone, clusterStd float64) []float64 {
	var centerLat, centerLon float64

	if len(zone.Landmarks) > 0 {
		landmark := zone.Landmarks[s.rnd.Intn(len(zone.Landmarks))]
		centerLat, centerLon = landmark[0], landmark[1]
	} else {
		centerLat = (zone.Lat[0] + zone.Lat[1]) / 2
		centerLon = (zone.Lon[0] + zone.Lon[1]) / 2
	}

	lat := s.gaussian(centerLat, clusterStd)
	lon := s.gaussian(centerLon, clusterStd)

	lat = math.Max(zone.Lat[0], math.Min(zone.Lat[1], lat))
	lon = math.Max(zone.Lon[0], math.Min(zone.Lon[1], lon))

	return []float64{lon, lat}
}

// WaterwaySensorLocation draws a point along a waterway corridor with a
// small perpendicular offset, sensors sit near the water rather than in
// it.
func (s *Seeder) WaterwaySensorLocation() []float64 {
	corridor := s.geo.Waterways[s.rnd.Intn(len(s.geo.Waterways))]

	lat := s.uniform(corridor.Lat[0], corridor.Lat[1])
	lon := s.uniform(corridor.Lon[0], corridor.Lon[1]) + s.uniform(-0.002, 0.002)

	return []float64{lon, lat}
}

// PolygonAround builds an irregular closed ring of 6 to 10 vertices
// around a center, sized in meters at the latitude of HCMC.
func (s *Seeder) PolygonAround(centerLat, centerLon, sizeMeters, irregularity float64) [][]float64 {
	latOffset := sizeMeters / 111000
	lonOffset := sizeMeters / 109000

	numVertices := 6 + s.rnd.Intn(5)

	angles := make([]float64, numVertices)
	for i := range angles {
		angles[i] = s.uniform(0, 2*math.Pi)
	}
	sort.Float64s(angles)

	ring := make([][]float64, 0, numVertices+1)

	for _, angle := range angles {
		radiusFactor := 1.0 + s.uniform(-irregularity, irregularity)
		lat := centerLat + latOffset*radiusFactor*math.Sin(angle)
		lon := centerLon + lonOffset*radiusFactor*math.Cos(angle)
		ring = append(ring, []float64{lon, lat})
	}

	ring = append(ring, []float64{ring[0][0], ring[0][1]})

	return ring
}

// gaussian approximates a normal sample by summing twelve uniforms
// (Irwin-Hall).
func (s *Seeder) gaussian(mean, std float64) float64 {
	sample := 0.0
	for i := 0; i < 12; i++ {
		sample += s.uniform(-0.5, 0.5)
	}
	return mean + sample*std
}

func (s *Seeder) uniform(min, max float64) float64 {
	return min + s.rnd.Float64()*(max-min)
}

func (s *Seeder) weightedZone() Zone {
	totalWeight := 0.0
	for _, zone := range s.geo.Zones {
		totalWeight += zone.Weight
	}

	target := s.rnd.Float64() * totalWeight

	for _, zone := range s.geo.Zones {
		target -= zone.Weight
		if target <= 0 {
			return zone
		}
	}

	return s.geo.Zones[len(s.geo.Zones)-1]
}

func (s *Seeder) zonesByKey(keys ...string) []Zone {
	result := []Zone{}

	for _, key := range keys {
		for _, zone := range s.geo.Zones {
			if zone.Key == key {
				result = append(result, zone)
			}
		}
	}

	if len(result) == 0 {
		result = s.geo.Zones
	}

	return result
}

func (s *Seeder) countFor(entityType string, fallback Span) int {
	span := s.geo.span(entityType, fallback)
	return span.Min + s.rnd.Intn(span.Max-span.Min+1)
}

// cityID returns the city scoped ID suffix, the datamodel constructors
// prepend the type specific urn prefix.
func (s *Seeder) cityID() string {
	return fmt.Sprintf("HCMC:%s", uuid.NewString())
}

func (s *Seeder) randomTimestamp() string {
	delta := time.Duration(s.uniform(0, 7*24)*float64(time.Hour)) +
		time.Duration(s.uniform(0, 60)*float64(time.Minute))
	return time.Now().UTC().Add(-delta).Format("2006-01-02T15:04:05Z")
}

func (s *Seeder) pick(values []string) string {
	return values[s.rnd.Intn(len(values))]
}

func (s *Seeder) roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
