package legocity

const urnPrefix string = "urn:ngsi-ld:"

const (
	//FloodSensorTypeName is a type name constant for FloodSensor
	FloodSensorTypeName string = "FloodSensor"
	//FloodSensorIDPrefix contains the mandatory prefix for FloodSensor ID:s
	FloodSensorIDPrefix string = urnPrefix + FloodSensorTypeName + ":"
	//FloodZoneTypeName is a type name constant for FloodZone
	FloodZoneTypeName string = "FloodZone"
	//FloodZoneIDPrefix contains the mandatory prefix for FloodZone ID:s
	FloodZoneIDPrefix string = urnPrefix + FloodZoneTypeName + ":"
	//TrafficFlowObservedTypeName is a type name constant for TrafficFlowObserved
	TrafficFlowObservedTypeName string = "TrafficFlowObserved"
	//TrafficFlowObservedIDPrefix contains the mandatory prefix for TrafficFlowObserved ID:s
	TrafficFlowObservedIDPrefix string = urnPrefix + TrafficFlowObservedTypeName + ":"
	//EmergencyIncidentTypeName is a type name constant for EmergencyIncident
	EmergencyIncidentTypeName string = "EmergencyIncident"
	//EmergencyIncidentIDPrefix contains the mandatory prefix for EmergencyIncident ID:s
	EmergencyIncidentIDPrefix string = urnPrefix + EmergencyIncidentTypeName + ":"
	//EmergencyVehicleTypeName is a type name constant for EmergencyVehicle
	EmergencyVehicleTypeName string = "EmergencyVehicle"
	//EmergencyVehicleIDPrefix contains the mandatory prefix for EmergencyVehicle ID:s
	EmergencyVehicleIDPrefix string = urnPrefix + EmergencyVehicleTypeName + ":"
	//MedicalFacilityTypeName is a type name constant for MedicalFacility
	MedicalFacilityTypeName string = "MedicalFacility"
	//MedicalFacilityIDPrefix contains the mandatory prefix for MedicalFacility ID:s
	MedicalFacilityIDPrefix string = urnPrefix + MedicalFacilityTypeName + ":"
)
