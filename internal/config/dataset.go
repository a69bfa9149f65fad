package config

import (
	"github.com/safence/sentinelguard/internal/lib/geo"
	"github.com/safence/sentinelguard/internal/registry"
)

// DefaultDevices returns the South India reference deployment.
func DefaultDevices() []registry.Device {
	return []registry.Device{
		// Tamil Nadu
		{ID: "1", Name: "Chennai Central Station", Position: geo.Point{Latitude: 13.0843, Longitude: 80.2705}, Status: registry.StatusSafe, Type: registry.TypeCamera, State: "Tamil Nadu", District: "Chennai", Category: "transport", Description: "Main railway station with CCTV monitoring"},
		{ID: "2", Name: "Coimbatore Industrial Area", Position: geo.Point{Latitude: 11.0168, Longitude: 76.9558}, Status: registry.StatusWarning, Type: registry.TypeSensorNode, State: "Tamil Nadu", District: "Coimbatore", Category: "industrial", Description: "Industrial zone with sensor network"},
		{ID: "3", Name: "Madurai Temple Complex", Position: geo.Point{Latitude: 9.9252, Longitude: 78.1198}, Status: registry.StatusAlert, Type: registry.TypeCamera, State: "Tamil Nadu", District: "Madurai", Category: "heritage", Description: "Temple security system alert"},
		{ID: "4", Name: "Tiruchirappalli Airport", Position: geo.Point{Latitude: 10.7654, Longitude: 78.7097}, Status: registry.StatusSafe, Type: registry.TypeGateway, State: "Tamil Nadu", District: "Tiruchirappalli", Category: "transport", Description: "Airport security gateway"},

		// Karnataka
		{ID: "5", Name: "Bangalore Tech Park", Position: geo.Point{Latitude: 12.9716, Longitude: 77.5946}, Status: registry.StatusSafe, Type: registry.TypeSensorNode, State: "Karnataka", District: "Bangalore", Category: "commercial", Description: "Technology park monitoring"},
		{ID: "6", Name: "Mysore Palace", Position: geo.Point{Latitude: 12.3051, Longitude: 76.6551}, Status: registry.StatusWarning, Type: registry.TypeCamera, State: "Karnataka", District: "Mysore", Category: "heritage", Description: "Historical site surveillance"},
		{ID: "7", Name: "Mangalore Port", Position: geo.Point{Latitude: 12.9141, Longitude: 74.8560}, Status: registry.StatusSafe, Type: registry.TypeGateway, State: "Karnataka", District: "Dakshina Kannada", Category: "port", Description: "Port security system"},
		{ID: "8", Name: "Dharwad University", Position: geo.Point{Latitude: 15.4589, Longitude: 75.0078}, Status: registry.StatusOffline, Type: registry.TypeSensorNode, State: "Karnataka", District: "Dharwad", Category: "commercial", Description: "University campus monitoring"},

		// Andhra Pradesh
		{ID: "9", Name: "Visakhapatnam Steel Plant", Position: geo.Point{Latitude: 17.7231, Longitude: 83.2501}, Status: registry.StatusAlert, Type: registry.TypeSensorNode, State: "Andhra Pradesh", District: "Visakhapatnam", Category: "industrial", Description: "Steel plant security alert"},
		{ID: "10", Name: "Tirupati Temple", Position: geo.Point{Latitude: 13.6288, Longitude: 79.4192}, Status: registry.StatusSafe, Type: registry.TypeCamera, State: "Andhra Pradesh", District: "Chittoor", Category: "heritage", Description: "Temple complex monitoring"},
		{ID: "11", Name: "Vijayawada Railway Junction", Position: geo.Point{Latitude: 16.5062, Longitude: 80.6480}, Status: registry.StatusWarning, Type: registry.TypeGateway, State: "Andhra Pradesh", District: "Krishna", Category: "transport", Description: "Major railway junction"},

		// Telangana
		{ID: "12", Name: "Hyderabad HITEC City", Position: geo.Point{Latitude: 17.4485, Longitude: 78.3908}, Status: registry.StatusSafe, Type: registry.TypeSensorNode, State: "Telangana", District: "Hyderabad", Category: "commercial", Description: "IT city monitoring"},
		{ID: "13", Name: "Warangal Fort", Position: geo.Point{Latitude: 18.0074, Longitude: 79.5941}, Status: registry.StatusMaintenance, Type: registry.TypeCamera, State: "Telangana", District: "Warangal", Category: "heritage", Description: "Fort under maintenance"},

		// Kerala
		{ID: "14", Name: "Kochi Port", Position: geo.Point{Latitude: 9.9312, Longitude: 76.2673}, Status: registry.StatusSafe, Type: registry.TypeGateway, State: "Kerala", District: "Ernakulam", Category: "port", Description: "Major port facility"},
		{ID: "15", Name: "Trivandrum Airport", Position: geo.Point{Latitude: 8.4821, Longitude: 76.9199}, Status: registry.StatusSafe, Type: registry.TypeCamera, State: "Kerala", District: "Thiruvananthapuram", Category: "transport", Description: "International airport"},
		{ID: "16", Name: "Kozhikode Beach", Position: geo.Point{Latitude: 11.2588, Longitude: 75.7804}, Status: registry.StatusWarning, Type: registry.TypeSensorNode, State: "Kerala", District: "Kozhikode", Category: "tourism", Description: "Beach area monitoring"},

		// Puducherry
		{ID: "17", Name: "Puducherry Beach Front", Position: geo.Point{Latitude: 11.9416, Longitude: 79.8083}, Status: registry.StatusSafe, Type: registry.TypeCamera, State: "Puducherry", District: "Puducherry", Category: "tourism", Description: "Beach surveillance"},
	}
}

// DefaultZones returns the South India risk-zone overlays.
func DefaultZones() []registry.Zone {
	return []registry.Zone{
		// High risk
		{ID: "red-zone-1", Name: "Chennai High Security Zone", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 13.0400, Longitude: 80.2400}, NorthEast: geo.Point{Latitude: 13.1200, Longitude: 80.3000}}, Color: "#EF4444", FillOpacity: 0.2, Type: registry.StatusAlert},
		{ID: "red-zone-2", Name: "Visakhapatnam Industrial Zone", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 17.6800, Longitude: 83.2000}, NorthEast: geo.Point{Latitude: 17.7600, Longitude: 83.3000}}, Color: "#EF4444", FillOpacity: 0.2, Type: registry.StatusAlert},

		// Medium risk
		{ID: "orange-zone-1", Name: "Bangalore Tech Corridor", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 12.9400, Longitude: 77.5600}, NorthEast: geo.Point{Latitude: 13.0000, Longitude: 77.6400}}, Color: "#F59E0B", FillOpacity: 0.15, Type: registry.StatusWarning},
		{ID: "orange-zone-2", Name: "Coimbatore Industrial Belt", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 10.9800, Longitude: 76.9200}, NorthEast: geo.Point{Latitude: 11.0500, Longitude: 77.0000}}, Color: "#F59E0B", FillOpacity: 0.15, Type: registry.StatusWarning},
		{ID: "orange-zone-3", Name: "Hyderabad Business District", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 17.4200, Longitude: 78.3600}, NorthEast: geo.Point{Latitude: 17.4800, Longitude: 78.4200}}, Color: "#F59E0B", FillOpacity: 0.15, Type: registry.StatusWarning},

		// Low risk
		{ID: "green-zone-1", Name: "Kochi Safe Harbor", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 9.9000, Longitude: 76.2400}, NorthEast: geo.Point{Latitude: 9.9600, Longitude: 76.2900}}, Color: "#10B981", FillOpacity: 0.1, Type: registry.StatusSafe},
		{ID: "green-zone-2", Name: "Mysore Heritage Zone", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 12.2900, Longitude: 76.6300}, NorthEast: geo.Point{Latitude: 12.3200, Longitude: 76.6700}}, Color: "#10B981", FillOpacity: 0.1, Type: registry.StatusSafe},
		{ID: "green-zone-3", Name: "Trivandrum Secure Area", Bounds: geo.Bounds{SouthWest: geo.Point{Latitude: 8.4600, Longitude: 76.9000}, NorthEast: geo.Point{Latitude: 8.5000, Longitude: 76.9400}}, Color: "#10B981", FillOpacity: 0.1, Type: registry.StatusSafe},
	}
}
