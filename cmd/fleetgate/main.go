// Fleetgate is an authenticated HTTP gateway unifying three vehicle
// telematics APIs behind one surface: the Tessie vehicle REST API, the
// Teslemetry API and the official Tesla Fleet API.
//
// Usage:
//
//	# Start the gateway with default configuration
//	fleetgate run
//
//	# Start with a custom configuration file
//	fleetgate run --config /etc/fleetgate/config.yaml
//
//	# Validate a configuration file
//	fleetgate validate --config config.yaml
//
//	# Mint a caller token
//	fleetgate token --secret $JWT_SECRET --subject dashboard
//
//	# Show version information
//	fleetgate version
package main

func main() {
	Execute()
}
