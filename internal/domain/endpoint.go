package domain

import "fmt"

// Endpoint identifies a vendor series endpoint the pipeline ingests.
type Endpoint string

const (
	EndpointVoltageMean30m Endpoint = "voltage_mean_30m"
	EndpointCurrentMean30m Endpoint = "current_mean_30m"
)

// TableInstrument is the logical name of the instrument table; readings
// tables share their name with the Endpoint that feeds them.
const TableInstrument = "instrument"

// VendorPath returns the vendor API path for the endpoint.
func (e Endpoint) VendorPath() string {
	switch e {
	case EndpointVoltageMean30m:
		return "voltage/mean/30min"
	case EndpointCurrentMean30m:
		return "current/mean/30min"
	}
	return string(e)
}

// Table returns the silver table the endpoint's readings land in.
func (e Endpoint) Table() string {
	return string(e)
}

// DefaultUnit is used when a point carries no unit of its own.
func (e Endpoint) DefaultUnit() string {
	switch e {
	case EndpointCurrentMean30m:
		return "A"
	default:
		return "V"
	}
}

// ParseEndpoint validates an endpoint name coming from outside the core.
func ParseEndpoint(name string) (Endpoint, error) {
	switch Endpoint(name) {
	case EndpointVoltageMean30m, EndpointCurrentMean30m:
		return Endpoint(name), nil
	}
	return "", fmt.Errorf("unknown endpoint: %s", name)
}
