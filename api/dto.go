/*
dto.go - JSON shapes for the dashboard API

DTOs decouple the stored rows from the API contract. Dates are Y-M-D
strings; decimal averages are serialized as strings so clients never see
binary-float artifacts.
*/
package api

import "github.com/citydot/towstat/towing"

// SummaryDTO is one per-day summary row.
type SummaryDTO struct {
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	Average   string `json:"average"`
	MedianAge string `json:"medianage"`
	Dirtbike  bool   `json:"dirtbike"`
	Category  string `json:"category"`
}

// AgeDTO is one per-vehicle-per-day row.
type AgeDTO struct {
	Date       string `json:"date"`
	PropertyID string `json:"property_id"`
	VehicleAge int    `json:"vehicle_age"`
	Category   string `json:"category"`
	Dirtbike   bool   `json:"dirtbike"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toSummaryDTO(row towing.SummaryRow) SummaryDTO {
	return SummaryDTO{
		Date:      row.Date.String(),
		Quantity:  row.Quantity,
		Average:   row.Average.String(),
		MedianAge: row.MedianAge.String(),
		Dirtbike:  row.Dirtbike,
		Category:  string(row.Category),
	}
}

func toAgeDTO(row towing.AgeRow) AgeDTO {
	return AgeDTO{
		Date:       row.Date.String(),
		PropertyID: row.PropertyID,
		VehicleAge: row.VehicleAge,
		Category:   string(row.Category),
		Dirtbike:   row.Dirtbike,
	}
}
