package fixture

import "github.com/iliyamo/weshowyou-tours/internal/model"

// BookingOptions are the choices offered by the back-office edit form.
type BookingOptions struct {
	Tours           []string              `json:"tours"`
	Statuses        []model.BookingStatus `json:"statuses"`
	PaymentStatuses []model.PaymentStatus `json:"payment_statuses"`
	PickupLocations []string              `json:"pickup_locations"`
}

// Options returns the edit form option lists.
func Options() BookingOptions {
	return BookingOptions{
		Tours: []string{
			"Dublin City Highlights",
			"Cliffs of Moher",
			"Guinness Storehouse",
			"Kilmainham Gaol",
			"Phoenix Park & Dublin Zoo",
			"Jameson Distillery",
			"Dublin Castle",
			"Temple Bar Experience",
		},
		Statuses:        append([]model.BookingStatus(nil), model.BookingStatuses...),
		PaymentStatuses: append([]model.PaymentStatus(nil), model.PaymentStatuses...),
		PickupLocations: []string{
			"Temple Bar Hotel",
			"The Shelbourne Hotel",
			"The Westin Dublin",
			"The Marker Hotel",
			"Dublin Airport",
			"Custom Location",
		},
	}
}
