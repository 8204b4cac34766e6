// Package fixture holds the seed data the service ships with: the public tour
// catalog, the sample back-office bookings and the option lists of the
// booking edit form. Every accessor builds fresh values, so callers may
// mutate what they get back without affecting later calls.
package fixture

import (
	"github.com/gosimple/slug"

	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
)

// Tours returns the public catalog.
func Tours() []model.Tour {
	return []model.Tour{
		tour(1, "Dublin City Highlights", "3 hours", "€35",
			"Explore the heart of Dublin with our expert guides. Visit Trinity College, Temple Bar, and more!",
			"https://images.pexels.com/photos/3566191/pexels-photo-3566191.jpeg"),
		tour(2, "Cliffs of Moher Day Trip", "Full day", "€75",
			"Experience the breathtaking Cliffs of Moher on this unforgettable day trip from Dublin.",
			"https://images.pexels.com/photos/33893284/pexels-photo-33893284.jpeg"),
		tour(3, "Guinness Storehouse Experience", "2.5 hours", "€45",
			"Discover the history of Ireland's most famous beer with a tasting session included.",
			"https://images.pexels.com/photos/31759849/pexels-photo-31759849.jpeg"),
	}
}

func tour(id uint64, title, duration, price, description, image string) model.Tour {
	cents, err := utils.ParseEuroCents(price)
	if err != nil {
		panic("fixture: bad price label " + price)
	}
	return model.Tour{
		ID:             id,
		Slug:           slug.Make(title),
		Title:          title,
		Duration:       duration,
		PriceLabel:     price,
		UnitPriceCents: cents,
		Description:    description,
		ImageURL:       image,
	}
}
