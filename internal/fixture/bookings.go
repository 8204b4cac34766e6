package fixture

import (
	"time"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

const dateLayout = "2006-01-02"

// Bookings returns the sample back-office bookings. Tour dates are relative
// to now: BK-1001 is tomorrow, BK-1002 in two days and BK-1003 two days ago.
func Bookings(now time.Time) []model.Booking {
	day := func(offset int) string {
		return now.UTC().AddDate(0, 0, offset).Format(dateLayout)
	}
	return []model.Booking{
		{
			ID:               "BK-1001",
			Customer:         "John Doe",
			Email:            "john.doe@example.com",
			Phone:            "+353 85 123 4567",
			Tour:             "Dublin City Highlights",
			Date:             day(1),
			Time:             "10:00",
			Participants:     2,
			Status:           model.StatusConfirmed,
			PaymentStatus:    model.PaymentFullyPaid,
			PriceCents:       7000,
			SpecialRequests:  "One vegetarian meal required",
			GuideNotes:       "Customer is interested in Irish history",
			PickupLocation:   "Temple Bar Hotel",
			EmergencyContact: "Jane Doe (Spouse) - +353 87 654 3210",
			CreatedAt:        ts("2023-05-15T10:30:00Z"),
			UpdatedAt:        ts("2023-05-15T10:30:00Z"),
		},
		{
			ID:               "BK-1002",
			Customer:         "Sarah Johnson",
			Email:            "sarah.j@example.com",
			Phone:            "+353 86 987 6543",
			Tour:             "Cliffs of Moher",
			Date:             day(2),
			Time:             "08:00",
			Participants:     4,
			Status:           model.StatusPending,
			PaymentStatus:    model.PaymentDepositPaid,
			PriceCents:       20000,
			SpecialRequests:  "Need car seats for 2 children",
			GuideNotes:       "Family with young children",
			PickupLocation:   "The Shelbourne Hotel",
			EmergencyContact: "Michael Johnson (Husband) - +353 85 123 9999",
			CreatedAt:        ts("2023-05-16T14:15:00Z"),
			UpdatedAt:        ts("2023-05-16T14:15:00Z"),
		},
		{
			ID:               "BK-1003",
			Customer:         "Robert Chen",
			Email:            "robert.chen@example.com",
			Phone:            "+353 89 456 7890",
			Tour:             "Guinness Storehouse",
			Date:             day(-2),
			Time:             "15:30",
			Participants:     1,
			Status:           model.StatusCompleted,
			PaymentStatus:    model.PaymentFullyPaid,
			PriceCents:       4500,
			SpecialRequests:  "Allergic to nuts",
			GuideNotes:       "Solo traveler, interested in beer brewing process",
			PickupLocation:   "The Westin Dublin",
			EmergencyContact: "Lisa Chen (Sister) - +353 87 123 4567",
			CreatedAt:        ts("2023-05-10T09:45:00Z"),
			UpdatedAt:        ts("2023-05-12T18:20:00Z"),
		},
	}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic("fixture: bad timestamp " + s)
	}
	return t
}
