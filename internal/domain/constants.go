package domain

const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
)

const (
	ProductStatusAvailable          = "available"
	ProductStatusSold               = "sold"
	ProductStatusPendingReservation = "pending_reservation"
)

const (
	NotifTypeNewMessage      = "NEW_MESSAGE"
	NotifTypeRequestAccepted = "REQUEST_ACCEPTED"
)

// CourtesyMessagePrefix is the fixed opening of the auto-inserted first chat line.
// The gate matches on this prefix, so the wording must never change.
const CourtesyMessagePrefix = `Hi! I'm interested in buying your product:`

// CourtesyMessage builds the full auto-inserted first message for a product title.
func CourtesyMessage(productTitle string) string {
	return CourtesyMessagePrefix + ` "` + productTitle + `".`
}

// Categories a listing may belong to. The AI describer is constrained to these too.
var Categories = []string{
	"Electronics",
	"Books & Notes",
	"Hostel & Room Essentials",
	"Mobility",
	"Fashion & Accessories",
	"Lab & Academics",
	"Hobbies & Sports",
	"Other",
}

func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
