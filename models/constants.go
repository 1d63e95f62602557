package models

// Gender values
const (
	GenderMan    = "Man"
	GenderKvinna = "Kvinna"
	GenderAnnat  = "Annat"
)

// Round types a golfer can look for
const (
	RoundSallskapsrunda = "Sällskapsrunda"
	RoundTraningsrunda  = "Träningsrunda"
	RoundMatchspel      = "Matchspel"
	RoundFoursome       = "Foursome"
	RoundScramble       = "Scramble"
)

// RoundTypes lists every valid round type.
var RoundTypes = []string{
	RoundSallskapsrunda,
	RoundTraningsrunda,
	RoundMatchspel,
	RoundFoursome,
	RoundScramble,
}

// Match statuses. The enum supports an approval workflow but the like path
// always writes confirmed; pending and rejected are never reached.
const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusRejected  = "rejected"
)

// Club types
const (
	ClubDriver = "Driver"
	ClubWood   = "Wood"
	ClubHybrid = "Hybrid"
	ClubIron   = "Iron"
	ClubWedge  = "Wedge"
	ClubPutter = "Putter"
)

// ClubTypes lists every valid club type.
var ClubTypes = []string{ClubDriver, ClubWood, ClubHybrid, ClubIron, ClubWedge, ClubPutter}

// IsValidClubType reports whether t is a known club type.
func IsValidClubType(t string) bool {
	for _, ct := range ClubTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// Defaults applied at signup and bag creation
const (
	DefaultHandicap     = 18
	DefaultBagName      = "Min golfbag"
	DefaultMatchPreview = "Ny matchning!"
)

// NewBagSentinel is the placeholder bag id the UI uses before the real bag
// id is known. Writes carrying it must be rejected before hitting storage.
const NewBagSentinel = "new"
