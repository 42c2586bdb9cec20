package export

import "github.com/pillepelle-123/bookpress/printpipe"

// Role is the capability level of the user requesting an export. Books are
// collaborative: contributors fill in answers and photos, while only the
// book owner or a publisher may order print-grade output.
type Role string

// Requester roles.
const (
	RoleAuthor    Role = "author"
	RoleOwner     Role = "owner"
	RolePublisher Role = "publisher"
)

// Valid reports whether r names a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAuthor, RoleOwner, RolePublisher:
		return true
	}
	return false
}

// AllowsQuality reports whether the role may request the given tier.
// Print-grade tiers are reserved for owners and publishers; the check runs
// before a job is created, so a forbidden request never reaches
// processing.
func (r Role) AllowsQuality(q printpipe.Quality) bool {
	switch q {
	case printpipe.QualityPrinting, printpipe.QualityExcellent:
		return r == RoleOwner || r == RolePublisher
	default:
		return true
	}
}
