package arenauth

// Platform roles accepted at signup. The backend is authoritative; this list
// only gates obviously wrong input before a network call.
const (
	RolePlayer      = "player"
	RoleCoordinator = "coordinator"
	RoleOrganizer   = "organizer"
	RoleAdmin       = "admin"
)

var knownRoles = map[string]struct{}{
	RolePlayer:      {},
	RoleCoordinator: {},
	RoleOrganizer:   {},
	RoleAdmin:       {},
}

// SignupProfile carries the signup form fields. Name through Role are
// required; the federation IDs are optional.
type SignupProfile struct {
	Name     string
	Email    string
	DOB      string // ISO date, yyyy-mm-dd
	Gender   string
	College  string
	Phone    string
	Password string
	Role     string

	// Chess federation identifiers, optional.
	AICFID string
	FIDEID string
}
