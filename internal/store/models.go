package store

// Category classifies a work log entry.
type Category string

const (
	CategoryDesign   Category = "Design"
	CategoryOutreach Category = "Outreach"
	CategoryMeetings Category = "Meetings"
	CategoryResearch Category = "Research"
	CategoryOps      Category = "Ops"
	CategoryAdmin    Category = "Admin"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryDesign, CategoryOutreach, CategoryMeetings,
	CategoryResearch, CategoryOps, CategoryAdmin,
}

// Status is the completion state of a work log entry.
type Status string

const (
	StatusDone       Status = "Done"
	StatusInProgress Status = "In Progress"
	StatusBlocked    Status = "Blocked"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusDone, StatusInProgress, StatusBlocked}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// UnsetOrder marks a log whose manual position has not been assigned yet.
// Logs created before manual ordering existed carry it until the next
// normalize pass.
const UnsetOrder = -1

// WorkLog is a single recorded unit of work.
type WorkLog struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"owner_id"`
	Title     string   `json:"title"`
	Impact    string   `json:"impact"`
	Category  Category `json:"category"`
	Status    Status   `json:"status"`
	TimeSpent int      `json:"time_spent"` // minutes
	Tags      []string `json:"tags"`
	Links     []string `json:"links"`
	ProjectID string   `json:"project_id,omitempty"`
	SortOrder int      `json:"sort_order"` // UnsetOrder when unassigned
	CreatedAt int64    `json:"created_at"` // epoch millis
}

// Project groups related work logs.
//
// BoardID is the explicit board membership. Description may still carry
// a legacy "[board:<slug>]" marker from older clients; resolution falls
// back to it when BoardID is empty.
type Project struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardID     string `json:"board_id,omitempty"`
	Color       string `json:"color"`
	CreatedAt   int64  `json:"created_at"`
}

// Board is a named, ordered bucket of projects. Positions are unique and
// contiguous from 0 within one owner's set.
type Board struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"created_at"`
}

// AccentColor is a display accent token.
type AccentColor string

const (
	AccentBlue   AccentColor = "blue"
	AccentPurple AccentColor = "purple"
	AccentGreen  AccentColor = "green"
	AccentOrange AccentColor = "orange"
)

// ValidAccent reports whether a is a known accent token.
func ValidAccent(a AccentColor) bool {
	switch a {
	case AccentBlue, AccentPurple, AccentGreen, AccentOrange:
		return true
	}
	return false
}

// Profile is the per-user settings row, upserted and never multiply created.
type Profile struct {
	ID           string      `json:"id"` // matches User.ID
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	AvatarURL    string      `json:"avatar_url"`
	AccentColor  AccentColor `json:"accent_color"`
	ReminderTime string      `json:"reminder_time"` // "HH:MM"
}

// User is an authenticated identity.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}

// Session is a login session resolved from a cookie token.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt int64 // epoch millis
}

// ProjectColors is the fixed palette new projects draw from.
var ProjectColors = []string{
	"#f59e0b", "#0ea5e9", "#10b981", "#8b5cf6",
	"#ef4444", "#ec4899", "#14b8a6", "#6366f1",
}
