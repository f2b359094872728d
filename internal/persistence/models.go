package persistence

import "time"

// Storage keys shared with the browser build of the shift log.
const (
	LogsKey           = "frontDeskLogs"
	UsersKey          = "frontDeskUsers"
	RememberedUserKey = "rememberedUser"
)

// Log is the persisted shape of a shift-log entry.
type Log struct {
	ID               int64      `json:"id"`
	Timestamp        time.Time  `json:"timestamp"`
	RoomNumber       string     `json:"roomNumber"`
	GuestFirstName   string     `json:"guestFirstName"`
	GuestLastName    string     `json:"guestLastName"`
	GuestPhoneNumber string     `json:"guestPhoneNumber"`
	GuestEmail       string     `json:"guestEmail"`
	GuestNotes       string     `json:"guestNotes"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	Staff            string     `json:"staff"`
	ManagerFollowUp  bool       `json:"managerFollowUp"`
	Priority         string     `json:"priority"`
	FollowUpDate     *time.Time `json:"followUpDate"`
}

// User is the persisted shape of a staff member.
type User struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// storedLog mirrors Log but keeps every optional field nullable so older
// records can be told apart from records carrying empty values.
type storedLog struct {
	ID               int64   `json:"id"`
	Timestamp        string  `json:"timestamp"`
	RoomNumber       string  `json:"roomNumber"`
	GuestName        *string `json:"guestName"`
	GuestFirstName   *string `json:"guestFirstName"`
	GuestLastName    *string `json:"guestLastName"`
	GuestPhoneNumber *string `json:"guestPhoneNumber"`
	GuestEmail       *string `json:"guestEmail"`
	GuestNotes       *string `json:"guestNotes"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	Staff            string  `json:"staff"`
	ManagerFollowUp  *bool   `json:"managerFollowUp"`
	Priority         *string `json:"priority"`
	FollowUpDate     *string `json:"followUpDate"`
}
