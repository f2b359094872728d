package persistence

import "time"

// SeedUsers returns the staff list used when nothing has been stored yet.
func SeedUsers() []User {
	return []User{
		{Name: "Alice", PIN: "1234"},
		{Name: "Bob", PIN: "5678"},
		{Name: "Charlie", PIN: "9876"},
		{Name: "Manager Dave", PIN: "0000"},
	}
}

// SeedLogs returns the demonstration log collection, positioned relative to now.
func SeedLogs(now time.Time) []Log {
	followUpSoon := now.Add(2 * time.Hour)
	followUpDue := now.Add(-3 * time.Hour)

	return []Log{
		{
			ID:               1,
			Timestamp:        now.Add(-15 * time.Minute),
			RoomNumber:       "305",
			GuestFirstName:   "John",
			GuestLastName:    "Doe",
			GuestPhoneNumber: "555-0101",
			GuestEmail:       "john.d@example.com",
			GuestNotes:       "Prefers foam pillows.",
			Category:         "Request",
			Description:      "Guest requested extra towels and a bottle of water.",
			Status:           "Resolved",
			Staff:            "Alice",
			Priority:         "Low",
		},
		{
			ID:               2,
			Timestamp:        now.Add(-45 * time.Minute),
			RoomNumber:       "512",
			GuestFirstName:   "Jane",
			GuestLastName:    "Smith",
			GuestPhoneNumber: "555-0102",
			GuestEmail:       "jane.smith@example.com",
			GuestNotes:       "VIP Guest. Celebrating anniversary. Prefers a quiet room away from the elevator.",
			Category:         "Complaint",
			Description:      "Guest reports that the TV remote is not working. Has tried changing batteries.",
			Status:           "In Progress",
			Staff:            "Alice",
			ManagerFollowUp:  true,
			Priority:         "High",
			FollowUpDate:     &followUpSoon,
		},
		{
			ID:               3,
			Timestamp:        now.AddDate(0, 0, -1),
			RoomNumber:       "210",
			GuestFirstName:   "Peter",
			GuestLastName:    "Jones",
			GuestPhoneNumber: "555-0103",
			Category:         "Maintenance",
			Description:      "Leaky faucet reported in the bathroom sink. Maintenance has been notified.",
			Status:           "Open",
			Staff:            "Bob",
			Priority:         "Medium",
			FollowUpDate:     &followUpDue,
		},
		{
			ID:               4,
			Timestamp:        now.AddDate(0, 0, -8),
			RoomNumber:       "101",
			GuestFirstName:   "Sam",
			GuestLastName:    "Wilson",
			GuestPhoneNumber: "555-0104",
			Category:         "Note",
			Description:      "Early check-in confirmed for tomorrow morning.",
			Status:           "Resolved",
			Staff:            "Bob",
			Priority:         "Low",
		},
		{
			ID:               5,
			Timestamp:        now.AddDate(0, 0, -2),
			RoomNumber:       "305",
			GuestFirstName:   "John",
			GuestLastName:    "Doe",
			GuestPhoneNumber: "555-0101",
			GuestEmail:       "john.d@example.com",
			GuestNotes:       "Prefers foam pillows.",
			Category:         "Note",
			Description:      "Guest is a repeat customer, celebrating an anniversary. Sent a complimentary bottle of wine.",
			Status:           "Resolved",
			Staff:            "Charlie",
			Priority:         "Medium",
		},
	}
}
