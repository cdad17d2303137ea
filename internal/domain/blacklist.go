package domain

import "time"

// BlacklistEntry blocks bookings from a contact within one company.
// At least one of Phone/Email must be set. No two active entries of a
// company may share the same phone or the same email.
type BlacklistEntry struct {
	ID        int64
	CompanyID int64
	Phone     *string
	Email     *string
	Reason    *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasContact reports whether the entry carries at least one contact field.
func (b *BlacklistEntry) HasContact() bool {
	return (b.Phone != nil && *b.Phone != "") || (b.Email != nil && *b.Email != "")
}

// Matches reports whether the entry matches the given contact data.
func (b *BlacklistEntry) Matches(phone string, email *string) bool {
	if b.Phone != nil && *b.Phone != "" && *b.Phone == phone {
		return true
	}
	if b.Email != nil && email != nil && *b.Email != "" && *b.Email == *email {
		return true
	}
	return false
}
