package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleClient UserRole = "client"
	RoleLab    UserRole = "lab"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleLab:
		return true
	}
	return false
}

type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Name         string   `gorm:"size:255;not null"`
	Email        string   `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`

	CompanyName     string `gorm:"size:255"` // client only
	AccreditationNo string `gorm:"size:64"`  // lab only
}

// Profile is the role-specific part of a user. The concrete type is one of
// AdminProfile, ClientProfile or LabProfile.
type Profile interface {
	Role() UserRole
	isProfile()
}

type AdminProfile struct{}

type ClientProfile struct {
	CompanyName string
}

type LabProfile struct {
	AccreditationNo string
}

func (AdminProfile) Role() UserRole  { return RoleAdmin }
func (ClientProfile) Role() UserRole { return RoleClient }
func (LabProfile) Role() UserRole    { return RoleLab }

func (AdminProfile) isProfile()  {}
func (ClientProfile) isProfile() {}
func (LabProfile) isProfile()    {}

// Profile returns the role variant of u. Unknown roles yield nil.
func (u User) Profile() Profile {
	switch u.Role {
	case RoleAdmin:
		return AdminProfile{}
	case RoleClient:
		return ClientProfile{CompanyName: u.CompanyName}
	case RoleLab:
		return LabProfile{AccreditationNo: u.AccreditationNo}
	}
	return nil
}
