package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table.
// Department doubles as the authorization role.
type User struct {
	ID           string    `json:"id" gorm:"column:id;primaryKey;size:36"`
	Email        string    `json:"email" gorm:"column:email;size:255;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255"`
	FullName     string    `json:"fullName" gorm:"column:full_name;size:255"`
	Department   string    `json:"department" gorm:"column:department;size:100"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

// PasswordReset is a single-use token issued by the forgot-password flow.
type PasswordReset struct {
	Token     string    `gorm:"column:token;primaryKey;size:36"`
	UserID    string    `gorm:"column:user_id;size:36;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (PasswordReset) TableName() string { return "password_resets" }

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
