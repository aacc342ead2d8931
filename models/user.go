package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Username  string    `json:"username" gorm:"size:80;unique;not null"`
	Email     string    `json:"email" gorm:"size:120;unique;not null"`
	Password  []byte    `json:"-" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&user.ID)
	return
}

func (user *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return nil
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}
