package models

import (
	"errors"
	"time"

	"github.com/mdobak/go-xerrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = xerrors.Message("Please enter a password with 72 or fewer characters")

type User struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
	Avatar   string             `json:"avatar" bson:"avatar"`
	Date     time.Time          `json:"date" bson:"date"`
}

// UserSummary is the part of a user that is embedded into profile responses.
type UserSummary struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
}

func (user *User) Summary() UserSummary {
	return UserSummary{ID: user.ID, Name: user.Name, Avatar: user.Avatar}
}

func (user *User) SetPassword(plainTextPassword string) error {
	if len(plainTextPassword) > MaxPasswordBytes {
		return xerrors.New(ErrPasswordTooLong)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return xerrors.New(err)
	}

	user.Password = string(hashedPassword)
	return nil
}

func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}
