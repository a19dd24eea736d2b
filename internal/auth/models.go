package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the verified caller of a private route.
type Identity struct {
	ID    primitive.ObjectID
	Token string
}

type ClaimUser struct {
	ID string `json:"id"`
}

type UserClaim struct {
	User ClaimUser `json:"user"`

	jwt.RegisteredClaims
}
