package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/web"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenHeader carries the token on every private request.
const TokenHeader = "x-auth-token"

var identityKey = web.NewKey[*Identity]("identity")

var (
	ErrNotAuthenticated = xerrors.Message("Not authenticated user")
	ErrInvalidToken     = xerrors.Message("Token is not valid")
)

type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Auth {
	return &Auth{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (auth *Auth) GenerateToken(userID primitive.ObjectID) (string, error) {
	now := auth.now()
	claim := UserClaim{
		User: ClaimUser{ID: userID.Hex()},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(auth.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signedString, nil
}

// Authenticate verifies the signature and expiry of tokenString and returns
// the identity it was issued to.
func (auth *Auth) Authenticate(tokenString string) (*Identity, error) {
	claim := &UserClaim{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claim, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.secret, nil
	}, jwt.WithTimeFunc(auth.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, xerrors.Newf("%w: %v", ErrInvalidToken, err)
	}

	if !parsedToken.Valid {
		return nil, xerrors.New(ErrInvalidToken)
	}

	id, err := primitive.ObjectIDFromHex(claim.User.ID)
	if err != nil {
		return nil, xerrors.Newf("%w: %v", ErrInvalidToken, err)
	}

	return &Identity{ID: id, Token: tokenString}, nil
}

// GetAuthenticatedUser returns the identity stored by SetAuthenticatedUser.
func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*Identity, error) {
	identity, ok := identityKey.Get(r)
	if !ok || identity == nil {
		return nil, ErrNotAuthenticated
	}

	return identity, nil
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, identity *Identity) *http.Request {
	return identityKey.Set(r, identity)
}
