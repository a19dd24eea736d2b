package models

import (
	"github.com/mdobak/go-xerrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAlreadyLiked    = xerrors.Message("Post already liked")
	ErrNotLiked        = xerrors.Message("Post has not yet been liked")
	ErrCommentNotFound = xerrors.Message("Comment does not exist")
	ErrNotAuthorized   = xerrors.Message("User not authorized")
	ErrEntryNotFound   = xerrors.Message("Entry not found")
	ErrMalformedID     = xerrors.Message("Malformed identifier")
)

// NewID returns a fresh server-assigned identifier.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// ParseID parses the 24 character hex form of an identifier.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, xerrors.New(ErrMalformedID)
	}
	return id, nil
}
