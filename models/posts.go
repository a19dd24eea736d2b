package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	User     primitive.ObjectID `json:"user" bson:"user"`
	Text     string             `json:"text" bson:"text"`
	Name     string             `json:"name" bson:"name"`
	Avatar   string             `json:"avatar" bson:"avatar"`
	Likes    []Like             `json:"likes" bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date" bson:"date"`
}

type Like struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id"`
	User primitive.ObjectID `json:"user" bson:"user"`
}

type Comment struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	User   primitive.ObjectID `json:"user" bson:"user"`
	Text   string             `json:"text" bson:"text"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
	Date   time.Time          `json:"date" bson:"date"`
}

func (p *Post) IsLikedBy(userID primitive.ObjectID) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// Like records a like from userID at the front of the list.
func (p *Post) Like(userID primitive.ObjectID) error {
	if p.IsLikedBy(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = append([]Like{{ID: NewID(), User: userID}}, p.Likes...)
	return nil
}

func (p *Post) Unlike(userID primitive.ObjectID) error {
	for i, like := range p.Likes {
		if like.User == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return ErrNotLiked
}

func (p *Post) AddComment(comment Comment) {
	if comment.ID.IsZero() {
		comment.ID = NewID()
	}
	p.Comments = append([]Comment{comment}, p.Comments...)
}

// RemoveComment removes the comment only when it was written by userID.
func (p *Post) RemoveComment(commentID, userID primitive.ObjectID) error {
	for i, comment := range p.Comments {
		if comment.ID != commentID {
			continue
		}
		if comment.User != userID {
			return ErrNotAuthorized
		}
		p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
		return nil
	}
	return ErrCommentNotFound
}
