package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Profile struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Status         string             `json:"status" bson:"status"`
	Skills         []string           `json:"skills" bson:"skills"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	GitHubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Experience     []Experience       `json:"experience" bson:"experience"`
	Education      []Education        `json:"education" bson:"education"`
	Social         Social             `json:"social" bson:"social"`
	Date           time.Time          `json:"date" bson:"date"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company" bson:"company"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time          `json:"from" bson:"from"`
	To          *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool               `json:"current" bson:"current"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	School       string             `json:"school" bson:"school"`
	Degree       string             `json:"degree" bson:"degree"`
	FieldOfStudy string             `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time          `json:"from" bson:"from"`
	To           *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool               `json:"current" bson:"current"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
}

// ProfileView is a profile with its owner populated.
type ProfileView struct {
	*Profile
	User UserSummary `json:"user"`
}

// AddExperience puts the entry first, most recent first.
func (p *Profile) AddExperience(exp Experience) {
	if exp.ID.IsZero() {
		exp.ID = NewID()
	}
	p.Experience = append([]Experience{exp}, p.Experience...)
}

func (p *Profile) RemoveExperience(id primitive.ObjectID) error {
	for i, exp := range p.Experience {
		if exp.ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

func (p *Profile) AddEducation(edu Education) {
	if edu.ID.IsZero() {
		edu.ID = NewID()
	}
	p.Education = append([]Education{edu}, p.Education...)
}

func (p *Profile) RemoveEducation(id primitive.ObjectID) error {
	for i, edu := range p.Education {
		if edu.ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
