package models

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Username     string             `bson:"username" json:"username"`
	AccountName  string             `bson:"accountname" json:"accountname"`
	Intro        string             `bson:"intro" json:"intro"`
	Image        string             `bson:"image" json:"image"`
	Follower     []string           `bson:"follower" json:"follower"`
	Following    []string           `bson:"following" json:"following"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
}

// Profile is the public, read-only view of a user.
type Profile struct {
	ID             string   `json:"_id"`
	Username       string   `json:"username"`
	AccountName    string   `json:"accountname"`
	Intro          string   `json:"intro"`
	Image          string   `json:"image"`
	IsFollow       bool     `json:"isfollow"`
	Following      []string `json:"following"`
	Follower       []string `json:"follower"`
	FollowerCount  int      `json:"followerCount"`
	FollowingCount int      `json:"followingCount"`
}

// IsFollowedBy reports whether userID appears in the user's follower list.
func (u *User) IsFollowedBy(userID string) bool {
	return slices.Contains(u.Follower, userID)
}

// ProfileFor builds the profile as seen by viewerID.
func (u *User) ProfileFor(viewerID string) Profile {
	follower := u.Follower
	if follower == nil {
		follower = []string{}
	}
	following := u.Following
	if following == nil {
		following = []string{}
	}
	return Profile{
		ID:             u.ID.Hex(),
		Username:       u.Username,
		AccountName:    u.AccountName,
		Intro:          u.Intro,
		Image:          u.Image,
		IsFollow:       u.IsFollowedBy(viewerID),
		Following:      following,
		Follower:       follower,
		FollowerCount:  len(follower),
		FollowingCount: len(following),
	}
}
