package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID  string             `bson:"authorId" json:"authorId"`
	Content   string             `bson:"content" json:"content"`
	Image     string             `bson:"image" json:"image"` // comma separated filenames
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

type PostResponse struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	Image        string  `json:"image"`
	CreatedAt    int64   `json:"createdAt"`
	CommentCount int64   `json:"commentCount"`
	Author       Profile `json:"author"`
}
