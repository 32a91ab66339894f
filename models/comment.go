package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    string             `bson:"postId" json:"postId"`
	Content   string             `bson:"content" json:"content"`
	AuthorID  string             `bson:"authorId" json:"authorId"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is a comment enriched with its author's profile.
type CommentResponse struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	CreatedAt int64   `json:"createdAt"`
	Author    Profile `json:"author"`
}

type CommentEnvelope struct {
	Comment CommentResponse `json:"comment"`
}

type CommentListEnvelope struct {
	Comment []CommentResponse `json:"comment"`
}

type ReportEnvelope struct {
	Report CommentReport `json:"report"`
}

type CommentReport struct {
	Comment string `json:"comment"`
}
