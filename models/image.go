package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Image struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename  string             `bson:"filename" json:"filename"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

// ImageDTO describes one stored upload.
type ImageDTO struct {
	FieldName    string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	Encoding     string `json:"encoding"`
	MimeType     string `json:"mimetype"`
	Destination  string `json:"destination"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
}

// MergedImageDTO joins the details of several uploads with commas. fieldname
// and destination keep the first file's value.
type MergedImageDTO struct {
	FieldName    string `json:"fieldname"`
	OriginalName string `json:"originalname"`
	Encoding     string `json:"encoding"`
	MimeType     string `json:"mimetype"`
	Destination  string `json:"destination"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	Size         string `json:"size"`
}
