package model

import "time"

type User struct {
	UserID             string    `bson:"user_id" json:"user_id"`
	Username           string    `bson:"username" json:"username" validate:"required,min=4,max=20"`
	Email              string    `bson:"email" json:"email" validate:"required,email"`
	Password           string    `bson:"password" json:"password" validate:"required,min=6"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	LastPasswordChange time.Time `bson:"last_password_change,omitempty" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
