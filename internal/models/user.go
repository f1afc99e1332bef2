// Package models contains the data transfer types exchanged with the
// teamboard backend and cached locally between runs.
package models

import "time"

// UserProfile is the server-sourced snapshot of the current user.
//
// Avatar is either a URL or a base64 data URI; it is nil when the user has
// not set one. Every successful profile fetch overwrites the cached copy, so
// Avatar always reflects the backend's latest value.
type UserProfile struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	QQ          string     `json:"qq,omitempty"`
	Avatar      *string    `json:"avatar"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// UserUpdate carries the partial profile fields accepted by PUT /users/me.
// Nil fields are omitted and left untouched by the server.
type UserUpdate struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"name,omitempty"`
	Password    *string `json:"password,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	QQ          *string `json:"qq,omitempty"`
}

// TokenResponse is the backend's reply to a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest holds the form fields of the QQ-linked registration
// endpoint. Registration does not itself establish a session; the caller is
// expected to log in afterwards.
type RegisterRequest struct {
	Username string
	Password string
	QQ       string
}
