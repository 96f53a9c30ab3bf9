package models

import "time"

// RevokedToken marks an admin session token that was logged out before it
// expired. The document id is the token's jti.
type RevokedToken struct {
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	RevokedAt time.Time `bson:"revokedAt" json:"revokedAt"`
}
