package models

import "time"

// Executive is the entity created in the first wizard step. The counselor
// step only reads it.
type Executive struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateExecutiveRequest is the payload of the executive step
type CreateExecutiveRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// CreateExecutiveResponse carries the new executive and the wizard token
// that authorizes the following steps
type CreateExecutiveResponse struct {
	Executive   *Executive `json:"executive"`
	WizardToken string     `json:"wizardToken"`
	ExpiresAt   int64      `json:"expiresAt"`
}

// WizardSession is the executive context extracted from a wizard token
type WizardSession struct {
	ExecutiveID   string `json:"executiveId"`
	ExecutiveName string `json:"executiveName"`
	ExpiresAt     int64  `json:"expiresAt"`
	IssuedAt      int64  `json:"issuedAt"`
}

// Executive returns the read-only executive view carried by the session
func (s *WizardSession) Executive() Executive {
	return Executive{ID: s.ExecutiveID, Name: s.ExecutiveName}
}
