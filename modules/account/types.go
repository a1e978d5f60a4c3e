package account

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// User is an account holder. Cards is only populated by Service.Profile.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Cards        []Card    `json:"cards"`
	CreatedAt    time.Time `json:"-"`
}

// Card is a payment card record owned by a user.
type Card struct {
	ID         int64      `json:"id"`
	OwnerID    int64      `json:"owner_id"`
	Title      string     `json:"title"`
	Provider   string     `json:"provider"`
	Name       string     `json:"name"`
	CardNumber CardNumber `json:"card_number"`
	Balance    int64      `json:"balance"`
	CreatedAt  time.Time  `json:"-"`
}

// CardSummary is the list view of a card.
type CardSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Provider string `json:"provider"`
	Balance  int64  `json:"balance"`
}

// Summary returns the list view of c.
func (c Card) Summary() CardSummary {
	return CardSummary{ID: c.ID, Title: c.Title, Provider: c.Provider, Balance: c.Balance}
}

// CardNumber is a digit string that also accepts a bare JSON number on input.
type CardNumber string

func (n *CardNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = CardNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("card_number: %w", err)
	}
	if _, err := strconv.ParseUint(num.String(), 10, 64); err != nil {
		return fmt.Errorf("card_number: not an unsigned integer: %s", num)
	}
	*n = CardNumber(num.String())
	return nil
}

// RegisterInput is the payload of POST /users.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload of POST /login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CardInput is the payload of POST /users/{id}/cards.
type CardInput struct {
	Title      string     `json:"title"`
	Provider   string     `json:"provider"`
	Name       string     `json:"name"`
	CardNumber CardNumber `json:"card_number"`
	Balance    int64      `json:"balance"`
}
