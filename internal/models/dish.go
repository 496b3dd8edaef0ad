package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Dish is a menu item. Comments are embedded and saved with the dish;
// they have no storage of their own.
type Dish struct {
	ID          string    `json:"_id" bson:"_id" db:"id"`
	Name        string    `json:"name" bson:"name" db:"name"`
	Image       string    `json:"image" bson:"image" db:"image"`
	Category    string    `json:"category" bson:"category" db:"category"`
	Label       string    `json:"label" bson:"label" db:"label"`
	Price       float64   `json:"price" bson:"price" db:"price"`
	Featured    bool      `json:"featured" bson:"featured" db:"featured"`
	Description string    `json:"description" bson:"description" db:"description"`
	Comments    Comments  `json:"comments" bson:"comments" db:"comments"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// Comment is a rating left on a dish. Author holds the id of the user
// who wrote it.
type Comment struct {
	ID        string    `json:"_id" bson:"_id"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	Author    string    `json:"author" bson:"author"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Comments is the embedded comment sequence of a dish. It is stored as a
// JSONB column by the Postgres backend.
type Comments []Comment

// Value implements driver.Valuer
func (c Comments) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *Comments) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = Comments{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Comments", src)
	}
	return json.Unmarshal(data, c)
}

// Find returns the comment with the given id, or nil.
func (c Comments) Find(id string) *Comment {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// Remove drops the comment with the given id and reports whether it was present.
func (c *Comments) Remove(id string) bool {
	for i := range *c {
		if (*c)[i].ID == id {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

// AuthorIDs returns the distinct author ids in order of first appearance.
func (c Comments) AuthorIDs() []string {
	seen := make(map[string]bool, len(c))
	ids := make([]string, 0, len(c))
	for _, comment := range c {
		if comment.Author == "" || seen[comment.Author] {
			continue
		}
		seen[comment.Author] = true
		ids = append(ids, comment.Author)
	}
	return ids
}

// Clone returns a deep copy of the dish
func (d *Dish) Clone() *Dish {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Comments = make(Comments, len(d.Comments))
	copy(clone.Comments, d.Comments)
	return &clone
}

// DishUpdate carries the fields of a dish replace. Nil fields are left untouched.
type DishUpdate struct {
	Name        *string  `json:"name"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Label       *string  `json:"label"`
	Price       *float64 `json:"price"`
	Featured    *bool    `json:"featured"`
	Description *string  `json:"description"`
}

// Apply sets the provided fields on the dish
func (u *DishUpdate) Apply(d *Dish) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Image != nil {
		d.Image = *u.Image
	}
	if u.Category != nil {
		d.Category = *u.Category
	}
	if u.Label != nil {
		d.Label = *u.Label
	}
	if u.Price != nil {
		d.Price = *u.Price
	}
	if u.Featured != nil {
		d.Featured = *u.Featured
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
}

// DishRequest is the body of a dish create
type DishRequest struct {
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Label       string  `json:"label"`
	Price       float64 `json:"price"`
	Featured    bool    `json:"featured"`
	Description string  `json:"description"`
}

// CommentRequest is the body of a comment append. Any author sent by the
// client is ignored.
type CommentRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CommentUpdate is the body of a comment update. Only rating and text can change.
type CommentUpdate struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// DeleteResult is returned by bulk deletes
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// MaxCommentLength is the maximum allowed length of a comment's text
const MaxCommentLength = 2000

// MinRating and MaxRating bound a comment's rating
const (
	MinRating = 1
	MaxRating = 5
)
