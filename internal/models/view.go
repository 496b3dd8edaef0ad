package models

import "time"

// UserView is the expanded form of a comment author
type UserView struct {
	ID        string `json:"_id"`
	Username  string `json:"username,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Admin     bool   `json:"admin"`
}

// CommentView is a comment with its author expanded
type CommentView struct {
	ID        string    `json:"_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Author    *UserView `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DishView is a dish whose comment authors are expanded. It is an output
// shape only and never stored.
type DishView struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Image       string        `json:"image"`
	Category    string        `json:"category"`
	Label       string        `json:"label"`
	Price       float64       `json:"price"`
	Featured    bool          `json:"featured"`
	Description string        `json:"description"`
	Comments    []CommentView `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Comment returns the view of the comment with the given id, or nil.
func (v *DishView) Comment(id string) *CommentView {
	for i := range v.Comments {
		if v.Comments[i].ID == id {
			return &v.Comments[i]
		}
	}
	return nil
}
