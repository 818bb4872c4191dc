package model

import "encoding/json"

// User is a signed up account. Email is the unique key; every other
// profile attribute lives in Fields.
type User struct {
	ID     string
	Email  string
	Fields map[string]any
}

// UserFromMap builds a User from a decoded document.
func UserFromMap(doc map[string]any) User {
	u := User{Fields: make(map[string]any, len(doc))}
	for k, v := range doc {
		switch k {
		case FieldID:
			if id, ok := v.(string); ok {
				u.ID = id
				continue
			}
		case FieldEmail:
			if email, ok := v.(string); ok {
				u.Email = email
				continue
			}
		}
		u.Fields[k] = v
	}
	return u
}

// Document returns the stored representation of the user without its
// identifier.
func (u User) Document() map[string]any {
	doc := copyFields(u.Fields, 1)
	delete(doc, FieldID)
	if u.Email != "" {
		doc[FieldEmail] = u.Email
	}
	return doc
}

func (u User) MarshalJSON() ([]byte, error) {
	doc := u.Document()
	if u.ID != "" {
		doc[FieldID] = u.ID
	}
	return json.Marshal(doc)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*u = UserFromMap(doc)
	return nil
}

// InsertResult acknowledges a stored user.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}
