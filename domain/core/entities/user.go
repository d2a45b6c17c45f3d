package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Collection names used by the document store
const (
	UsersCollection    = "users"
	PostsCollection    = "posts"
	CommentsCollection = "comments"
)

// Coordinate is a latitude or longitude. The seed API serves coordinates as
// numeric strings, so decoding accepts both strings and numbers while
// encoding always produces a number.
type Coordinate float64

// UnmarshalJSON implements json.Unmarshaler
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("coordinate %q is not numeric", s)
		}
		*c = Coordinate(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Coordinate(f)
	return nil
}

// Geo is a point on the map
type Geo struct {
	Lat Coordinate `json:"lat" bson:"lat"`
	Lng Coordinate `json:"lng" bson:"lng"`
}

// Address is the postal address of a user
type Address struct {
	Street  string `json:"street" bson:"street"`
	Suite   string `json:"suite" bson:"suite"`
	City    string `json:"city" bson:"city"`
	Zipcode string `json:"zipcode" bson:"zipcode"`
	Geo     Geo    `json:"geo" bson:"geo"`
}

// Company is the employer of a user
type Company struct {
	Name        string `json:"name" bson:"name"`
	CatchPhrase string `json:"catchPhrase" bson:"catchPhrase"`
	Bs          string `json:"bs" bson:"bs"`
}

// User is the stored shape of a record in the users collection.
// The id is supplied by the caller, never generated. Address, phone, website
// and company are optional on create and stay null when absent.
type User struct {
	ID       int      `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Username string   `json:"username" bson:"username"`
	Email    string   `json:"email" bson:"email"`
	Address  *Address `json:"address" bson:"address"`
	Phone    *string  `json:"phone" bson:"phone"`
	Website  *string  `json:"website" bson:"website"`
	Company  *Company `json:"company" bson:"company"`
}

// UserWithPosts is the response shape of a user joined with its posts.
// Posts is never persisted.
type UserWithPosts struct {
	User
	Posts []PostWithComments `json:"posts"`
}
