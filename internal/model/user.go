package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultProfilePhoto is the sentinel ref for accounts without a custom photo.
const DefaultProfilePhoto = "default-avatar.png"

type User struct {
	ID           string `db:"id" bson:"_id" json:"id"`
	Username     string `db:"username" bson:"username" json:"username"`
	Email        string `db:"email" bson:"email" json:"email"`
	PasswordHash string `db:"password_hash" bson:"password" json:"-"`

	Name     string `db:"name" bson:"name" json:"name"`
	FullName string `db:"full_name" bson:"fullName" json:"fullName"`
	Year     string `db:"year" bson:"year" json:"year"`
	Phone    string `db:"phone" bson:"phone" json:"phone"`
	Mobile   string `db:"mobile" bson:"mobile" json:"mobile"`
	Address  string `db:"address" bson:"address" json:"address"`

	ProfilePhoto string       `db:"profile_photo" bson:"profilePhoto" json:"profilePhoto"`
	SocialLinks  SocialLinks  `db:"social_links" bson:"socialLinks" json:"socialLinks"`
	Certificates Certificates `db:"certificates" bson:"certificates" json:"certificates"`
	Interests    Interests    `db:"interests" bson:"interests" json:"interests"`

	CreatedAt time.Time `db:"created_at" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" bson:"updatedAt" json:"updatedAt"`

	// Computed fields (not stored)
	ProfilePhotoURL string `db:"-" bson:"-" json:"profilePhotoUrl,omitempty"`
}

// IsCustomPhoto reports whether ref names an uploaded photo rather than the default.
func IsCustomPhoto(ref string) bool {
	return ref != "" && ref != DefaultProfilePhoto
}

func (u *User) HasCustomPhoto() bool {
	return IsCustomPhoto(u.ProfilePhoto)
}

type SocialLinks struct {
	GitHub    string `bson:"github,omitempty" json:"github,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
}

type Certificate struct {
	Name        string    `bson:"name" json:"name"`
	Issuer      string    `bson:"issuer" json:"issuer"`
	Date        time.Time `bson:"date" json:"date"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	FileRef     string    `bson:"fileRef,omitempty" json:"fileRef,omitempty"`

	// FileURL is refreshed from FileRef on read, S3 links expire.
	FileURL string `bson:"fileUrl,omitempty" json:"fileUrl"`
}

type Interest struct {
	Name string `bson:"name" json:"name"`
	Icon string `bson:"icon" json:"icon"`
}

type Certificates []Certificate

type Interests []Interest

// SQL stores the nested profile sections as JSON text columns.

func (s SocialLinks) Value() (driver.Value, error) { return jsonValue(s) }
func (s *SocialLinks) Scan(src any) error         { return scanJSON(src, s) }

func (c Certificates) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonValue([]Certificate(c))
}
func (c *Certificates) Scan(src any) error { return scanJSON(src, c) }

func (i Interests) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	return jsonValue([]Interest(i))
}
func (i *Interests) Scan(src any) error { return scanJSON(src, i) }

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
