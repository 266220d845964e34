package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownKit is returned when an order names a kit outside the catalog.
var ErrUnknownKit = errors.New("unknown kit_id")

// ErrMissingField is returned when a required order field is blank.
var ErrMissingField = errors.New("missing required field")

// Kit is an orderable kitchen kit.
type Kit struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Price    int      `json:"price"`
	Image    string   `json:"image"`
	Items    []string `json:"items"`
}

// Kits is the fixed kit catalog.
var Kits = []Kit{
	{
		ID:       "sushi_basic",
		Title:    "Sushi Starter",
		Subtitle: "כל מה שצריך ל-2 רולים",
		Price:    79,
		Image:    "https://res.cloudinary.com/demo/image/upload/v1711111111/sushi.png",
		Items:    []string{"אורז סושי", "אצות נורי", "חומץ אורז", "סוכר", "מלח", "מחצלת גלגול"},
	},
	{
		ID:       "pizza_family",
		Title:    "Family Pizza",
		Subtitle: "3 בצקים, רוטב, גבינה ותוספות",
		Price:    89,
		Image:    "https://res.cloudinary.com/demo/image/upload/v1711111111/pizza.png",
		Items:    []string{"קמח פיצה", "שמרים", "רוטב עגבניות", "גבינה", "זיתים", "תירס"},
	},
	{
		ID:       "vegan_bowl",
		Title:    "Vegan Bowl",
		Subtitle: "קערות בריאות ל-2",
		Price:    69,
		Image:    "https://res.cloudinary.com/demo/image/upload/v1711111111/bowl.png",
		Items:    []string{"קינואה", "חומוס מבושל", "אבוקדו", "ירקות שורש", "טחינה"},
	},
	{
		ID:       "cookies_fun",
		Title:    "Cookies Fun",
		Subtitle: "ערכת עוגיות צבעונית",
		Price:    59,
		Image:    "https://res.cloudinary.com/demo/image/upload/v1711111111/cookies.png",
		Items:    []string{"קמח", "סוכר", "חמאה", "שוקולד צ'יפס", "סוכריות לקישוט"},
	},
}

// FindKit looks up a kit by id.
func FindKit(id string) (Kit, bool) {
	for _, k := range Kits {
		if k.ID == id {
			return k, true
		}
	}
	return Kit{}, false
}

// Request is an incoming order.
type Request struct {
	KitID     string `json:"kit_id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
	UserEmail string `json:"user_email,omitempty"`
}

// Order is a stored order.
type Order struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UserEmail *string   `json:"user_email" db:"user_email"`
	KitID     string    `json:"kit_id" db:"kit_id"`
	KitTitle  string    `json:"kit_title" db:"kit_title"`
	Price     int       `json:"price" db:"price"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	Notes     string    `json:"notes" db:"notes"`
}

// Build validates req against the kit catalog and returns the order to store.
// ID and CreatedAt are left for the store to assign.
func Build(req Request) (*Order, error) {
	kit, ok := FindKit(req.KitID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKit, req.KitID)
	}
	required := []struct{ name, value string }{
		{"full_name", req.FullName},
		{"phone", req.Phone},
		{"address", req.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	o := &Order{
		KitID:    kit.ID,
		KitTitle: kit.Title,
		Price:    kit.Price,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if req.UserEmail != "" {
		email := req.UserEmail
		o.UserEmail = &email
	}
	return o, nil
}
