// Package imaging renders image URLs for recipes and serves resized copies of
// locally stored images.
package imaging

import (
	"fmt"
	"net/url"
	"strings"
)

// LogoID is the public id of the application logo.
const LogoID = "foodgenius_logo"

// URLBuilder renders CDN transformation URLs when a cloud name is set and
// local /images URLs otherwise.
type URLBuilder struct {
	CloudName   string
	LocalPrefix string
}

// NewURLBuilder creates a URLBuilder. localPrefix defaults to "/images".
func NewURLBuilder(cloudName, localPrefix string) URLBuilder {
	if localPrefix == "" {
		localPrefix = "/images"
	}
	return URLBuilder{CloudName: cloudName, LocalPrefix: strings.TrimRight(localPrefix, "/")}
}

// Transform is a set of CDN transformations. Zero fields are omitted.
type Transform struct {
	Width   int
	Height  int
	Crop    string
	Quality string
	Format  string
}

func (t Transform) parts() []string {
	var parts []string
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", t.Height))
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	return parts
}

// URL renders the address of publicID with the given transformations. It
// returns "" for an empty id.
func (b URLBuilder) URL(publicID string, t Transform, ext string) string {
	if publicID == "" {
		return ""
	}
	if b.CloudName == "" {
		u := b.LocalPrefix + "/" + url.PathEscape(publicID)
		q := url.Values{}
		if t.Width > 0 {
			q.Set("w", fmt.Sprint(t.Width))
		}
		if t.Height > 0 {
			q.Set("h", fmt.Sprint(t.Height))
		}
		if len(q) > 0 {
			u += "?" + q.Encode()
		}
		return u
	}

	base := "https://res.cloudinary.com/" + b.CloudName + "/image/upload"
	if parts := t.parts(); len(parts) > 0 {
		base += "/" + strings.Join(parts, ",")
	}
	return base + "/" + url.PathEscape(publicID) + ext
}

// RecipeImage renders the card-sized image URL used in recipe summaries.
func (b URLBuilder) RecipeImage(publicID string) string {
	if b.CloudName == "" {
		return b.URL(publicID, Transform{}, "")
	}
	return b.URL(publicID, Transform{Crop: "fill", Width: 600, Height: 400}, ".jpg")
}

// Logo renders the logo URL, fitted to width and height when either is set.
func (b URLBuilder) Logo(width, height int) string {
	t := Transform{Width: width, Height: height}
	if width > 0 || height > 0 {
		t.Crop = "fit"
		t.Quality = "auto"
	}
	return b.URL(LogoID, t, "")
}
