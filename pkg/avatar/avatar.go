// Package avatar picks a display image for a profile that has none.
package avatar

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const diceBearBase = "https://api.dicebear.com/7.x"

// Common Persian female first names.
var femaleNames = []string{
	"نازنین", "امینه", "پارمیس", "پانته", "پانته‌آ", "سارا", "مریم", "زهرا", "فاطمه",
	"نرگس", "مینا", "نیلوفر", "شیما", "شیوا", "پریسا", "پرستو", "آیدا", "الهام",
	"مهسا", "مهناز", "مهشید", "نگار", "نگین", "یاسمن", "یاسمین", "ریحانه", "سحر",
	"شقایق", "غزل", "لیلا", "مونا", "هانیه", "هستی", "کیمیا", "آتنا", "آرزو",
	"بهاره", "بهناز", "پگاه", "ترانه", "درسا", "دنیا", "رها", "روژان", "زینب",
	"ساناز", "سمیرا", "سمیه", "شبنم", "شیرین", "صبا", "طناز", "عسل", "فرناز",
	"فریبا", "کتایون", "گلناز", "ملیکا", "ندا", "نسترن", "نسرین", "نیکی", "هدیه",
}

// Resolver maps full names to avatar URLs. Known participants get their
// photo; everyone else gets a generated DiceBear avatar.
type Resolver struct {
	photos map[string]string
}

func NewResolver(photos map[string]string) *Resolver {
	if photos == nil {
		photos = map[string]string{}
	}
	return &Resolver{photos: photos}
}

type photoFile struct {
	Photos map[string]string `yaml:"photos"`
}

// LoadResolver reads a YAML file of the form
//
//	photos:
//	  "Full Name": /picture/participants/name.jpeg
//
// An empty path yields a resolver with no photos.
func LoadResolver(path string) (*Resolver, error) {
	if path == "" {
		return NewResolver(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("avatar: read %s: %w", path, err)
	}
	var f photoFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("avatar: parse %s: %w", path, err)
	}
	return NewResolver(f.Photos), nil
}

func (r *Resolver) URL(name string) string {
	if photo, ok := r.photos[name]; ok {
		return photo
	}

	style := "micah"
	if IsFemale(name) {
		style = "lorelei"
	}
	return fmt.Sprintf("%s/%s/svg?seed=%s", diceBearBase, style, escapeSeed(name))
}

// escapeSeed percent-encodes like encodeURIComponent: spaces become %20 and
// query metacharacters such as & and = are escaped.
func escapeSeed(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// IsFemale guesses from the first name. Containment is checked both ways so
// "پانته" matches "پانته‌آ" and vice versa. A blank name is not female.
func IsFemale(fullName string) bool {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return false
	}
	first := fields[0]
	for _, n := range femaleNames {
		if strings.Contains(first, n) || strings.Contains(n, first) {
			return true
		}
	}
	return false
}
