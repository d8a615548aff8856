package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixtures is a seed file.
type Fixtures struct {
	Users  []UserFixture  `yaml:"users"`
	Events []EventFixture `yaml:"events"`
}

// UserFixture declares one account.
type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role,omitempty"`
}

// EventFixture declares one event owned by a fixture user.
type EventFixture struct {
	Title       string         `yaml:"title"`
	Owner       string         `yaml:"owner"`
	Description string         `yaml:"description"`
	Location    string         `yaml:"location"`
	StartsIn    Offset         `yaml:"starts_in"`
	Price       string         `yaml:"price,omitempty"`
	Capacity    *int           `yaml:"capacity,omitempty"`
	ImageURL    string         `yaml:"image_url,omitempty"`
	Address     AddressFixture `yaml:"address"`
}

// AddressFixture is an event venue.
type AddressFixture struct {
	Street       string   `yaml:"street"`
	Number       string   `yaml:"number,omitempty"`
	Neighborhood string   `yaml:"neighborhood,omitempty"`
	City         string   `yaml:"city"`
	State        string   `yaml:"state"`
	Country      string   `yaml:"country"`
	ZipCode      string   `yaml:"zip_code,omitempty"`
	Lat          *float64 `yaml:"lat,omitempty"`
	Lng          *float64 `yaml:"lng,omitempty"`
}

// Offset is a distance from the seeding instant. It accepts Go durations
// with an optional leading day count, such as "72h", "3d" or "10d19h30m".
type Offset time.Duration

// UnmarshalYAML parses the offset notation.
func (o *Offset) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	d, err := ParseOffset(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*o = Offset(d)
	return nil
}

// ParseOffset parses "Nd" followed by an optional Go duration.
func ParseOffset(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("offset is empty")
	}
	var days time.Duration
	if i := strings.IndexByte(raw, 'd'); i >= 0 {
		n, err := strconv.Atoi(raw[:i])
		if err != nil {
			return 0, fmt.Errorf("offset %q: invalid day count", raw)
		}
		days = time.Duration(n) * 24 * time.Hour
		raw = raw[i+1:]
		if raw == "" {
			return days, nil
		}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("offset %q: %w", raw, err)
	}
	return days + d, nil
}

// LoadFixtures reads and validates a seed file.
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(bytes.NewReader(data))
}

// ParseFixtures decodes a seed file, rejecting unknown keys.
func ParseFixtures(r io.Reader) (Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fx Fixtures
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := ValidateFixtures(fx); err != nil {
		return Fixtures{}, err
	}
	return fx, nil
}

// ValidateFixtures checks references inside the file. Field level rules are
// left to the service so fixtures fail exactly like API requests would.
func ValidateFixtures(fx Fixtures) error {
	emails := make(map[string]struct{}, len(fx.Users))
	for i, user := range fx.Users {
		email := normalizeKey(user.Email)
		if email == "" {
			return fmt.Errorf("users[%d]: email is required", i)
		}
		if _, dup := emails[email]; dup {
			return fmt.Errorf("users[%d]: duplicate email %q", i, user.Email)
		}
		emails[email] = struct{}{}
	}

	titles := make(map[string]struct{}, len(fx.Events))
	for i, ev := range fx.Events {
		title := normalizeKey(ev.Title)
		if title == "" {
			return fmt.Errorf("events[%d]: title is required", i)
		}
		owner := normalizeKey(ev.Owner)
		if _, ok := emails[owner]; !ok {
			return fmt.Errorf("events[%d] %q: owner %q is not declared in users", i, ev.Title, ev.Owner)
		}
		key := owner + "\x00" + title
		if _, dup := titles[key]; dup {
			return fmt.Errorf("events[%d]: duplicate title %q for %s", i, ev.Title, ev.Owner)
		}
		titles[key] = struct{}{}
	}
	return nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
