package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/jimezsa/jobsweep/internal/scraper"
	"gopkg.in/yaml.v3"
)

const DefaultProfile = "indeed"

//go:embed profiles/indeed.yaml
var indeedProfile []byte

var builtinProfiles = map[string][]byte{
	"indeed": indeedProfile,
}

// BuiltinProfiles lists the names accepted by ResolveProfile.
func BuiltinProfiles() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveProfile returns a built-in profile by name, or loads ref as a YAML
// file path. An empty ref selects the default profile.
func ResolveProfile(ref string) (scraper.Profile, error) {
	if ref == "" {
		ref = DefaultProfile
	}
	if data, ok := builtinProfiles[ref]; ok {
		return ParseProfile(data)
	}
	return LoadProfile(ref)
}

// LoadProfile reads a selector profile from a YAML file.
func LoadProfile(path string) (scraper.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scraper.Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	profile, err := ParseProfile(data)
	if err != nil {
		return scraper.Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

func ParseProfile(data []byte) (scraper.Profile, error) {
	var profile scraper.Profile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&profile); err != nil {
		return scraper.Profile{}, fmt.Errorf("parse profile YAML: %w", err)
	}
	if err := validateProfile(profile); err != nil {
		return scraper.Profile{}, err
	}
	return profile, nil
}

// MarshalProfile renders a profile back to YAML.
func MarshalProfile(profile scraper.Profile) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(profile); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validateProfile(p scraper.Profile) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.SearchURL == "" {
		return fmt.Errorf("search_url is required")
	}
	if p.Marker == "" {
		return fmt.Errorf("marker is required")
	}
	if p.Listing == "" {
		return fmt.Errorf("listing is required")
	}
	if len(p.Fields.Title) == 0 {
		return fmt.Errorf("fields.title is required")
	}
	if p.Paging.Control == "" {
		return fmt.Errorf("pagination.control is required")
	}
	if (p.Popup.Overlay == "") != (p.Popup.Close == "") {
		return fmt.Errorf("popup.overlay and popup.close must be set together")
	}
	return nil
}
