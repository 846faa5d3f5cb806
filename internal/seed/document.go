package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"krubolab/internal/model"
	"krubolab/internal/money"
)

// Kind names the collection a seed document fills.
type Kind string

const (
	KindProducts Kind = "products"
	KindServices Kind = "services"
	KindContacts Kind = "contacts"
)

// KindOf derives the collection from a document name such as
// "seed/products.json.gz" or "contacts-2024.json".
func KindOf(name string) (Kind, error) {
	base := strings.ToLower(path.Base(strings.ReplaceAll(name, `\`, "/")))
	for _, k := range []Kind{KindProducts, KindServices, KindContacts} {
		if strings.HasPrefix(base, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("cannot infer collection from %q", name)
}

// envelope is the paged document shape served by the public API.
type envelope struct {
	Content json.RawMessage `json:"content"`
}

// records returns the JSON array held by a document, which is either a bare
// array or an object with a "content" array.
func records(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if trimmed[0] == '[' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	if len(env.Content) == 0 {
		return nil, fmt.Errorf("document has no content array")
	}
	return env.Content, nil
}

// stringList accepts either a JSON array of strings or a single
// comma-separated string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = compact(many)
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*l = compact(strings.Split(one, ","))
	return nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type productRecord struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Price                 money.Amount `json:"price"`
	Description           string       `json:"description"`
	Category              string       `json:"category"`
	Images                stringList   `json:"images"`
	Image                 string       `json:"image"`
	Colours               stringList   `json:"colours"`
	Colors                stringList   `json:"colors"`
	Measurements          stringList   `json:"measurements"`
	Materials             stringList   `json:"materials"`
	AdditionalInformation string       `json:"additionalInformation"`
}

func (r productRecord) product() model.Product {
	images := []string(r.Images)
	if len(images) == 0 && strings.TrimSpace(r.Image) != "" {
		images = []string{strings.TrimSpace(r.Image)}
	}
	colours := []string(r.Colours)
	if len(colours) == 0 {
		colours = r.Colors
	}
	return model.Product{
		ID:                    strings.TrimSpace(r.ID),
		Name:                  strings.TrimSpace(r.Name),
		Price:                 r.Price,
		Description:           r.Description,
		Category:              strings.TrimSpace(r.Category),
		Images:                images,
		Colours:               colours,
		Measurements:          r.Measurements,
		Materials:             r.Materials,
		AdditionalInformation: r.AdditionalInformation,
	}
}

// DecodeProducts parses a products document.
func DecodeProducts(data []byte) ([]model.Product, error) {
	raw, err := records(data)
	if err != nil {
		return nil, err
	}
	var recs []productRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("invalid products document: %w", err)
	}
	products := make([]model.Product, len(recs))
	for i, r := range recs {
		products[i] = r.product()
	}
	return products, nil
}

// DecodeServices parses a services document.
func DecodeServices(data []byte) ([]model.ServiceOffering, error) {
	raw, err := records(data)
	if err != nil {
		return nil, err
	}
	var offerings []model.ServiceOffering
	if err := json.Unmarshal(raw, &offerings); err != nil {
		return nil, fmt.Errorf("invalid services document: %w", err)
	}
	for i := range offerings {
		offerings[i].ID = strings.TrimSpace(offerings[i].ID)
		offerings[i].Name = strings.TrimSpace(offerings[i].Name)
	}
	return offerings, nil
}

// DecodeContacts parses a contacts document.
func DecodeContacts(data []byte) ([]model.Contact, error) {
	raw, err := records(data)
	if err != nil {
		return nil, err
	}
	var contacts []model.Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, fmt.Errorf("invalid contacts document: %w", err)
	}
	for i := range contacts {
		contacts[i].ID = strings.TrimSpace(contacts[i].ID)
		contacts[i].Name = strings.TrimSpace(contacts[i].Name)
		contacts[i].Email = strings.TrimSpace(contacts[i].Email)
	}
	return contacts, nil
}
