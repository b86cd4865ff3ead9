package source

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

var errEmptyPayload = errors.New("payload is empty")

// Payload reads a dataset held in memory. The text may be JSON, CSV, or
// base64 of either.
type Payload struct {
	name string
	data string
}

func NewPayload(data string) *Payload {
	return &Payload{name: "payload", data: data}
}

func (p *Payload) Name() string     { return p.name }
func (p *Payload) Identity() string { return p.name + ":" + digest(p.data) }

func (p *Payload) Load(_ context.Context) (dataset.Table, error) {
	return decodePayload(p.data)
}

func decodePayload(raw string) (dataset.Table, error) {
	text := strings.TrimPrefix(strings.TrimSpace(raw), "\ufeff")
	if text == "" {
		return dataset.Table{}, errEmptyPayload
	}
	if looksJSON(text) {
		return dataset.ParseJSON([]byte(text))
	}
	if decoded, ok := unbase64(text); ok {
		decoded = strings.TrimPrefix(strings.TrimSpace(decoded), "\ufeff")
		if looksJSON(decoded) {
			return dataset.ParseJSON([]byte(decoded))
		}
		return dataset.ParseCSV(strings.NewReader(decoded))
	}
	return dataset.ParseCSV(strings.NewReader(text))
}

func looksJSON(s string) bool {
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")
}

// unbase64 accepts standard and URL alphabets, padded or not, wrapped or
// not. CSV text always carries a comma, which no base64 alphabet contains.
func unbase64(s string) (string, bool) {
	if strings.ContainsRune(s, ',') {
		return "", false
	}
	s = strings.Join(strings.Fields(s), "")
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil && utf8.Valid(b) {
			return string(b), true
		}
	}
	return "", false
}
