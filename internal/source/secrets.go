package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/joeaphiboon/faculty-comparison/internal/dataset"
)

var (
	errNoGeneralSection = errors.New("no 'general' section in secrets")
	errNoDataKey        = errors.New("no 'data' key in general section")
)

// Secrets reads a TOML file whose [general] table carries the dataset as a
// JSON or CSV string under the key "data".
type Secrets struct {
	path string
}

func NewSecrets(path string) *Secrets {
	return &Secrets{path: path}
}

func (s *Secrets) Name() string { return "secrets" }

func (s *Secrets) Identity() string {
	return "secrets:" + s.path + ":" + statStamp(s.path)
}

func (s *Secrets) Load(_ context.Context) (dataset.Table, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("no secrets configuration found: %w", err)
	}
	data, err := secretData(raw)
	if err != nil {
		return dataset.Table{}, err
	}
	return decodePayload(data)
}

func secretData(raw []byte) (string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse secrets: %w", err)
	}
	general, ok := doc["general"].(map[string]any)
	if !ok {
		return "", errNoGeneralSection
	}
	data, ok := general["data"].(string)
	if !ok {
		return "", errNoDataKey
	}
	return data, nil
}

// statStamp changes whenever the file is rewritten.
func statStamp(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return strconv.FormatInt(fi.ModTime().UnixNano(), 36) + "-" + strconv.FormatInt(fi.Size(), 36)
}
