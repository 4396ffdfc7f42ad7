package object

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/shared/util"
)

// KeyGenerator builds collision-free storage keys of the form
// <folder>/<uuid>_<sanitized-name>.
type KeyGenerator struct {
	newID func() string
}

// NewKeyGenerator returns a generator backed by random v4 UUIDs.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{newID: uuid.NewString}
}

// NewKeyGeneratorWithSource returns a generator using the given ID source.
func NewKeyGeneratorWithSource(newID func() string) *KeyGenerator {
	if newID == nil {
		newID = uuid.NewString
	}
	return &KeyGenerator{newID: newID}
}

// NewKey sanitizes fileName and prefixes it with a unique token under folder.
func (g *KeyGenerator) NewKey(folder, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	cleanFolder, err := normalizeFolder(folder)
	if err != nil {
		return "", err
	}

	newID := g.newID
	if newID == nil {
		newID = uuid.NewString
	}
	finalName := fmt.Sprintf("%s_%s", newID(), name)
	if cleanFolder == "" {
		return finalName, nil
	}
	return cleanFolder + "/" + finalName, nil
}

// ValidateKey rejects empty keys, absolute keys and keys with a ".." segment.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	normalized := strings.ReplaceAll(key, "\\", "/")
	if strings.HasPrefix(normalized, "/") {
		return fmt.Errorf("%w: absolute key", ErrInvalidKey)
	}
	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: parent segment", ErrInvalidKey)
		}
	}
	return nil
}

func normalizeFolder(folder string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(folder), "/")
	if clean == "" {
		return "", nil
	}
	if err := ValidateKey(clean); err != nil {
		return "", err
	}
	return clean, nil
}
