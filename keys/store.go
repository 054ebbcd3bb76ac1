package keys

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyStore is a simple local-first store for name-signing keys.
//
// Features:
// - Stores one private key per identifier on the local filesystem
// - Key files are base64-encoded wire containers (see MarshalPrivateKey)
// - Private key files are written 0600
type KeyStore struct {
	Directory string
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".xdao", "names"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) keyFilePath(identifier string) string {
	return filepath.Join(ks.Directory, identifier+".key")
}

func CheckKeyName(identifier string) error {
	if identifier == "" {
		return errors.New("identifier cannot be empty")
	}
	for _, char := range identifier {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in identifier", char)
	}
	return nil
}

// Save writes priv under identifier and returns the file path.
func (ks *KeyStore) Save(identifier string, priv PrivateKey, overwrite bool) (string, error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", err
	}
	filePath := ks.keyFilePath(identifier)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return "", err
	}
	if err := writeKeyFile(filePath, priv, overwrite); err != nil {
		return "", err
	}
	return filePath, nil
}

// Load reads the private key stored under identifier.
func (ks *KeyStore) Load(identifier string) (PrivateKey, error) {
	if err := CheckKeyName(identifier); err != nil {
		return nil, err
	}
	return ReadKeyFile(ks.keyFilePath(identifier))
}

// List returns the stored identifiers in sorted order.
func (ks *KeyStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".key") {
			identifiers = append(identifiers, strings.TrimSuffix(entry.Name(), ".key"))
		}
	}
	sort.Strings(identifiers)
	return identifiers, nil
}

func writeKeyFile(filePath string, priv PrivateKey, overwrite bool) error {
	enc, err := MarshalPrivateKey(priv)
	if err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(base64.StdEncoding.EncodeToString(enc) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

// WriteKeyFile writes priv to an arbitrary path, refusing to overwrite.
func WriteKeyFile(filePath string, priv PrivateKey) error {
	return writeKeyFile(filePath, priv, false)
}

// ReadKeyFile reads a private key file written by this package.
func ReadKeyFile(filePath string) (PrivateKey, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	enc, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: key file is not base64", ErrKeyMaterial)
	}
	return UnmarshalPrivateKey(enc)
}
