package ckconf

import (
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

const (
	rootElement = "yandex"
	configFile  = "config.xml"
)

// WriteXML writes the tree as an XML document under the server's root element.
// Sibling elements are sorted by name, so the output is deterministic.
func WriteXML(out io.Writer, tree Tree) error {
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")

	if err := encodeElement(enc, rootElement, tree); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func encodeElement(enc *xml.Encoder, name string, val any) error {
	if !isElementName(name) {
		return fmt.Errorf("invalid element name %q", name)
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("failed to encode %q: %w", name, err)
	}

	switch val := val.(type) {
	case string:
		if err := enc.EncodeToken(xml.CharData(val)); err != nil {
			return fmt.Errorf("failed to encode %q: %w", name, err)
		}
	case Tree:
		for _, key := range slices.Sorted(maps.Keys(val)) {
			if err := encodeElement(enc, key, val[key]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported value of type %T in %q", val, name)
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("failed to encode %q: %w", name, err)
	}
	return nil
}

// Create builds the configuration and writes it to "config.xml" in the data
// directory, creating the directory if needed. Returns the file path.
func Create(opt Options) (string, error) {
	tree, err := Build(opt)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opt.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(opt.DataDir, configFile)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create config: %w", err)
	}

	err = WriteXML(file, tree)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close config: %w", closeErr)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
