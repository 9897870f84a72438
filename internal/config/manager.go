// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Manager handles configuration persistence.
type Manager struct {
	mu         sync.Mutex
	configPath string
}

// NewManager creates a new configuration manager.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// SavePrefix writes prefix into the config file. Only the hello key is
// edited; other settings and comments are kept. A missing file is created.
func (m *Manager) SavePrefix(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Refuse to edit a file the loader would reject.
	if _, err := LoadFileConfig(m.configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read existing config: %w", err)
	}

	var doc yaml.Node
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(filepath.Clean(m.configPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read existing config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse existing config: %w", err)
		}
	}

	root, err := documentMapping(&doc)
	if err != nil {
		return err
	}
	setMappingString(root, "hello", prefix)

	return m.write(&doc)
}

// documentMapping returns the top-level mapping of doc, creating it when the
// document is empty.
func documentMapping(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
	}
	if doc.Kind != yaml.DocumentNode {
		return nil, errors.New("config file is not a YAML document")
	}
	if len(doc.Content) == 0 {
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("config file top level must be a mapping")
	}
	return root, nil
}

// setMappingString sets key to value in mapping, appending the pair when absent.
func setMappingString(mapping *yaml.Node, key, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1].SetString(value)
			return
		}
	}
	k := &yaml.Node{}
	k.SetString(key)
	v := &yaml.Node{}
	v.SetString(value)
	// Keep hello first in a freshly created or hello-less file.
	mapping.Content = append([]*yaml.Node{k, v}, mapping.Content...)
}

func (m *Manager) write(doc *yaml.Node) error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0750); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pending, err := renameio.NewPendingFile(m.configPath, renameio.WithPermissions(0600))
	if err != nil {
		return fmt.Errorf("create pending config file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	enc := yaml.NewEncoder(pending)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace config file: %w", err)
	}
	return nil
}
