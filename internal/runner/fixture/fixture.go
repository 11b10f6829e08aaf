// Copyright 2024 G-Core Innovations SARL

// Package fixture loads the YAML document that provisions a development
// host: dictionary entries, secrets, key-value stores, the app environment
// and the outbound allowlist.
package fixture

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/G-Core/FastEdge-sdk-go/fetest"
)

// Document is the root of a fixture file. Every section is optional; an
// empty document provisions nothing, like a freshly deployed application.
type Document struct {
	// Dictionary holds the application settings.
	Dictionary map[string]string `yaml:"dictionary"`

	// Secrets maps secret names to either a plain value or a version list.
	Secrets map[string]Secret `yaml:"secrets"`

	// Stores maps store names to their content. The store named "default"
	// is the one kvstore.OpenDefault reaches.
	Stores map[string]Store `yaml:"stores"`

	// Env is the process environment handed to the guest.
	Env map[string]string `yaml:"env"`

	// AllowedHosts restricts outbound requests to the named hosts. Empty
	// means any host.
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// Secret is a secret's version list. In YAML it is written either as a bare
// string, which becomes a single always-effective version, or as a list of
// value/effective_from pairs.
type Secret struct {
	Versions []SecretVersion
}

// SecretVersion is one version of a secret. A zero effective_from means the
// version has always been effective.
type SecretVersion struct {
	Value         string    `yaml:"value"`
	EffectiveFrom time.Time `yaml:"effective_from"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Secret) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var value string
		if err := node.Decode(&value); err != nil {
			return err
		}
		s.Versions = []SecretVersion{{Value: value}}
		return nil
	case yaml.SequenceNode:
		return node.Decode(&s.Versions)
	default:
		return fmt.Errorf("line %d: secret must be a string or a version list", node.Line)
	}
}

// Store is the content of one key-value store.
type Store struct {
	// Denied provisions a store the application may not open.
	Denied bool `yaml:"denied"`

	// Values holds the plain keys.
	Values map[string]string `yaml:"values"`

	// ZSets maps keys to sorted-set members and their scores.
	ZSets map[string]map[string]float64 `yaml:"zsets"`

	// Blooms maps keys to Bloom filter members.
	Blooms map[string][]string `yaml:"blooms"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse parses a fixture document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &doc, nil
}

// Host builds the in-memory host the document describes. The host is
// independent of the document: mutating one does not affect the other.
func (d *Document) Host() *fetest.Host {
	host := &fetest.Host{
		Dictionary: map[string]string{},
		Secrets:    map[string][]fetest.SecretVersion{},
		Stores:     map[string]*fetest.StoreData{},
	}
	for k, v := range d.Dictionary {
		host.Dictionary[k] = v
	}
	for name, s := range d.Secrets {
		versions := make([]fetest.SecretVersion, len(s.Versions))
		for i, v := range s.Versions {
			versions[i] = fetest.SecretVersion{Value: v.Value, EffectiveFrom: v.EffectiveFrom}
		}
		host.Secrets[name] = versions
	}
	for name, st := range d.Stores {
		sd := &fetest.StoreData{
			Denied: st.Denied,
			Values: map[string]string{},
			ZSets:  map[string]map[string]float64{},
			Blooms: map[string]map[string]bool{},
		}
		for k, v := range st.Values {
			sd.Values[k] = v
		}
		for k, members := range st.ZSets {
			set := map[string]float64{}
			for m, score := range members {
				set[m] = score
			}
			sd.ZSets[k] = set
		}
		for k, items := range st.Blooms {
			set := map[string]bool{}
			for _, item := range items {
				set[item] = true
			}
			sd.Blooms[k] = set
		}
		host.Stores[name] = sd
	}
	return host
}
