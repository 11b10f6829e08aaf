// Copyright 2024 G-Core Innovations SARL

package secret_test

import (
	"errors"
	"testing"
	"time"

	"github.com/G-Core/FastEdge-sdk-go/fetest"
	"github.com/G-Core/FastEdge-sdk-go/secret"
)

func TestGet(t *testing.T) {
	host := &fetest.Host{Secrets: map[string][]fetest.SecretVersion{
		"api-key": {{Value: "s3cret", EffectiveFrom: time.Unix(0, 0)}},
	}}
	restore := host.Install()
	defer restore()

	have, err := secret.Get("api-key")
	if err != nil {
		t.Fatal(err)
	}
	if want := "s3cret"; have != want {
		t.Errorf("Get(api-key) = %q, want %q", have, want)
	}
}

func TestGetMissing(t *testing.T) {
	host := &fetest.Host{}
	restore := host.Install()
	defer restore()

	if _, err := secret.Get("absent"); !errors.Is(err, secret.ErrSecretNotFound) {
		t.Errorf("Get(absent) err = %v, want ErrSecretNotFound", err)
	}
}

func TestGetEffectiveAt(t *testing.T) {
	rollover := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	host := &fetest.Host{Secrets: map[string][]fetest.SecretVersion{
		"signing-key": {
			{Value: "old", EffectiveFrom: rollover.Add(-30 * 24 * time.Hour)},
			{Value: "new", EffectiveFrom: rollover},
		},
	}}
	restore := host.Install()
	defer restore()

	have, err := secret.GetEffectiveAt("signing-key", rollover.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if have != "old" {
		t.Errorf("before rollover = %q, want old", have)
	}

	have, err = secret.GetEffectiveAt("signing-key", rollover)
	if err != nil {
		t.Fatal(err)
	}
	if have != "new" {
		t.Errorf("at rollover = %q, want new", have)
	}
}

func TestGetNotYetEffective(t *testing.T) {
	// A secret that exists but whose only version lies in the future is
	// reported by the host as success with no value, which the client folds
	// into the not-found error.
	host := &fetest.Host{Secrets: map[string][]fetest.SecretVersion{
		"next-key": {{Value: "soon", EffectiveFrom: time.Now().Add(24 * time.Hour)}},
	}}
	restore := host.Install()
	defer restore()

	if _, err := secret.Get("next-key"); !errors.Is(err, secret.ErrSecretNotFound) {
		t.Errorf("Get(next-key) err = %v, want ErrSecretNotFound", err)
	}
}

func TestGetBytesEffectiveAt(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	host := &fetest.Host{Secrets: map[string][]fetest.SecretVersion{
		"raw": {{Value: "\x01\x02\x03", EffectiveFrom: start}},
	}}
	restore := host.Install()
	defer restore()

	have, err := secret.GetBytesEffectiveAt("raw", start.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{1, 2, 3}; string(have) != string(want) {
		t.Errorf("GetBytesEffectiveAt(raw) = %x, want %x", have, want)
	}
}
