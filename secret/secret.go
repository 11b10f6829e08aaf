// Copyright 2024 G-Core Innovations SARL

// Package secret provides read access to the application's secrets.
//
// Secrets are versioned: each version carries the timestamp it becomes
// effective at. Get returns the version effective now; GetEffectiveAt
// selects a version by an explicit time, which lets an application check
// material that was signed in the past or rolls over in the future.
package secret

import (
	"errors"
	"fmt"
	"time"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// ErrSecretNotFound indicates the named secret does not exist. A secret with
// no version effective at the requested time reports the same error.
var ErrSecretNotFound = errors.New("secret not found")

// Get returns the currently effective value of the named secret. Names are
// case sensitive.
func Get(name string) (string, error) {
	buf, err := lift(fastedge.SecretGet(name))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// GetBytes returns the currently effective value of the named secret as a
// byte slice.
func GetBytes(name string) ([]byte, error) {
	return lift(fastedge.SecretGet(name))
}

// GetEffectiveAt returns the value of the named secret that is effective at
// the given time.
func GetEffectiveAt(name string, at time.Time) (string, error) {
	buf, err := lift(fastedge.SecretGetEffectiveAt(name, uint32(at.Unix())))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// GetBytesEffectiveAt returns the value of the named secret that is
// effective at the given time, as a byte slice.
func GetBytesEffectiveAt(name string, at time.Time) ([]byte, error) {
	return lift(fastedge.SecretGetEffectiveAt(name, uint32(at.Unix())))
}

func lift(status fastedge.Status, val []byte) ([]byte, error) {
	switch status {
	case fastedge.StatusOK:
		if val == nil {
			return nil, ErrSecretNotFound
		}
		return val, nil
	case fastedge.StatusNotFound:
		return nil, ErrSecretNotFound
	default:
		// The host defines no other statuses for this call.
		panic(fmt.Sprintf("unexpected status: %d", status))
	}
}
